package domain

// AuthenticatedUser is the structured value bound by LOGIN captures. It is
// produced out-of-band by the identity provider callback, not typed by the
// user.
type AuthenticatedUser struct {
	Subject string         `json:"subject"`
	Name    string         `json:"name,omitempty"`
	Email   string         `json:"email,omitempty"`
	Claims  map[string]any `json:"claims,omitempty"`
}
