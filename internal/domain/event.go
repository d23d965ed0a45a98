package domain

// Attachment is a media payload reference produced by a transport adapter.
// AssetRef is opaque to this service: a gs:// URI, an https URL or a
// channel-specific media handle the asset store can resolve.
type Attachment struct {
	MimeType string `json:"mime_type"`
	AssetRef string `json:"asset_ref"`
}

// InboundEvent is the normalized message a transport adapter delivers.
// Exactly one of Text / Attachment is usually set, but both may appear
// (image with a caption).
type InboundEvent struct {
	Channel       string      `json:"channel"`
	ChannelUserID string      `json:"channel_user_id"`
	Text          string      `json:"text,omitempty"`
	Attachment    *Attachment `json:"attachment,omitempty"`
}

type PromptKind string

const (
	PromptAsk        PromptKind = "ask"
	PromptCorrection PromptKind = "correction"
	PromptApology    PromptKind = "apology"
)

// OutboundPrompt is emitted back toward the transport layer: the initial
// question re-ask, a corrective hint, or the give-up apology. Suggestions
// become quick-reply chips on channels that support them.
type OutboundPrompt struct {
	SessionID   string     `json:"session_id"`
	Kind        PromptKind `json:"kind"`
	Text        string     `json:"text"`
	Suggestions []string   `json:"suggestions,omitempty"`
}
