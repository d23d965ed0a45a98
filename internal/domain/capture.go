package domain

import (
	"time"

	"github.com/google/uuid"
)

type CaptureState string

const (
	CaptureIdle          CaptureState = "idle"
	CaptureAwaitingInput CaptureState = "awaiting_input"
	CaptureValidating    CaptureState = "validating"
)

// CaptureParams carries per-capture configuration beyond the type tag:
// menu option lists and policy overrides that the script may set inline.
type CaptureParams struct {
	// Menu option list for literal-options captures ("A","B","C").
	Options []string `json:"options,omitempty"`

	// Date disambiguation when both segments are <= 12. Nil means use the
	// server default.
	DayFirst *bool `json:"day_first,omitempty"`

	// Retry budget override for this capture only.
	MaxRetries *int `json:"max_retries,omitempty"`

	// MIME allow-list override for FILE/DOCUMENT captures.
	AllowedMimes []string `json:"allowed_mimes,omitempty"`
}

// PendingCapture is the per-session record of an in-progress typed input
// request. At most one exists per session; it lives in the capture store
// keyed by session until validation succeeds, the retry budget runs out,
// or the session is reset.
type PendingCapture struct {
	SessionID      uuid.UUID     `json:"session_id"`
	Variable       string        `json:"variable"`
	TypeTag        string        `json:"type_tag"`
	Params         CaptureParams `json:"params"`
	AttemptCount   int           `json:"attempt_count"`
	MaxRetries     int           `json:"max_retries"`
	ContinuationID uuid.UUID     `json:"continuation_id"`
	State          CaptureState  `json:"state"`
	CreatedAt      time.Time     `json:"created_at"`
}

// CaptureResolution is the wire form of a finished capture, published for
// the script runtime that suspended on it. OK is false when the retry
// budget ran out and the empty sentinel was bound instead.
type CaptureResolution struct {
	SessionID      string         `json:"session_id"`
	ContinuationID string         `json:"continuation_id"`
	Variable       string         `json:"variable"`
	Value          string         `json:"value"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	OK             bool           `json:"ok"`
}

// Remaining reports how many more invalid attempts the capture tolerates.
func (pc *PendingCapture) Remaining() int {
	if pc == nil {
		return 0
	}
	n := pc.MaxRetries - pc.AttemptCount
	if n < 0 {
		return 0
	}
	return n
}
