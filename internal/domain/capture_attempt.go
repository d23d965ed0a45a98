package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CaptureOutcome string

const (
	OutcomeAccepted  CaptureOutcome = "accepted"
	OutcomeRejected  CaptureOutcome = "rejected"
	OutcomeExhausted CaptureOutcome = "exhausted"
	OutcomeCancelled CaptureOutcome = "cancelled"
)

// CaptureAttempt is the audit trail of capture resolutions. Raw input is
// never stored here; NormalizedPreview holds the already-masked normalized
// value for accepted attempts only.
type CaptureAttempt struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"session_id"`
	Variable  string         `gorm:"type:text;not null" json:"variable"`
	TypeTag   string         `gorm:"type:text;not null;index" json:"type_tag"`
	Outcome   CaptureOutcome `gorm:"type:text;not null;index" json:"outcome"`
	ErrorKind string         `gorm:"type:text" json:"error_kind,omitempty"`
	Attempt   int            `gorm:"not null;default:0" json:"attempt"`

	NormalizedPreview string         `gorm:"type:text" json:"normalized_preview,omitempty"`
	Metadata          datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (CaptureAttempt) TableName() string { return "capture_attempt" }
