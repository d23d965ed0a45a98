package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session is one conversation with one user on one channel. Variables holds
// every value the dialog script has bound so far, keyed by variable name.
type Session struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Channel       string         `gorm:"type:text;not null;uniqueIndex:idx_session_channel_user" json:"channel"`
	ChannelUserID string         `gorm:"type:text;not null;uniqueIndex:idx_session_channel_user" json:"channel_user_id"`
	Locale        string         `gorm:"type:text;not null;default:'en'" json:"locale"`
	Variables     datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"variables"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Session) TableName() string { return "session" }
