package validate

import (
	"context"

	"github.com/yungbote/converse-backend/internal/domain"
)

// Policy carries deployment-specific validation knobs: date disambiguation
// and the yes/no token sets.
type Policy struct {
	// When a numeric date is ambiguous (both segments <= 12), treat the
	// first segment as the day.
	DayFirst bool

	// Extra affirmative/negative tokens accepted on top of the built-in
	// multilanguage sets.
	ExtraTrueTokens  []string
	ExtraFalseTokens []string
}

func DefaultPolicy() Policy {
	return Policy{DayFirst: true}
}

// Dispatcher routes a captured attachment to an external AI capability.
// Satisfied by media.Gateway.
type Dispatcher interface {
	Dispatch(ctx context.Context, att *domain.Attachment, capability domain.Capability, prompt string) (string, map[string]any, error)
}

// AssetStore persists accepted media captures and returns a stable
// reference to bind into the session.
type AssetStore interface {
	Store(ctx context.Context, att *domain.Attachment) (string, error)
}
