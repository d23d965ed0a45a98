package validate

import (
	"context"
	"strings"

	"github.com/yungbote/converse-backend/internal/domain"
)

var defaultTrueTokens = []string{
	"yes", "y", "true", "1", "sim", "s", "si", "oui", "ja", "da", "ok",
	"yeah", "yep", "sure", "confirm", "confirmed", "accept", "agreed", "agree",
}

var defaultFalseTokens = []string{
	"no", "n", "false", "0", "não", "nao", "non", "nein", "net", "nope",
	"cancel", "deny", "denied", "reject", "declined", "disagree",
}

// booleanValidator is fixed token-set membership over multilanguage yes/no
// words; the sets are policy-extendable, never fuzzy.
func booleanValidator(policy Policy) Func {
	trueSet := tokenSet(defaultTrueTokens, policy.ExtraTrueTokens)
	falseSet := tokenSet(defaultFalseTokens, policy.ExtraFalseTokens)

	return func(_ context.Context, in Input, _ domain.CaptureParams) Result {
		s := strings.ToLower(strings.TrimSpace(in.Text))
		if trueSet[s] {
			return AcceptWithMetadata("true", map[string]any{"value": true})
		}
		if falseSet[s] {
			return AcceptWithMetadata("false", map[string]any{"value": false})
		}
		return Reject(KindFormatInvalid, "Please answer yes or no.")
	}
}

func tokenSet(base, extra []string) map[string]bool {
	set := make(map[string]bool, len(base)+len(extra))
	for _, t := range base {
		set[strings.ToLower(t)] = true
	}
	for _, t := range extra {
		set[strings.ToLower(t)] = true
	}
	return set
}
