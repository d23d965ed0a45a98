package validate

import (
	"context"
	"strconv"
	"strings"

	"github.com/yungbote/converse-backend/internal/domain"
)

// validateMenu matches user input against a literal option list. Match
// order: exact (case-insensitive), 1-based numeric index, then unique
// partial match. A partial that hits more than one option fails so the
// user is re-prompted instead of silently guessing.
func validateMenu(_ context.Context, in Input, params domain.CaptureParams) Result {
	options := params.Options
	if len(options) == 0 {
		return Reject(KindFormatInvalid, "No options to choose from.")
	}

	lower := strings.ToLower(strings.TrimSpace(in.Text))

	for i, opt := range options {
		if strings.ToLower(opt) == lower {
			return AcceptWithMetadata(opt, map[string]any{"index": i})
		}
	}

	if n, err := strconv.Atoi(lower); err == nil && n >= 1 && n <= len(options) {
		return AcceptWithMetadata(options[n-1], map[string]any{"index": n - 1})
	}

	if lower != "" {
		var matches []int
		for i, opt := range options {
			if strings.Contains(strings.ToLower(opt), lower) {
				matches = append(matches, i)
			}
		}
		if len(matches) == 1 {
			i := matches[0]
			return AcceptWithMetadata(options[i], map[string]any{"index": i})
		}
	}

	return Reject(KindFormatInvalid, "Please select one of: "+strings.Join(options, ", "))
}
