package validate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yungbote/converse-backend/internal/domain"
)

func validateInteger(_ context.Context, in Input, _ domain.CaptureParams) Result {
	cleaned := strings.TrimSpace(strings.NewReplacer(",", "", ".", "", " ", "").Replace(in.Text))
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return Reject(KindFormatInvalid, "Please enter a whole number.")
	}
	return AcceptWithMetadata(strconv.FormatInt(n, 10), map[string]any{"value": n})
}

func validateFloat(_ context.Context, in Input, _ domain.CaptureParams) Result {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(in.Text, " ", ""), ",", "."))
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Reject(KindFormatInvalid, "Please enter a number.")
	}
	return AcceptWithMetadata(fmt.Sprintf("%.2f", f), map[string]any{"value": f})
}

var currencyStripper = strings.NewReplacer("R$", "", "$", "", "€", "", "£", "", "¥", "", " ", "")

// validateMoney accepts US ("1,234.56") and EU/BR ("1.234,56") groupings.
// When both separators appear, whichever comes last is the decimal mark.
// Output is always plain NNNN.NN, so normalization is idempotent.
func validateMoney(_ context.Context, in Input, _ domain.CaptureParams) Result {
	cleaned := strings.TrimSpace(currencyStripper.Replace(in.Text))

	var normalized string
	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			normalized = strings.ReplaceAll(strings.ReplaceAll(cleaned, ".", ""), ",", ".")
		} else {
			normalized = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		normalized = strings.ReplaceAll(cleaned, ",", ".")
	default:
		normalized = cleaned
	}

	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return Reject(KindFormatInvalid, "Please enter an amount, like 1234.56.")
	}
	if amount < 0 {
		return Reject(KindRangeInvalid, "Amount cannot be negative.")
	}
	return AcceptWithMetadata(fmt.Sprintf("%.2f", amount), map[string]any{"value": amount})
}
