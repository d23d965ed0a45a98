package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/converse-backend/internal/domain"
)

// validateCreditCard runs the Luhn checksum over 13-19 digits, detects the
// issuer from the leading digits and masks everything but the edges. The
// full PAN never leaves this function.
func validateCreditCard(_ context.Context, in Input, _ domain.CaptureParams) Result {
	digits := onlyDigits(in.Text)
	if len(digits) < 13 || len(digits) > 19 {
		return Reject(KindFormatInvalid, "Card numbers have 13 to 19 digits.")
	}

	if !luhnValid(digits) {
		return Reject(KindChecksumInvalid, "Please enter a valid card number.")
	}

	issuer := cardIssuer(digits)
	last4 := digits[len(digits)-4:]
	masked := fmt.Sprintf("%s •••• %s", digits[0:4], last4)

	return AcceptWithMetadata(masked, map[string]any{
		"issuer":    issuer,
		"last_four": last4,
	})
}

func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func cardIssuer(digits string) string {
	switch {
	case strings.HasPrefix(digits, "4"):
		return "Visa"
	case digits[0:2] >= "51" && digits[0:2] <= "55":
		return "Mastercard"
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return "American Express"
	case strings.HasPrefix(digits, "36"), strings.HasPrefix(digits, "38"):
		return "Diners Club"
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "65"):
		return "Discover"
	default:
		return "Unknown"
	}
}
