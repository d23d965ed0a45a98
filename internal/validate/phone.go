package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yungbote/converse-backend/internal/domain"
)

var ukPostcodeRe = regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]?\d[A-Z]{2}$`)

// validateMobile accepts 10-15 digits and formats by length: 11 digits get
// BR mobile grouping, 10 digits US grouping, anything else E.164-ish.
func validateMobile(_ context.Context, in Input, _ domain.CaptureParams) Result {
	digits := onlyDigits(in.Text)
	if len(digits) < 10 || len(digits) > 15 {
		return Reject(KindRangeInvalid, "Phone numbers have 10 to 15 digits.")
	}

	var formatted string
	switch len(digits) {
	case 11:
		formatted = fmt.Sprintf("(%s) %s-%s", digits[0:2], digits[2:7], digits[7:11])
	case 10:
		formatted = fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
	default:
		formatted = "+" + digits
	}

	return AcceptWithMetadata(formatted, map[string]any{"digits": digits})
}

func validateZipcode(_ context.Context, in Input, _ domain.CaptureParams) Result {
	var cleaned strings.Builder
	for _, r := range in.Text {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			cleaned.WriteRune(r)
		}
	}
	s := cleaned.String()

	digitsOnly := onlyDigits(s) == s

	if digitsOnly && len(s) == 8 {
		formatted := s[0:5] + "-" + s[5:8]
		return AcceptWithMetadata(formatted, map[string]any{"country": "BR"})
	}

	if digitsOnly && (len(s) == 5 || len(s) == 9) {
		formatted := s
		if len(s) == 9 {
			formatted = s[0:5] + "-" + s[5:9]
		}
		return AcceptWithMetadata(formatted, map[string]any{"country": "US"})
	}

	upper := strings.ToUpper(s)
	if ukPostcodeRe.MatchString(upper) {
		return AcceptWithMetadata(upper, map[string]any{"country": "UK"})
	}

	return Reject(KindFormatInvalid, "Please enter a valid postal code.")
}
