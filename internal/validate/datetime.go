package validate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/converse-backend/internal/domain"
)

var (
	numericDateRe = regexp.MustCompile(`^(\d{1,4})([/\-.])(\d{1,2})[/\-.](\d{1,4})$`)
	time24Re      = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	time12Re      = regexp.MustCompile(`^(1[0-2]|0?[1-9]):([0-5]\d)\s*([APap])\.?[Mm]\.?$`)
)

var namedDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2 2006",
}

// dateValidator normalizes to ISO YYYY-MM-DD. Numeric dates with an
// ambiguous day/month order (both segments <= 12) follow the day-first
// policy; a segment above 12 settles the order on its own.
func dateValidator(policy Policy) Func {
	return func(_ context.Context, in Input, params domain.CaptureParams) Result {
		s := strings.TrimSpace(in.Text)

		if iso, ok := relativeDate(strings.ToLower(s)); ok {
			return AcceptWithMetadata(iso, map[string]any{"original": in.Text, "relative": true})
		}

		if m := numericDateRe.FindStringSubmatch(s); m != nil {
			a, _ := strconv.Atoi(m[1])
			b, _ := strconv.Atoi(m[3])
			c, _ := strconv.Atoi(m[4])

			var year, month, day int
			switch {
			case len(m[1]) == 4:
				year, month, day = a, b, c
			case b > 12 && a <= 12:
				year, month, day = c, a, b
			case a > 12:
				year, month, day = c, b, a
			default:
				dayFirst := policy.DayFirst
				if params.DayFirst != nil {
					dayFirst = *params.DayFirst
				}
				if dayFirst {
					year, month, day = c, b, a
				} else {
					year, month, day = c, a, b
				}
			}

			if year < 100 {
				year += 2000
			}
			d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			if d.Year() != year || int(d.Month()) != month || d.Day() != day {
				return Reject(KindRangeInvalid, "That date does not exist.")
			}
			return AcceptWithMetadata(d.Format("2006-01-02"), map[string]any{"original": in.Text})
		}

		for _, layout := range namedDateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return AcceptWithMetadata(d.Format("2006-01-02"),
					map[string]any{"original": in.Text, "parsed_format": layout})
			}
		}

		if d, err := time.Parse("2006-01-02", s); err == nil {
			return Accept(d.Format("2006-01-02"))
		}

		return Reject(KindFormatInvalid, "Please enter a date, like 25/12/2024 or 2024-12-25.")
	}
}

func relativeDate(lower string) (string, bool) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	switch lower {
	case "today", "hoje":
		return today.Format("2006-01-02"), true
	case "tomorrow", "amanhã", "amanha":
		return today.AddDate(0, 0, 1).Format("2006-01-02"), true
	case "yesterday", "ontem":
		return today.AddDate(0, 0, -1).Format("2006-01-02"), true
	default:
		return "", false
	}
}

func validateHour(_ context.Context, in Input, _ domain.CaptureParams) Result {
	s := strings.TrimSpace(in.Text)

	if m := time24Re.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return AcceptWithMetadata(fmt.Sprintf("%02d:%02d", hour, minute),
			map[string]any{"hour": hour, "minute": minute})
	}

	if m := time12Re.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		period := strings.ToUpper(m[3])
		if period == "P" && hour != 12 {
			hour += 12
		} else if period == "A" && hour == 12 {
			hour = 0
		}
		return AcceptWithMetadata(fmt.Sprintf("%02d:%02d", hour, minute),
			map[string]any{"hour": hour, "minute": minute})
	}

	return Reject(KindFormatInvalid, "Please enter a time, like 14:30 or 2:30 PM.")
}
