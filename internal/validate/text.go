package validate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/converse-backend/internal/domain"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)
	nameRe  = regexp.MustCompile(`^[\p{L}\s\-']+$`)
	urlRe   = regexp.MustCompile(`^https?://[a-zA-Z0-9][-a-zA-Z0-9]*(\.[a-zA-Z0-9][-a-zA-Z0-9]*)+(/[-a-zA-Z0-9()@:%_+.~#?&/=]*)?$`)
	hexRe   = regexp.MustCompile(`^#?([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	rgbRe   = regexp.MustCompile(`^rgb\s*\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
)

func validateEmail(_ context.Context, in Input, _ domain.CaptureParams) Result {
	s := strings.TrimSpace(in.Text)
	if !emailRe.MatchString(s) {
		return Reject(KindFormatInvalid, "Please enter a valid email address.")
	}
	return Accept(strings.ToLower(s))
}

func validateName(_ context.Context, in Input, _ domain.CaptureParams) Result {
	s := strings.TrimSpace(in.Text)
	if len(s) < 2 {
		return Reject(KindRangeInvalid, "Name must be at least 2 characters.")
	}
	if len(s) > 100 {
		return Reject(KindRangeInvalid, "Name is too long.")
	}
	if !nameRe.MatchString(s) {
		return Reject(KindFormatInvalid, "Please enter a valid name (letters only).")
	}
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return Accept(strings.Join(words, " "))
}

func validateURL(_ context.Context, in Input, _ domain.CaptureParams) Result {
	s := strings.TrimSpace(in.Text)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	if !urlRe.MatchString(s) {
		return Reject(KindFormatInvalid, "Please enter a valid URL.")
	}
	return Accept(s)
}

func validateUUID(_ context.Context, in Input, _ domain.CaptureParams) Result {
	id, err := uuid.Parse(strings.TrimSpace(in.Text))
	if err != nil {
		return Reject(KindFormatInvalid, "Please enter a valid UUID.")
	}
	return Accept(id.String())
}

// validatePassword never echoes the raw secret: the bound value is a fixed
// sentinel and the metadata carries only a strength tag, the length and a
// bcrypt digest for downstream verification.
func validatePassword(_ context.Context, in Input, _ domain.CaptureParams) Result {
	raw := in.Text
	if len(raw) < 8 {
		return Reject(KindRangeInvalid, "Password must be at least 8 characters.")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range raw {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	classes := 0
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if ok {
			classes++
		}
	}
	strength := "weak"
	switch classes {
	case 4:
		strength = "strong"
	case 3:
		strength = "medium"
	}

	md := map[string]any{"strength": strength, "length": len(raw)}
	if digest, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost); err == nil {
		md["digest"] = string(digest)
	}
	return AcceptWithMetadata("[PASSWORD SET]", md)
}

var namedColors = map[string]string{
	"red":     "#FF0000",
	"green":   "#00FF00",
	"blue":    "#0000FF",
	"white":   "#FFFFFF",
	"black":   "#000000",
	"yellow":  "#FFFF00",
	"orange":  "#FFA500",
	"purple":  "#800080",
	"pink":    "#FFC0CB",
	"gray":    "#808080",
	"grey":    "#808080",
	"brown":   "#A52A2A",
	"cyan":    "#00FFFF",
	"magenta": "#FF00FF",
}

func validateColor(_ context.Context, in Input, _ domain.CaptureParams) Result {
	s := strings.ToLower(strings.TrimSpace(in.Text))

	if hex, ok := namedColors[s]; ok {
		return AcceptWithMetadata(hex, map[string]any{"name": s})
	}

	if m := hexRe.FindStringSubmatch(s); m != nil {
		hex := strings.ToUpper(m[1])
		if len(hex) == 3 {
			var b strings.Builder
			for _, c := range hex {
				b.WriteRune(c)
				b.WriteRune(c)
			}
			hex = b.String()
		}
		return Accept("#" + hex)
	}

	if m := rgbRe.FindStringSubmatch(s); m != nil {
		var ch [3]int
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(m[i+1])
			if err != nil || v > 255 {
				return Reject(KindRangeInvalid, "RGB components must be 0-255.")
			}
			ch[i] = v
		}
		return Accept(fmt.Sprintf("#%02X%02X%02X", ch[0], ch[1], ch[2]))
	}

	return Reject(KindFormatInvalid, "Please enter a color name, #hex or rgb() value.")
}

var languageTable = []struct {
	code     string
	variants []string
}{
	{"en", []string{"english", "inglês", "ingles"}},
	{"pt", []string{"portuguese", "português", "portugues"}},
	{"es", []string{"spanish", "espanhol", "español"}},
	{"fr", []string{"french", "francês", "frances"}},
	{"de", []string{"german", "alemão", "alemao"}},
	{"it", []string{"italian", "italiano"}},
	{"ja", []string{"japanese", "japonês", "japones"}},
	{"zh", []string{"chinese", "chinês", "chines"}},
	{"ko", []string{"korean", "coreano"}},
	{"ru", []string{"russian", "russo"}},
	{"ar", []string{"arabic", "árabe", "arabe"}},
	{"hi", []string{"hindi"}},
	{"nl", []string{"dutch", "holandês", "holandes"}},
	{"pl", []string{"polish", "polonês", "polones"}},
	{"tr", []string{"turkish", "turco"}},
}

func validateLanguage(_ context.Context, in Input, _ domain.CaptureParams) Result {
	s := strings.ToLower(strings.TrimSpace(in.Text))

	for _, entry := range languageTable {
		if s == entry.code {
			return AcceptWithMetadata(entry.code, map[string]any{"input": in.Text})
		}
		for _, v := range entry.variants {
			if s == v {
				return AcceptWithMetadata(entry.code, map[string]any{"input": in.Text})
			}
		}
	}

	// Unlisted but plausible ISO 639-1 code.
	if len(s) == 2 && s[0] >= 'a' && s[0] <= 'z' && s[1] >= 'a' && s[1] <= 'z' {
		return Accept(s)
	}

	return Reject(KindFormatInvalid, "Please enter a language, like English or pt.")
}
