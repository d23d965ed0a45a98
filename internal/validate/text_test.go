package validate

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/converse-backend/internal/domain"
)

func runText(t *testing.T, fn Func, text string) Result {
	t.Helper()
	return fn(context.Background(), Input{Text: text}, domain.CaptureParams{})
}

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
		want  string
	}{
		{name: "simple", input: "user@example.com", ok: true, want: "user@example.com"},
		{name: "uppercase_normalized", input: "USER@Example.com", ok: true, want: "user@example.com"},
		{name: "plus_tag", input: "a.b+tag@sub.example.org", ok: true, want: "a.b+tag@sub.example.org"},
		{name: "surrounding_space", input: "  user@example.com  ", ok: true, want: "user@example.com"},
		{name: "not_an_email", input: "not-an-email", ok: false},
		{name: "missing_tld", input: "user@localhost", ok: false},
		{name: "empty", input: "", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runText(t, validateEmail, tc.input)
			if got.OK != tc.ok {
				t.Fatalf("validateEmail(%q).OK=%v, want %v", tc.input, got.OK, tc.ok)
			}
			if tc.ok && got.Value != tc.want {
				t.Fatalf("validateEmail(%q)=%q, want %q", tc.input, got.Value, tc.want)
			}
			if !tc.ok && got.Kind != KindFormatInvalid {
				t.Fatalf("validateEmail(%q).Kind=%q, want format_invalid", tc.input, got.Kind)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
		want  string
	}{
		{name: "title_cased", input: "maria silva", ok: true, want: "Maria Silva"},
		{name: "hyphen_apostrophe", input: "anne-marie o'neill", ok: true, want: "Anne-marie O'neill"},
		{name: "accented", input: "joão pereira", ok: true, want: "João Pereira"},
		{name: "too_short", input: "a", ok: false},
		{name: "digits_rejected", input: "john123", ok: false},
		{name: "too_long", input: strings.Repeat("a", 101), ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runText(t, validateName, tc.input)
			if got.OK != tc.ok {
				t.Fatalf("validateName(%q).OK=%v, want %v", tc.input, got.OK, tc.ok)
			}
			if tc.ok && got.Value != tc.want {
				t.Fatalf("validateName(%q)=%q, want %q", tc.input, got.Value, tc.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
		want  string
	}{
		{name: "bare_domain_gets_https", input: "example.com", ok: true, want: "https://example.com"},
		{name: "keeps_http", input: "http://example.com/path", ok: true, want: "http://example.com/path"},
		{name: "keeps_https", input: "https://x.com", ok: true, want: "https://x.com"},
		{name: "no_dot", input: "nodotatall", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runText(t, validateURL, tc.input)
			if got.OK != tc.ok {
				t.Fatalf("validateURL(%q).OK=%v, want %v", tc.input, got.OK, tc.ok)
			}
			if tc.ok && got.Value != tc.want {
				t.Fatalf("validateURL(%q)=%q, want %q", tc.input, got.Value, tc.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Run("never_echoes_secret", func(t *testing.T) {
		got := runText(t, validatePassword, "Sup3r$ecretPW")
		if !got.OK {
			t.Fatalf("expected accept, got kind=%q", got.Kind)
		}
		if got.Value != "[PASSWORD SET]" {
			t.Fatalf("bound value %q leaks the password", got.Value)
		}
		if got.Metadata["strength"] != "strong" {
			t.Fatalf("strength=%v, want strong", got.Metadata["strength"])
		}
	})

	t.Run("strength_tags", func(t *testing.T) {
		cases := []struct {
			input string
			want  string
		}{
			{"Abcdef12", "medium"},
			{"abcdefgh", "weak"},
			{"Abcd2f!h", "strong"},
		}
		for _, tc := range cases {
			got := runText(t, validatePassword, tc.input)
			if !got.OK || got.Metadata["strength"] != tc.want {
				t.Fatalf("password %q: strength=%v ok=%v, want %s", tc.input, got.Metadata["strength"], got.OK, tc.want)
			}
		}
	})

	t.Run("too_short", func(t *testing.T) {
		got := runText(t, validatePassword, "short1!")
		if got.OK || got.Kind != KindRangeInvalid {
			t.Fatalf("expected range_invalid, got ok=%v kind=%q", got.OK, got.Kind)
		}
	})
}

func TestValidateColor(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
		want  string
	}{
		{name: "named", input: "red", ok: true, want: "#FF0000"},
		{name: "hex_six", input: "#1a2b3c", ok: true, want: "#1A2B3C"},
		{name: "hex_short_expanded", input: "abc", ok: true, want: "#AABBCC"},
		{name: "rgb", input: "rgb(255, 165, 0)", ok: true, want: "#FFA500"},
		{name: "rgb_out_of_range", input: "rgb(300, 0, 0)", ok: false},
		{name: "nonsense", input: "definitely-not-a-color", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runText(t, validateColor, tc.input)
			if got.OK != tc.ok {
				t.Fatalf("validateColor(%q).OK=%v, want %v", tc.input, got.OK, tc.ok)
			}
			if tc.ok && got.Value != tc.want {
				t.Fatalf("validateColor(%q)=%q, want %q", tc.input, got.Value, tc.want)
			}
		})
	}
}

func TestValidateUUID(t *testing.T) {
	got := runText(t, validateUUID, "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if !got.OK || got.Value != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Fatalf("uuid accept failed: %+v", got)
	}
	if got = runText(t, validateUUID, "not-a-uuid"); got.OK {
		t.Fatal("expected rejection for malformed uuid")
	}
}

func TestValidateLanguage(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
		want  string
	}{
		{"en", true, "en"},
		{"English", true, "en"},
		{"português", true, "pt"},
		{"espanhol", true, "es"},
		{"sv", true, "sv"},
		{"klingon", false, ""},
	}
	for _, tc := range cases {
		got := runText(t, validateLanguage, tc.input)
		if got.OK != tc.ok {
			t.Fatalf("validateLanguage(%q).OK=%v, want %v", tc.input, got.OK, tc.ok)
		}
		if tc.ok && got.Value != tc.want {
			t.Fatalf("validateLanguage(%q)=%q, want %q", tc.input, got.Value, tc.want)
		}
	}
}
