package validate

import "testing"

func TestValidateCPF(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
		kind  ErrorKind
		want  string
	}{
		{name: "valid_plain", input: "52998224725", ok: true, want: "529.982.247-25"},
		{name: "valid_formatted", input: "529.982.247-25", ok: true, want: "529.982.247-25"},
		{name: "corrupted_last_digit", input: "52998224726", ok: false, kind: KindChecksumInvalid},
		{name: "corrupted_first_check", input: "52998224735", ok: false, kind: KindChecksumInvalid},
		{name: "repeated_digits", input: "11111111111", ok: false, kind: KindChecksumInvalid},
		{name: "too_short", input: "1234567890", ok: false, kind: KindFormatInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runText(t, validateCPF, tc.input)
			if got.OK != tc.ok {
				t.Fatalf("validateCPF(%q).OK=%v, want %v", tc.input, got.OK, tc.ok)
			}
			if tc.ok && got.Value != tc.want {
				t.Fatalf("validateCPF(%q)=%q, want %q", tc.input, got.Value, tc.want)
			}
			if !tc.ok && got.Kind != tc.kind {
				t.Fatalf("validateCPF(%q).Kind=%q, want %q", tc.input, got.Kind, tc.kind)
			}
		})
	}
}

func TestValidateCNPJ(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
		kind  ErrorKind
		want  string
	}{
		{name: "valid_plain", input: "11222333000181", ok: true, want: "11.222.333/0001-81"},
		{name: "valid_formatted", input: "11.222.333/0001-81", ok: true, want: "11.222.333/0001-81"},
		{name: "corrupted_last_digit", input: "11222333000182", ok: false, kind: KindChecksumInvalid},
		{name: "too_long", input: "112223330001811", ok: false, kind: KindFormatInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runText(t, validateCNPJ, tc.input)
			if got.OK != tc.ok {
				t.Fatalf("validateCNPJ(%q).OK=%v, want %v", tc.input, got.OK, tc.ok)
			}
			if tc.ok && got.Value != tc.want {
				t.Fatalf("validateCNPJ(%q)=%q, want %q", tc.input, got.Value, tc.want)
			}
			if !tc.ok && got.Kind != tc.kind {
				t.Fatalf("validateCNPJ(%q).Kind=%q, want %q", tc.input, got.Kind, tc.kind)
			}
		})
	}
}
