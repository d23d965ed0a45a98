package validate

import "testing"

func TestValidateMobile(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
		want  string
	}{
		{name: "br_11_digits", input: "11987654321", ok: true, want: "(11) 98765-4321"},
		{name: "us_10_digits", input: "(212) 555-0123", ok: true, want: "(212) 555-0123"},
		{name: "sixteen_digits_rejected", input: "+55 11 98765-4321 999", ok: false},
		{name: "e164_13_digits", input: "5511987654321", ok: true, want: "+5511987654321"},
		{name: "too_short", input: "12345", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runText(t, validateMobile, tc.input)
			if got.OK != tc.ok {
				t.Fatalf("validateMobile(%q).OK=%v, want %v", tc.input, got.OK, tc.ok)
			}
			if tc.ok && got.Value != tc.want {
				t.Fatalf("validateMobile(%q)=%q, want %q", tc.input, got.Value, tc.want)
			}
		})
	}
}

func TestValidateZipcode(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		ok      bool
		want    string
		country string
	}{
		{name: "br_cep", input: "01310-100", ok: true, want: "01310-100", country: "BR"},
		{name: "br_cep_plain", input: "01310100", ok: true, want: "01310-100", country: "BR"},
		{name: "us_zip5", input: "90210", ok: true, want: "90210", country: "US"},
		{name: "us_zip9", input: "902101234", ok: true, want: "90210-1234", country: "US"},
		{name: "uk_postcode", input: "SW1A 1AA", ok: true, want: "SW1A1AA", country: "UK"},
		{name: "garbage", input: "zip it", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runText(t, validateZipcode, tc.input)
			if got.OK != tc.ok {
				t.Fatalf("validateZipcode(%q).OK=%v, want %v", tc.input, got.OK, tc.ok)
			}
			if !tc.ok {
				return
			}
			if got.Value != tc.want {
				t.Fatalf("validateZipcode(%q)=%q, want %q", tc.input, got.Value, tc.want)
			}
			if got.Metadata["country"] != tc.country {
				t.Fatalf("country=%v, want %s", got.Metadata["country"], tc.country)
			}
		})
	}
}
