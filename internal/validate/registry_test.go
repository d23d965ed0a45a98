package validate

import (
	"context"
	"testing"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewDefault(log, &fakeDispatcher{}, &fakeAssets{ref: "x"}, DefaultPolicy())
}

func TestRegistrySynonyms(t *testing.T) {
	r := testRegistry(t)

	cases := []struct {
		token string
		tag   string
	}{
		{"EMAIL", "EMAIL"},
		{"email", "EMAIL"},
		{"PHONE", "MOBILE"},
		{"TELEPHONE", "MOBILE"},
		{"cep", "ZIPCODE"},
		{"TIME", "HOUR"},
		{"decimal", "FLOAT"},
		{"CURRENCY", "MONEY"},
		{"voice", "AUDIO"},
		{"photo", "IMAGE"},
		{"qr", "QRCODE"},
		{"bool", "BOOLEAN"},
		{"card", "CREDITCARD"},
	}
	for _, tc := range cases {
		spec := r.Resolve(tc.token, domain.CaptureParams{})
		if spec.Tag != tc.tag {
			t.Fatalf("Resolve(%q).Tag=%q, want %q", tc.token, spec.Tag, tc.tag)
		}
	}
}

func TestRegistryUnknownTokenPassesThrough(t *testing.T) {
	r := testRegistry(t)

	spec := r.Resolve("QUATERNION", domain.CaptureParams{})
	if spec.Tag != "ANY" {
		t.Fatalf("unknown token resolved to %q, want ANY", spec.Tag)
	}

	got := spec.Fn(context.Background(), Input{Text: "  anything goes  "}, domain.CaptureParams{})
	if !got.OK || got.Value != "anything goes" {
		t.Fatalf("passthrough: %+v", got)
	}
}

func TestRegistryOptionListResolvesToMenu(t *testing.T) {
	r := testRegistry(t)

	params := domain.CaptureParams{Options: []string{"Small", "Large"}}
	spec := r.Resolve("ANY", params)
	if spec.Tag != "MENU" {
		t.Fatalf("option-list capture resolved to %q, want MENU", spec.Tag)
	}

	got := spec.Fn(context.Background(), Input{Text: "sm"}, params)
	if !got.OK || got.Value != "Small" {
		t.Fatalf("menu via registry: %+v", got)
	}
}

func TestRegistryDefaultRetryBudget(t *testing.T) {
	r := testRegistry(t)
	spec := r.Resolve("EMAIL", domain.CaptureParams{})
	if spec.MaxRetries != DefaultMaxRetries {
		t.Fatalf("MaxRetries=%d, want %d", spec.MaxRetries, DefaultMaxRetries)
	}
}
