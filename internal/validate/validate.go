package validate

import (
	"context"

	"github.com/yungbote/converse-backend/internal/domain"
)

type ErrorKind string

const (
	KindNone                   ErrorKind = ""
	KindFormatInvalid          ErrorKind = "format_invalid"
	KindChecksumInvalid        ErrorKind = "checksum_invalid"
	KindRangeInvalid           ErrorKind = "range_invalid"
	KindMediaMissing           ErrorKind = "media_missing"
	KindMediaUnsupported       ErrorKind = "media_unsupported"
	KindExternalServiceFailure ErrorKind = "external_service_failure"
	KindRetryBudgetExhausted   ErrorKind = "retry_budget_exhausted"
)

// Input is one user reply: trimmed text and/or a media attachment.
type Input struct {
	Text       string
	Attachment *domain.Attachment
	Locale     string
}

// Result is the outcome of running one validator over one input. Validation
// failures are values, not Go errors; only the retry supervisor decides what
// a failure means for the dialog.
type Result struct {
	OK       bool           `json:"ok"`
	Value    string         `json:"value,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Kind     ErrorKind      `json:"error_kind,omitempty"`
	Hint     string         `json:"hint,omitempty"`
}

// Func validates and normalizes one input against one declared type.
type Func func(ctx context.Context, in Input, params domain.CaptureParams) Result

func Accept(value string) Result {
	return Result{OK: true, Value: value}
}

func AcceptWithMetadata(value string, md map[string]any) Result {
	return Result{OK: true, Value: value, Metadata: md}
}

func Reject(kind ErrorKind, hint string) Result {
	return Result{OK: false, Kind: kind, Hint: hint}
}
