package validate

import (
	"context"
	"strings"

	"github.com/yungbote/converse-backend/internal/domain"
)

// Media validators bridge the otherwise synchronous validation step to the
// external AI services. Gateway failures come back as ordinary rejections so
// the retry supervisor treats a flaky transcription service exactly like a
// typo.

var defaultDocumentMimes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"text/plain",
	"text/csv",
}

func imageValidator(assets AssetStore) Func {
	return func(ctx context.Context, in Input, _ domain.CaptureParams) Result {
		att, res := requireAttachment(in, "image/")
		if att == nil {
			return res
		}
		ref, err := assets.Store(ctx, att)
		if err != nil {
			return Reject(KindExternalServiceFailure, "Could not store the image, please try again.")
		}
		return AcceptWithMetadata(ref, map[string]any{"mime_type": att.MimeType})
	}
}

func qrValidator(gw Dispatcher) Func {
	return func(ctx context.Context, in Input, _ domain.CaptureParams) Result {
		att, res := requireAttachment(in, "image/")
		if att == nil {
			return res
		}
		text, md, err := gw.Dispatch(ctx, att, domain.CapabilityDecodeQR, "")
		if err != nil {
			return Reject(KindExternalServiceFailure, "Could not read the QR code, please send a clearer photo.")
		}
		if strings.TrimSpace(text) == "" {
			return Reject(KindFormatInvalid, "No QR code found in that image.")
		}
		return AcceptWithMetadata(strings.TrimSpace(text), md)
	}
}

func audioValidator(gw Dispatcher) Func {
	return func(ctx context.Context, in Input, _ domain.CaptureParams) Result {
		att, res := requireAttachment(in, "audio/")
		if att == nil {
			return res
		}
		text, md, err := gw.Dispatch(ctx, att, domain.CapabilitySpeechToText, "")
		if err != nil {
			return Reject(KindExternalServiceFailure, "Could not transcribe the audio, please try again.")
		}
		if strings.TrimSpace(text) == "" {
			return Reject(KindFormatInvalid, "Could not hear anything in that recording.")
		}
		return AcceptWithMetadata(strings.TrimSpace(text), md)
	}
}

func videoValidator(gw Dispatcher) Func {
	return func(ctx context.Context, in Input, _ domain.CaptureParams) Result {
		att, res := requireAttachment(in, "video/")
		if att == nil {
			return res
		}
		text, md, err := gw.Dispatch(ctx, att, domain.CapabilityDescribeVideo, "")
		if err != nil {
			return Reject(KindExternalServiceFailure, "Could not analyze the video, please try again.")
		}
		return AcceptWithMetadata(strings.TrimSpace(text), md)
	}
}

func fileValidator(assets AssetStore) Func {
	return func(ctx context.Context, in Input, params domain.CaptureParams) Result {
		if in.Attachment == nil {
			return Reject(KindMediaMissing, "Please send a document file.")
		}
		allowed := params.AllowedMimes
		if len(allowed) == 0 {
			allowed = defaultDocumentMimes
		}
		mime := strings.ToLower(strings.TrimSpace(in.Attachment.MimeType))
		ok := false
		for _, a := range allowed {
			if mime == strings.ToLower(a) {
				ok = true
				break
			}
		}
		if !ok {
			return Reject(KindMediaUnsupported, "That file type is not supported.")
		}
		ref, err := assets.Store(ctx, in.Attachment)
		if err != nil {
			return Reject(KindExternalServiceFailure, "Could not store the file, please try again.")
		}
		return AcceptWithMetadata(ref, map[string]any{"mime_type": in.Attachment.MimeType})
	}
}

// validateLogin always rejects typed input: LOGIN resolves out-of-band via
// the identity provider callback, which completes the capture directly.
func validateLogin(_ context.Context, _ Input, _ domain.CaptureParams) Result {
	return Reject(KindFormatInvalid, "Please use the login button to sign in.")
}

func requireAttachment(in Input, mimePrefix string) (*domain.Attachment, Result) {
	if in.Attachment == nil {
		return nil, Reject(KindMediaMissing, "Please send an attachment.")
	}
	mime := strings.ToLower(strings.TrimSpace(in.Attachment.MimeType))
	if !strings.HasPrefix(mime, mimePrefix) {
		return nil, Reject(KindMediaUnsupported, "That attachment type is not supported here.")
	}
	return in.Attachment, Result{}
}
