package media

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

type stubResolver struct {
	payload []byte
	err     error
}

func (s *stubResolver) Fetch(_ context.Context, _ string) ([]byte, error) {
	return s.payload, s.err
}

func (s *stubResolver) URI(ref string) string { return "gs://test-bucket/" + ref }

type stubSpeech struct {
	text string
	err  error
	got  []byte
}

func (s *stubSpeech) Transcribe(_ context.Context, audio []byte, _ string) (string, map[string]any, error) {
	s.got = audio
	return s.text, map[string]any{"provider": "stub"}, s.err
}

func (s *stubSpeech) Close() error { return nil }

type stubVision struct {
	text string
	err  error
}

func (s *stubVision) Describe(_ context.Context, _ []byte, _ string) (string, map[string]any, error) {
	return s.text, nil, s.err
}

func (s *stubVision) Close() error { return nil }

type stubCaption struct {
	text   string
	err    error
	prompt string
}

func (s *stubCaption) Caption(_ context.Context, _ []byte, _ string, prompt string) (string, map[string]any, error) {
	s.prompt = prompt
	return s.text, nil, s.err
}

type stubVideo struct {
	text string
	err  error
	uri  string
}

func (s *stubVideo) Describe(_ context.Context, uri string) (string, map[string]any, error) {
	s.uri = uri
	return s.text, nil, s.err
}

func (s *stubVideo) Close() error { return nil }

func newTestGateway(t *testing.T, resolver *stubResolver, speech *stubSpeech, vision *stubVision, caption *stubCaption, video *stubVideo) *Gateway {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewGateway(log, resolver, speech, vision, caption, video)
}

func TestDispatchRoutesSpeechToText(t *testing.T) {
	resolver := &stubResolver{payload: []byte("oggdata")}
	speech := &stubSpeech{text: "hello world"}
	gw := newTestGateway(t, resolver, speech, &stubVision{}, &stubCaption{}, &stubVideo{})

	att := &domain.Attachment{MimeType: "audio/ogg", AssetRef: "captures/a1.ogg"}
	text, md, err := gw.Dispatch(context.Background(), att, domain.CapabilitySpeechToText, "")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("text = %q, want %q", text, "hello world")
	}
	if string(speech.got) != "oggdata" {
		t.Fatalf("provider received %q, want fetched payload", speech.got)
	}
	if md["capability"] != string(domain.CapabilitySpeechToText) {
		t.Fatalf("metadata capability = %v", md["capability"])
	}
}

func TestDispatchQRUsesDecodePrompt(t *testing.T) {
	resolver := &stubResolver{payload: []byte("png")}
	caption := &stubCaption{text: "https://example.com/x"}
	gw := newTestGateway(t, resolver, &stubSpeech{}, &stubVision{}, caption, &stubVideo{})

	att := &domain.Attachment{MimeType: "image/png", AssetRef: "captures/q.png"}
	text, _, err := gw.Dispatch(context.Background(), att, domain.CapabilityDecodeQR, "")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if text != "https://example.com/x" {
		t.Fatalf("text = %q", text)
	}
	if caption.prompt != qrDecodePrompt {
		t.Fatalf("prompt = %q, want built-in QR prompt", caption.prompt)
	}
}

func TestDispatchVisualQAForwardsCallerPrompt(t *testing.T) {
	resolver := &stubResolver{payload: []byte("jpg")}
	caption := &stubCaption{text: "a red bicycle"}
	gw := newTestGateway(t, resolver, &stubSpeech{}, &stubVision{}, caption, &stubVideo{})

	att := &domain.Attachment{MimeType: "image/jpeg", AssetRef: "captures/b.jpg"}
	if _, _, err := gw.Dispatch(context.Background(), att, domain.CapabilityVisualQA, "What color is the bike?"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if caption.prompt != "What color is the bike?" {
		t.Fatalf("prompt = %q", caption.prompt)
	}
}

func TestDispatchVideoUsesResolvedURI(t *testing.T) {
	video := &stubVideo{text: "dog, park; transcript: good boy"}
	gw := newTestGateway(t, &stubResolver{}, &stubSpeech{}, &stubVision{}, &stubCaption{}, video)

	att := &domain.Attachment{MimeType: "video/mp4", AssetRef: "captures/v.mp4"}
	if _, _, err := gw.Dispatch(context.Background(), att, domain.CapabilityDescribeVideo, ""); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if video.uri != "gs://test-bucket/captures/v.mp4" {
		t.Fatalf("uri = %q", video.uri)
	}
}

func TestDispatchNilAttachment(t *testing.T) {
	gw := newTestGateway(t, &stubResolver{}, &stubSpeech{}, &stubVision{}, &stubCaption{}, &stubVideo{})
	if _, _, err := gw.Dispatch(context.Background(), nil, domain.CapabilityDescribeImage, ""); err == nil {
		t.Fatal("expected error for nil attachment")
	}
}

func TestDispatchUnsupportedCapability(t *testing.T) {
	gw := newTestGateway(t, &stubResolver{}, &stubSpeech{}, &stubVision{}, &stubCaption{}, &stubVideo{})
	att := &domain.Attachment{MimeType: "image/png", AssetRef: "captures/x.png"}
	if _, _, err := gw.Dispatch(context.Background(), att, domain.Capability("translate-text"), ""); err == nil {
		t.Fatal("expected error for unsupported capability")
	}
}

func TestDispatchPropagatesFetchError(t *testing.T) {
	resolver := &stubResolver{err: errors.New("channel media expired")}
	gw := newTestGateway(t, resolver, &stubSpeech{}, &stubVision{}, &stubCaption{}, &stubVideo{})

	att := &domain.Attachment{MimeType: "image/png", AssetRef: "captures/gone.png"}
	_, _, err := gw.Dispatch(context.Background(), att, domain.CapabilityDescribeImage, "")
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}
}
