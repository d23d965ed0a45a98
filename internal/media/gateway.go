package media

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/envutil"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

// SpeechProvider turns an audio payload into text.
type SpeechProvider interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, map[string]any, error)
	Close() error
}

// VisionProvider produces a textual description of an image (labels + OCR).
type VisionProvider interface {
	Describe(ctx context.Context, img []byte, mimeType string) (string, map[string]any, error)
	Close() error
}

// CaptionProvider answers a free-form prompt about an image via a
// multimodal LLM endpoint. Used for QR decoding and visual Q&A.
type CaptionProvider interface {
	Caption(ctx context.Context, img []byte, mimeType string, prompt string) (string, map[string]any, error)
}

// VideoProvider summarizes a video stored behind a resolvable URI.
type VideoProvider interface {
	Describe(ctx context.Context, uri string) (string, map[string]any, error)
	Close() error
}

// AssetResolver loads attachment payloads and yields provider-addressable
// URIs for large media that should not be pulled through this process.
type AssetResolver interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
	URI(ref string) string
}

const qrDecodePrompt = "Decode the QR code in this image. Reply with the exact payload text and nothing else. If there is no QR code, reply with an empty message."

// Gateway routes a captured attachment plus a capability to the matching
// external AI provider under a per-capability timeout. Provider errors are
// returned as-is; callers map them onto the validation failure taxonomy.
type Gateway struct {
	log     *logger.Logger
	assets  AssetResolver
	speech  SpeechProvider
	vision  VisionProvider
	caption CaptionProvider
	video   VideoProvider

	timeouts map[domain.Capability]time.Duration
}

func NewGateway(log *logger.Logger, assets AssetResolver, speech SpeechProvider, vision VisionProvider, caption CaptionProvider, video VideoProvider) *Gateway {
	return &Gateway{
		log:     log.With("component", "MediaGateway"),
		assets:  assets,
		speech:  speech,
		vision:  vision,
		caption: caption,
		video:   video,
		timeouts: map[domain.Capability]time.Duration{
			domain.CapabilityDecodeQR:      envutil.Duration("MEDIA_QR_TIMEOUT", 30*time.Second),
			domain.CapabilitySpeechToText:  envutil.Duration("MEDIA_SPEECH_TIMEOUT", 60*time.Second),
			domain.CapabilityDescribeImage: envutil.Duration("MEDIA_IMAGE_TIMEOUT", 30*time.Second),
			domain.CapabilityDescribeVideo: envutil.Duration("MEDIA_VIDEO_TIMEOUT", 5*time.Minute),
			domain.CapabilityVisualQA:      envutil.Duration("MEDIA_VQA_TIMEOUT", 30*time.Second),
		},
	}
}

func (g *Gateway) Dispatch(ctx context.Context, att *domain.Attachment, capability domain.Capability, prompt string) (string, map[string]any, error) {
	if att == nil {
		return "", nil, fmt.Errorf("nil attachment")
	}

	timeout, ok := g.timeouts[capability]
	if !ok {
		return "", nil, fmt.Errorf("unsupported capability %q", capability)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	text, md, err := g.route(ctx, att, capability, prompt)
	elapsed := time.Since(started)

	if err != nil {
		g.log.Warn("media dispatch failed",
			"capability", capability, "mime_type", att.MimeType, "elapsed", elapsed.String(), "error", err)
		return "", nil, err
	}

	g.log.Debug("media dispatch ok",
		"capability", capability, "mime_type", att.MimeType, "elapsed", elapsed.String())
	if md == nil {
		md = map[string]any{}
	}
	md["capability"] = string(capability)
	return text, md, nil
}

func (g *Gateway) route(ctx context.Context, att *domain.Attachment, capability domain.Capability, prompt string) (string, map[string]any, error) {
	switch capability {
	case domain.CapabilityDecodeQR:
		img, err := g.assets.Fetch(ctx, att.AssetRef)
		if err != nil {
			return "", nil, fmt.Errorf("fetch attachment: %w", err)
		}
		return g.caption.Caption(ctx, img, att.MimeType, qrDecodePrompt)

	case domain.CapabilityVisualQA:
		img, err := g.assets.Fetch(ctx, att.AssetRef)
		if err != nil {
			return "", nil, fmt.Errorf("fetch attachment: %w", err)
		}
		return g.caption.Caption(ctx, img, att.MimeType, prompt)

	case domain.CapabilityDescribeImage:
		img, err := g.assets.Fetch(ctx, att.AssetRef)
		if err != nil {
			return "", nil, fmt.Errorf("fetch attachment: %w", err)
		}
		return g.vision.Describe(ctx, img, att.MimeType)

	case domain.CapabilitySpeechToText:
		audio, err := g.assets.Fetch(ctx, att.AssetRef)
		if err != nil {
			return "", nil, fmt.Errorf("fetch attachment: %w", err)
		}
		return g.speech.Transcribe(ctx, audio, att.MimeType)

	case domain.CapabilityDescribeVideo:
		// Video is annotated in place; bytes never transit this process.
		return g.video.Describe(ctx, g.assets.URI(att.AssetRef))

	default:
		return "", nil, fmt.Errorf("unsupported capability %q", capability)
	}
}

func (g *Gateway) Close() error {
	var eg errgroup.Group
	if g.speech != nil {
		eg.Go(g.speech.Close)
	}
	if g.vision != nil {
		eg.Go(g.vision.Close)
	}
	if g.video != nil {
		eg.Go(g.video.Close)
	}
	return eg.Wait()
}
