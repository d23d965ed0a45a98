package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/yungbote/converse-backend/internal/platform/envutil"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

type visionProvider struct {
	log    *logger.Logger
	client *vision.ImageAnnotatorClient

	maxLabels  int
	maxRetries int
}

// NewVisionProvider builds the GCP Vision provider used for the
// describe-image capability: top labels plus any detected text, folded
// into one short description.
func NewVisionProvider(log *logger.Logger) (VisionProvider, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("provider", "VisionProvider")

	ctx := context.Background()
	c, err := vision.NewImageAnnotatorClient(ctx, gcpClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}

	return &visionProvider{
		log:        slog,
		client:     c,
		maxLabels:  envutil.Int("VISION_MAX_LABELS", 5),
		maxRetries: envutil.Int("VISION_MAX_RETRIES", 3),
	}, nil
}

func (v *visionProvider) Close() error {
	if v == nil || v.client == nil {
		return nil
	}
	return v.client.Close()
}

func (v *visionProvider) Describe(ctx context.Context, img []byte, mimeType string) (string, map[string]any, error) {
	if len(img) == 0 {
		return "", nil, fmt.Errorf("empty image payload")
	}

	image, err := vision.NewImageFromReader(bytes.NewReader(img))
	if err != nil {
		return "", nil, fmt.Errorf("vision image: %w", err)
	}

	var labels []*visionpb.EntityAnnotation
	err = withGCPRetry(ctx, v.maxRetries, func() error {
		var rerr error
		labels, rerr = v.client.DetectLabels(ctx, image, nil, v.maxLabels)
		return rerr
	})
	if err != nil {
		return "", nil, fmt.Errorf("vision labels: %w", err)
	}

	var texts []*visionpb.EntityAnnotation
	err = withGCPRetry(ctx, v.maxRetries, func() error {
		var rerr error
		texts, rerr = v.client.DetectTexts(ctx, image, nil, 1)
		return rerr
	})
	if err != nil {
		// Text detection is best-effort; labels alone still describe.
		v.log.Debug("vision text detection failed", "error", err)
		texts = nil
	}

	labelNames := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.GetDescription() != "" {
			labelNames = append(labelNames, strings.ToLower(l.GetDescription()))
		}
	}

	var desc strings.Builder
	if len(labelNames) > 0 {
		desc.WriteString(strings.Join(labelNames, ", "))
	}
	if len(texts) > 0 {
		ocr := strings.TrimSpace(texts[0].GetDescription())
		if ocr != "" {
			if desc.Len() > 0 {
				desc.WriteString("; text: ")
			}
			desc.WriteString(strings.ReplaceAll(ocr, "\n", " "))
		}
	}

	md := map[string]any{
		"provider": "gcp_vision",
		"labels":   labelNames,
	}
	return desc.String(), md, nil
}
