package media

import (
	"context"
	"fmt"
	"strings"

	videointelligence "cloud.google.com/go/videointelligence/apiv1"
	vipb "cloud.google.com/go/videointelligence/apiv1/videointelligencepb"

	"github.com/yungbote/converse-backend/internal/platform/envutil"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

// videoProvider summarizes videos with GCP Video Intelligence. Videos are
// annotated in place via their storage URI; the payload never flows through
// this process.
type videoProvider struct {
	log    *logger.Logger
	client *videointelligence.Client

	languageCode string
	maxLabels    int
}

func NewVideoProvider(ctx context.Context, log *logger.Logger) (VideoProvider, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	c, err := videointelligence.NewClient(ctx, gcpClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("videointelligence client: %w", err)
	}
	return &videoProvider{
		log:          log.With("provider", "VideoProvider"),
		client:       c,
		languageCode: envutil.String("VIDEO_LANGUAGE_CODE", "en-US"),
		maxLabels:    envutil.Int("VIDEO_MAX_LABELS", 5),
	}, nil
}

func (p *videoProvider) Describe(ctx context.Context, uri string) (string, map[string]any, error) {
	if strings.TrimSpace(uri) == "" {
		return "", nil, fmt.Errorf("empty video uri")
	}

	req := &vipb.AnnotateVideoRequest{
		InputUri: uri,
		Features: []vipb.Feature{
			vipb.Feature_LABEL_DETECTION,
			vipb.Feature_SPEECH_TRANSCRIPTION,
		},
		VideoContext: &vipb.VideoContext{
			SpeechTranscriptionConfig: &vipb.SpeechTranscriptionConfig{
				LanguageCode:               p.languageCode,
				EnableAutomaticPunctuation: true,
			},
		},
	}

	var resp *vipb.AnnotateVideoResponse
	err := withGCPRetry(ctx, 3, func() error {
		op, err := p.client.AnnotateVideo(ctx, req)
		if err != nil {
			return err
		}
		resp, err = op.Wait(ctx)
		return err
	})
	if err != nil {
		return "", nil, fmt.Errorf("videointelligence AnnotateVideo: %w", err)
	}
	if resp == nil || len(resp.AnnotationResults) == 0 || resp.AnnotationResults[0] == nil {
		return "", nil, fmt.Errorf("videointelligence returned no annotation results")
	}
	ar := resp.AnnotationResults[0]

	labels := collectVideoLabels(ar.SegmentLabelAnnotations, p.maxLabels)
	transcript := collectVideoTranscript(ar.SpeechTranscriptions)

	var b strings.Builder
	if len(labels) > 0 {
		b.WriteString(strings.Join(labels, ", "))
	}
	if transcript != "" {
		if b.Len() > 0 {
			b.WriteString("; transcript: ")
		}
		b.WriteString(transcript)
	}
	if b.Len() == 0 {
		return "", nil, fmt.Errorf("videointelligence produced no labels or transcript")
	}

	md := map[string]any{
		"provider": "gcp_videointelligence",
		"uri":      uri,
	}
	if len(labels) > 0 {
		md["labels"] = labels
	}
	return b.String(), md, nil
}

func (p *videoProvider) Close() error {
	return p.client.Close()
}

func collectVideoLabels(ann []*vipb.LabelAnnotation, max int) []string {
	labels := make([]string, 0, max)
	for _, la := range ann {
		if la == nil || la.Entity == nil {
			continue
		}
		desc := strings.TrimSpace(la.Entity.Description)
		if desc == "" {
			continue
		}
		labels = append(labels, desc)
		if len(labels) >= max {
			break
		}
	}
	return labels
}

func collectVideoTranscript(st []*vipb.SpeechTranscription) string {
	var b strings.Builder
	for _, tr := range st {
		if tr == nil || len(tr.Alternatives) == 0 || tr.Alternatives[0] == nil {
			continue
		}
		txt := strings.TrimSpace(tr.Alternatives[0].Transcript)
		if txt == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(txt)
	}
	return b.String()
}
