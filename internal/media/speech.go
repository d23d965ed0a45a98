package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/converse-backend/internal/platform/envutil"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

type speechProvider struct {
	log    *logger.Logger
	client *speech.Client

	languageCode string
	maxRetries   int
}

// NewSpeechProvider builds the GCP Speech-to-Text provider. Voice replies
// in a capture are short, so the synchronous Recognize endpoint is enough.
func NewSpeechProvider(log *logger.Logger) (SpeechProvider, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("provider", "SpeechProvider")

	ctx := context.Background()
	c, err := speech.NewClient(ctx, gcpClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}

	return &speechProvider{
		log:          slog,
		client:       c,
		languageCode: envutil.String("SPEECH_LANGUAGE_CODE", "en-US"),
		maxRetries:   envutil.Int("SPEECH_MAX_RETRIES", 3),
	}, nil
}

func (s *speechProvider) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *speechProvider) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, map[string]any, error) {
	if len(audio) == 0 {
		return "", nil, fmt.Errorf("empty audio payload")
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:               s.languageCode,
			Encoding:                   inferSpeechEncoding(mimeType),
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	var resp *speechpb.RecognizeResponse
	err := withGCPRetry(ctx, s.maxRetries, func() error {
		var rerr error
		resp, rerr = s.client.Recognize(ctx, req)
		return rerr
	})
	if err != nil {
		return "", nil, fmt.Errorf("speech recognize: %w", err)
	}

	var full strings.Builder
	var confidenceSum float64
	var alternatives int
	for _, r := range resp.GetResults() {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if full.Len() > 0 {
			full.WriteString(" ")
		}
		full.WriteString(strings.TrimSpace(alts[0].GetTranscript()))
		confidenceSum += float64(alts[0].GetConfidence())
		alternatives++
	}

	md := map[string]any{
		"provider": "gcp_speech",
		"language": s.languageCode,
	}
	if alternatives > 0 {
		md["confidence"] = math.Round(confidenceSum/float64(alternatives)*1000) / 1000
	}
	return full.String(), md, nil
}

func inferSpeechEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(m, "wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3") || strings.Contains(m, "mpeg"):
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "ogg") || strings.Contains(m, "opus"):
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

func gcpClientOptions() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

// withGCPRetry retries transient RPC failures with capped exponential
// backoff. Anything else fails immediately.
func withGCPRetry(ctx context.Context, maxRetries int, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt >= maxRetries || !isRetryableGCP(err) {
			return err
		}
		delay := time.Duration(math.Min(float64(time.Second)*math.Pow(2, float64(attempt)), float64(10*time.Second)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func isRetryableGCP(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return true
	default:
		return false
	}
}
