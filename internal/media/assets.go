package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/envutil"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

const maxFetchBytes = 32 << 20

// AssetService persists captured media in GCS and resolves attachment
// references back into payloads. Inbound references are either messaging
// channel download URLs (http/https) or keys of objects already staged in
// the bucket.
type AssetService struct {
	log        *logger.Logger
	client     *storage.Client
	httpClient *http.Client
	bucket     string
}

func NewAssetService(ctx context.Context, log *logger.Logger) (*AssetService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	bucket := envutil.String("MEDIA_GCS_BUCKET_NAME", "")
	if bucket == "" {
		return nil, fmt.Errorf("missing env var MEDIA_GCS_BUCKET_NAME")
	}

	opts := append(gcpClientOptions(), option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	return &AssetService{
		log:        log.With("service", "AssetService"),
		client:     client,
		httpClient: &http.Client{Timeout: envutil.Duration("MEDIA_FETCH_TIMEOUT", 2*time.Minute)},
		bucket:     bucket,
	}, nil
}

func isRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Fetch returns the raw payload behind an attachment reference.
func (s *AssetService) Fetch(ctx context.Context, ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty asset ref")
	}
	if isRemoteRef(ref) {
		return s.fetchRemote(ctx, ref)
	}

	r, err := s.client.Bucket(s.bucket).Object(ref).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS reader for %q: %w", ref, err)
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read GCS object %q: %w", ref, err)
	}
	return data, nil
}

func (s *AssetService) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build media download request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download media: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read media download: %w", err)
	}
	return data, nil
}

// URI yields a provider-addressable location for an attachment reference.
// Bucket keys become gs:// URIs; remote URLs pass through untouched.
func (s *AssetService) URI(ref string) string {
	ref = strings.TrimSpace(ref)
	if isRemoteRef(ref) {
		return ref
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, strings.TrimLeft(ref, "/"))
}

// Store copies an attachment into the capture bucket and returns the new
// object key. References already pointing at the bucket are returned as-is.
func (s *AssetService) Store(ctx context.Context, att *domain.Attachment) (string, error) {
	if att == nil {
		return "", fmt.Errorf("nil attachment")
	}
	ref := strings.TrimSpace(att.AssetRef)
	if ref == "" {
		return "", fmt.Errorf("attachment has no asset ref")
	}
	if !isRemoteRef(ref) {
		return ref, nil
	}

	data, err := s.fetchRemote(ctx, ref)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("captures/%s%s", uuid.NewString(), extensionForMime(att.MimeType))
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if att.MimeType != "" {
		w.ContentType = att.MimeType
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write GCS object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close GCS writer for %q: %w", key, err)
	}

	s.log.Info("Stored capture asset", "key", key, "mime_type", att.MimeType, "bytes", len(data))
	return key, nil
}

func (s *AssetService) Close() error {
	return s.client.Close()
}

func extensionForMime(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "audio/ogg":
		return ".ogg"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}
