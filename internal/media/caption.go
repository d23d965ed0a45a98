package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yungbote/converse-backend/internal/platform/envutil"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

// captionProvider talks to an OpenAI-compatible chat completions endpoint
// with image input. It backs the decode-qr and visual-question-answer
// capabilities, where a multimodal model beats classic CV APIs.
type captionProvider struct {
	log *logger.Logger

	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewCaptionProvider(log *logger.Logger) (CaptionProvider, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	return &captionProvider{
		log:        log.With("provider", "CaptionProvider"),
		httpClient: &http.Client{Timeout: envutil.Duration("CAPTION_HTTP_TIMEOUT", 60*time.Second)},
		baseURL:    strings.TrimRight(envutil.String("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
		apiKey:     apiKey,
		model:      envutil.String("CAPTION_MODEL", "gpt-4o-mini"),
	}, nil
}

type captionRequest struct {
	Model    string           `json:"model"`
	Messages []captionMessage `json:"messages"`
}

type captionMessage struct {
	Role    string        `json:"role"`
	Content []captionPart `json:"content"`
}

type captionPart struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	ImageURL *captionImageURL `json:"image_url,omitempty"`
}

type captionImageURL struct {
	URL string `json:"url"`
}

type captionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *captionProvider) Caption(ctx context.Context, img []byte, mimeType string, prompt string) (string, map[string]any, error) {
	if len(img) == 0 {
		return "", nil, fmt.Errorf("empty image payload")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(img))
	body := captionRequest{
		Model: c.model,
		Messages: []captionMessage{{
			Role: "user",
			Content: []captionPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &captionImageURL{URL: dataURL}},
			},
		}},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", nil, fmt.Errorf("marshal caption request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return "", nil, fmt.Errorf("build caption request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("caption request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", nil, fmt.Errorf("read caption response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("caption endpoint status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed captionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", nil, fmt.Errorf("decode caption response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil, fmt.Errorf("caption response has no choices")
	}

	md := map[string]any{
		"provider": "openai_caption",
		"model":    c.model,
	}
	if parsed.Usage.TotalTokens > 0 {
		md["total_tokens"] = parsed.Usage.TotalTokens
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), md, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
