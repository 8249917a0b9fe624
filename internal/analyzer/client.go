package analyzer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultEndpoint  = "https://api.anthropic.com/v1/messages"
	defaultModel     = "claude-3-5-sonnet-20241022"
	defaultMaxTokens = 2048
	apiVersion       = "2023-06-01"
)

// ClientConfig configures the vision-API strategy. Credentials are
// passed in explicitly at construction; there is no ambient global.
type ClientConfig struct {
	APIKey     string
	Model      string
	Endpoint   string
	MaxTokens  int
	HTTPClient *http.Client
}

// Client asks a multimodal vision API to read the whole table from a
// screenshot and return the fixed analysis schema.
type Client struct {
	cfg    ClientConfig
	logger *log.Logger
}

// NewClient creates the vision-API strategy. A missing API key is
// allowed here so the server can construct its strategy set up front;
// Analyze surfaces ErrUnconfigured when the key is actually needed.
func NewClient(logger *log.Logger, cfg ClientConfig) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{cfg: cfg, logger: logger.WithPrefix("analyzer")}
}

// Name implements Strategy.
func (c *Client) Name() string { return "vision-api" }

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze implements Strategy. The image goes up base64-encoded with
// the fixed analysis prompt; the reply must be the JSON schema, with
// or without markdown fences.
func (c *Client) Analyze(ctx context.Context, image []byte) (*Analysis, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrUnconfigured
	}

	reqBody := apiRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages: []apiMessage{{
			Role: "user",
			Content: []apiContent{
				{
					Type: "image",
					Source: &imageSource{
						Type:      "base64",
						MediaType: detectMediaType(image),
						Data:      base64.StdEncoding.EncodeToString(image),
					},
				},
				{Type: "text", Text: analysisPrompt},
			},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return nil, fmt.Errorf("vision api: %s (%s)", parsed.Error.Message, parsed.Error.Type)
		}
		return nil, fmt.Errorf("vision api: unexpected status %d", resp.StatusCode)
	}
	if len(parsed.Content) == 0 {
		return nil, fmt.Errorf("vision api: empty response")
	}

	text := stripFences(parsed.Content[0].Text)
	var analysis Analysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		c.logger.Error("Analysis was not valid JSON", "error", err, "head", head(text, 200))
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	if analysis.Recommendation.Action == "" {
		return nil, fmt.Errorf("parse analysis: missing recommendation action")
	}

	c.logger.Info("Vision analysis complete",
		"action", analysis.Recommendation.Action,
		"position", analysis.GameInfo.HeroPosition,
		"heroTurn", analysis.GameInfo.IsHeroTurn)
	return &analysis, nil
}

// stripFences removes a markdown code fence wrapper, if present.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// detectMediaType sniffs the image container from its magic bytes,
// defaulting to JPEG.
func detectMediaType(data []byte) string {
	if len(data) >= 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		return "image/png"
	}
	if len(data) >= 4 && bytes.HasPrefix(data, []byte("GIF8")) {
		return "image/gif"
	}
	if len(data) >= 12 && bytes.Equal(data[8:12], []byte("WEBP")) {
		return "image/webp"
	}
	return "image/jpeg"
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
