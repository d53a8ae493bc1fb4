package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Groq calls an OpenAI-compatible /chat/completions endpoint.
type Groq struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

func NewGroq(cfg Config, opts ...Option) (*Groq, error) {
	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("%w: GROQ_API_KEY is required when AI_PROVIDER=groq", ErrMisconfigured)
	}
	if cfg.GroqBaseURL == "" || cfg.GroqModel == "" {
		return nil, fmt.Errorf("%w: GROQ_BASE_URL and GROQ_MODEL are required", ErrMisconfigured)
	}
	o := buildOptions(cfg.GroqTimeout, opts)
	return &Groq{
		baseURL: strings.TrimRight(cfg.GroqBaseURL, "/"),
		apiKey:  cfg.GroqAPIKey,
		model:   cfg.GroqModel,
		client:  o.client,
		logger:  o.logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Groq) GenerateText(ctx context.Context, p Prompt) (string, error) {
	started := time.Now()

	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		Temperature: 0.7,
		MaxTokens:   2048,
		TopP:        0.9,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", classifyTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransport(err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", fmt.Errorf("%w: GROQ_API_KEY is invalid or expired", ErrUnavailable)
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	default:
		var errResp chatErrorResponse
		msg := strings.TrimSpace(string(raw))
		if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		return "", fmt.Errorf("%w: groq returned status %d: %s", ErrUpstream, resp.StatusCode, msg)
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: failed to parse response: %w", ErrUpstream, err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}

	logGenerated(ctx, g.logger, ProviderGroq, g.model, started)
	return text, nil
}

// Ping lists the models visible to the API key, so a revoked key fails too.
func (g *Groq) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	return ping(g.client, req, ProviderGroq)
}
