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

// Ollama calls the /api/generate endpoint of an Ollama server without
// streaming.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

func NewOllama(cfg Config, opts ...Option) (*Ollama, error) {
	if cfg.OllamaBaseURL == "" || cfg.OllamaModel == "" {
		return nil, fmt.Errorf("%w: OLLAMA_BASE_URL and OLLAMA_MODEL are required", ErrMisconfigured)
	}
	o := buildOptions(cfg.OllamaTimeout, opts)
	return &Ollama{
		baseURL: strings.TrimRight(cfg.OllamaBaseURL, "/"),
		model:   cfg.OllamaModel,
		client:  o.client,
		logger:  o.logger,
	}, nil
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	NumPredict  int      `json:"num_predict"`
	Stop        []string `json:"stop"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

func (g *Ollama) GenerateText(ctx context.Context, p Prompt) (string, error) {
	started := time.Now()

	body, err := json.Marshal(ollamaRequest{
		Model:  g.model,
		Prompt: p.System + "\n\nProject details:\n" + p.User,
		Stream: false,
		Options: ollamaOptions{
			Temperature: 0.7,
			TopP:        0.9,
			NumPredict:  1536,
			Stop:        []string{"---", "\n\n\n"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", classifyTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransport(err)
	}

	var out ollamaResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		msg := out.Error
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "not found") && (strings.Contains(lower, "model") || strings.Contains(msg, g.model)) {
			return "", fmt.Errorf("%w: model %s is not pulled", ErrUnavailable, g.model)
		}
		return "", fmt.Errorf("%w: ollama returned status %d: %s", ErrUpstream, resp.StatusCode, msg)
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", ErrEmptyResponse
	}

	logGenerated(ctx, g.logger, ProviderOllama, g.model, started)
	return text, nil
}

// Ping lists the pulled models, which any running Ollama server answers.
func (g *Ollama) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return ping(g.client, req, ProviderOllama)
}
