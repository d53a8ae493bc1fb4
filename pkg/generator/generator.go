package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/dmitrymomot/proposalkit/pkg/logger"
)

// Prompt is a system instruction plus the user's message.
type Prompt struct {
	System string
	User   string
}

type Generator interface {
	GenerateText(ctx context.Context, p Prompt) (string, error)
	// Ping checks that the provider answers without generating anything.
	Ping(ctx context.Context) error
}

type options struct {
	client *http.Client
	logger *slog.Logger
}

type Option func(*options)

// WithHTTPClient replaces the default client. Its Timeout is left as is.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// New builds the generator selected by cfg.Provider.
func New(cfg Config, opts ...Option) (Generator, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return NewOllama(cfg, opts...)
	case ProviderGroq:
		return NewGroq(cfg, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown AI_PROVIDER %q", ErrMisconfigured, cfg.Provider)
	}
}

func buildOptions(timeout time.Duration, opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: timeout}
	}
	return o
}

// classifyTransport maps a failed round trip to a generator error.
func classifyTransport(err error) error {
	var netErr net.Error
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Join(ErrTimeout, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return errors.Join(ErrTimeout, err)
	case errors.Is(err, syscall.ECONNREFUSED), errors.As(err, &dnsErr):
		return errors.Join(ErrUnavailable, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return errors.Join(ErrUpstream, err)
	}
}

// ping sends req and treats any non-2xx answer as an unavailable provider.
func ping(client *http.Client, req *http.Request, provider string) error {
	resp, err := client.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s responded with status %d", ErrUnavailable, provider, resp.StatusCode)
	}
	return nil
}

func logGenerated(ctx context.Context, log *slog.Logger, provider, model string, started time.Time) {
	log.InfoContext(ctx, "text generated",
		logger.Component("generator"),
		slog.String("provider", provider),
		slog.String("model", model),
		logger.Duration(time.Since(started)),
	)
}
