// Package ai talks to the configured text-generation provider.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gnemet/DeckForge/internal/config"
	"github.com/gnemet/DeckForge/internal/database"
	"github.com/gnemet/DeckForge/internal/metrics"
)

// Generator turns a prompt into free-form text.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// UsageRecorder persists token accounting for a call.
type UsageRecorder interface {
	LogAIUsage(ctx context.Context, u *database.AIUsage) error
}

// completion is a provider response normalized across drivers.
type completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type backend interface {
	generate(ctx context.Context, prompt string) (completion, error)
	close() error
}

// Client wraps one provider backend with timeouts, metrics and usage logging.
type Client struct {
	provider string
	model    string
	timeout  time.Duration
	backend  backend
	usage    UsageRecorder
}

// Option customizes a Client.
type Option func(*Client)

// WithUsageRecorder stores token usage of every successful call.
func WithUsageRecorder(r UsageRecorder) Option {
	return func(c *Client) { c.usage = r }
}

// NewClient builds a client for cfg's active provider.
func NewClient(ctx context.Context, cfg *config.AIConfig, opts ...Option) (*Client, error) {
	settings, ok := cfg.Active()
	if !ok {
		return nil, fmt.Errorf("ai provider %q is not configured", cfg.ActiveProvider)
	}

	var (
		b   backend
		err error
	)
	switch settings.Driver {
	case "gemini":
		b, err = newGeminiBackend(ctx, settings)
	case "openai":
		b, err = newOpenAIBackend(settings)
	case "mock":
		b = newMockBackend("")
	default:
		return nil, fmt.Errorf("unsupported ai driver %q", settings.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to init %s client: %w", settings.Driver, err)
	}

	c := &Client{
		provider: cfg.ActiveProvider,
		model:    settings.Model,
		timeout:  cfg.Timeout,
		backend:  b,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Provider is the configured provider name.
func (c *Client) Provider() string { return c.provider }

// Model is the configured model name.
func (c *Client) Model() string { return c.model }

// GenerateContent sends prompt to the provider and returns its text.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := c.backend.generate(ctx, prompt)
	elapsed := time.Since(start)
	metrics.RecordLLMCall(c.provider, c.model, elapsed.Seconds(), err)

	if err != nil {
		log.Error().Err(err).
			Str("provider", c.provider).
			Str("model", c.model).
			Dur("elapsed", elapsed).
			Msg("AI call failed")
		return "", err
	}

	metrics.RecordTokens(c.provider, c.model, res.PromptTokens, res.CompletionTokens)
	log.Debug().
		Str("provider", c.provider).
		Int("chars", len(res.Text)).
		Int("total_tokens", res.TotalTokens).
		Dur("elapsed", elapsed).
		Msg("AI call finished")

	if c.usage != nil {
		u := &database.AIUsage{
			Provider:         c.provider,
			Model:            c.model,
			PromptTokens:     res.PromptTokens,
			CompletionTokens: res.CompletionTokens,
			TotalTokens:      res.TotalTokens,
		}
		if err := c.usage.LogAIUsage(ctx, u); err != nil {
			log.Warn().Err(err).Msg("failed to record AI usage")
		}
	}

	return res.Text, nil
}

// Close releases provider resources.
func (c *Client) Close() error {
	return c.backend.close()
}
