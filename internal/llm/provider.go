// Package llm talks to the external text-generation service that produces
// candidate view specifications. All network, retry and response-salvage
// concerns live here; the validation core only ever sees a decoded batch of
// candidates.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/serhataydn/viewgen/internal/config"
	"github.com/serhataydn/viewgen/internal/schema"
	"github.com/serhataydn/viewgen/internal/view"
	"github.com/serhataydn/viewgen/pkg/logger"
)

type Request struct {
	System      string
	Prompt      string
	Temperature float64
}

type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

type Client struct {
	provider    Provider
	temperature float64
	maxRetries  int
	backoff     time.Duration
	log         *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	timeout := time.Duration(cfg.LLM.Timeout) * time.Second

	var provider Provider
	switch cfg.LLM.Provider {
	case "ollama":
		provider = NewOllama(cfg.LLM.BaseURL, cfg.LLM.Model, timeout)
	case "openai":
		provider = NewOpenAICompat(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.APIKey, timeout)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}

	return &Client{
		provider:    provider,
		temperature: cfg.LLM.Temperature,
		maxRetries:  cfg.LLM.MaxRetries,
		backoff:     time.Duration(cfg.LLM.RetryBackoff * float64(time.Second)),
		log:         log,
	}, nil
}

// Generate calls the provider, retrying transient failures with exponential
// backoff. Cancellation is honored between attempts.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff * time.Duration(1<<(attempt-1))
			c.log.Debugf("retrying %s generation in %s (attempt %d/%d)",
				c.provider.Name(), delay, attempt+1, c.maxRetries)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}

		text, err := c.provider.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}

	return "", fmt.Errorf("%s generation failed after %d attempts: %w", c.provider.Name(), c.maxRetries, lastErr)
}

// GenerateViews asks the provider for a batch of candidate view specs over
// the given schema and decodes whatever comes back, salvaging near-miss
// shapes where possible.
func (c *Client) GenerateViews(ctx context.Context, graph *schema.Graph, numViews int) ([]view.Candidate, error) {
	c.log.Infof("Generating %d candidate views with %s...", numViews, c.provider.Name())

	text, err := c.Generate(ctx, Request{
		System:      SystemPrompt(),
		Prompt:      UserPrompt(graph.PromptContext(), numViews),
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, err
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, fmt.Errorf("failed to extract JSON from completion: %w", err)
	}

	candidates, err := view.DecodeBatch(raw)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Decoded %d candidate views", len(candidates))
	return candidates, nil
}
