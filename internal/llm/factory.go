package llm

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Supported provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// NewProvider creates a provider from configuration. When cfg.RateLimit is
// positive the returned provider also implements io.Closer.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	var (
		provider Provider
		err      error
	)

	switch strings.ToLower(cfg.Provider) {
	case ProviderAnthropic, "":
		provider, err = newAnthropicProvider(cfg)
	case ProviderGemini:
		provider, err = newGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RateLimit > 0 {
		provider = &limitedProvider{next: provider, limiter: newRateLimiter(cfg.RateLimit)}
	}

	return provider, nil
}

// Close releases resources held by p if it holds any.
func Close(p Provider) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
