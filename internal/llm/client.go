// Package llm provides the classification providers behind the industry matcher.
// It supports Anthropic and Gemini hosted models, each called once per prompt
// and returning the first text block of the model's reply.
package llm

import (
	"context"
	"errors"
)

// Provider errors.
var (
	// ErrNoTextContent means the provider answered but the reply held no text block.
	ErrNoTextContent = errors.New("no text content in response")
	// ErrMissingAPIKey means the provider credential is not configured.
	ErrMissingAPIKey = errors.New("api key is required")
	// ErrRateLimited means the local request budget was exhausted before the deadline.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Provider sends a single prompt to a hosted language model.
type Provider interface {
	// Complete returns the text of the first text block in the model's reply.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for a classification provider.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	// RateLimit caps outbound requests per minute; zero disables the limiter.
	RateLimit int
}

// systemPrompt frames every request regardless of provider.
const systemPrompt = "You classify small and medium business descriptions into industry verticals. " +
	"You reply with a single raw JSON object and nothing else."
