// Package matcher classifies free-text business descriptions against the
// active industry catalog using a hosted language model.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/common"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/llm"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/service"
)

// Defaults applied by New to zero Config fields.
const (
	DefaultFallbackSlug         = "professional-services"
	DefaultMaxDescriptionLength = 2000
	DefaultMaxAlternates        = 3
	DefaultProviderTimeout      = 20 * time.Second
	DefaultMaxReasoningLength   = 500
)

// Config controls matching behavior.
type Config struct {
	// FallbackSlug must name an active vertical.
	FallbackSlug         string
	MaxDescriptionLength int
	MaxAlternates        int
	ProviderTimeout      time.Duration
	MaxReasoningLength   int
}

func (c Config) withDefaults() Config {
	if c.FallbackSlug == "" {
		c.FallbackSlug = DefaultFallbackSlug
	}
	if c.MaxDescriptionLength <= 0 {
		c.MaxDescriptionLength = DefaultMaxDescriptionLength
	}
	if c.MaxAlternates <= 0 {
		c.MaxAlternates = DefaultMaxAlternates
	}
	if c.ProviderTimeout <= 0 {
		c.ProviderTimeout = DefaultProviderTimeout
	}
	if c.MaxReasoningLength <= 0 {
		c.MaxReasoningLength = DefaultMaxReasoningLength
	}
	return c
}

// Matcher resolves descriptions to industries. It holds no per-request state
// and is safe for concurrent use.
type Matcher struct {
	catalog  service.Catalog
	provider llm.Provider
	logger   *zap.Logger
	cfg      Config
}

// New creates a Matcher. A nil provider is allowed and makes every match fail
// with KindNotConfigured.
func New(catalog service.Catalog, provider llm.Provider, cfg Config, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{
		catalog:  catalog,
		provider: provider,
		cfg:      cfg.withDefaults(),
		logger:   logger.Named("matcher"),
	}
}

// FallbackSlug returns the configured fallback vertical.
func (m *Matcher) FallbackSlug() string {
	return m.cfg.FallbackSlug
}

// Match classifies description. Failures are *Error values.
func (m *Matcher) Match(ctx context.Context, description string) (*model.MatchResult, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, newError(KindInvalidInput, errors.New("business description is empty"))
	}
	if m.provider == nil {
		return nil, newError(KindNotConfigured, fmt.Errorf("classification provider: %w", common.ErrMissingConfig))
	}
	description = truncateRunes(description, m.cfg.MaxDescriptionLength)

	candidates, err := m.catalog.ListActiveIndustries(ctx)
	if err != nil {
		m.logger.Error("failed to load active industries", zap.Error(err))
		return nil, newError(KindCatalogUnavailable, err)
	}
	if len(candidates) == 0 {
		m.logger.Error("no active industries in catalog")
		return nil, newError(KindCatalogUnavailable, errors.New("no active industries"))
	}

	active := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		active[c.Slug] = struct{}{}
	}

	text, err := m.classify(ctx, buildPrompt(description, candidates, m.cfg.FallbackSlug, m.cfg.MaxAlternates))
	if err != nil {
		return nil, err
	}

	var fields classification
	switch r := parseClassification(text).(type) {
	case parsedOK:
		fields = r.fields
	case parsedInvalid:
		m.logger.Warn("provider returned unparseable classification",
			zap.Error(r.err),
			zap.Int("response_length", len(text)))
		return nil, newError(KindProviderContractViolation, r.err)
	}

	fixed := repairClassification(fields, active, m.cfg.FallbackSlug, m.cfg.MaxReasoningLength)
	if fixed.fellBack {
		m.logger.Info("provider match not in active set, using fallback",
			zap.String("provider_slug", fields.MatchedIndustry),
			zap.String("fallback_slug", fixed.slug))
	}

	matched, err := m.catalog.GetIndustryBySlug(ctx, fixed.slug)
	switch {
	case err != nil:
		m.logger.Error("failed to resolve matched industry", zap.String("slug", fixed.slug), zap.Error(err))
		return nil, newError(KindCatalogUnavailable, fmt.Errorf("resolve %s: %w", fixed.slug, err))
	case matched == nil || !matched.IsActive:
		m.logger.Error("matched industry is not active", zap.String("slug", fixed.slug))
		return nil, newError(KindCatalogUnavailable, fmt.Errorf("resolve %s: %w", fixed.slug, common.ErrNotFound))
	}

	return &model.MatchResult{
		MatchedIndustry:     *matched,
		Confidence:          fixed.confidence,
		Reasoning:           fixed.reasoning,
		AlternateIndustries: m.resolveAlternates(ctx, fields.AlternateIndustries, active, matched.Slug),
	}, nil
}

// classify makes the single provider call for a request.
func (m *Matcher) classify(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.ProviderTimeout)
	defer cancel()

	start := time.Now()
	text, err := m.provider.Complete(ctx, prompt)
	if err != nil {
		m.logger.Error("classification request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		if errors.Is(err, llm.ErrNoTextContent) {
			return "", newError(KindProviderContractViolation, err)
		}
		return "", newError(KindProviderUnavailable, err)
	}

	m.logger.Debug("classification received", zap.Duration("elapsed", time.Since(start)))
	return text, nil
}

func (m *Matcher) resolveAlternates(ctx context.Context, slugs []string, active map[string]struct{}, matched string) []model.IndustrySummary {
	keep := filterAlternates(slugs, active, matched, m.cfg.MaxAlternates)
	if len(keep) == 0 {
		return []model.IndustrySummary{}
	}

	summaries, err := m.catalog.GetIndustriesBySlugs(ctx, keep)
	if err != nil {
		m.logger.Warn("failed to resolve alternate industries", zap.Strings("slugs", keep), zap.Error(err))
		return []model.IndustrySummary{}
	}
	return orderSummaries(keep, summaries)
}
