package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/common"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/config"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/llm"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/matcher"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/service"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/storage"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initStorage opens the catalog, waits for it to answer, and applies migrations.
func initStorage(ctx context.Context, cfg config.DatabaseConfig) (service.Storage, error) {
	source := cfg.Path
	if cfg.Driver == config.DriverPostgres {
		source = cfg.DSN
	}

	var store *storage.SQLStorage
	// A hosted database may still be starting when the service boots.
	err := common.WithRetry(ctx, func() error {
		if store == nil {
			opened, err := storage.Open(cfg.Driver, source)
			if err != nil {
				return retryable(err)
			}
			store = opened
		}
		return retryable(store.Ping(ctx))
	}, common.RetryOptions{MaxAttempts: 5})
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// retryable marks configuration and credential failures as permanent.
func retryable(err error) error {
	if err != nil && storage.IsPermanent(err) {
		return &common.PermanentError{Err: err}
	}
	return err
}

// newProvider builds the classification provider. It returns a nil provider
// without error when no credential is configured.
func newProvider(ctx context.Context, cfg config.LLMConfig) (llm.Provider, error) {
	if cfg.APIKey == "" {
		zap.L().Warn("no LLM API key configured, industry matching is disabled",
			zap.String("provider", cfg.Provider))
		return nil, nil
	}

	return llm.NewProvider(ctx, llm.Config{
		Provider:    cfg.Provider,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		RateLimit:   cfg.RateLimit,
	})
}

func newMatcher(catalog service.Catalog, provider llm.Provider, cfg config.MatcherConfig) *matcher.Matcher {
	return matcher.New(catalog, provider, matcherConfig(cfg), zap.L())
}

func matcherConfig(cfg config.MatcherConfig) matcher.Config {
	return matcher.Config{
		FallbackSlug:         cfg.FallbackSlug,
		MaxDescriptionLength: cfg.MaxDescriptionLength,
		ProviderTimeout:      cfg.Timeout,
	}
}

// checkFallback warns when the fallback vertical cannot be served.
func checkFallback(ctx context.Context, catalog service.Catalog, slug string) {
	ind, err := catalog.GetIndustryBySlug(ctx, slug)
	switch {
	case err != nil:
		zap.L().Warn("fallback industry is missing from the catalog", zap.String("slug", slug), zap.Error(err))
	case !ind.IsActive:
		zap.L().Warn("fallback industry is inactive", zap.String("slug", slug))
	}
}
