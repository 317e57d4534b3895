package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/llm"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  `Serve /api/match-industry and the industry catalog endpoints until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open catalog: %w", err)
			}
			defer store.Close()

			provider, err := newProvider(ctx, cfg.LLM)
			if err != nil {
				return fmt.Errorf("failed to create LLM provider: %w", err)
			}
			defer func() { _ = llm.Close(provider) }()

			m := newMatcher(store, provider, cfg.Matcher)
			checkFallback(ctx, store, m.FallbackSlug())

			srv := server.New(cfg.Server, m, store, store, zap.L())

			zap.L().Info("starting journ3y",
				zap.String("version", version),
				zap.String("database", cfg.Database.Driver),
				zap.String("llm_provider", cfg.LLM.Provider))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
