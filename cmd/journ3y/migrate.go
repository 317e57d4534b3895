package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply catalog schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := initStorage(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			version, err := store.SchemaVersion(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Catalog schema is up to date (version %d)", version)))
			return nil
		},
	}
}
