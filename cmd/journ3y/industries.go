package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/cli"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/common"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/service"
)

func industriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "industries",
		Short: "Manage industry verticals",
		Long:  `List, add, activate, deactivate and seed the industry verticals the matcher chooses from.`,
	}

	cmd.AddCommand(listIndustriesCmd())
	cmd.AddCommand(addIndustryCmd())
	cmd.AddCommand(setIndustryActiveCmd("activate", true))
	cmd.AddCommand(setIndustryActiveCmd("deactivate", false))
	cmd.AddCommand(seedIndustriesCmd())

	return cmd
}

// withStorage runs fn against an opened catalog.
func withStorage(ctx context.Context, fn func(service.Storage) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}

func listIndustriesCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List industries",
		Long:  `Display active industries, or every industry with --all.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd.Context(), func(store service.Storage) error {
				var (
					industries []model.Industry
					err        error
				)
				if all {
					industries, err = store.ListIndustries(cmd.Context())
				} else {
					industries, err = store.ListActiveIndustries(cmd.Context())
				}
				if err != nil {
					return fmt.Errorf("failed to list industries: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(industries) == 0 {
					fmt.Fprintln(out, cli.FormatWarning("No industries found. Use 'journ3y industries add' or 'journ3y industries seed' to create some."))
					return nil
				}
				return cli.WriteIndustries(out, industries)
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include inactive industries")
	return cmd
}

func addIndustryCmd() *cobra.Command {
	var (
		industry model.Industry
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "add <slug>",
		Short: "Add an industry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			industry.Slug = args[0]
			industry.IsActive = !inactive

			return withStorage(cmd.Context(), func(store service.Storage) error {
				if err := store.CreateIndustry(cmd.Context(), &industry); err != nil {
					if errors.Is(err, common.ErrDuplicateEntry) {
						return fmt.Errorf("industry %q already exists", industry.Slug)
					}
					return fmt.Errorf("failed to add industry: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s (%s)", industry.Name, industry.Slug)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&industry.Name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&industry.Tagline, "tagline", "", "short tagline")
	cmd.Flags().StringVar(&industry.IconName, "icon", "", "icon name")
	cmd.Flags().StringVar(&industry.Description, "description", "", "landing page description")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the industry deactivated")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func setIndustryActiveCmd(use string, active bool) *cobra.Command {
	verb := "Activated"
	if !active {
		verb = "Deactivated"
	}

	return &cobra.Command{
		Use:   use + " <slug>",
		Short: verb[:len(verb)-1] + " an industry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			return withStorage(cmd.Context(), func(store service.Storage) error {
				if err := store.SetIndustryActive(cmd.Context(), slug, active); err != nil {
					if errors.Is(err, common.ErrNotFound) {
						return fmt.Errorf("industry %q not found", slug)
					}
					return fmt.Errorf("failed to update industry: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(verb+" "+slug))
				return nil
			})
		},
	}
}

// seedFile is the YAML layout accepted by `industries seed`.
type seedFile struct {
	Industries []seedIndustry `yaml:"industries"`
}

type seedIndustry struct {
	Active      *bool  `yaml:"active"`
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Tagline     string `yaml:"tagline"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
}

// parseSeedFile decodes a seed document. Industries are active unless they say otherwise.
func parseSeedFile(r io.Reader) ([]model.Industry, error) {
	var doc seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Industries))
	industries := make([]model.Industry, 0, len(doc.Industries))
	for i, s := range doc.Industries {
		if !model.ValidSlug(s.Slug) {
			return nil, fmt.Errorf("industry %d: invalid slug %q", i+1, s.Slug)
		}
		if _, dup := seen[s.Slug]; dup {
			return nil, fmt.Errorf("industry %d: duplicate slug %q", i+1, s.Slug)
		}
		seen[s.Slug] = struct{}{}

		active := true
		if s.Active != nil {
			active = *s.Active
		}
		industries = append(industries, model.Industry{
			Slug:        s.Slug,
			Name:        s.Name,
			Tagline:     s.Tagline,
			IconName:    s.Icon,
			Description: s.Description,
			IsActive:    active,
		})
	}
	return industries, nil
}

// seedIndustries upserts industries and reports how many were created and updated.
func seedIndustries(ctx context.Context, store service.Storage, industries []model.Industry) (created, updated int, err error) {
	for i := range industries {
		isNew, err := store.UpsertIndustry(ctx, &industries[i])
		if err != nil {
			return created, updated, fmt.Errorf("failed to seed %q: %w", industries[i].Slug, err)
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}

func seedIndustriesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or update industries from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open seed file: %w", err)
			}
			defer f.Close()

			industries, err := parseSeedFile(f)
			if err != nil {
				return err
			}

			return withStorage(cmd.Context(), func(store service.Storage) error {
				created, updated, err := seedIndustries(cmd.Context(), store, industries)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Seeded %d industries (%d created, %d updated)", created+updated, created, updated)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "industries.yaml", "seed file")
	return cmd
}
