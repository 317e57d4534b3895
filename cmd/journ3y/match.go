package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/cli"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/llm"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/matcher"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
)

// descriptionMatcher is the part of the matcher the match command needs.
type descriptionMatcher interface {
	Match(ctx context.Context, description string) (*model.MatchResult, error)
	FallbackSlug() string
}

func matchCmd() *cobra.Command {
	var (
		file        string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "match [description]",
		Short: "Match a business description to an industry",
		Long: `Match one description given as arguments, or every line of --file.
Batch runs print a per-industry tally instead of individual results.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" && len(args) == 0 {
				return errors.New("provide a description or --file")
			}

			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			provider, err := newProvider(ctx, cfg.LLM)
			if err != nil {
				return fmt.Errorf("failed to create LLM provider: %w", err)
			}
			defer func() { _ = llm.Close(provider) }()

			m := newMatcher(store, provider, cfg.Matcher)
			out := cmd.OutOrStdout()

			if file == "" {
				result, err := m.Match(ctx, strings.Join(args, " "))
				if err != nil {
					return describeMatchError(err)
				}
				fmt.Fprintln(out, cli.RenderMatch(result))
				return nil
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open descriptions: %w", err)
			}
			defer f.Close()

			descriptions, err := cli.ReadDescriptions(f)
			if err != nil {
				return err
			}

			tally, err := matchBatch(ctx, m, descriptions, batchOptions{
				concurrency: concurrency,
				progress:    cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			return tally.Write(out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "file with one description per line")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "concurrent matches in batch mode")

	return cmd
}

func describeMatchError(err error) error {
	var me *matcher.Error
	if errors.As(err, &me) {
		return fmt.Errorf("%s (%s): %w", me.UserMessage, me.Kind, me.Err)
	}
	return err
}

type batchOptions struct {
	progress    io.Writer
	concurrency int
}

// matchBatch matches descriptions with bounded concurrency. Individual match
// failures are tallied; only cancellation stops the batch.
func matchBatch(ctx context.Context, m descriptionMatcher, descriptions []string, opts batchOptions) (*cli.Tally, error) {
	if opts.concurrency < 1 {
		opts.concurrency = 1
	}
	if opts.progress == nil {
		opts.progress = io.Discard
	}

	bar := progressbar.NewOptions(len(descriptions),
		progressbar.OptionSetWriter(opts.progress),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Matching descriptions..."),
		progressbar.OptionClearOnFinish(),
	)

	tally := cli.NewTally()
	fallbackSlug := m.FallbackSlug()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)

	for _, d := range descriptions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := m.Match(gctx, d)
			if err != nil && errors.Is(err, context.Canceled) {
				return err
			}

			mu.Lock()
			if err != nil {
				zap.L().Debug("match failed", zap.String("description", d), zap.Error(err))
				tally.Add(nil, matcher.KindOf(err).String(), fallbackSlug)
			} else {
				tally.Add(result, "", fallbackSlug)
			}
			mu.Unlock()

			_ = bar.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return tally, fmt.Errorf("batch interrupted: %w", err)
	}
	_ = bar.Finish()
	return tally, nil
}
