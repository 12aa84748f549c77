// Package crawl implements the crawl command: run every configured source
// (or one selected with --source), export feed files, and persist accepted
// articles.
package crawl

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finradar/bankcrawl/cmd/common"
	"github.com/finradar/bankcrawl/internal/crawler"
	"github.com/finradar/bankcrawl/internal/dates"
	"github.com/finradar/bankcrawl/internal/output"
	"github.com/finradar/bankcrawl/internal/sources"
	"github.com/finradar/bankcrawl/internal/storage"
)

// Command returns the crawl command.
func Command() *cobra.Command {
	var sourceID string

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl configured news sources",
		Long: `Crawl every configured news source for recent articles. Accepted
articles are written as JSON feed files and stored in the article
database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd.Context(), sourceID)
		},
	}

	cmd.Flags().StringVar(&sourceID, "source", "", "crawl only the source with this id")
	return cmd
}

func runCrawl(ctx context.Context, sourceID string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return err
	}

	allSources, err := deps.LoadSources()
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}
	selected, err := selectSources(allSources, sourceID)
	if err != nil {
		return err
	}

	return RunAll(ctx, deps, selected)
}

// RunAll crawls the given sources sequentially and persists the results.
// Shared by the crawl command and the scheduler.
func RunAll(ctx context.Context, deps *common.Deps, selected []*sources.Source) error {
	store, err := storage.Open(deps.Config.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open article store: %w", err)
	}
	defer func() { _ = store.Close() }()

	writer, err := output.NewWriter(deps.Config.Output.Dir)
	if err != nil {
		return err
	}

	clock := dates.SystemClock()
	for _, src := range selected {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := runSource(ctx, deps, store, writer, clock, src); err != nil {
			// One failing source must not stop the others.
			deps.Logger.Error("Source crawl failed", "source", src.ID, "error", err)
		}
	}
	return nil
}

func runSource(
	ctx context.Context,
	deps *common.Deps,
	store *storage.Store,
	writer *output.Writer,
	clock dates.Clock,
	src *sources.Source,
) error {
	runStarted := clock.Now()

	c, err := crawler.New(&deps.Config.Crawler, src, deps.Logger, clock)
	if err != nil {
		return err
	}

	articles, err := c.Run(ctx)
	if err != nil {
		return err
	}

	feedPath, err := writer.Write(src.ID, runStarted, articles)
	if err != nil {
		return err
	}

	stored := 0
	for i := range articles {
		inserted, saveErr := store.SaveArticle(ctx, src.ID, &articles[i])
		if saveErr != nil {
			deps.Logger.Warn("Failed to store article",
				"source", src.ID,
				"url", articles[i].URL,
				"error", saveErr,
			)
			continue
		}
		if inserted {
			stored++
		}
	}

	deps.Logger.Info("Source crawl complete",
		"source", src.ID,
		"articles", len(articles),
		"stored_new", stored,
		"feed", feedPath,
	)
	return nil
}

func selectSources(all []*sources.Source, sourceID string) ([]*sources.Source, error) {
	if sourceID == "" {
		return all, nil
	}
	for _, src := range all {
		if src.ID == sourceID {
			return []*sources.Source{src}, nil
		}
	}
	return nil, fmt.Errorf("unknown source %q", sourceID)
}
