package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/newsweave/aggregator/internal/aggregate"
	"github.com/newsweave/aggregator/internal/archive"
	"github.com/newsweave/aggregator/internal/config"
	"github.com/newsweave/aggregator/internal/document"
	"github.com/newsweave/aggregator/internal/feed"
	"github.com/newsweave/aggregator/internal/fetch"
	"github.com/newsweave/aggregator/internal/index"
)

var (
	verbose bool
	quiet   bool
	listURL string
)

var rootCmd = &cobra.Command{
	Use:   "aggregator",
	Short: "Crawl a feed list and query the resulting article index",
	Long: `Downloads every feed in a feed list, fetches and tokenizes the articles
they reference, merges duplicates that appear at multiple URLs, and drops
into an interactive query loop over the resulting index.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run()
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log crawl progress")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")
	rootCmd.Flags().StringVarP(&listURL, "url", "u", "", "feed list URL or path (default: bundled list)")
}

func run() {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	cfg := config.Load()
	if listURL != "" {
		cfg.FeedListURL = listURL
	}

	ctx := context.Background()

	client := fetch.NewClient(cfg.Timeout(), cfg.RatePerSecond, cfg.UserAgent)
	searchIndex := index.New()

	deps := aggregate.Deps{
		FeedList:  feed.NewListSource(client, cfg.FeedListURL),
		Feeds:     feed.NewSource(client),
		Documents: document.NewSource(client),
		Index:     searchIndex,
	}

	if cfg.ArchiveDBURL != "" {
		store, err := archive.Connect(ctx, cfg.ArchiveDBURL)
		if err != nil {
			slog.Error("archive unavailable, continuing without it", "err", err)
		} else {
			defer store.Close()
			deps.Archive = store
		}
	}

	agg := aggregate.New(aggregate.Config{
		FeedWorkers:    cfg.FeedWorkers,
		ArticleWorkers: cfg.ArticleWorkers,
	}, deps)
	agg.BuildIndex(ctx)

	queryLoop(os.Stdin, os.Stdout, searchIndex)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
