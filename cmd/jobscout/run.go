package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/averyk/jobscout/internal/pipeline"
	"github.com/averyk/jobscout/internal/store"
)

var (
	runRSSOnly      bool
	runSearchOnly   bool
	runSkipAnalyzer bool
	runDryRun       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, ingest, and classify new postings",
	Long:  "Run the full batch: fetch RSS feeds and web search, merge into the database, then classify new jobs.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runRSSOnly, "rss-only", false, "only fetch RSS feeds")
	runCmd.Flags().BoolVar(&runSearchOnly, "search-only", false, "only run the web search")
	runCmd.Flags().BoolVar(&runSkipAnalyzer, "skip-analyzer", false, "skip the classifier pass")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "report what would happen without writing anything")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if runRSSOnly && runSearchOnly {
		return fmt.Errorf("--rss-only and --search-only are mutually exclusive")
	}

	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"db", cfg.DBPath,
		"feeds", len(cfg.Feeds),
		"ai", cfg.AI.Enabled,
		"search", cfg.Search.Enabled,
	)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyzer := setupAnalyzer(cfg, logger)
	p := buildPipeline(cfg, st, analyzer, logger)

	summary, err := p.Run(ctx, pipeline.Options{
		RSSOnly:      runRSSOnly,
		SearchOnly:   runSearchOnly,
		SkipAnalyzer: runSkipAnalyzer,
		DryRun:       runDryRun,
	})
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("fetched %d, upserted %d", summary.Fetched, summary.Upserted)
	if !runSkipAnalyzer {
		fmt.Printf(", analyzed %d (kept %d, review %d, deleted %d)",
			summary.Classify.Analyzed, summary.Classify.Kept, summary.Classify.Review, summary.Classify.Deleted)
	}
	if runDryRun {
		fmt.Print(" [dry run]")
	}
	fmt.Println()
	return nil
}
