package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/averyk/jobscout/internal/store"
)

var (
	analyzeJobIDs []int64
	analyzeDryRun bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the classifier over stored jobs",
	Long:  "Classify jobs already in the database: all jobs with status \"new\", or the jobs named with --job-id.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int64SliceVar(&analyzeJobIDs, "job-id", nil, "job ID to analyze (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeDryRun, "dry-run", false, "report decisions without writing anything")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

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

	stats, err := p.Classify(ctx, analyzeJobIDs, analyzeDryRun)
	if err != nil {
		logger.Error("classifier pass failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("analyzed %d: kept %d, review %d, deleted %d, pay found %d, titles cleaned %d",
		stats.Analyzed, stats.Kept, stats.Review, stats.Deleted, stats.PayFound, stats.TitlesCleaned)
	if analyzeDryRun {
		fmt.Print(" [dry run]")
	}
	fmt.Println()
	return nil
}
