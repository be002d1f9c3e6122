package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/averyk/jobscout/internal/dedup"
	"github.com/averyk/jobscout/internal/store"
)

var (
	dedupeWindow int
	dedupeDryRun bool
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove duplicate postings",
	Long:  "Cluster postings that share a normalized title within the date window and delete all but the most complete posting of each cluster.",
	RunE:  runDedupe,
}

func init() {
	dedupeCmd.Flags().IntVar(&dedupeWindow, "window", 0, "cluster window in days (default from config)")
	dedupeCmd.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "report what would be deleted without deleting")
	rootCmd.AddCommand(dedupeCmd)
}

func runDedupe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	window := dedupeWindow
	if window == 0 {
		window = cfg.Dedup.WindowDays
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	result, err := dedup.New(st, logger).Run(window, dedupeDryRun)
	if err != nil {
		logger.Error("dedupe failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%d duplicate groups, %d duplicates", result.Groups, result.Duplicates)
	if dedupeDryRun {
		fmt.Print(" [dry run]")
	}
	fmt.Println()
	return nil
}
