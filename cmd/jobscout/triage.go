package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/averyk/jobscout/internal/store"
	"github.com/averyk/jobscout/internal/triage"
)

var triageStatus string

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Review jobs interactively (TUI)",
	Long:  "Opens the triage TUI: scroll the job list, read descriptions, and set statuses.",
	RunE:  runTriage,
}

func init() {
	triageCmd.Flags().StringVar(&triageStatus, "status", "", "only show jobs with this status")
	rootCmd.AddCommand(triageCmd)
}

func runTriage(cmd *cobra.Command, args []string) error {
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

	jobs, err := st.List(store.ListOptions{Status: triageStatus, OrderBy: "posted_date DESC"})
	if err != nil {
		logger.Error("failed to list jobs", "error", err)
		os.Exit(1)
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs to triage.")
		return nil
	}

	return triage.Run(jobs, st)
}
