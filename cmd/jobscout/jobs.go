package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/averyk/jobscout/internal/store"
)

var (
	jobsStatus   string
	jobsSource   string
	jobsMinScore float64
	jobsOrderBy  string
	jobsLimit    int
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List stored jobs",
	RunE:  runJobs,
}

func init() {
	jobsCmd.Flags().StringVar(&jobsStatus, "status", "", "filter by status")
	jobsCmd.Flags().StringVar(&jobsSource, "source", "", "filter by source name")
	jobsCmd.Flags().Float64Var(&jobsMinScore, "min-score", -1, "filter by minimum score")
	jobsCmd.Flags().StringVar(&jobsOrderBy, "order-by", "", "sort order, e.g. \"score DESC\" or \"posted_date ASC\"")
	jobsCmd.Flags().IntVar(&jobsLimit, "limit", 0, "maximum rows (0 = all)")
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
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

	opts := store.ListOptions{
		Status:  jobsStatus,
		Source:  jobsSource,
		OrderBy: jobsOrderBy,
		Limit:   jobsLimit,
	}
	if jobsMinScore >= 0 {
		opts.MinScore = &jobsMinScore
	}

	jobs, err := st.List(opts)
	if err != nil {
		logger.Error("failed to list jobs", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSCORE\tLOCATION\tPOSTED\tTITLE")
	for _, job := range jobs {
		score := "-"
		if job.Score != nil {
			score = fmt.Sprintf("%.1f", *job.Score)
		}
		label := job.LocationLabel
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			job.ID, job.Status, score, label, job.PostedDate, job.Title)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	fmt.Printf("\n%d jobs\n", len(jobs))
	return nil
}
