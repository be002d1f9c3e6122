package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/averyk/jobscout/internal/ai"
	"github.com/averyk/jobscout/internal/config"
	"github.com/averyk/jobscout/internal/feed"
	"github.com/averyk/jobscout/internal/location"
	"github.com/averyk/jobscout/internal/model"
	"github.com/averyk/jobscout/internal/pipeline"
	"github.com/averyk/jobscout/internal/search"
	"github.com/averyk/jobscout/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Job feed aggregator and triage tool",
	Long:  "Jobscout pulls postings from RSS feeds and web search, dedupes and classifies them, and keeps a local triage queue.",
	// Default to `run` so that `jobscout` with no args runs the pipeline.
	// This keeps cron entries that invoke the binary directly working.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSCOUT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// setupAnalyzer builds the classifier: LLM-backed when ai.enabled, the
// pattern-rule classifier otherwise.
func setupAnalyzer(cfg *config.Config, logger *slog.Logger) model.Analyzer {
	if !cfg.AI.Enabled {
		return location.NewRuleAnalyzer(location.NewClassifier(cfg.MetroCities))
	}

	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	provider := ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)
	return ai.NewLLMAnalyzer(provider, ai.JobAnalysisTemplate, logger)
}

// setupSearch builds the web-search source, or nil when disabled.
func setupSearch(cfg *config.Config, logger *slog.Logger) model.PostingSource {
	if !cfg.Search.Enabled {
		return nil
	}

	httpClient := &http.Client{Timeout: 5 * time.Minute} // web search is slow
	return search.NewSource(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.Search.Roles, cfg.Search.Domains, httpClient, logger)
}

func buildPipeline(cfg *config.Config, st *store.SQLiteStore, analyzer model.Analyzer, logger *slog.Logger) *pipeline.Pipeline {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	fetcher := feed.NewFetcher(httpClient, logger)
	searchSource := setupSearch(cfg, logger)
	return pipeline.New(st, fetcher, cfg.Feeds, searchSource, analyzer, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)
}
