// Package pipeline orchestrates one batch run: fetch postings from the
// configured sources, merge them into the job store, advance the per-feed
// fetch cursors, and run the classifier pass.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/averyk/jobscout/internal/model"
	"github.com/averyk/jobscout/internal/retry"
	"github.com/averyk/jobscout/internal/store"
)

// JobStore is the slice of the store the pipeline needs.
type JobStore interface {
	Upsert(p model.Posting) (*model.Job, error)
	Get(id int64) (*model.Job, error)
	List(opts store.ListOptions) ([]model.Job, error)
	UpdateTitle(id int64, title string) error
	UpdateClassification(id int64, locationLabel, jobType, payRange, contractDuration string) error
	Delete(id int64) (bool, error)
	AllLastFetches() (map[string]time.Time, error)
	SetLastFetch(feedURL string, t time.Time) error
}

// FeedFetcher fetches one feed's postings newer than the given cursor.
type FeedFetcher interface {
	FetchFeed(ctx context.Context, feedURL string, since time.Time) ([]model.Posting, time.Time, error)
}

// Options restrict what a pipeline run does.
type Options struct {
	RSSOnly      bool
	SearchOnly   bool
	SkipAnalyzer bool
	DryRun       bool // report decisions, mutate nothing
}

// Summary reports one pipeline run.
type Summary struct {
	Fetched  int
	Upserted int
	Classify Stats
}

// Stats reports one classifier pass. Dry and live runs over the same data
// produce identical stats; only live runs mutate.
type Stats struct {
	Analyzed      int
	Kept          int
	Deleted       int
	Review        int
	PayFound      int
	TitlesCleaned int
}

// Pipeline wires the fetch sources, the store, and the classifier together.
// Everything runs sequentially in one goroutine; a failing feed, posting, or
// classification is logged and skipped, never fatal to the batch.
type Pipeline struct {
	store      JobStore
	fetcher    FeedFetcher
	feedURLs   []string
	search     model.PostingSource // nil when web search is not configured
	analyzer   model.Analyzer
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// New creates a pipeline. search may be nil to disable the web-search stage;
// analyzer may be nil to disable the classifier pass.
func New(st JobStore, fetcher FeedFetcher, feedURLs []string, search model.PostingSource, analyzer model.Analyzer, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:      st,
		fetcher:    fetcher,
		feedURLs:   feedURLs,
		search:     search,
		analyzer:   analyzer,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Run executes the full batch: RSS fetch, web search, classifier pass.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Summary, error) {
	var summary Summary

	if !opts.SearchOnly {
		fetched, upserted, err := p.runRSS(ctx, opts.DryRun)
		if err != nil {
			return summary, err
		}
		summary.Fetched += fetched
		summary.Upserted += upserted
	}

	if !opts.RSSOnly && p.search != nil {
		fetched, upserted := p.runSearch(ctx, opts.DryRun)
		summary.Fetched += fetched
		summary.Upserted += upserted
	}

	if !opts.SkipAnalyzer && p.analyzer != nil {
		stats, err := p.Classify(ctx, nil, opts.DryRun)
		if err != nil {
			return summary, err
		}
		summary.Classify = stats
	}

	p.logger.Info("pipeline complete",
		"fetched", summary.Fetched,
		"upserted", summary.Upserted,
		"dry_run", opts.DryRun,
	)
	return summary, nil
}

// runRSS fetches every configured feed. One feed failing is isolated: its
// error is logged and the remaining feeds still run. A feed's cursor only
// advances after every one of its new entries upserted cleanly.
func (p *Pipeline) runRSS(ctx context.Context, dryRun bool) (fetched, upserted int, err error) {
	cursors, err := p.store.AllLastFetches()
	if err != nil {
		return 0, 0, fmt.Errorf("rss fetch: %w", err)
	}

	for _, feedURL := range p.feedURLs {
		since := cursors[feedURL]

		type fetchResult struct {
			postings []model.Posting
			newest   time.Time
		}
		result, err := retry.Do(ctx, func(ctx context.Context) (fetchResult, error) {
			postings, newest, err := p.fetcher.FetchFeed(ctx, feedURL, since)
			return fetchResult{postings, newest}, err
		}, p.maxRetries, p.baseDelay, p.logger)
		if err != nil {
			p.logger.Error("feed fetch failed, skipping feed", "feed", feedURL, "error", err)
			continue
		}

		fetched += len(result.postings)

		feedClean := true
		for _, posting := range result.postings {
			if dryRun {
				upserted++
				continue
			}
			if _, err := p.store.Upsert(posting); err != nil {
				p.logger.Error("upsert failed, skipping posting", "url", posting.URL, "error", err)
				feedClean = false
				continue
			}
			upserted++
		}

		if dryRun || result.newest.IsZero() {
			continue
		}
		if !feedClean {
			// A lost posting would be skipped forever if the cursor moved
			// past it; leave the cursor so the next run retries.
			p.logger.Warn("not advancing fetch cursor after upsert failures", "feed", feedURL)
			continue
		}
		if err := p.store.SetLastFetch(feedURL, result.newest); err != nil {
			p.logger.Error("failed to advance fetch cursor", "feed", feedURL, "error", err)
		}
	}

	p.logger.Info("rss fetch complete", "feeds", len(p.feedURLs), "fetched", fetched, "upserted", upserted)
	return fetched, upserted, nil
}

// runSearch runs the web-search source. Search has no cursor semantics and
// its failure never fails the batch.
func (p *Pipeline) runSearch(ctx context.Context, dryRun bool) (fetched, upserted int) {
	postings, err := retry.Do(ctx, p.search.Postings, p.maxRetries, p.baseDelay, p.logger)
	if err != nil {
		p.logger.Error("web search failed, skipping", "error", err)
		return 0, 0
	}

	fetched = len(postings)
	for _, posting := range postings {
		if dryRun {
			upserted++
			continue
		}
		if _, err := p.store.Upsert(posting); err != nil {
			p.logger.Error("upsert failed, skipping posting", "url", posting.URL, "error", err)
			continue
		}
		upserted++
	}

	p.logger.Info("web search complete", "fetched", fetched, "upserted", upserted)
	return fetched, upserted
}

// Classify runs the analyzer over the given job IDs, or over every job with
// status "new" when jobIDs is empty, and applies the decisions. A DELETE
// decision removes the job; any other label is persisted along with the
// non-sentinel extracted fields and a changed cleaned title.
func (p *Pipeline) Classify(ctx context.Context, jobIDs []int64, dryRun bool) (Stats, error) {
	var jobs []model.Job

	if len(jobIDs) > 0 {
		for _, id := range jobIDs {
			job, err := p.store.Get(id)
			if err != nil {
				return Stats{}, fmt.Errorf("classify pass: %w", err)
			}
			if job == nil {
				p.logger.Warn("job not found, skipping", "job_id", id)
				continue
			}
			jobs = append(jobs, *job)
		}
	} else {
		var err error
		jobs, err = p.store.List(store.ListOptions{Status: model.StatusNew})
		if err != nil {
			return Stats{}, fmt.Errorf("classify pass: %w", err)
		}
	}

	var stats Stats
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("classify pass: %w", err)
		}

		analysis := p.analyzer.Analyze(ctx, job)
		stats.Analyzed++

		p.logger.Info("job analyzed",
			"job_id", job.ID,
			"label", analysis.LocationLabel,
			"reasoning", analysis.LocationReasoning,
			"dry_run", dryRun,
		)

		if analysis.LocationLabel == model.LabelDelete {
			stats.Deleted++
			if !dryRun {
				if _, err := p.store.Delete(job.ID); err != nil {
					p.logger.Error("delete failed", "job_id", job.ID, "error", err)
				}
			}
			continue
		}

		if analysis.LocationLabel == model.LabelReview {
			stats.Review++
		} else {
			stats.Kept++
		}
		if analysis.PayRange != model.NotSpecified {
			stats.PayFound++
		}
		if analysis.TitleCleaned != job.Title {
			stats.TitlesCleaned++
		}

		if dryRun {
			continue
		}

		jobType := analysis.JobType
		if jobType == "Not specified" {
			jobType = ""
		}
		payRange := analysis.PayRange
		if payRange == model.NotSpecified {
			payRange = ""
		}
		duration := analysis.ContractDuration
		if duration == model.NotSpecified {
			duration = ""
		}
		if err := p.store.UpdateClassification(job.ID, analysis.LocationLabel, jobType, payRange, duration); err != nil {
			p.logger.Error("classification update failed", "job_id", job.ID, "error", err)
			continue
		}
		if analysis.TitleCleaned != job.Title {
			if err := p.store.UpdateTitle(job.ID, analysis.TitleCleaned); err != nil {
				p.logger.Error("title update failed", "job_id", job.ID, "error", err)
			}
		}
	}

	p.logger.Info("classifier pass complete",
		"analyzed", stats.Analyzed,
		"kept", stats.Kept,
		"deleted", stats.Deleted,
		"review", stats.Review,
		"dry_run", dryRun,
	)
	return stats, nil
}
