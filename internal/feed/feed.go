// Package feed fetches job postings from RSS/Atom feeds.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/averyk/jobscout/internal/model"
	"github.com/averyk/jobscout/internal/normalize"
)

// Fetcher retrieves and parses one RSS feed at a time. Cutoff filtering is
// the fetcher's responsibility: callers pass the per-feed cursor and get back
// only entries strictly newer than it.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewFetcher creates a feed fetcher.
func NewFetcher(client *http.Client, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// FetchFeed fetches feedURL and returns its entries as candidate postings,
// newest first, excluding entries at or before since (zero since means a full
// fetch). The second return value is the newest entry timestamp seen in this
// pass, for advancing the feed's fetch cursor; it is zero when no entries
// survive the cutoff.
func (f *Fetcher) FetchFeed(ctx context.Context, feedURL string, since time.Time) ([]model.Posting, time.Time, error) {
	parsed, err := f.fetch(ctx, feedURL)
	if err != nil {
		return nil, time.Time{}, err
	}

	feedTitle := parsed.Title
	if feedTitle == "" {
		feedTitle = feedURL
	}

	var postings []model.Posting
	var newest time.Time

	for _, entry := range parsed.Items {
		pubDate := entryTime(entry, f.now)

		// Entries at exactly the cursor timestamp count as already seen;
		// upsert idempotency covers the rare same-timestamp straggler.
		if !since.IsZero() && !pubDate.After(since) {
			continue
		}
		if pubDate.After(newest) {
			newest = pubDate
		}

		source := entryAuthor(entry)
		if source == "" {
			source = feedTitle
		}

		postings = append(postings, model.Posting{
			Title:       entry.Title,
			URL:         entry.Link,
			Description: normalize.Text(entry.Description),
			PostedDate:  pubDate.Format("2006-01-02"),
			Source:      source,
			Feed:        feedTitle,
			FeedURL:     feedURL,
		})
	}

	f.logger.Debug("fetched feed",
		"feed", feedURL,
		"entries", len(parsed.Items),
		"new", len(postings),
	)

	return postings, newest, nil
}

func (f *Fetcher) fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", feedURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("fetching feed %s", feedURL),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading feed %s: %w", feedURL, err)
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}
	return parsed, nil
}

// entryTime returns the entry's publication time: published, falling back to
// updated, falling back to now for feeds that omit dates entirely.
func entryTime(entry *gofeed.Item, now func() time.Time) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return now()
}

func entryAuthor(entry *gofeed.Item) string {
	if len(entry.Authors) > 0 && entry.Authors[0] != nil {
		return entry.Authors[0].Name
	}
	return ""
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or
// unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
