package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// getOrCreateSource returns the source ID for name, creating a row if needed.
func (s *SQLiteStore) getOrCreateSource(name string) (int64, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM sources WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("looking up source %q: %w", name, err)
	}

	res, err := s.db.Exec("INSERT INTO sources (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("creating source %q: %w", name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("creating source %q: %w", name, err)
	}
	return id, nil
}

// getOrCreateFeed returns the feed ID for name, creating a row if needed.
// Lookup prefers URL (most precise), then name. A feed found by name with no
// recorded URL gets the URL backfilled; an existing differing URL is never
// overwritten. sourceID of zero means no source reference.
func (s *SQLiteStore) getOrCreateFeed(name, url string, sourceID int64) (int64, error) {
	var id int64

	if url != "" {
		err := s.db.QueryRow("SELECT id FROM feeds WHERE url = ?", url).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("looking up feed by url %q: %w", url, err)
		}
	}

	err := s.db.QueryRow("SELECT id FROM feeds WHERE name = ?", name).Scan(&id)
	if err == nil {
		if url != "" {
			if _, err := s.db.Exec("UPDATE feeds SET url = ? WHERE id = ? AND url IS NULL", url, id); err != nil {
				return 0, fmt.Errorf("backfilling url for feed %q: %w", name, err)
			}
		}
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("looking up feed %q: %w", name, err)
	}

	var src any
	if sourceID != 0 {
		src = sourceID
	}
	res, err := s.db.Exec("INSERT INTO feeds (name, url, source_id) VALUES (?, ?, ?)", name, nullable(url), src)
	if err != nil {
		return 0, fmt.Errorf("creating feed %q: %w", name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("creating feed %q: %w", name, err)
	}
	return id, nil
}

// LastFetch returns the fetch cursor for a feed URL: the posting time of the
// newest entry successfully ingested. ok is false when no cursor is recorded.
func (s *SQLiteStore) LastFetch(feedURL string) (time.Time, bool, error) {
	var raw sql.NullString
	err := s.db.QueryRow("SELECT last_fetch FROM feeds WHERE url = ?", feedURL).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading last fetch for %s: %w", feedURL, err)
	}
	if !raw.Valid {
		return time.Time{}, false, nil
	}

	t, err := time.Parse(time.RFC3339, raw.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing last fetch for %s: %w", feedURL, err)
	}
	return t, true, nil
}

// AllLastFetches returns feed URL → fetch cursor for every feed with a
// recorded cursor.
func (s *SQLiteStore) AllLastFetches() (map[string]time.Time, error) {
	rows, err := s.db.Query("SELECT url, last_fetch FROM feeds WHERE url IS NOT NULL AND last_fetch IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("reading last fetches: %w", err)
	}
	defer rows.Close()

	cursors := make(map[string]time.Time)
	for rows.Next() {
		var url, raw string
		if err := rows.Scan(&url, &raw); err != nil {
			return nil, fmt.Errorf("reading last fetches: %w", err)
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("parsing last fetch for %s: %w", url, err)
		}
		cursors[url] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading last fetches: %w", err)
	}
	return cursors, nil
}

// SetLastFetch records the fetch cursor for a feed URL. If no feed row exists
// for this URL, a minimal one is created using the URL as a placeholder name.
func (s *SQLiteStore) SetLastFetch(feedURL string, t time.Time) error {
	raw := t.Format(time.RFC3339)

	res, err := s.db.Exec("UPDATE feeds SET last_fetch = ? WHERE url = ?", raw, feedURL)
	if err != nil {
		return fmt.Errorf("setting last fetch for %s: %w", feedURL, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting last fetch for %s: %w", feedURL, err)
	}
	if n == 0 {
		if _, err := s.db.Exec(
			"INSERT INTO feeds (name, url, last_fetch) VALUES (?, ?, ?)",
			feedURL, feedURL, raw,
		); err != nil {
			return fmt.Errorf("setting last fetch for %s: %w", feedURL, err)
		}
	}
	return nil
}
