package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// schemaSQL bootstraps the database. Every statement uses IF NOT EXISTS so
// opening an existing database is a no-op.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS sources (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS feeds (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	url        TEXT UNIQUE,
	source_id  INTEGER REFERENCES sources(id),
	last_fetch TEXT
);

CREATE TABLE IF NOT EXISTS jobs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	title           TEXT NOT NULL,
	url             TEXT NOT NULL UNIQUE,
	description     TEXT,
	posted_date     TEXT,
	source_id       INTEGER REFERENCES sources(id),
	feed_id         INTEGER REFERENCES feeds(id),
	score           REAL CHECK (score IS NULL OR (score >= 0 AND score <= 10)),
	score_rationale TEXT,
	status          TEXT NOT NULL DEFAULT 'new'
	                    CHECK (status IN ('new', 'interested', 'passed', 'applied', 'rejected', 'offer')),
	location_label  TEXT CHECK (location_label IS NULL OR location_label IN ('Seattle', 'Remote', 'Review for location')),
	job_type        TEXT,
	pay_range       TEXT,
	contract_duration TEXT,
	resume_md             TEXT,
	resume_pdf_path       TEXT,
	cover_letter_md       TEXT,
	cover_letter_pdf_path TEXT,
	created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%S', 'now')),
	updated_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%S', 'now'))
);

CREATE TRIGGER IF NOT EXISTS jobs_updated_at
	AFTER UPDATE ON jobs
	FOR EACH ROW
BEGIN
	UPDATE jobs SET updated_at = strftime('%Y-%m-%dT%H:%M:%S', 'now')
	WHERE id = OLD.id;
END;

CREATE TABLE IF NOT EXISTS profile_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS job_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	company     TEXT NOT NULL,
	title       TEXT NOT NULL,
	start_date  TEXT,
	end_date    TEXT,
	location    TEXT,
	description TEXT,
	sort_order  INTEGER
);

CREATE TABLE IF NOT EXISTS education (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	institution TEXT NOT NULL,
	degree      TEXT,
	field       TEXT,
	start_date  TEXT,
	end_date    TEXT,
	description TEXT,
	sort_order  INTEGER
);

CREATE TABLE IF NOT EXISTS certifications (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	issuer      TEXT,
	date_earned TEXT,
	sort_order  INTEGER
);

CREATE TABLE IF NOT EXISTS honors (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	issuer      TEXT,
	description TEXT,
	sort_order  INTEGER
);

CREATE TABLE IF NOT EXISTS skills (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	category    TEXT NOT NULL
	                CHECK (category IN (
	                    'writing', 'api_dev_tools', 'ai_ml',
	                    'content_strategy', 'taxonomy_ia', 'tools', 'languages'
	                )),
	proficiency TEXT CHECK (proficiency IS NULL OR proficiency IN (
	                    'expert', 'advanced', 'intermediate', 'familiar'
	                )),
	sort_order  INTEGER
);

CREATE INDEX IF NOT EXISTS idx_jobs_status         ON jobs (status);
CREATE INDEX IF NOT EXISTS idx_jobs_score          ON jobs (score);
CREATE INDEX IF NOT EXISTS idx_jobs_posted_date    ON jobs (posted_date);
CREATE INDEX IF NOT EXISTS idx_jobs_status_score   ON jobs (status, score DESC);
CREATE INDEX IF NOT EXISTS idx_jobs_location_label ON jobs (location_label);
CREATE INDEX IF NOT EXISTS idx_skills_category     ON skills (category);
`

// SQLiteStore owns the jobs database: jobs, provenance (sources/feeds with
// fetch cursors), and profile records. One instance per run, passed by
// reference to everything that needs persistence.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at dbPath and ensures the schema
// exists.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
