package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/averyk/jobscout/internal/model"
)

// ErrScoreOutOfRange is returned by UpdateScore for scores outside [0, 10].
// A violation is a rejected write, never a silent clamp.
var ErrScoreOutOfRange = errors.New("score must be between 0 and 10")

// ErrUnknownStatus is returned by UpdateStatus for statuses outside the enum.
var ErrUnknownStatus = errors.New("unknown job status")

// selectJobs joins sources and feeds so rows carry human-readable names.
const selectJobs = `
SELECT j.id, j.title, j.url, j.description, j.posted_date,
       s.name, f.name,
       j.score, j.score_rationale, j.status, j.location_label,
       j.job_type, j.pay_range, j.contract_duration,
       j.resume_md, j.resume_pdf_path, j.cover_letter_md, j.cover_letter_pdf_path,
       j.created_at, j.updated_at
  FROM jobs j
  LEFT JOIN sources s ON j.source_id = s.id
  LEFT JOIN feeds   f ON j.feed_id   = f.id`

// orderByAllowList maps permitted order_by values to the clause actually
// executed. Anything else silently falls back to created_at DESC; user input
// is never interpolated into SQL.
var orderByAllowList = map[string]string{
	"id":               "j.id",
	"id ASC":           "j.id ASC",
	"id DESC":          "j.id DESC",
	"title":            "j.title",
	"title ASC":        "j.title ASC",
	"title DESC":       "j.title DESC",
	"status":           "j.status",
	"status ASC":       "j.status ASC",
	"status DESC":      "j.status DESC",
	"score":            "j.score",
	"score ASC":        "j.score ASC",
	"score DESC":       "j.score DESC",
	"posted_date":      "j.posted_date",
	"posted_date ASC":  "j.posted_date ASC",
	"posted_date DESC": "j.posted_date DESC",
	"created_at":       "j.created_at",
	"created_at ASC":   "j.created_at ASC",
	"created_at DESC":  "j.created_at DESC",
}

const defaultOrderBy = "j.created_at DESC"

// ListOptions are the optional filters for List. Zero values mean "no filter".
type ListOptions struct {
	Status   string
	Source   string
	MinScore *float64
	OrderBy  string // validated against the allow-list
	Limit    int    // 0 = no limit
}

// Upsert inserts a job keyed by URL, or on conflict updates title,
// description, posted_date and provenance while leaving every triage field
// (status, score, rationale, resume/cover-letter artifacts) untouched.
// Source and feed names are resolved to provenance rows, created if absent.
func (s *SQLiteStore) Upsert(p model.Posting) (*model.Job, error) {
	var sourceID, feedID any

	if p.Source != "" {
		id, err := s.getOrCreateSource(p.Source)
		if err != nil {
			return nil, fmt.Errorf("upserting job %s: %w", p.URL, err)
		}
		sourceID = id
	}
	if p.Feed != "" {
		var parent int64
		if id, ok := sourceID.(int64); ok {
			parent = id
		}
		id, err := s.getOrCreateFeed(p.Feed, p.FeedURL, parent)
		if err != nil {
			return nil, fmt.Errorf("upserting job %s: %w", p.URL, err)
		}
		feedID = id
	}

	var id int64
	err := s.db.QueryRow(`
		INSERT INTO jobs (title, url, description, posted_date, source_id, feed_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title       = excluded.title,
			description = excluded.description,
			posted_date = excluded.posted_date,
			source_id   = excluded.source_id,
			feed_id     = excluded.feed_id
		RETURNING id`,
		p.Title, p.URL, nullable(p.Description), nullable(p.PostedDate), sourceID, feedID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("upserting job %s: %w", p.URL, err)
	}

	return s.Get(id)
}

// Get fetches a single job by ID. Returns (nil, nil) when no row exists.
func (s *SQLiteStore) Get(id int64) (*model.Job, error) {
	row := s.db.QueryRow(selectJobs+" WHERE j.id = ?", id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching job %d: %w", id, err)
	}
	return job, nil
}

// GetByURL fetches a single job by URL. Returns (nil, nil) when no row exists.
func (s *SQLiteStore) GetByURL(url string) (*model.Job, error) {
	row := s.db.QueryRow(selectJobs+" WHERE j.url = ?", url)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching job by url %s: %w", url, err)
	}
	return job, nil
}

// List returns jobs matching the given filters, ordered per opts.OrderBy.
func (s *SQLiteStore) List(opts ListOptions) ([]model.Job, error) {
	var clauses []string
	var params []any

	if opts.Status != "" {
		clauses = append(clauses, "j.status = ?")
		params = append(params, opts.Status)
	}
	if opts.Source != "" {
		clauses = append(clauses, "s.name = ?")
		params = append(params, opts.Source)
	}
	if opts.MinScore != nil {
		clauses = append(clauses, "j.score >= ?")
		params = append(params, *opts.MinScore)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	orderBy, ok := orderByAllowList[opts.OrderBy]
	if !ok {
		orderBy = defaultOrderBy
	}

	query := selectJobs + where + " ORDER BY " + orderBy
	if opts.Limit > 0 {
		query += " LIMIT ?"
		params = append(params, opts.Limit)
	}

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("listing jobs: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

// UpdateStatus sets a job's status. Returns (nil, nil) when the job does not
// exist; rejects statuses outside the enum before touching the database.
func (s *SQLiteStore) UpdateStatus(id int64, status string) (*model.Job, error) {
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("updating status for job %d: %w: %q", id, ErrUnknownStatus, status)
	}

	res, err := s.db.Exec("UPDATE jobs SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return nil, fmt.Errorf("updating status for job %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating status for job %d: %w", id, err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.Get(id)
}

// UpdateScore sets a job's score (0..10 or nil to clear) and rationale.
// Returns (nil, nil) when the job does not exist.
func (s *SQLiteStore) UpdateScore(id int64, score *float64, rationale string) (*model.Job, error) {
	if score != nil && (*score < 0 || *score > 10) {
		return nil, fmt.Errorf("updating score for job %d: %w: %v", id, ErrScoreOutOfRange, *score)
	}

	var scoreVal any
	if score != nil {
		scoreVal = *score
	}
	res, err := s.db.Exec(
		"UPDATE jobs SET score = ?, score_rationale = ? WHERE id = ?",
		scoreVal, nullable(rationale), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating score for job %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating score for job %d: %w", id, err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.Get(id)
}

// UpdateTitle replaces a job's title (used by the classifier's title cleanup).
func (s *SQLiteStore) UpdateTitle(id int64, title string) error {
	if _, err := s.db.Exec("UPDATE jobs SET title = ? WHERE id = ?", title, id); err != nil {
		return fmt.Errorf("updating title for job %d: %w", id, err)
	}
	return nil
}

// UpdateClassification persists the classifier's decision fields. Empty
// strings clear nothing: only non-empty values are written.
func (s *SQLiteStore) UpdateClassification(id int64, locationLabel, jobType, payRange, contractDuration string) error {
	var sets []string
	var params []any

	if locationLabel != "" {
		sets = append(sets, "location_label = ?")
		params = append(params, locationLabel)
	}
	if jobType != "" {
		sets = append(sets, "job_type = ?")
		params = append(params, jobType)
	}
	if payRange != "" {
		sets = append(sets, "pay_range = ?")
		params = append(params, payRange)
	}
	if contractDuration != "" {
		sets = append(sets, "contract_duration = ?")
		params = append(params, contractDuration)
	}
	if len(sets) == 0 {
		return nil
	}

	params = append(params, id)
	query := "UPDATE jobs SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.Exec(query, params...); err != nil {
		return fmt.Errorf("updating classification for job %d: %w", id, err)
	}
	return nil
}

// Delete removes a job by ID. Returns true iff a row existed.
func (s *SQLiteStore) Delete(id int64) (bool, error) {
	res, err := s.db.Exec("DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting job %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting job %d: %w", id, err)
	}
	return n > 0, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(sc scanner) (*model.Job, error) {
	var j model.Job
	var desc, posted, source, feed, rationale, label, jobType, pay, duration sql.NullString
	var resumeMD, resumePDF, coverMD, coverPDF sql.NullString
	var score sql.NullFloat64

	err := sc.Scan(
		&j.ID, &j.Title, &j.URL, &desc, &posted,
		&source, &feed,
		&score, &rationale, &j.Status, &label,
		&jobType, &pay, &duration,
		&resumeMD, &resumePDF, &coverMD, &coverPDF,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	j.Description = desc.String
	j.PostedDate = posted.String
	j.Source = source.String
	j.Feed = feed.String
	j.ScoreRationale = rationale.String
	j.LocationLabel = label.String
	j.JobType = jobType.String
	j.PayRange = pay.String
	j.ContractDuration = duration.String
	j.ResumeMD = resumeMD.String
	j.ResumePDFPath = resumePDF.String
	j.CoverLetterMD = coverMD.String
	j.CoverLetterPDFPath = coverPDF.String
	if score.Valid {
		v := score.Float64
		j.Score = &v
	}
	return &j, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
