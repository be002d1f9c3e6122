package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/averyk/jobscout/internal/model"
)

// Profile records: key-value metadata plus ordered list tables consumed by
// the resume tooling. Thin CRUD; the schema's uniqueness constraints are the
// only invariants.

// ProfileValue returns the value for a profile key. ok is false when unset.
func (s *SQLiteStore) ProfileValue(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM profile_meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading profile key %q: %w", key, err)
	}
	return value, true, nil
}

// SetProfileValue upserts a profile key-value pair.
func (s *SQLiteStore) SetProfileValue(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO profile_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("setting profile key %q: %w", key, err)
	}
	return nil
}

// AddJobHistory inserts a work-experience entry and returns its ID.
func (s *SQLiteStore) AddJobHistory(h model.JobHistory) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO job_history (company, title, start_date, end_date, location, description, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?)",
		h.Company, h.Title, nullable(h.StartDate), nullable(h.EndDate), nullable(h.Location), nullable(h.Description), h.SortOrder,
	)
	if err != nil {
		return 0, fmt.Errorf("adding job history for %s: %w", h.Company, err)
	}
	return res.LastInsertId()
}

// ListJobHistory returns work-experience entries in display order.
func (s *SQLiteStore) ListJobHistory() ([]model.JobHistory, error) {
	rows, err := s.db.Query(
		"SELECT id, company, title, start_date, end_date, location, description, sort_order FROM job_history ORDER BY sort_order, id",
	)
	if err != nil {
		return nil, fmt.Errorf("listing job history: %w", err)
	}
	defer rows.Close()

	var out []model.JobHistory
	for rows.Next() {
		var h model.JobHistory
		var start, end, loc, desc sql.NullString
		var order sql.NullInt64
		if err := rows.Scan(&h.ID, &h.Company, &h.Title, &start, &end, &loc, &desc, &order); err != nil {
			return nil, fmt.Errorf("listing job history: %w", err)
		}
		h.StartDate, h.EndDate, h.Location, h.Description = start.String, end.String, loc.String, desc.String
		h.SortOrder = int(order.Int64)
		out = append(out, h)
	}
	return out, rows.Err()
}

// AddSkill inserts a skill (name unique) and returns its ID.
func (s *SQLiteStore) AddSkill(sk model.Skill) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO skills (name, category, proficiency, sort_order) VALUES (?, ?, ?, ?)",
		sk.Name, sk.Category, nullable(sk.Proficiency), sk.SortOrder,
	)
	if err != nil {
		return 0, fmt.Errorf("adding skill %q: %w", sk.Name, err)
	}
	return res.LastInsertId()
}

// ListSkills returns skills, optionally filtered by category, in display order.
func (s *SQLiteStore) ListSkills(category string) ([]model.Skill, error) {
	query := "SELECT id, name, category, proficiency, sort_order FROM skills"
	var params []any
	if category != "" {
		query += " WHERE category = ?"
		params = append(params, category)
	}
	query += " ORDER BY sort_order, id"

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("listing skills: %w", err)
	}
	defer rows.Close()

	var out []model.Skill
	for rows.Next() {
		var sk model.Skill
		var prof sql.NullString
		var order sql.NullInt64
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Category, &prof, &order); err != nil {
			return nil, fmt.Errorf("listing skills: %w", err)
		}
		sk.Proficiency = prof.String
		sk.SortOrder = int(order.Int64)
		out = append(out, sk)
	}
	return out, rows.Err()
}

// AddEducation inserts an education entry and returns its ID.
func (s *SQLiteStore) AddEducation(e model.Education) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO education (institution, degree, field, start_date, end_date, description, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.Institution, nullable(e.Degree), nullable(e.Field), nullable(e.StartDate), nullable(e.EndDate), nullable(e.Description), e.SortOrder,
	)
	if err != nil {
		return 0, fmt.Errorf("adding education %q: %w", e.Institution, err)
	}
	return res.LastInsertId()
}

// AddCertification inserts a certification entry and returns its ID.
func (s *SQLiteStore) AddCertification(c model.Certification) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO certifications (name, issuer, date_earned, sort_order) VALUES (?, ?, ?, ?)",
		c.Name, nullable(c.Issuer), nullable(c.DateEarned), c.SortOrder,
	)
	if err != nil {
		return 0, fmt.Errorf("adding certification %q: %w", c.Name, err)
	}
	return res.LastInsertId()
}

// AddHonor inserts an honors/awards entry and returns its ID.
func (s *SQLiteStore) AddHonor(h model.Honor) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO honors (name, issuer, description, sort_order) VALUES (?, ?, ?, ?)",
		h.Name, nullable(h.Issuer), nullable(h.Description), h.SortOrder,
	)
	if err != nil {
		return 0, fmt.Errorf("adding honor %q: %w", h.Name, err)
	}
	return res.LastInsertId()
}
