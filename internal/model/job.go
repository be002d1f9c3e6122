package model

import "context"

// Job statuses, in triage order. The store enforces membership with a CHECK
// constraint; UpdateStatus validates before the write.
const (
	StatusNew        = "new"
	StatusInterested = "interested"
	StatusPassed     = "passed"
	StatusApplied    = "applied"
	StatusRejected   = "rejected"
	StatusOffer      = "offer"
)

// Location labels assigned by the classifier. LabelDelete is a decision, not
// a stored value: jobs classified DELETE are removed instead of labeled.
const (
	LabelSeattle = "Seattle"
	LabelRemote  = "Remote"
	LabelReview  = "Review for location"
	LabelDelete  = "DELETE"
)

// NotSpecified is the classifier sentinel for pay_range and contract_duration.
// Sentinel values are never persisted; they mean "leave the stored field alone".
const NotSpecified = "NOT_SPECIFIED"

// ValidStatus reports whether s is a known job status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusInterested, StatusPassed, StatusApplied, StatusRejected, StatusOffer:
		return true
	}
	return false
}

// Job is the central entity: one stored job posting, unique by URL.
type Job struct {
	ID          int64
	Title       string
	URL         string // natural key, unique
	Description string
	PostedDate  string // YYYY-MM-DD, empty if the feed gave no date
	Source      string // display name, resolved via the sources table
	Feed        string // display name, resolved via the feeds table

	// Triage fields set by the user or the classifier. Re-ingesting a URL
	// must never touch these.
	Score            *float64 // 0..10 or nil
	ScoreRationale   string
	Status           string
	LocationLabel    string
	JobType          string
	PayRange         string
	ContractDuration string

	// Resume/cover-letter artifacts produced by tooling outside this repo.
	ResumeMD           string
	ResumePDFPath      string
	CoverLetterMD      string
	CoverLetterPDFPath string

	CreatedAt string
	UpdatedAt string
}

// Posting is a candidate job coming off a fetch source, before it is merged
// into the jobs table.
type Posting struct {
	Title       string
	URL         string
	Description string
	PostedDate  string // YYYY-MM-DD, empty when the source gave no date
	Source      string
	Feed        string
	FeedURL     string
}

// PostingSource produces candidate postings from one origin (a set of RSS
// feeds, a web search). Sources that track a per-feed cutoff must exclude
// entries at or before it themselves; the pipeline does not re-filter.
type PostingSource interface {
	Postings(ctx context.Context) ([]Posting, error)
}

// Analysis is the classifier's decision for one job. Always well-formed:
// a failed analysis carries the safe default, never an error.
type Analysis struct {
	LocationLabel     string // Seattle, Remote, Review for location, or DELETE
	LocationReasoning string
	JobType           string // Full-time, Contract, Part-time, Not specified
	PayRange          string // free text or NOT_SPECIFIED
	ContractDuration  string // free text or NOT_SPECIFIED
	TitleCleaned      string
}

// Analyzer classifies a job's location/type/pay from its text.
type Analyzer interface {
	Analyze(ctx context.Context, job Job) Analysis
}
