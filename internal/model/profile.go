package model

// Profile records used by the resume tooling. Simple list entities with a
// manual sort order for display; no invariants beyond the uniqueness the
// store enforces (profile key, skill name).

type ProfileMeta struct {
	Key   string
	Value string
}

type JobHistory struct {
	ID          int64
	Company     string
	Title       string
	StartDate   string
	EndDate     string
	Location    string
	Description string
	SortOrder   int
}

type Education struct {
	ID          int64
	Institution string
	Degree      string
	Field       string
	StartDate   string
	EndDate     string
	Description string
	SortOrder   int
}

type Certification struct {
	ID         int64
	Name       string
	Issuer     string
	DateEarned string
	SortOrder  int
}

type Honor struct {
	ID          int64
	Name        string
	Issuer      string
	Description string
	SortOrder   int
}

type Skill struct {
	ID          int64
	Name        string
	Category    string
	Proficiency string
	SortOrder   int
}
