package store

import (
	"testing"

	"github.com/averyk/jobscout/internal/model"
)

func TestProfileValueRoundTrip(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.ProfileValue("name")
	if err != nil {
		t.Fatalf("ProfileValue: %v", err)
	}
	if ok {
		t.Error("expected unset key to report ok=false")
	}

	if err := s.SetProfileValue("name", "Avery"); err != nil {
		t.Fatalf("SetProfileValue: %v", err)
	}
	if err := s.SetProfileValue("name", "Avery K"); err != nil {
		t.Fatalf("SetProfileValue overwrite: %v", err)
	}

	value, ok, err := s.ProfileValue("name")
	if err != nil {
		t.Fatalf("ProfileValue: %v", err)
	}
	if !ok || value != "Avery K" {
		t.Errorf("expected overwritten value, got %q (ok=%v)", value, ok)
	}
}

func TestJobHistoryOrderedBySortOrder(t *testing.T) {
	s := newTestStore(t)

	entries := []model.JobHistory{
		{Company: "Second Corp", Title: "Writer", SortOrder: 2},
		{Company: "First Corp", Title: "Senior Writer", SortOrder: 1},
	}
	for _, e := range entries {
		if _, err := s.AddJobHistory(e); err != nil {
			t.Fatalf("AddJobHistory %s: %v", e.Company, err)
		}
	}

	got, err := s.ListJobHistory()
	if err != nil {
		t.Fatalf("ListJobHistory: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Company != "First Corp" || got[1].Company != "Second Corp" {
		t.Errorf("expected sort_order to drive ordering, got %q then %q", got[0].Company, got[1].Company)
	}
}

func TestSkillsUniqueNameAndCategoryFilter(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddSkill(model.Skill{Name: "API docs", Category: "writing", Proficiency: "expert"}); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	if _, err := s.AddSkill(model.Skill{Name: "Go", Category: "languages"}); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}

	// Duplicate name violates the unique constraint.
	if _, err := s.AddSkill(model.Skill{Name: "Go", Category: "languages"}); err == nil {
		t.Error("expected duplicate skill name to fail")
	}

	writing, err := s.ListSkills("writing")
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	if len(writing) != 1 || writing[0].Name != "API docs" {
		t.Errorf("expected category filter to return only API docs, got %v", writing)
	}

	all, err := s.ListSkills("")
	if err != nil {
		t.Fatalf("ListSkills all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 skills, got %d", len(all))
	}
}

func TestAddEducationCertificationHonor(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddEducation(model.Education{Institution: "State University", Degree: "BA"}); err != nil {
		t.Fatalf("AddEducation: %v", err)
	}
	if _, err := s.AddCertification(model.Certification{Name: "CPTC", Issuer: "STC"}); err != nil {
		t.Fatalf("AddCertification: %v", err)
	}
	if _, err := s.AddHonor(model.Honor{Name: "Docs Award"}); err != nil {
		t.Fatalf("AddHonor: %v", err)
	}
}
