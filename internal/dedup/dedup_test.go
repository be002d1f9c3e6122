package dedup

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/averyk/jobscout/internal/model"
	"github.com/averyk/jobscout/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func job(id int64, title, date string, descLen int) model.Job {
	return model.Job{
		ID:          id,
		Title:       title,
		PostedDate:  date,
		Description: strings.Repeat("x", descLen),
	}
}

func TestResolveClusterWithinWindow(t *testing.T) {
	// Three postings of one role: the first two fall within 30 days of the
	// cluster start and resolve to the longer description; the third reappears
	// past the window and stands alone.
	jobs := []model.Job{
		job(1, "Acme: Writer", "2026-01-01", 50),
		job(2, "Acme: Writer in Bellevue, WA", "2026-01-10", 200),
		job(3, "Acme: Writer in Seattle, WA", "2026-02-15", 10),
	}

	result := Resolve(jobs, 30)

	if result.Groups != 1 {
		t.Errorf("expected 1 duplicate group, got %d", result.Groups)
	}
	if result.Duplicates != 1 {
		t.Errorf("expected 1 duplicate, got %d", result.Duplicates)
	}
	if len(result.DeletedIDs) != 1 || result.DeletedIDs[0] != 1 {
		t.Errorf("expected job 1 (shorter description) deleted, got %v", result.DeletedIDs)
	}
}

func TestResolveSingletonsUntouched(t *testing.T) {
	jobs := []model.Job{
		job(1, "Writer", "2026-01-01", 50),
		job(2, "Editor", "2026-01-01", 50),
	}

	result := Resolve(jobs, 30)

	if result.Groups != 0 || result.Duplicates != 0 || len(result.DeletedIDs) != 0 {
		t.Errorf("expected no deletions for singleton titles, got %+v", result)
	}
}

func TestResolveWindowAnchoredAtClusterStart(t *testing.T) {
	// Days 0, 20, 40: pairwise gaps are all <= 30 but day 40 is more than 30
	// days after the cluster anchor (day 0), so it starts a new cluster and
	// survives as a singleton.
	jobs := []model.Job{
		job(1, "Writer", "2026-01-01", 10),
		job(2, "Writer", "2026-01-21", 20),
		job(3, "Writer", "2026-02-10", 30),
	}

	result := Resolve(jobs, 30)

	if result.Groups != 1 {
		t.Errorf("expected 1 group, got %d", result.Groups)
	}
	if len(result.DeletedIDs) != 1 || result.DeletedIDs[0] != 1 {
		t.Errorf("expected only job 1 deleted, got %v", result.DeletedIDs)
	}
}

func TestResolveTieKeepsFirstEncountered(t *testing.T) {
	jobs := []model.Job{
		job(1, "Writer", "2026-01-01", 100),
		job(2, "Writer", "2026-01-02", 100),
	}

	result := Resolve(jobs, 30)

	if len(result.DeletedIDs) != 1 || result.DeletedIDs[0] != 2 {
		t.Errorf("expected tie to keep first posting (delete 2), got %v", result.DeletedIDs)
	}
}

func TestResolveMissingDatesSortFirst(t *testing.T) {
	jobs := []model.Job{
		job(1, "Writer", "2026-01-15", 10),
		job(2, "Writer", "", 200),
		job(3, "Writer", "not-a-date", 50),
	}

	result := Resolve(jobs, 30)

	// Missing/unparseable dates collapse to the zero time, which puts jobs 2
	// and 3 in one cluster; 2026-01-15 is far outside the window from there.
	if result.Groups != 1 {
		t.Errorf("expected 1 group, got %d", result.Groups)
	}
	if len(result.DeletedIDs) != 1 || result.DeletedIDs[0] != 3 {
		t.Errorf("expected job 3 deleted (shorter of the undated pair), got %v", result.DeletedIDs)
	}
}

func TestResolveGroupsByNormalizedTitle(t *testing.T) {
	// Different companies never merge even when the stripped role matches.
	jobs := []model.Job{
		job(1, "Acme: Writer in Seattle, WA", "2026-01-01", 10),
		job(2, "Globex: Writer in Seattle, WA", "2026-01-02", 20),
	}

	result := Resolve(jobs, 30)

	if result.Groups != 0 || len(result.DeletedIDs) != 0 {
		t.Errorf("expected different companies to stay separate, got %+v", result)
	}
}

// fakeStore records deletes issued by Run.
type fakeStore struct {
	jobs    []model.Job
	deleted []int64
}

func (f *fakeStore) List(opts store.ListOptions) ([]model.Job, error) {
	return f.jobs, nil
}

func (f *fakeStore) Delete(id int64) (bool, error) {
	f.deleted = append(f.deleted, id)
	return true, nil
}

func TestRunDryRunEquivalence(t *testing.T) {
	jobs := []model.Job{
		job(1, "Writer", "2026-01-01", 50),
		job(2, "Writer", "2026-01-10", 200),
	}

	dryStore := &fakeStore{jobs: jobs}
	dry, err := New(dryStore, testLogger()).Run(30, true)
	if err != nil {
		t.Fatalf("dry Run: %v", err)
	}
	if len(dryStore.deleted) != 0 {
		t.Errorf("dry run issued deletes: %v", dryStore.deleted)
	}

	liveStore := &fakeStore{jobs: jobs}
	live, err := New(liveStore, testLogger()).Run(30, false)
	if err != nil {
		t.Fatalf("live Run: %v", err)
	}

	if dry.Groups != live.Groups || dry.Duplicates != live.Duplicates {
		t.Errorf("dry and live results differ: %+v vs %+v", dry, live)
	}
	if len(dry.DeletedIDs) != len(live.DeletedIDs) {
		t.Fatalf("dry and live deletions differ: %v vs %v", dry.DeletedIDs, live.DeletedIDs)
	}
	for i := range dry.DeletedIDs {
		if dry.DeletedIDs[i] != live.DeletedIDs[i] {
			t.Errorf("deletion %d differs: %d vs %d", i, dry.DeletedIDs[i], live.DeletedIDs[i])
		}
	}
	if len(liveStore.deleted) != 1 || liveStore.deleted[0] != 1 {
		t.Errorf("expected live run to delete job 1, got %v", liveStore.deleted)
	}
}
