// Package dedup clusters stored jobs by normalized title within a posting
// time window and resolves each cluster down to a single survivor.
package dedup

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/averyk/jobscout/internal/model"
	"github.com/averyk/jobscout/internal/normalize"
	"github.com/averyk/jobscout/internal/store"
)

// JobStore is the slice of the store the deduplicator needs.
type JobStore interface {
	List(opts store.ListOptions) ([]model.Job, error)
	Delete(id int64) (bool, error)
}

// Result reports one deduplication run. DeletedIDs is identical between a
// dry and a live run on the same data; only the live run actually deletes.
type Result struct {
	Groups     int     // duplicate clusters found (size >= 2)
	Duplicates int     // postings beyond the survivor, summed over clusters
	DeletedIDs []int64 // losers, in deletion order
}

// Deduplicator resolves duplicate postings against the job store.
type Deduplicator struct {
	store  JobStore
	logger *slog.Logger
}

// New creates a deduplicator backed by the given store.
func New(st JobStore, logger *slog.Logger) *Deduplicator {
	return &Deduplicator{store: st, logger: logger}
}

// Run clusters all stored jobs and deletes every cluster's losers. With
// dryRun the result reports the same decisions but nothing is mutated.
func (d *Deduplicator) Run(windowDays int, dryRun bool) (Result, error) {
	jobs, err := d.store.List(store.ListOptions{})
	if err != nil {
		return Result{}, fmt.Errorf("deduplicating: %w", err)
	}

	result := Resolve(jobs, windowDays)

	d.logger.Info("dedup pass resolved",
		"jobs", len(jobs),
		"groups", result.Groups,
		"duplicates", result.Duplicates,
		"dry_run", dryRun,
	)

	if dryRun {
		return result, nil
	}

	for _, id := range result.DeletedIDs {
		if _, err := d.store.Delete(id); err != nil {
			return result, fmt.Errorf("deduplicating: deleting job %d: %w", id, err)
		}
	}
	return result, nil
}

// Resolve computes the duplicate clusters and their losers without touching
// storage. Exactly one survivor is kept per cluster: the posting with the
// longest description, first encountered winning ties.
func Resolve(jobs []model.Job, windowDays int) Result {
	groups := make(map[string][]model.Job)
	order := make([]string, 0)
	for _, j := range jobs {
		key := normalize.Title(j.Title)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], j)
	}

	window := time.Duration(windowDays) * 24 * time.Hour

	var result Result
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}

		sortByPostedDate(group)

		for _, cluster := range clusterByWindow(group, window) {
			if len(cluster) < 2 {
				continue
			}
			result.Groups++
			survivor := pickSurvivor(cluster)
			for _, j := range cluster {
				if j.ID == survivor.ID {
					continue
				}
				result.Duplicates++
				result.DeletedIDs = append(result.DeletedIDs, j.ID)
			}
		}
	}
	return result
}

// clusterByWindow greedily splits a date-ascending group into clusters: a
// posting joins the open cluster iff its date is within window of the
// cluster's *first* posting. A posting re-appearing later than that is a
// re-opened listing and starts a new cluster.
func clusterByWindow(group []model.Job, window time.Duration) [][]model.Job {
	var clusters [][]model.Job
	var current []model.Job
	var anchor time.Time

	for _, j := range group {
		d := parseDate(j.PostedDate)
		if len(current) == 0 || d.Sub(anchor) > window {
			if len(current) > 0 {
				clusters = append(clusters, current)
			}
			current = []model.Job{j}
			anchor = d
			continue
		}
		current = append(current, j)
	}
	if len(current) > 0 {
		clusters = append(clusters, current)
	}
	return clusters
}

func pickSurvivor(cluster []model.Job) model.Job {
	survivor := cluster[0]
	for _, j := range cluster[1:] {
		if len(j.Description) > len(survivor.Description) {
			survivor = j
		}
	}
	return survivor
}

// sortByPostedDate sorts ascending by parsed posted date, stably so ties keep
// their original order. Missing or unparseable dates sort first.
func sortByPostedDate(jobs []model.Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		return parseDate(jobs[i].PostedDate).Before(parseDate(jobs[k].PostedDate))
	})
}

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
