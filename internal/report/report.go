// Package report builds attribution reports from driver results and
// persists them as runs in the store.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anthropic/linecredit/internal/attribution"
	"github.com/anthropic/linecredit/internal/metrics"
	"github.com/anthropic/linecredit/internal/store"
)

// Meta describes the run a report belongs to.
type Meta struct {
	RepoPath   string    `json:"repo_path"`
	CommitHash string    `json:"commit"`
	Threshold  float64   `json:"threshold"`
	Since      string    `json:"since,omitempty"`
	StartedAt  time.Time `json:"started_at"`
}

// RunReport holds the full attribution report of one run.
type RunReport struct {
	RunID string `json:"run_id,omitempty"`
	Meta
	metrics.ProjectMetrics
	Results []*attribution.FileResult `json:"-"`
}

// Build computes a report for results.
func Build(meta Meta, results []*attribution.FileResult) *RunReport {
	return &RunReport{
		Meta:           meta,
		ProjectMetrics: metrics.NewCalculator().ComputeProjectMetrics(results),
		Results:        results,
	}
}

// Save persists the run and every line verdict, assigning r.RunID.
func Save(s *store.Store, r *RunReport) error {
	id := uuid.NewString()
	err := s.InsertRun(store.Run{
		ID:         id,
		RepoPath:   r.RepoPath,
		CommitHash: r.CommitHash,
		Threshold:  r.Threshold,
		Since:      r.Since,
		StartedAt:  r.StartedAt,
	})
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, fr := range r.Results {
		records := make([]store.LineRecord, 0, len(fr.Lines))
		for _, l := range fr.Lines {
			records = append(records, store.LineRecord{
				FilePath:   fr.Path,
				LineNumber: l.LineNumber,
				Author:     l.Author,
				CommitHash: l.CommitHash,
				FullCredit: l.FullCredit,
				Skipped:    l.Skipped,
			})
		}
		if err := s.InsertLines(id, records); err != nil {
			return fmt.Errorf("insert lines of %s: %w", fr.Path, err)
		}
	}

	r.RunID = id
	return nil
}

// StoredRun is a run read back from the store with its author totals.
type StoredRun struct {
	Run     store.Run
	Authors []metrics.AuthorMetrics
}

// Load reads a saved run and its per-author totals from the store.
func Load(s *store.Store, runID string) (*StoredRun, error) {
	run, err := s.QueryRun(runID)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	tallies, err := s.QueryAuthorTallies(runID)
	if err != nil {
		return nil, fmt.Errorf("query tallies for run %s: %w", runID, err)
	}

	total := 0
	for _, t := range tallies {
		total += t.Lines
	}
	sr := &StoredRun{Run: *run}
	for _, t := range tallies {
		am := metrics.AuthorMetrics{
			Author:        t.Author,
			Lines:         t.Lines,
			FullCredit:    t.FullCredit,
			PartialCredit: t.PartialCredit,
		}
		if t.Lines > 0 {
			am.FullCreditPct = float64(t.FullCredit) / float64(t.Lines) * 100.0
		}
		if total > 0 {
			am.SharePct = float64(t.Lines) / float64(total) * 100.0
		}
		sr.Authors = append(sr.Authors, am)
	}
	return sr, nil
}
