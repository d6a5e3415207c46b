// Package metrics turns per-line attribution verdicts into credit
// percentages per author, per file and for a whole run.
package metrics

import (
	"sort"

	"github.com/anthropic/linecredit/internal/attribution"
)

// AuthorMetrics holds one author's credit figures.
type AuthorMetrics struct {
	Author        string  `json:"author"`
	Lines         int     `json:"lines"`
	FullCredit    int     `json:"full_credit"`
	PartialCredit int     `json:"partial_credit"`
	FullCreditPct float64 `json:"full_credit_pct"` // full-credit lines / the author's lines
	SharePct      float64 `json:"share_pct"`       // the author's lines / all lines
}

// FileMetrics holds computed metrics for a single file.
type FileMetrics struct {
	FilePath      string          `json:"file_path"`
	TotalLines    int             `json:"total_lines"`
	FullCredit    int             `json:"full_credit"`
	FullCreditPct float64         `json:"full_credit_pct"`
	Skipped       int             `json:"skipped"`
	TopAuthor     string          `json:"top_author"`
	Authors       []AuthorMetrics `json:"authors"`
}

// ProjectMetrics holds aggregate metrics for a whole run.
type ProjectMetrics struct {
	TotalFiles    int             `json:"total_files"`
	TotalLines    int             `json:"total_lines"`
	FullCredit    int             `json:"full_credit"`
	FullCreditPct float64         `json:"full_credit_pct"`
	Skipped       int             `json:"skipped"`
	Authors       []AuthorMetrics `json:"authors"`
	Files         []FileMetrics   `json:"files"`
}

// Calculator computes credit metrics.
type Calculator struct{}

// NewCalculator creates a new Calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// ComputeFileMetrics computes metrics for one file result.
func (c *Calculator) ComputeFileMetrics(fr *attribution.FileResult) FileMetrics {
	fm := FileMetrics{
		FilePath: fr.Path,
		Skipped:  fr.Skipped,
	}

	tallies := make(map[string]attribution.AuthorTally, len(fr.Authors))
	for name, t := range fr.Authors {
		tallies[name] = *t
	}
	fm.Authors = authorMetrics(tallies)
	for _, a := range fm.Authors {
		fm.TotalLines += a.Lines
		fm.FullCredit += a.FullCredit
	}
	fm.FullCreditPct = pct(fm.FullCredit, fm.TotalLines)
	if len(fm.Authors) > 0 {
		fm.TopAuthor = fm.Authors[0].Author
	}
	return fm
}

// ComputeProjectMetrics computes run-wide metrics. Files are ordered by line
// count descending, then path.
func (c *Calculator) ComputeProjectMetrics(results []*attribution.FileResult) ProjectMetrics {
	pm := ProjectMetrics{TotalFiles: len(results)}

	for _, fr := range results {
		fm := c.ComputeFileMetrics(fr)
		pm.TotalLines += fm.TotalLines
		pm.FullCredit += fm.FullCredit
		pm.Skipped += fm.Skipped
		pm.Files = append(pm.Files, fm)
	}
	pm.FullCreditPct = pct(pm.FullCredit, pm.TotalLines)
	pm.Authors = authorMetrics(attribution.Totals(results))

	sort.SliceStable(pm.Files, func(i, j int) bool {
		if pm.Files[i].TotalLines != pm.Files[j].TotalLines {
			return pm.Files[i].TotalLines > pm.Files[j].TotalLines
		}
		return pm.Files[i].FilePath < pm.Files[j].FilePath
	})
	return pm
}

// authorMetrics converts tallies to metrics ranked by line count.
func authorMetrics(tallies map[string]attribution.AuthorTally) []AuthorMetrics {
	total := 0
	for _, t := range tallies {
		total += t.Lines
	}

	names := attribution.RankAuthors(tallies)
	out := make([]AuthorMetrics, 0, len(names))
	for _, n := range names {
		t := tallies[n]
		out = append(out, AuthorMetrics{
			Author:        n,
			Lines:         t.Lines,
			FullCredit:    t.FullCredit,
			PartialCredit: t.PartialCredit,
			FullCreditPct: pct(t.FullCredit, t.Lines),
			SharePct:      pct(t.Lines, total),
		})
	}
	return out
}

// pct returns part/whole as a percentage, or 0 when whole is 0.
func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100.0
}
