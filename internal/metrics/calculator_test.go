package metrics

import (
	"math"
	"testing"

	"github.com/anthropic/linecredit/internal/attribution"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func fileResult(path string, skipped int, tallies map[string]attribution.AuthorTally) *attribution.FileResult {
	fr := &attribution.FileResult{Path: path, Skipped: skipped, Authors: make(map[string]*attribution.AuthorTally)}
	for n, t := range tallies {
		t := t
		fr.Authors[n] = &t
	}
	return fr
}

func TestComputeFileMetrics_Mixed(t *testing.T) {
	calc := NewCalculator()
	fm := calc.ComputeFileMetrics(fileResult("main.go", 1, map[string]attribution.AuthorTally{
		"alice": {Lines: 3, FullCredit: 3},
		"bob":   {Lines: 1, PartialCredit: 1},
	}))

	if fm.TotalLines != 4 {
		t.Errorf("TotalLines = %d, want 4", fm.TotalLines)
	}
	if !almostEqual(fm.FullCreditPct, 75.0, 0.01) {
		t.Errorf("FullCreditPct = %f, want 75.0", fm.FullCreditPct)
	}
	if fm.TopAuthor != "alice" {
		t.Errorf("TopAuthor = %q, want alice", fm.TopAuthor)
	}
	if fm.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", fm.Skipped)
	}
	if len(fm.Authors) != 2 {
		t.Fatalf("Authors = %+v", fm.Authors)
	}
	bob := fm.Authors[1]
	if bob.Author != "bob" || !almostEqual(bob.SharePct, 25.0, 0.01) || bob.FullCreditPct != 0 {
		t.Errorf("bob = %+v", bob)
	}
}

func TestComputeFileMetrics_Empty(t *testing.T) {
	fm := NewCalculator().ComputeFileMetrics(fileResult("empty.txt", 0, nil))
	if fm.TotalLines != 0 || fm.FullCreditPct != 0 || fm.TopAuthor != "" {
		t.Errorf("empty file metrics = %+v", fm)
	}
}

func TestComputeProjectMetrics_Aggregates(t *testing.T) {
	results := []*attribution.FileResult{
		fileResult("small.go", 0, map[string]attribution.AuthorTally{
			"bob": {Lines: 2, FullCredit: 1, PartialCredit: 1},
		}),
		fileResult("big.go", 2, map[string]attribution.AuthorTally{
			"alice": {Lines: 5, FullCredit: 5},
			"bob":   {Lines: 1, FullCredit: 1},
		}),
	}

	pm := NewCalculator().ComputeProjectMetrics(results)

	if pm.TotalFiles != 2 || pm.TotalLines != 8 || pm.FullCredit != 7 || pm.Skipped != 2 {
		t.Errorf("totals = %+v", pm)
	}
	if !almostEqual(pm.FullCreditPct, 87.5, 0.01) {
		t.Errorf("FullCreditPct = %f, want 87.5", pm.FullCreditPct)
	}
	if pm.Files[0].FilePath != "big.go" {
		t.Errorf("Files[0] = %q, want the largest file first", pm.Files[0].FilePath)
	}
	if len(pm.Authors) != 2 || pm.Authors[0].Author != "alice" {
		t.Fatalf("Authors = %+v", pm.Authors)
	}
	bob := pm.Authors[1]
	if bob.Lines != 3 || bob.PartialCredit != 1 || !almostEqual(bob.SharePct, 37.5, 0.01) {
		t.Errorf("bob = %+v", bob)
	}
}

func TestComputeProjectMetrics_NoFiles(t *testing.T) {
	pm := NewCalculator().ComputeProjectMetrics(nil)
	if pm.TotalFiles != 0 || pm.TotalLines != 0 || pm.FullCreditPct != 0 || len(pm.Authors) != 0 {
		t.Errorf("empty project metrics = %+v", pm)
	}
}
