// Package similarity scores how much a line differs from an earlier line.
//
// The score is the Levenshtein distance between the two lines divided by the
// length of the base line, so a score of 0 means the lines are identical and a
// score above 1 means the new line is mostly new content. Lengths are counted
// in Unicode code points, matching the rune-based edit distance.
package similarity

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold is the originality score above which a line is treated as
// new content rather than an edit of the line it replaced.
const DefaultThreshold = 0.51

// Score returns the originality of candidate relative to base. Lower scores
// mean the two lines are more alike. An empty base has no meaningful ratio
// and scores +Inf.
func Score(candidate, base string) float64 {
	baseLen := utf8.RuneCountInString(base)
	if baseLen == 0 {
		return math.Inf(1)
	}
	return float64(levenshtein.ComputeDistance(candidate, base)) / float64(baseLen)
}

// Distance returns the raw edit distance between a and b, with insertion,
// deletion and substitution all costing 1.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// IsOriginal reports whether candidate differs enough from base to count as
// new content under threshold.
func IsOriginal(candidate, base string, threshold float64) bool {
	return Score(candidate, base) > threshold
}
