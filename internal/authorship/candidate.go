// Package authorship decides, line by line, whether the author who committed
// a line deserves full credit for it or merely edited someone else's line.
//
// For a line introduced by a commit, the package looks at the parent diffs
// for a deleted line the new line most plausibly replaced, blames that line,
// and walks backward through the history while the same author keeps
// rewriting it.
package authorship

import (
	"context"
	"fmt"

	"github.com/anthropic/linecredit/internal/diffparse"
	"github.com/anthropic/linecredit/internal/similarity"
)

// Querier is the read-only git access the analyzer depends on.
// *gitint.Client and *gitint.Cached implement it.
type Querier interface {
	ParentCommits(ctx context.Context, commitHash string) ([]string, error)
	Diff(ctx context.Context, fromCommit, toCommit string) (string, error)
	BlameLine(ctx context.Context, commitHash, filePath string, lineNumber int) (string, error)
}

// CandidateLine is a deleted line in a parent commit that a new line may have
// been derived from.
type CandidateLine struct {
	LineNumber       int
	Content          string
	FilePath         string
	CommitHash       string
	OriginalityScore float64
}

// Selector finds the best predecessor candidate for a line.
type Selector struct {
	querier Querier
}

// NewSelector returns a Selector backed by q.
func NewSelector(q Querier) *Selector {
	return &Selector{querier: q}
}

// SelectBestCandidate scans the diff from every parent of commitHash to
// commitHash and returns the deleted line in filePath from which lineContent
// has the lowest originality score, measured against the deleted line. Only
// hunks that add lineContent, up to trailing whitespace, are considered. Ties go to the first line encountered, in parent
// order then diff order. It returns nil when nothing qualifies.
func (s *Selector) SelectBestCandidate(ctx context.Context, filePath, lineContent, commitHash string) (*CandidateLine, error) {
	parents, err := s.querier.ParentCommits(ctx, commitHash)
	if err != nil {
		return nil, fmt.Errorf("list parents of %s: %w", commitHash, err)
	}

	var best *CandidateLine
	for _, parent := range parents {
		raw, err := s.querier.Diff(ctx, parent, commitHash)
		if err != nil {
			return nil, fmt.Errorf("diff %s..%s: %w", parent, commitHash, err)
		}
		files, err := diffparse.ParseFiles(raw)
		if err != nil {
			return nil, fmt.Errorf("parse diff %s..%s: %w", parent, commitHash, err)
		}

		for _, f := range files {
			if f.IsAddedFile() || f.PostImagePath != filePath {
				continue
			}
			for _, h := range f.Hunks {
				if !h.HasAddedLine(lineContent) {
					continue
				}
				for _, del := range h.DeletedLines() {
					score := similarity.Score(lineContent, del.Content)
					if best != nil && score >= best.OriginalityScore {
						continue
					}
					best = &CandidateLine{
						LineNumber:       del.PreImageLine,
						Content:          del.Content,
						FilePath:         f.PreImagePath,
						CommitHash:       parent,
						OriginalityScore: score,
					}
				}
			}
		}
	}
	return best, nil
}
