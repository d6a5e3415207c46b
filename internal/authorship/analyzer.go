package authorship

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/anthropic/linecredit/internal/identity"
	"github.com/anthropic/linecredit/internal/similarity"
)

// Policy bounds which predecessors can take credit away from an author.
type Policy struct {
	// Threshold is the originality score above which a line counts as new.
	Threshold float64
	// Since excludes predecessors committed before it. Zero means no bound.
	Since time.Time
	// IgnoreCommits lists commit hashes, full or abbreviated, whose lines
	// never take credit away.
	IgnoreCommits []string
}

// DefaultPolicy returns a Policy with the default threshold and no bounds.
func DefaultPolicy() Policy {
	return Policy{Threshold: similarity.DefaultThreshold}
}

func (p Policy) ignoresCommit(hash string) bool {
	for _, c := range p.IgnoreCommits {
		if c != "" && strings.HasPrefix(hash, strings.ToLower(c)) {
			return true
		}
	}
	return false
}

// Analyzer decides full or partial credit for single lines.
type Analyzer struct {
	selector *Selector
	blamer   *BlameResolver
	policy   Policy
	verbose  bool
}

// NewAnalyzer returns an Analyzer that queries q and resolves identities with r.
func NewAnalyzer(q Querier, r identity.Resolver, policy Policy) *Analyzer {
	return &Analyzer{
		selector: NewSelector(q),
		blamer:   NewBlameResolver(q, r),
		policy:   policy,
	}
}

// SetVerbose enables logging of every backtracking step.
func (a *Analyzer) SetVerbose(v bool) {
	a.verbose = v
}

// Policy returns the analyzer's policy.
func (a *Analyzer) Policy() Policy {
	return a.policy
}

// Analyze reports whether currentAuthor deserves full credit for lineContent
// as introduced in commitHash. It returns false when the line is an edit of a
// line last written by a different author inside the policy window.
//
// While the predecessor belongs to the same author, the walk continues from
// the predecessor, so an author's own rewrites never lose them credit.
func (a *Analyzer) Analyze(ctx context.Context, filePath, lineContent, commitHash string, currentAuthor *identity.Author) (bool, error) {
	path, content, commit, author := filePath, lineContent, commitHash, currentAuthor

	for step := 1; ; step++ {
		if content == "" {
			return true, nil
		}

		cand, err := a.selector.SelectBestCandidate(ctx, path, content, commit)
		if err != nil {
			return false, err
		}
		if cand == nil {
			a.tracef("step %d: %s@%s %q has no predecessor", step, path, short(commit), content)
			return true, nil
		}
		if cand.OriginalityScore > a.policy.Threshold {
			a.tracef("step %d: %s@%s %q is original (score %.3f vs %q)",
				step, path, short(commit), content, cand.OriginalityScore, cand.Content)
			return true, nil
		}

		blame, err := a.blamer.Resolve(ctx, cand)
		if err != nil {
			return false, err
		}

		switch {
		case blame.Author.IsUnknown():
			a.tracef("step %d: predecessor %s:%d has unknown author", step, cand.FilePath, cand.LineNumber)
			return true, nil
		case !a.policy.Since.IsZero() && blame.Timestamp.Before(a.policy.Since):
			a.tracef("step %d: predecessor commit %s predates %s", step, short(blame.CommitHash), a.policy.Since.Format(time.RFC3339))
			return true, nil
		case a.policy.ignoresCommit(blame.CommitHash):
			a.tracef("step %d: predecessor commit %s is ignored", step, short(blame.CommitHash))
			return true, nil
		case blame.Author.IsIgnoringFile(cand.FilePath):
			a.tracef("step %d: %s ignores %s", step, blame.Author, cand.FilePath)
			return true, nil
		case !blame.Author.Equal(author):
			a.tracef("step %d: %q derives from %s's %q (score %.3f)",
				step, content, blame.Author, cand.Content, cand.OriginalityScore)
			return false, nil
		}

		a.tracef("step %d: %s rewrote own line %q, following %s", step, author, cand.Content, short(blame.CommitHash))
		path, content, commit, author = cand.FilePath, cand.Content, blame.CommitHash, blame.Author
	}
}

func (a *Analyzer) tracef(format string, args ...any) {
	if a.verbose {
		log.Printf("authorship: "+format, args...)
	}
}

func short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
