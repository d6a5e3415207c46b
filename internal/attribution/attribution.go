// Package attribution runs line authorship analysis over whole file
// snapshots and tallies full and partial credit per author.
package attribution

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/anthropic/linecredit/internal/authorship"
	"github.com/anthropic/linecredit/internal/gitint"
	"github.com/anthropic/linecredit/internal/identity"
)

// LineAnalyzer decides credit for one line. *authorship.Analyzer implements it.
type LineAnalyzer interface {
	Analyze(ctx context.Context, filePath, lineContent, commitHash string, currentAuthor *identity.Author) (bool, error)
}

// Snapshotter blames whole files and lists a commit's files.
// *gitint.Client implements it.
type Snapshotter interface {
	BlameFile(commitHash, filePath string) ([]gitint.SnapshotLine, error)
	ListFiles(commitHash string) ([]string, error)
}

// LineResult is the verdict for one line of a snapshot.
type LineResult struct {
	LineNumber int    `json:"line"`
	Content    string `json:"content"`
	Author     string `json:"author"`
	CommitHash string `json:"commit"`
	FullCredit bool   `json:"full_credit"`
	// Skipped is set when blame output for a predecessor could not be
	// parsed. Such lines default to full credit.
	Skipped bool `json:"skipped,omitempty"`
}

// AuthorTally counts an author's lines in one or more files.
type AuthorTally struct {
	Lines         int `json:"lines"`
	FullCredit    int `json:"full_credit"`
	PartialCredit int `json:"partial_credit"`
}

// FileResult is the attribution of every line of one file at one commit.
type FileResult struct {
	Path       string                  `json:"path"`
	CommitHash string                  `json:"commit"`
	Lines      []LineResult            `json:"lines"`
	Authors    map[string]*AuthorTally `json:"authors"`
	Skipped    int                     `json:"skipped"`
}

// Options configures a Driver.
type Options struct {
	// Workers bounds how many lines of a file are analyzed at once.
	Workers int
	// IgnorePatterns are extra Filter patterns for AnalyzeCommit.
	IgnorePatterns []string
	// KeepGoing collects per-file failures instead of stopping at the first.
	KeepGoing bool
	Verbose   bool
}

// Driver analyzes file snapshots line by line.
type Driver struct {
	analyzer LineAnalyzer
	snap     Snapshotter
	resolver identity.Resolver
	filter   *Filter
	opts     Options
}

// New returns a Driver.
func New(analyzer LineAnalyzer, snap Snapshotter, resolver identity.Resolver, opts Options) *Driver {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Driver{
		analyzer: analyzer,
		snap:     snap,
		resolver: resolver,
		filter:   NewFilter(opts.IgnorePatterns),
		opts:     opts,
	}
}

// AnalyzeFile attributes every line of filePath as it exists in commitHash.
//
// Lines are analyzed concurrently. Cancelling ctx stops new lines from being
// started, but a line already in progress runs to completion so its verdict
// is never cut short. A malformed diff or a failed git query aborts the file.
func (d *Driver) AnalyzeFile(ctx context.Context, commitHash, filePath string) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot, err := d.snap.BlameFile(commitHash, filePath)
	if err != nil {
		return nil, err
	}

	results := make([]LineResult, len(snapshot))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	chainCtx := context.WithoutCancel(ctx)

	for i, line := range snapshot {
		if gctx.Err() != nil {
			break
		}
		author := d.resolver.Resolve(line.AuthorName, line.AuthorEmail)
		results[i] = LineResult{
			LineNumber: line.LineNumber,
			Content:    line.Content,
			Author:     author.String(),
			CommitHash: line.CommitHash,
		}

		g.Go(func() error {
			full, err := d.analyzer.Analyze(chainCtx, filePath, line.Content, line.CommitHash, author)
			var blameErr *authorship.InconsistentBlameOutputError
			switch {
			case errors.As(err, &blameErr):
				log.Printf("attribution: skipping %s:%d: %v", filePath, line.LineNumber, err)
				results[i].FullCredit = true
				results[i].Skipped = true
				return nil
			case err != nil:
				return fmt.Errorf("analyze %s:%d: %w", filePath, line.LineNumber, err)
			}
			results[i].FullCredit = full
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fr := &FileResult{
		Path:       filePath,
		CommitHash: commitHash,
		Lines:      results,
		Authors:    make(map[string]*AuthorTally),
	}
	for _, r := range results {
		fr.add(r)
	}
	if d.opts.Verbose {
		log.Printf("attribution: %s: %d lines, %d skipped", filePath, len(results), fr.Skipped)
	}
	return fr, nil
}

func (fr *FileResult) add(r LineResult) {
	t, ok := fr.Authors[r.Author]
	if !ok {
		t = &AuthorTally{}
		fr.Authors[r.Author] = t
	}
	t.Lines++
	if r.FullCredit {
		t.FullCredit++
	} else {
		t.PartialCredit++
	}
	if r.Skipped {
		fr.Skipped++
	}
}

// AnalyzeFiles attributes each path in order. Without KeepGoing the first
// failure stops the run; with it, failures are collected into a
// *multierror.Error and the successful results are still returned.
func (d *Driver) AnalyzeFiles(ctx context.Context, commitHash string, paths []string) ([]*FileResult, error) {
	var (
		out  []*FileResult
		errs *multierror.Error
	)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return out, multierror.Append(errs, err).ErrorOrNil()
		}
		fr, err := d.AnalyzeFile(ctx, commitHash, p)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return out, multierror.Append(errs, err).ErrorOrNil()
			}
			if !d.opts.KeepGoing {
				return out, err
			}
			log.Printf("attribution: %s: %v", p, err)
			errs = multierror.Append(errs, err)
			continue
		}
		out = append(out, fr)
	}
	return out, errs.ErrorOrNil()
}

// AnalyzeCommit attributes every tracked, non-binary, non-ignored file in
// commitHash.
func (d *Driver) AnalyzeCommit(ctx context.Context, commitHash string) ([]*FileResult, error) {
	files, err := d.snap.ListFiles(commitHash)
	if err != nil {
		return nil, err
	}
	return d.AnalyzeFiles(ctx, commitHash, d.filter.Apply(files))
}

// Filter returns the driver's path filter.
func (d *Driver) Filter() *Filter {
	return d.filter
}

// Totals sums per-author tallies across files.
func Totals(results []*FileResult) map[string]AuthorTally {
	totals := make(map[string]AuthorTally)
	for _, fr := range results {
		for name, t := range fr.Authors {
			sum := totals[name]
			sum.Lines += t.Lines
			sum.FullCredit += t.FullCredit
			sum.PartialCredit += t.PartialCredit
			totals[name] = sum
		}
	}
	return totals
}

// RankAuthors returns author names ordered by line count descending, then
// name.
func RankAuthors(tallies map[string]AuthorTally) []string {
	names := make([]string, 0, len(tallies))
	for n := range tallies {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := tallies[names[i]], tallies[names[j]]
		if a.Lines != b.Lines {
			return a.Lines > b.Lines
		}
		return names[i] < names[j]
	})
	return names
}
