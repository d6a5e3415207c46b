package authorship

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anthropic/linecredit/internal/identity"
)

// ErrInconsistentBlameOutput is wrapped by every InconsistentBlameOutputError.
var ErrInconsistentBlameOutput = errors.New("inconsistent blame output")

// InconsistentBlameOutputError reports blame output that does not follow the
// line-porcelain layout.
type InconsistentBlameOutputError struct {
	CommitHash string
	FilePath   string
	LineNumber int
	Reason     string
}

func (e *InconsistentBlameOutputError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("%v: %s", ErrInconsistentBlameOutput, e.Reason)
	}
	return fmt.Sprintf("%v for %s:%d at %s: %s",
		ErrInconsistentBlameOutput, e.FilePath, e.LineNumber, e.CommitHash, e.Reason)
}

func (e *InconsistentBlameOutputError) Unwrap() error {
	return ErrInconsistentBlameOutput
}

// BlameResult identifies who last touched a line and when.
type BlameResult struct {
	CommitHash string
	Author     *identity.Author
	Timestamp  time.Time
}

// RawBlame is the parsed, unresolved content of a blame response.
type RawBlame struct {
	CommitHash  string
	AuthorName  string
	AuthorEmail string
	Timestamp   time.Time
}

var (
	blameHashRe = regexp.MustCompile(`^([0-9a-f]{40})(?:\s|$)`)
	blameMailRe = regexp.MustCompile(`^author-mail <(.*)>$`)
)

const (
	authorPrefix        = "author "
	committerTimePrefix = "committer-time "
)

// ParseBlame parses `git blame --line-porcelain` output for a single line.
// The first line must start with the commit hash, the second must be the
// author and the third the author mail. committer-time may appear on any
// later line. Any deviation returns an *InconsistentBlameOutputError.
func ParseBlame(out string) (RawBlame, error) {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 3 {
		return RawBlame{}, inconsistent("expected at least 3 lines, got %d", len(lines))
	}

	m := blameHashRe.FindStringSubmatch(lines[0])
	if m == nil {
		return RawBlame{}, inconsistent("first line %q does not start with a commit hash", lines[0])
	}
	raw := RawBlame{CommitHash: m[1]}

	if !strings.HasPrefix(lines[1], authorPrefix) {
		return RawBlame{}, inconsistent("second line %q is not an author line", lines[1])
	}
	raw.AuthorName = strings.TrimPrefix(lines[1], authorPrefix)

	mm := blameMailRe.FindStringSubmatch(lines[2])
	if mm == nil {
		return RawBlame{}, inconsistent("third line %q is not an author-mail line", lines[2])
	}
	raw.AuthorEmail = mm[1]

	for _, l := range lines[3:] {
		if !strings.HasPrefix(l, committerTimePrefix) {
			continue
		}
		secs, err := strconv.ParseInt(strings.TrimPrefix(l, committerTimePrefix), 10, 64)
		if err != nil {
			return RawBlame{}, inconsistent("bad committer-time %q", l)
		}
		raw.Timestamp = time.Unix(secs, 0)
		return raw, nil
	}
	return RawBlame{}, inconsistent("no committer-time line")
}

func inconsistent(format string, args ...any) *InconsistentBlameOutputError {
	return &InconsistentBlameOutputError{Reason: fmt.Sprintf(format, args...)}
}

// BlameResolver blames candidate lines and resolves their authors.
type BlameResolver struct {
	querier  Querier
	resolver identity.Resolver
}

// NewBlameResolver returns a BlameResolver.
func NewBlameResolver(q Querier, r identity.Resolver) *BlameResolver {
	return &BlameResolver{querier: q, resolver: r}
}

// Resolve blames the candidate's line in its commit. Output that cannot be
// parsed yields an *InconsistentBlameOutputError.
func (b *BlameResolver) Resolve(ctx context.Context, c *CandidateLine) (BlameResult, error) {
	out, err := b.querier.BlameLine(ctx, c.CommitHash, c.FilePath, c.LineNumber)
	if err != nil {
		return BlameResult{}, fmt.Errorf("blame %s:%d at %s: %w", c.FilePath, c.LineNumber, c.CommitHash, err)
	}
	raw, err := ParseBlame(out)
	if err != nil {
		var ie *InconsistentBlameOutputError
		if errors.As(err, &ie) {
			ie.CommitHash, ie.FilePath, ie.LineNumber = c.CommitHash, c.FilePath, c.LineNumber
		}
		return BlameResult{}, err
	}
	return BlameResult{
		CommitHash: raw.CommitHash,
		Author:     b.resolver.Resolve(raw.AuthorName, raw.AuthorEmail),
		Timestamp:  raw.Timestamp,
	}, nil
}
