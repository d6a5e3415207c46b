// Package diffparse parses unified diff output from `git diff` into per-file
// chunks and hunks, numbering every pre-image line the way the diff itself
// does so callers can blame a deleted line in the parent commit.
package diffparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AddedFileSentinel is the pre-image path of a file that did not exist before
// the diff (git prints it as "--- /dev/null").
const AddedFileSentinel = "dev/null"

// ErrMalformedHunkHeader is returned when a hunk header does not carry the
// "@@ -<start>,<count> +<start>,<count> @@" range. It means the diff producer
// broke its output contract, so callers should abort rather than guess.
var ErrMalformedHunkHeader = errors.New("malformed hunk header")

// LineKind says how a diff line relates to the pre-image and post-image.
type LineKind int

const (
	// Context lines exist unchanged on both sides.
	Context LineKind = iota
	// Added lines exist only in the post-image.
	Added
	// Deleted lines exist only in the pre-image.
	Deleted
)

// String returns the lowercase name of the kind.
func (k LineKind) String() string {
	switch k {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	default:
		return "context"
	}
}

// Line is one physical line inside a hunk.
type Line struct {
	Kind    LineKind
	Content string
	// PreImageLine is the 1-indexed position in the pre-image file for
	// Deleted and Context lines, and 0 for Added lines.
	PreImageLine int
}

// Hunk is a contiguous region of change.
type Hunk struct {
	Header        string
	PreImageStart int
	Lines         []Line
}

// FileDiff is the part of a diff describing one file.
type FileDiff struct {
	PreImagePath  string
	PostImagePath string
	Hunks         []Hunk
}

// IsAddedFile reports whether the file did not exist in the pre-image.
func (f FileDiff) IsAddedFile() bool {
	return f.PreImagePath == AddedFileSentinel
}

// HasAddedLine reports whether the hunk adds a line equal to content, apart
// from trailing whitespace. Blame runs with -w, so the commit it names may
// have added the line with different trailing blanks.
func (h Hunk) HasAddedLine(content string) bool {
	want := trimTrailingSpace(content)
	for _, l := range h.Lines {
		if l.Kind == Added && trimTrailingSpace(l.Content) == want {
			return true
		}
	}
	return false
}

func trimTrailingSpace(s string) string {
	return strings.TrimRight(s, " \t\r")
}

// DeletedLines returns the deleted lines of the hunk in diff order.
func (h Hunk) DeletedLines() []Line {
	var out []Line
	for _, l := range h.Lines {
		if l.Kind == Deleted {
			out = append(out, l)
		}
	}
	return out
}

const (
	fileMarker   = "diff --git "
	preImageTag  = "--- "
	postImageTag = "+++ "
	hunkTag      = "@@"
	noNewlineTag = `\`
)

// hunkHeaderRe captures the pre-image starting line. Counts are optional
// because git omits them for single-line ranges.
var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+\d+(?:,\d+)? @@`)

// ParseHunkHeader returns the pre-image starting line number of a hunk header.
func ParseHunkHeader(header string) (int, error) {
	m := hunkHeaderRe.FindStringSubmatch(header)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedHunkHeader, header)
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedHunkHeader, header, err)
	}
	return start, nil
}

// ParseFiles splits raw multi-file diff output at "diff --git" markers and
// parses each chunk. Chunks without a ---/+++ path pair (binary files, mode
// changes) are returned with empty paths and no hunks.
func ParseFiles(raw string) ([]FileDiff, error) {
	if raw == "" {
		return nil, nil
	}

	lines := strings.Split(raw, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var (
		files   []FileDiff
		cur     *FileDiff
		hunk    *Hunk
		preLine int
	)

	flushHunk := func() {
		if cur != nil && hunk != nil {
			cur.Hunks = append(cur.Hunks, *hunk)
		}
		hunk = nil
	}
	flushFile := func() {
		flushHunk()
		if cur != nil {
			files = append(files, *cur)
		}
		cur = nil
	}

	for _, line := range lines {
		if strings.HasPrefix(line, fileMarker) {
			flushFile()
			cur = &FileDiff{}
			continue
		}
		if cur == nil {
			// Preamble before the first file marker (e.g. commit headers).
			continue
		}

		if strings.HasPrefix(line, hunkTag) {
			flushHunk()
			start, err := ParseHunkHeader(line)
			if err != nil {
				return nil, err
			}
			hunk = &Hunk{Header: line, PreImageStart: start}
			preLine = start
			continue
		}

		if hunk == nil {
			switch {
			case strings.HasPrefix(line, preImageTag):
				cur.PreImagePath = parsePath(strings.TrimPrefix(line, preImageTag), "a/")
			case strings.HasPrefix(line, postImageTag):
				cur.PostImagePath = parsePath(strings.TrimPrefix(line, postImageTag), "b/")
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "+"):
			hunk.Lines = append(hunk.Lines, Line{Kind: Added, Content: line[1:]})
		case strings.HasPrefix(line, "-"):
			hunk.Lines = append(hunk.Lines, Line{Kind: Deleted, Content: line[1:], PreImageLine: preLine})
			preLine++
		case strings.HasPrefix(line, noNewlineTag):
			// "\ No newline at end of file" annotates the previous line.
		default:
			content := strings.TrimPrefix(line, " ")
			hunk.Lines = append(hunk.Lines, Line{Kind: Context, Content: content, PreImageLine: preLine})
			preLine++
		}
	}
	flushFile()

	return files, nil
}

// ForPath returns the chunks whose post-image path equals path and whose
// pre-image existed. Renamed files keep their old pre-image path.
func ForPath(files []FileDiff, path string) []FileDiff {
	var out []FileDiff
	for _, f := range files {
		if f.IsAddedFile() || f.PostImagePath != path {
			continue
		}
		out = append(out, f)
	}
	return out
}

// parsePath strips the a/ or b/ prefix git adds, unquotes C-style quoted
// paths and maps /dev/null to AddedFileSentinel.
func parsePath(raw, prefix string) string {
	raw = strings.TrimRight(raw, "\t")
	if strings.HasPrefix(raw, `"`) {
		if unq, err := strconv.Unquote(raw); err == nil {
			raw = unq
		}
	}
	if raw == "/dev/null" {
		return AddedFileSentinel
	}
	return strings.TrimPrefix(raw, prefix)
}
