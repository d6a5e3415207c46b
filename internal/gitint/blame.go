package gitint

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
)

// SnapshotLine is one line of a file at a commit, with the commit and author
// that last touched it.
type SnapshotLine struct {
	LineNumber  int
	Content     string
	CommitHash  string
	AuthorName  string
	AuthorEmail string
	When        time.Time
}

// BlameFile runs blame on filePath as it exists in commitHash and returns
// per-line authorship. Deleted or missing files return an error.
//
// Blame is expensive -- callers should run it once per file snapshot and
// reuse the result for every line.
func (c *Client) BlameFile(commitHash, filePath string) ([]SnapshotLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	commit, err := c.commitLocked(commitHash)
	if err != nil {
		return nil, err
	}

	result, err := git.Blame(commit, filePath)
	if err != nil {
		return nil, fmt.Errorf("blame %s at %s: %w", filePath, short(commitHash), err)
	}

	lines := make([]SnapshotLine, 0, len(result.Lines))
	for i, line := range result.Lines {
		// go-git Line: Author is email, AuthorName is name.
		lines = append(lines, SnapshotLine{
			LineNumber:  i + 1,
			Content:     line.Text,
			CommitHash:  line.Hash.String(),
			AuthorName:  strings.TrimSpace(line.AuthorName),
			AuthorEmail: strings.TrimSpace(line.Author),
			When:        line.Date,
		})
	}
	return lines, nil
}

// short abbreviates a commit hash for log and error messages.
func short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
