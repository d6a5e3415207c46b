package gitint

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// ListFiles returns the paths of all non-binary files in commitHash's tree,
// sorted.
func (c *Client) ListFiles(commitHash string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	commit, err := c.commitLocked(commitHash)
	if err != nil {
		return nil, err
	}
	iter, err := commit.Files()
	if err != nil {
		return nil, fmt.Errorf("list files at %s: %w", short(commitHash), err)
	}
	defer iter.Close()

	var paths []string
	for {
		f, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate files at %s: %w", short(commitHash), err)
		}
		if isBinary(f) {
			continue
		}
		paths = append(paths, f.Name)
	}
	sort.Strings(paths)
	return paths, nil
}

func isBinary(f *object.File) bool {
	bin, err := f.IsBinary()
	// Unreadable blobs cannot be blamed line by line either.
	return err != nil || bin
}
