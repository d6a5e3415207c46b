// Package gitint provides the git queries line attribution depends on.
//
// Object lookups (parents, snapshot blame, tree listing) go through go-git.
// Unified diffs and single-line porcelain blame come from the git binary,
// because their exact text format is what the attribution parsers consume.
package gitint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Client answers the git queries authorship.Querier describes for one
// repository working tree. Results for a given commit hash never change,
// which makes every query cacheable.
type Client struct {
	path string

	// go-git object storage is not documented as safe for concurrent use.
	mu   sync.Mutex
	repo *git.Repository
}

// Open opens an existing git repository at repoPath.
func Open(repoPath string) (*Client, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open git repo at %s: %w", repoPath, err)
	}
	return &Client{
		repo: repo,
		path: repoPath,
	}, nil
}

// Path returns the repository root.
func (c *Client) Path() string {
	return c.path
}

// Repo returns the underlying go-git repository for direct access.
func (c *Client) Repo() *git.Repository {
	return c.repo
}

// ResolveRevision turns a revision (branch, tag, HEAD~2, short hash) into a
// full commit hash.
func (c *Client) ResolveRevision(rev string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, err := c.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("resolve revision %q: %w", rev, err)
	}
	return h.String(), nil
}

// ParentCommits returns the parents of commitHash in the order git stores
// them. A root commit has none.
func (c *Client) ParentCommits(ctx context.Context, commitHash string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	commit, err := c.commitLocked(commitHash)
	if err != nil {
		return nil, err
	}
	parents := make([]string, 0, len(commit.ParentHashes))
	for _, h := range commit.ParentHashes {
		parents = append(parents, h.String())
	}
	return parents, nil
}

// Diff returns the unified diff from fromCommit to toCommit. Rename
// detection is off, so a renamed file shows up as a deletion plus an addition.
func (c *Client) Diff(ctx context.Context, fromCommit, toCommit string) (string, error) {
	return c.run(ctx, "diff", "--no-color", "--no-ext-diff", "--ignore-submodules", "--no-renames",
		fromCommit, toCommit)
}

// BlameLine returns `git blame --line-porcelain` output for one line of
// filePath as it existed in commitHash. Whitespace-only changes are ignored.
func (c *Client) BlameLine(ctx context.Context, commitHash, filePath string, lineNumber int) (string, error) {
	return c.run(ctx, "blame", "-w", "--line-porcelain",
		"-L", fmt.Sprintf("%d,+1", lineNumber), commitHash, "--", filePath)
}

// Commit returns the commit object for a full or abbreviated hash.
func (c *Client) Commit(commitHash string) (*object.Commit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commitLocked(commitHash)
}

func (c *Client) commitLocked(commitHash string) (*object.Commit, error) {
	var h plumbing.Hash
	if len(commitHash) == 40 && plumbing.IsHash(commitHash) {
		h = plumbing.NewHash(commitHash)
	} else {
		resolved, err := c.repo.ResolveRevision(plumbing.Revision(commitHash))
		if err != nil {
			return nil, fmt.Errorf("resolve commit %q: %w", commitHash, err)
		}
		h = *resolved
	}
	commit, err := c.repo.CommitObject(h)
	if err != nil {
		return nil, fmt.Errorf("get commit %s: %w", commitHash, err)
	}
	return commit, nil
}

// run executes git in the repository root and returns stdout.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.path
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}
