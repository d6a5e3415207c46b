package gitint

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CurrentBranch returns the current branch name for the git repository at repoPath.
// For detached HEAD, it returns the commit hash.
func CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "symbolic-ref", "--short", "HEAD")
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err == nil {
		return strings.TrimSpace(string(out)), nil
	}
	// Detached HEAD: fall back to the commit hash.
	return HeadCommit(ctx, repoPath)
}

// HeadCommit returns the full hash of the commit HEAD points at.
func HeadCommit(ctx context.Context, repoPath string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse HEAD: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
