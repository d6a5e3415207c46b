package gitint

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// WatchHead watches the repository at repoPath for HEAD moving, either by a
// branch switch or by a new commit on the current branch. onChange is called
// with the new branch name and commit hash each time the commit changes.
// Returns a cancel function to stop watching and any error.
func WatchHead(repoPath string, onChange func(branch, commit string)) (cancel func(), err error) {
	gitDir := filepath.Join(repoPath, ".git")
	headsDir := filepath.Join(gitDir, "refs", "heads")

	currentCommit, err := HeadCommit(context.Background(), repoPath)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{gitDir, headsDir} {
		if _, statErr := os.Stat(dir); statErr != nil {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	var mu sync.Mutex
	done := make(chan struct{})

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isHeadEvent(event, gitDir, headsDir) {
					continue
				}

				commit, err := HeadCommit(context.Background(), repoPath)
				if err != nil {
					// HEAD can be mid-write (lock file renamed in); the next
					// event will retry.
					continue
				}

				mu.Lock()
				changed := commit != currentCommit
				if changed {
					currentCommit = commit
				}
				mu.Unlock()

				if changed {
					branch, err := CurrentBranch(context.Background(), repoPath)
					if err != nil {
						branch = commit
					}
					onChange(branch, commit)
				}
			case <-watcher.Errors:
				// Ignore errors silently.
			case <-done:
				return
			}
		}
	}()

	cancel = func() {
		close(done)
		watcher.Close()
	}
	return cancel, nil
}

// isHeadEvent reports whether event touches .git/HEAD or a branch ref.
func isHeadEvent(event fsnotify.Event, gitDir, headsDir string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	if strings.HasSuffix(event.Name, ".lock") {
		return false
	}
	if filepath.Dir(event.Name) == headsDir {
		return true
	}
	return filepath.Dir(event.Name) == gitDir && filepath.Base(event.Name) == "HEAD"
}
