// Package watcher re-runs attribution whenever a repository's HEAD moves.
package watcher

import (
	"context"
	"log"
	"time"

	"github.com/anthropic/linecredit/internal/gitint"
)

// DefaultWindow is how long HEAD must stay put before a change is handled.
const DefaultWindow = 250 * time.Millisecond

// Handler processes a new HEAD position. It runs on the watcher's goroutine,
// one call at a time.
type Handler func(ctx context.Context, branch, commit string) error

// Watcher monitors a repository's HEAD, debounces ref churn, and hands each
// settled commit to a Handler. While the handler runs, newer commits replace
// older queued ones so a slow analysis never builds a backlog.
type Watcher struct {
	repoPath string
	window   time.Duration
	handler  Handler

	queue     chan Event
	debouncer *Debouncer
}

// New creates a Watcher for repoPath.
func New(repoPath string, window time.Duration, h Handler) *Watcher {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Watcher{
		repoPath: repoPath,
		window:   window,
		handler:  h,
		queue:    make(chan Event, 1),
	}
}

// Run watches until ctx is cancelled. Handler errors are logged, not fatal.
func (w *Watcher) Run(ctx context.Context) error {
	w.debouncer = NewDebouncer(w.window, w.enqueue)

	cancel, err := gitint.WatchHead(w.repoPath, func(branch, commit string) {
		w.debouncer.Feed(Event{
			Key:       w.repoPath,
			Branch:    branch,
			Commit:    commit,
			Timestamp: time.Now(),
		})
	})
	if err != nil {
		return err
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			w.debouncer.Stop()
			return nil
		case ev := <-w.queue:
			if err := w.handler(ctx, ev.Branch, ev.Commit); err != nil {
				log.Printf("watcher: handle %s at %s: %v", ev.Branch, ev.Commit, err)
			}
		}
	}
}

// enqueue puts e on the queue, replacing any event still waiting.
func (w *Watcher) enqueue(e Event) {
	for {
		select {
		case w.queue <- e:
			return
		default:
		}
		select {
		case <-w.queue:
		default:
		}
	}
}
