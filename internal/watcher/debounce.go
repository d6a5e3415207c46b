package watcher

import (
	"sync"
	"time"
)

// Event is one observed HEAD position.
type Event struct {
	// Key groups events that supersede each other, e.g. the repository path.
	Key       string
	Branch    string
	Commit    string
	Timestamp time.Time
}

// Debouncer collapses rapid events for the same key into a single emission
// after a quiet window. A commit or checkout touches several refs in quick
// succession, and only the final position matters. It is safe for concurrent
// use.
type Debouncer struct {
	window time.Duration
	emit   func(Event)

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]Event
	stopped bool
}

// NewDebouncer creates a Debouncer that waits for `window` of silence on a
// key before emitting the most recent event for that key.
func NewDebouncer(window time.Duration, emit func(Event)) *Debouncer {
	return &Debouncer{
		window:  window,
		emit:    emit,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]Event),
	}
}

// Feed receives a raw event. If a timer already exists for the event's key,
// it is reset and the stored event is replaced. Otherwise a new timer starts.
func (d *Debouncer) Feed(e Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[e.Key] = e

	if t, ok := d.timers[e.Key]; ok {
		t.Reset(d.window)
		return
	}

	key := e.Key
	d.timers[key] = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		ev, ok := d.pending[key]
		delete(d.timers, key)
		delete(d.pending, key)
		d.mu.Unlock()
		if ok {
			d.emit(ev)
		}
	})
}

// Stop cancels all pending timers and immediately emits their events.
// After Stop returns, subsequent Feed calls are no-ops.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true

	var toEmit []Event
	for key, t := range d.timers {
		t.Stop()
		if ev, ok := d.pending[key]; ok {
			toEmit = append(toEmit, ev)
		}
	}
	d.timers = nil
	d.pending = nil
	d.mu.Unlock()

	// Emit outside the lock to avoid potential deadlocks in callbacks.
	for _, ev := range toEmit {
		d.emit(ev)
	}
}
