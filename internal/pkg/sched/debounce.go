// Package sched provides debouncing utilities for event handling.
package sched

import (
	"sync"
	"time"
)

// Debouncer delays a function until a quiet period has elapsed without any
// new calls. Rapid successive calls reset the timer.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer creates a new debouncer with the specified duration.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce schedules fn after the debounce duration, cancelling any pending
// call.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel cancels any pending debounced function call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Arena keys cancellable debounced tasks by cell id. Each id has at most
// one pending task; scheduling again resets its timer. Deleting a cell must
// cancel its task so no callback fires against a removed id.
type Arena struct {
	mu       sync.Mutex
	duration time.Duration
	tasks    map[int]*Debouncer
}

// NewArena creates an arena whose tasks all share one quiet period.
func NewArena(duration time.Duration) *Arena {
	return &Arena{
		duration: duration,
		tasks:    make(map[int]*Debouncer),
	}
}

// Schedule (re)arms the task for id. fn runs once the quiet period elapses
// with no further Schedule calls for that id.
func (a *Arena) Schedule(id int, fn func()) {
	a.mu.Lock()
	d, ok := a.tasks[id]
	if !ok {
		d = NewDebouncer(a.duration)
		a.tasks[id] = d
	}
	a.mu.Unlock()

	d.Debounce(fn)
}

// Cancel drops any pending task for id.
func (a *Arena) Cancel(id int) {
	a.mu.Lock()
	d, ok := a.tasks[id]
	if ok {
		delete(a.tasks, id)
	}
	a.mu.Unlock()

	if ok {
		d.Cancel()
	}
}

// Shutdown cancels every pending task.
func (a *Arena) Shutdown() {
	a.mu.Lock()
	tasks := a.tasks
	a.tasks = make(map[int]*Debouncer)
	a.mu.Unlock()

	for _, d := range tasks {
		d.Cancel()
	}
}

// Pending reports whether id currently has a scheduled task debouncer.
func (a *Arena) Pending(id int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.tasks[id]
	return ok
}
