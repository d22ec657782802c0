// Package sched turns activity notifications into backlight state changes.
// It owns two delayed tasks, turn-on and turn-off, and the rules for when
// each is queued. The activity path never touches hardware itself; it only
// adjusts scheduling, so delivery stays cheap no matter how fast keypresses
// arrive.
package sched

import (
	"sync"
	"time"
)

// Task is a delayed, single-instance unit of work. At most one run is
// pending at a time; a run that has already started is never interrupted.
type Task struct {
	mu      sync.Mutex
	fn      func()
	timer   *time.Timer
	pending bool
	stopped bool

	wg sync.WaitGroup // in-flight runs
}

// NewTask creates a Task that executes fn when its delay elapses.
func NewTask(fn func()) *Task {
	return &Task{fn: fn}
}

// Schedule queues the task to run after d, unless a run is already pending.
// Redundant triggers while a run is pending or executing do not duplicate it.
func (t *Task) Schedule(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.pending {
		return
	}
	t.pending = true
	if t.timer == nil {
		t.timer = time.AfterFunc(d, t.run)
	} else {
		t.timer.Reset(d)
	}
}

// Reschedule queues the task to run after d, superseding any pending run
// that has not yet started. The delay always measures from this call.
func (t *Task) Reschedule(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.pending = true
	if t.timer == nil {
		t.timer = time.AfterFunc(d, t.run)
	} else {
		t.timer.Reset(d)
	}
}

// Stop cancels any pending run and waits for an in-flight run to finish.
// The task cannot be scheduled again afterwards.
func (t *Task) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.pending = false
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *Task) run() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.pending = false
	t.wg.Add(1)
	t.mu.Unlock()

	defer t.wg.Done()
	t.fn()
}
