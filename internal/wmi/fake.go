package wmi

import "sync"

// Fake records applied brightness levels for test assertions.
// Safe for concurrent use: Apply may be called from worker goroutines while
// a test inspects recorded calls.
type Fake struct {
	mu sync.Mutex

	// levels holds every level passed to Apply, in order.
	levels []int

	// ApplyError, if set, is returned by Apply (and the call is not recorded).
	ApplyError error

	// Toggle is the toggle byte used when recording payloads.
	Toggle int
}

// NewFake creates a Fake applier with toggle byte 1.
func NewFake() *Fake {
	return &Fake{Toggle: 1}
}

// Apply records the level, or returns ApplyError if set.
func (f *Fake) Apply(level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ApplyError != nil {
		return f.ApplyError
	}
	f.levels = append(f.levels, level)
	return nil
}

// Levels returns a copy of the levels applied so far.
func (f *Fake) Levels() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.levels))
	copy(out, f.levels)
	return out
}

// Calls returns how many times Apply succeeded.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.levels)
}

// SetError makes subsequent Apply calls fail with err (nil to clear).
func (f *Fake) SetError(err error) {
	f.mu.Lock()
	f.ApplyError = err
	f.mu.Unlock()
}

// Reset clears recorded calls and any injected error.
func (f *Fake) Reset() {
	f.mu.Lock()
	f.levels = nil
	f.ApplyError = nil
	f.mu.Unlock()
}
