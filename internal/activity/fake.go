package activity

import "sync"

// FakeSource delivers activity on demand for tests.
type FakeSource struct {
	mu     sync.Mutex
	notify func()

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSource creates a FakeSource.
func NewFakeSource() *FakeSource {
	return &FakeSource{}
}

// Start records the notify callback.
func (f *FakeSource) Start(notify func()) error {
	f.mu.Lock()
	f.notify = notify
	f.mu.Unlock()
	return nil
}

// Fire delivers one activity notification. No-op before Start or after
// Close.
func (f *FakeSource) Fire() {
	f.mu.Lock()
	notify := f.notify
	closed := f.Closed
	f.mu.Unlock()

	if notify != nil && !closed {
		notify()
	}
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
