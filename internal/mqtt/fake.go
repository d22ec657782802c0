package mqtt

import (
	"sync"

	"github.com/lau-bin/acer-brightness/internal/backlight"
)

// FakePublisher records published events for test assertions.
// Safe for concurrent use: events may arrive from worker goroutines.
type FakePublisher struct {
	mu sync.Mutex

	// Events contains all backlight events that were published.
	Events []backlight.Event

	// SystemEvents contains all lifecycle events that were published.
	SystemEvents []SystemEvent

	// PublishError, if set, is returned by PublishEvent.
	PublishError error

	// PublishSystemError, if set, is returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishEvent records the backlight event.
func (f *FakePublisher) PublishEvent(event backlight.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PublishError != nil {
		return f.PublishError
	}
	f.Events = append(f.Events, event)
	return nil
}

// PublishSystem records the lifecycle event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	f.SystemEvents = append(f.SystemEvents, event)
	return nil
}

// EventsSnapshot returns a copy of the recorded backlight events.
func (f *FakePublisher) EventsSnapshot() []backlight.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]backlight.Event, len(f.Events))
	copy(out, f.Events)
	return out
}

// SystemEventsSnapshot returns a copy of the recorded lifecycle events.
func (f *FakePublisher) SystemEventsSnapshot() []SystemEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SystemEvent, len(f.SystemEvents))
	copy(out, f.SystemEvents)
	return out
}

// IsConnected reports whether the fake is "connected".
func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
