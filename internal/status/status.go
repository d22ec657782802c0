// Package status provides a thread-safe status tracker for the
// acer-backlight daemon. It is read by the HTTP handlers and by heartbeat
// publishes.
package status

import (
	"sync"
	"time"

	"github.com/lau-bin/acer-brightness/internal/backlight"
)

// Config contains daemon configuration for display.
type Config struct {
	DefaultLevel  int
	AutoOffMs     int64
	DebounceMs    int64
	ApplyOnLoad   bool
	PayloadToggle int
	Device        string
	Broker        string
	HTTPAddr      string
	HeartbeatMs   int64
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Level         int // intended level
	Applied       int // believed-applied level, backlight.LevelUnknown before first write
	Lit           bool
	Counts        backlight.Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Applied:   backlight.LevelUnknown,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the backlight state fields. Called on every committed state
// change.
func (t *Tracker) Update(level, applied int, lit bool, counts backlight.Counts) {
	t.mu.Lock()
	t.snap.Level = level
	t.snap.Applied = applied
	t.snap.Lit = lit
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
