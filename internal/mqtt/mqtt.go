// Package mqtt publishes backlight state changes and accepts remote
// brightness commands over MQTT. The real client buffers messages while the
// broker is unreachable and replays them on reconnect.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/lau-bin/acer-brightness/internal/backlight"
)

// TopicEvents carries backlight state-change events.
const TopicEvents = "acer/backlight/events"

// TopicSystem carries daemon lifecycle events.
const TopicSystem = "acer/backlight/system"

// TopicSet accepts remote brightness commands (integer payload, 0-100).
const TopicSet = "acer/backlight/set"

// Publisher publishes backlight and lifecycle events.
type Publisher interface {
	// PublishEvent sends a backlight state change to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishEvent(event backlight.Event) error

	// PublishSystem sends a daemon lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SetFunc handles a remote brightness command. The level has already been
// clamped to 0-100 at the boundary.
type SetFunc func(level int) error

// SystemEvent represents a daemon lifecycle event.
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // shutdown signal name, if any
	RawPayload []byte // pre-formatted JSON; if set, FormatSystemPayload returns it directly
	Retained   bool
}

// EventPayload is the JSON structure published on TopicEvents.
type EventPayload struct {
	Backlight EventInner `json:"backlight"`
}

// EventInner contains the event details.
type EventInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Level     int    `json:"level"`
	Lit       bool   `json:"lit"`
}

// FormatEventPayload creates the JSON payload for a backlight event.
func FormatEventPayload(event backlight.Event) ([]byte, error) {
	payload := EventPayload{
		Backlight: EventInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Level:     event.Level,
			Lit:       event.Lit,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the JSON structure published on TopicSystem for simple
// events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemInner `json:"system"`
}

// SystemInner contains the system event details.
type SystemInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
