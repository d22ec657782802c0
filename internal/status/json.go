package status

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/lau-bin/acer-brightness/internal/backlight"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Level         int        `json:"level"`
	Applied       string     `json:"applied"`
	Lit           bool       `json:"lit"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker,omitempty"`
}

// CountsJSON is the JSON representation of transition counts.
type CountsJSON struct {
	Sets        int `json:"sets"`
	TurnOns     int `json:"turn_ons"`
	TurnOffs    int `json:"turn_offs"`
	ApplyErrors int `json:"apply_errors"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	DefaultLevel  int    `json:"default_level"`
	AutoOffMs     int64  `json:"auto_off_ms"`
	DebounceMs    int64  `json:"debounce_ms"`
	ApplyOnLoad   bool   `json:"apply_on_load"`
	PayloadToggle int    `json:"payload_toggle"`
	Device        string `json:"device"`
	HeartbeatMs   int64  `json:"heartbeat_ms"`
	Broker        string `json:"broker,omitempty"`
	HTTPAddr      string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	// Applied is a belief, not a measurement; "unknown" before the first
	// successful write.
	applied := "unknown"
	if snap.Applied != backlight.LevelUnknown {
		applied = strconv.Itoa(snap.Applied)
	}

	return StatusInner{
		Level:         snap.Level,
		Applied:       applied,
		Lit:           snap.Lit,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Sets:        snap.Counts.Sets,
			TurnOns:     snap.Counts.TurnOns,
			TurnOffs:    snap.Counts.TurnOffs,
			ApplyErrors: snap.Counts.ApplyErrors,
		},
		Config: ConfigJSON{
			DefaultLevel:  snap.Config.DefaultLevel,
			AutoOffMs:     snap.Config.AutoOffMs,
			DebounceMs:    snap.Config.DebounceMs,
			ApplyOnLoad:   snap.Config.ApplyOnLoad,
			PayloadToggle: snap.Config.PayloadToggle,
			Device:        snap.Config.Device,
			HeartbeatMs:   snap.Config.HeartbeatMs,
			Broker:        snap.Config.Broker,
			HTTPAddr:      snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
