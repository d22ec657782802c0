package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/lau-bin/acer-brightness/internal/backlight"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{DefaultLevel: 100, AutoOffMs: 2000, Device: "/dev/acer-gkbbl-0", HTTPAddr: ":8099"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.AutoOffMs != 2000 {
		t.Errorf("Config.AutoOffMs: got %d, want 2000", snap.Config.AutoOffMs)
	}
	if snap.Applied != backlight.LevelUnknown {
		t.Errorf("Applied: got %d, want LevelUnknown", snap.Applied)
	}
	if snap.Lit {
		t.Error("expected Lit=false initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Update(80, 80, true, backlight.Counts{TurnOns: 3, TurnOffs: 2})

	snap := tr.Snapshot()
	if snap.Level != 80 {
		t.Errorf("Level: got %d, want 80", snap.Level)
	}
	if snap.Applied != 80 {
		t.Errorf("Applied: got %d, want 80", snap.Applied)
	}
	if !snap.Lit {
		t.Error("expected Lit=true")
	}
	if snap.Counts.TurnOns != 3 {
		t.Errorf("Counts.TurnOns: got %d, want 3", snap.Counts.TurnOns)
	}
	if snap.Counts.TurnOffs != 2 {
		t.Errorf("Counts.TurnOffs: got %d, want 2", snap.Counts.TurnOffs)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}
	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	tr := NewTracker(start, Config{})

	up := tr.Snapshot().Uptime()
	if up < 89*time.Second || up > 95*time.Second {
		t.Errorf("Uptime: got %v, want ~90s", up)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			tr.Update(n, n, n%2 == 0, backlight.Counts{TurnOns: n})
		}(i)
		go func() {
			defer wg.Done()
			_ = tr.Snapshot()
		}()
	}
	wg.Wait()
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{DefaultLevel: 100, AutoOffMs: 2000, Device: "/dev/acer-gkbbl-0"})
	tr.Update(80, 80, true, backlight.Counts{TurnOns: 1})

	data := FormatJSON(tr.Snapshot())

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Level != 80 {
		t.Errorf("level: got %d, want 80", parsed.Status.Level)
	}
	if parsed.Status.Applied != "80" {
		t.Errorf("applied: got %q, want \"80\"", parsed.Status.Applied)
	}
	if !parsed.Status.Lit {
		t.Error("expected lit=true")
	}
	if parsed.Status.Event != "" {
		t.Errorf("web JSON should not carry an event, got %q", parsed.Status.Event)
	}
	if parsed.Status.Config.AutoOffMs != 2000 {
		t.Errorf("config.auto_off_ms: got %d", parsed.Status.Config.AutoOffMs)
	}
}

func TestFormatJSONUnknownApplied(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Applied != "unknown" {
		t.Errorf("applied: got %q, want \"unknown\"", parsed.Status.Applied)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	data := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("event: got %q", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("reason: got %q", parsed.Status.Reason)
	}
}
