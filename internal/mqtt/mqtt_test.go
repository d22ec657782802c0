package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lau-bin/acer-brightness/internal/backlight"
)

func TestFormatEventPayload(t *testing.T) {
	event := backlight.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Type:      backlight.EventTurnOn,
		Level:     80,
		Lit:       true,
	}

	payload, err := FormatEventPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed EventPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Backlight.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Backlight.Timestamp)
	}
	if parsed.Backlight.Event != "TURN_ON" {
		t.Errorf("unexpected event: %s", parsed.Backlight.Event)
	}
	if parsed.Backlight.Level != 80 {
		t.Errorf("unexpected level: %d", parsed.Backlight.Level)
	}
	if !parsed.Backlight.Lit {
		t.Error("expected lit=true")
	}
}

func TestFormatEventPayloadAllTypes(t *testing.T) {
	tests := []struct {
		eventType backlight.EventType
		level     int
		lit       bool
		wantEvent string
	}{
		{backlight.EventSet, 30, true, "SET"},
		{backlight.EventTurnOn, 80, true, "TURN_ON"},
		{backlight.EventTurnOff, 0, false, "TURN_OFF"},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			payload, err := FormatEventPayload(backlight.Event{
				Timestamp: time.Now(),
				Type:      tt.eventType,
				Level:     tt.level,
				Lit:       tt.lit,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed EventPayload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if parsed.Backlight.Event != tt.wantEvent {
				t.Errorf("event: got %s, want %s", parsed.Backlight.Event, tt.wantEvent)
			}
			if parsed.Backlight.Level != tt.level {
				t.Errorf("level: got %d, want %d", parsed.Backlight.Level, tt.level)
			}
			if parsed.Backlight.Lit != tt.lit {
				t.Errorf("lit: got %v, want %v", parsed.Backlight.Lit, tt.lit)
			}
		})
	}
}

func TestFormatSystemPayload(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Event != "SHUTDOWN" {
		t.Errorf("event: got %s", parsed.System.Event)
	}
	if parsed.System.Reason != "SIGTERM" {
		t.Errorf("reason: got %s", parsed.System.Reason)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"custom":true}`)
	payload, err := FormatSystemPayload(SystemEvent{RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload not returned verbatim: %s", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	err := f.PublishEvent(backlight.Event{Type: backlight.EventTurnOn, Level: 80, Lit: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events := f.EventsSnapshot()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != backlight.EventTurnOn {
		t.Errorf("unexpected event type: %s", events[0].Type)
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker unavailable")

	if err := f.PublishEvent(backlight.Event{}); err == nil {
		t.Fatal("expected error")
	}
	if len(f.EventsSnapshot()) != 0 {
		t.Error("failed publish was recorded")
	}
}

func TestMsgBufferPushDrain(t *testing.T) {
	b := newMsgBuffer(10)
	if got := b.drain(); got != nil {
		t.Errorf("expected nil from empty drain, got %d items", len(got))
	}

	for i := 0; i < 5; i++ {
		b.push(outMsg{topic: "t", payload: []byte{byte(i)}})
	}
	got := b.drain()
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i := range got {
		if got[i].payload[0] != byte(i) {
			t.Errorf("item %d: payload %d", i, got[i].payload[0])
		}
	}

	if got := b.drain(); got != nil {
		t.Errorf("expected nil from second drain, got %d items", len(got))
	}
}

func TestMsgBufferOverflowKeepsNewest(t *testing.T) {
	b := newMsgBuffer(5)
	for i := 0; i < 8; i++ {
		b.push(outMsg{topic: "t", payload: []byte{byte(i)}})
	}

	got := b.drain()
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i := range got {
		want := byte(i + 3) // oldest 3 dropped
		if got[i].payload[0] != want {
			t.Errorf("item %d: got %d, want %d", i, got[i].payload[0], want)
		}
	}
}

func TestMsgBufferCycles(t *testing.T) {
	b := newMsgBuffer(4)

	for cycle := 0; cycle < 3; cycle++ {
		for i := 0; i < 3; i++ {
			b.push(outMsg{payload: []byte{byte(cycle*10 + i)}})
		}
		got := b.drain()
		if len(got) != 3 {
			t.Fatalf("cycle %d: expected 3 items, got %d", cycle, len(got))
		}
		if b.len() != 0 {
			t.Fatalf("cycle %d: buffer not empty after drain", cycle)
		}
	}
}
