package activity

import "testing"

func TestIsKeyDown(t *testing.T) {
	tests := []struct {
		name string
		ev   inputEvent
		want bool
	}{
		{"key press", inputEvent{Type: evKey, Code: 30, Value: evValuePress}, true},
		{"key repeat", inputEvent{Type: evKey, Code: 30, Value: evValueRepeat}, true},
		{"key release", inputEvent{Type: evKey, Code: 30, Value: evValueRelease}, false},
		{"syn event", inputEvent{Type: 0x00, Value: evValuePress}, false},
		{"msc event", inputEvent{Type: 0x04, Value: evValuePress}, false},
		{"led event", inputEvent{Type: 0x11, Value: evValuePress}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isKeyDown(tt.ev); got != tt.want {
				t.Errorf("isKeyDown(%+v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

func TestFakeSourceFire(t *testing.T) {
	f := NewFakeSource()

	// Fire before Start is a no-op.
	f.Fire()

	var count int
	if err := f.Start(func() { count++ }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	f.Fire()
	f.Fire()
	if count != 2 {
		t.Errorf("notifications: got %d, want 2", count)
	}
}

func TestFakeSourceClose(t *testing.T) {
	f := NewFakeSource()
	var count int
	if err := f.Start(func() { count++ }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.Closed {
		t.Error("expected Closed after Close()")
	}

	f.Fire()
	if count != 0 {
		t.Errorf("notifications after close: got %d, want 0", count)
	}
}
