package main

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/lau-bin/acer-brightness/internal/config"
)

func TestSplitDevices(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"/dev/input/event3", []string{"/dev/input/event3"}},
		{"/dev/input/event3,/dev/input/event5", []string{"/dev/input/event3", "/dev/input/event5"}},
		{" /dev/input/event3 , /dev/input/event5 ", []string{"/dev/input/event3", "/dev/input/event5"}},
		{",,/dev/input/event3,", []string{"/dev/input/event3"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := splitDevices(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitDevices(%q): got %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitDevices(%q)[%d]: got %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	applyOverrides(&cfg, overrides{
		device:      "/dev/acer-gkbbl-1",
		level:       50,
		autoOffMs:   0,
		debounceMs:  200,
		applyOnLoad: true,
		inputs:      "/dev/input/event9",
		broker:      "tcp://10.0.0.1:1883",
		httpAddr:    ":9000",
	})

	if cfg.Backlight.Device != "/dev/acer-gkbbl-1" {
		t.Errorf("Device: got %q", cfg.Backlight.Device)
	}
	if cfg.Backlight.DefaultLevel != 50 {
		t.Errorf("DefaultLevel: got %d, want 50", cfg.Backlight.DefaultLevel)
	}
	if cfg.Backlight.AutoOffMs != 0 {
		t.Errorf("AutoOffMs: got %d, want 0 (explicit zero disables)", cfg.Backlight.AutoOffMs)
	}
	if cfg.Backlight.DebounceMs != 200 {
		t.Errorf("DebounceMs: got %d, want 200", cfg.Backlight.DebounceMs)
	}
	if !cfg.Backlight.ApplyOnLoad {
		t.Error("ApplyOnLoad: got false, want true")
	}
	if len(cfg.Activity.Devices) != 1 || cfg.Activity.Devices[0] != "/dev/input/event9" {
		t.Errorf("Devices: got %v", cfg.Activity.Devices)
	}
	if cfg.MQTT.Broker != "tcp://10.0.0.1:1883" {
		t.Errorf("Broker: got %q", cfg.MQTT.Broker)
	}
	if cfg.HTTP.Addr != ":9000" {
		t.Errorf("Addr: got %q", cfg.HTTP.Addr)
	}
}

func TestApplyOverridesUnsetLeavesConfig(t *testing.T) {
	cfg := config.Default()
	want := cfg
	applyOverrides(&cfg, overrides{level: -1, autoOffMs: -1, debounceMs: -1})

	if cfg.Backlight.DefaultLevel != want.Backlight.DefaultLevel {
		t.Errorf("DefaultLevel changed: got %d", cfg.Backlight.DefaultLevel)
	}
	if cfg.Backlight.AutoOffMs != want.Backlight.AutoOffMs {
		t.Errorf("AutoOffMs changed: got %d", cfg.Backlight.AutoOffMs)
	}
	if cfg.Backlight.Device != want.Backlight.Device {
		t.Errorf("Device changed: got %q", cfg.Backlight.Device)
	}
}

func TestSignalName(t *testing.T) {
	if got := signalName(syscall.SIGINT); got != "SIGINT" {
		t.Errorf("SIGINT: got %q", got)
	}
	if got := signalName(syscall.SIGTERM); got != "SIGTERM" {
		t.Errorf("SIGTERM: got %q", got)
	}
	if got := signalName(syscall.SIGHUP); got != "UNKNOWN" {
		t.Errorf("SIGHUP: got %q", got)
	}
}

func TestWaitLoopReturnsOnSignal(t *testing.T) {
	sig := make(chan os.Signal, 1)
	sig <- syscall.SIGTERM

	got := waitLoop(sig, nil, func() { t.Error("unexpected heartbeat") })
	if got != syscall.SIGTERM {
		t.Errorf("signal: got %v, want SIGTERM", got)
	}
}

func TestWaitLoopHeartbeats(t *testing.T) {
	sig := make(chan os.Signal, 1)
	tick := make(chan time.Time, 2)

	beats := 0
	tick <- time.Time{}
	tick <- time.Time{}
	go func() {
		// Let both ticks drain first, then stop the loop.
		time.Sleep(50 * time.Millisecond)
		sig <- syscall.SIGINT
	}()

	got := waitLoop(sig, tick, func() { beats++ })
	if got != syscall.SIGINT {
		t.Errorf("signal: got %v", got)
	}
	if beats != 2 {
		t.Errorf("heartbeats: got %d, want 2", beats)
	}
}
