// Package config loads and sanitizes the daemon configuration. The YAML
// file is the primary surface; command-line flags override individual
// fields. Out-of-range values are clamped, never rejected — the daemon
// always starts with a best-effort sanitized configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration for the acer-backlight daemon.
type Config struct {
	Backlight BacklightConfig `yaml:"backlight"`
	Activity  ActivityConfig  `yaml:"activity"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	HTTP      HTTPConfig      `yaml:"http"`
}

// BacklightConfig controls the brightness state machine and the WMI device.
type BacklightConfig struct {
	// DefaultLevel is the intended brightness at startup (0-100).
	DefaultLevel int `yaml:"default_level"`

	// AutoOffMs is the idle window in milliseconds before the backlight
	// turns off. 0 disables auto-off.
	AutoOffMs int `yaml:"auto_off_ms"`

	// DebounceMs is the minimum spacing between off-to-on applies.
	// 0 disables debouncing.
	DebounceMs int `yaml:"debounce_ms"`

	// ApplyOnLoad applies DefaultLevel immediately at startup.
	ApplyOnLoad bool `yaml:"apply_on_load"`

	// PayloadToggle is forwarded verbatim as payload byte 9 (0 or 1).
	PayloadToggle int `yaml:"payload_toggle"`

	// Device is the gaming backlight character device node.
	Device string `yaml:"device"`
}

// ActivityConfig selects the activity sources.
type ActivityConfig struct {
	// Devices lists evdev input devices to watch for keypresses.
	Devices []string `yaml:"devices,omitempty"`

	// GPIOPin, if >= 0, watches a GPIO line for rising edges as an
	// additional activity source (external keypads on embedded panels).
	GPIOPin int `yaml:"gpio_pin"`

	// GPIOChip is the gpiochip device for GPIOPin.
	GPIOChip string `yaml:"gpio_chip,omitempty"`
}

// MQTTConfig controls telemetry and the remote set topic.
type MQTTConfig struct {
	// Broker is the MQTT broker address. Empty or "off" disables MQTT.
	Broker string `yaml:"broker"`

	// HeartbeatMs is the interval between heartbeat status publishes.
	// 0 disables heartbeats.
	HeartbeatMs int `yaml:"heartbeat_ms"`
}

// HTTPConfig controls the HTTP control surface.
type HTTPConfig struct {
	// Addr is the listen address. Empty disables the HTTP server.
	Addr string `yaml:"addr"`
}

// Default returns a fully-populated Config matching the driver defaults.
func Default() Config {
	return Config{
		Backlight: BacklightConfig{
			DefaultLevel:  100,
			AutoOffMs:     2000,
			DebounceMs:    0,
			ApplyOnLoad:   false,
			PayloadToggle: 1,
			Device:        "/dev/acer-gkbbl-0",
		},
		Activity: ActivityConfig{
			Devices: []string{"/dev/input/event0"},
			GPIOPin: -1,
		},
		MQTT: MQTTConfig{
			Broker:      "",
			HeartbeatMs: 0,
		},
		HTTP: HTTPConfig{
			Addr: ":8099",
		},
	}
}

// Load reads the YAML file at path on top of the defaults. A missing path
// ("") returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Sanitize clamps every field into its valid domain and returns a list of
// corrections for logging. The config is always usable afterwards.
func (c *Config) Sanitize() []string {
	var fixes []string

	if c.Backlight.DefaultLevel < 0 {
		fixes = append(fixes, fmt.Sprintf("default_level %d -> 0", c.Backlight.DefaultLevel))
		c.Backlight.DefaultLevel = 0
	}
	if c.Backlight.DefaultLevel > 100 {
		fixes = append(fixes, fmt.Sprintf("default_level %d -> 100", c.Backlight.DefaultLevel))
		c.Backlight.DefaultLevel = 100
	}
	if c.Backlight.AutoOffMs < 0 {
		fixes = append(fixes, fmt.Sprintf("auto_off_ms %d -> 0", c.Backlight.AutoOffMs))
		c.Backlight.AutoOffMs = 0
	}
	if c.Backlight.DebounceMs < 0 {
		fixes = append(fixes, fmt.Sprintf("debounce_ms %d -> 0", c.Backlight.DebounceMs))
		c.Backlight.DebounceMs = 0
	}
	if c.Backlight.PayloadToggle != 0 && c.Backlight.PayloadToggle != 1 {
		fixes = append(fixes, fmt.Sprintf("payload_toggle %d -> 1", c.Backlight.PayloadToggle))
		c.Backlight.PayloadToggle = 1
	}
	if c.Backlight.Device == "" {
		c.Backlight.Device = Default().Backlight.Device
	}
	if c.MQTT.HeartbeatMs < 0 {
		fixes = append(fixes, fmt.Sprintf("heartbeat_ms %d -> 0", c.MQTT.HeartbeatMs))
		c.MQTT.HeartbeatMs = 0
	}
	if c.MQTT.Broker == "off" {
		c.MQTT.Broker = ""
	}

	return fixes
}
