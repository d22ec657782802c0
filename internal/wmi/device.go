package wmi

import (
	"fmt"
	"os"
)

// Device applies brightness by writing the raw gaming payload to the
// backlight character device.
type Device struct {
	path   string
	toggle int
}

// NewDevice creates a Device for the given character device path and toggle
// byte. It probes that the node exists up front; a missing node means the
// acer-gkbbl driver is not loaded and the daemon cannot do anything useful.
func NewDevice(path string, toggle int) (*Device, error) {
	if path == "" {
		path = DefaultDevicePath
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}

	return &Device{path: path, toggle: toggle}, nil
}

// Path returns the device node path.
func (d *Device) Path() string {
	return d.path
}

// Apply writes the payload for the given brightness to the device node.
// The write is a single open-write-close; the driver consumes the whole
// 16-byte payload at once.
func (d *Device) Apply(level int) error {
	p := BuildPayload(level, d.toggle)

	f, err := os.OpenFile(d.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.path, err)
	}
	defer f.Close()

	if _, err := f.Write(p[:]); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}
