// Package wmi applies a keyboard backlight brightness level through the Acer
// gaming WMI interface. The real implementation writes a 16-byte method
// payload to the gaming-backlight character device. The fake implementation
// allows testing without hardware.
//
// There is no firmware readback: every Apply is fire-and-forget, and callers
// are expected to cache what they believe was applied.
package wmi

import "errors"

// PayloadLen is the fixed size of the gaming keyboard backlight payload
// (WMID_GUID4 method 20).
const PayloadLen = 16

// Payload byte offsets.
const (
	// payloadBrightness holds the brightness value (0-100).
	payloadBrightness = 2
	// payloadToggle holds the 0/1 toggle byte the firmware expects.
	payloadToggle = 9
)

// DefaultDevicePath is where the gaming backlight character device appears
// when the acer-gkbbl driver is loaded.
const DefaultDevicePath = "/dev/acer-gkbbl-0"

// ErrUnavailable indicates the backlight device node is not present, so no
// backlight control is possible at all.
var ErrUnavailable = errors.New("wmi: backlight device unavailable")

// Applier applies a brightness level to hardware.
type Applier interface {
	// Apply programs the given brightness (0-100) into the firmware.
	// Each call is independent; there is no partial application.
	Apply(level int) error
}

// BuildPayload assembles the 16-byte method payload for the given brightness
// and toggle byte. Values outside their domains are clamped (0-100 for
// brightness, 0/1 for toggle).
func BuildPayload(level int, toggle int) [PayloadLen]byte {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}

	var p [PayloadLen]byte
	p[payloadBrightness] = byte(level)
	if toggle != 0 {
		p[payloadToggle] = 1
	}
	return p
}
