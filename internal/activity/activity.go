// Package activity delivers "user is typing" notifications from input
// hardware. The evdev implementation watches keyboard event devices; the
// GPIO implementation watches a line edge for deployments where keypresses
// arrive over a GPIO matrix. The fake implementation allows testing without
// hardware.
//
// Notification callbacks must return quickly; they are invoked on the
// source's reader goroutine.
package activity

// Source delivers activity notifications.
type Source interface {
	// Start begins watching and invokes notify once per activity event.
	// It returns after the watch is established; delivery happens on a
	// background goroutine.
	Start(notify func()) error

	// Close stops delivery and releases the underlying device.
	Close() error
}

// Linux input event types and values (input-event-codes.h).
const (
	evKey = 0x01

	evValueRelease = 0
	evValuePress   = 1
	evValueRepeat  = 2
)

// inputEvent mirrors struct input_event from <linux/input.h> on 64-bit
// platforms.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// isKeyDown reports whether an input event is a key press or autorepeat.
// Releases and non-key events (EV_SYN, EV_MSC, LEDs) do not count as
// activity.
func isKeyDown(ev inputEvent) bool {
	if ev.Type != evKey {
		return false
	}
	return ev.Value == evValuePress || ev.Value == evValueRepeat
}
