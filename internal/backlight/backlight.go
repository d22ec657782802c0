// Package backlight tracks the intended and believed-applied brightness of
// the keyboard backlight and decides when a hardware write is actually
// needed. The firmware offers no readback, so "applied" is always a belief;
// every operation consults it before touching hardware because the WMI call
// is slow and a redundant write buys nothing.
//
// All state lives behind one mutex. Time is always injected via time.Time
// parameters so debounce behavior is testable.
package backlight

import (
	"log"
	"sync"
	"time"

	"github.com/lau-bin/acer-brightness/internal/wmi"
)

// LevelUnknown is the applied-level sentinel used before any write has
// succeeded. Distinct from 0 so startup can choose between "assume off"
// and "no idea".
const LevelUnknown = -1

// EventType identifies a state change worth telling the outside world about.
type EventType string

const (
	EventSet     EventType = "SET"
	EventTurnOn  EventType = "TURN_ON"
	EventTurnOff EventType = "TURN_OFF"
)

// Event describes a committed state change.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Level     int
	Lit       bool
}

// Counts tracks committed transitions and apply failures since startup.
type Counts struct {
	Sets        int
	TurnOns     int
	TurnOffs    int
	ApplyErrors int
}

// Controller is the single source of truth for backlight state.
type Controller struct {
	mu sync.Mutex

	applier wmi.Applier

	intended int       // last level requested via a control surface
	applied  int       // level we believe the firmware has; LevelUnknown if no write succeeded yet
	lit      bool      // whether we consider the backlight on
	lastOn   time.Time // last successful turn-on apply, for debounce

	counts Counts

	// notify, if set, is called after the lock is released for every
	// committed state change. Must not call back into the Controller.
	notify func(Event)
}

// New creates a Controller with the given default intended level.
// Applied state starts unknown; call AssumeOff or ApplyInitial during
// startup to establish a belief.
func New(applier wmi.Applier, defaultLevel int) *Controller {
	return &Controller{
		applier:  applier,
		intended: Clamp(defaultLevel),
		applied:  LevelUnknown,
	}
}

// SetNotify installs the state-change hook. Call before the controller is
// shared between goroutines.
func (c *Controller) SetNotify(fn func(Event)) {
	c.notify = fn
}

// Clamp forces a level into the valid 0-100 range. Control surfaces clamp
// rather than reject out-of-range input.
func Clamp(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// SetLevel handles an explicit brightness request from a control surface.
// If the firmware is already believed to hold this level, only the intent
// and lit flag are updated and no hardware call is made. On apply failure
// the state is left at last-known-good and the error is returned.
func (c *Controller) SetLevel(level int, now time.Time) error {
	level = Clamp(level)

	c.mu.Lock()

	if c.applied == level {
		// Firmware already there (as far as we know). Record intent so the
		// next turn-on uses it, fix up the lit flag, skip the write.
		c.intended = level
		c.lit = level != 0
		c.counts.Sets++
		ev := Event{Timestamp: now, Type: EventSet, Level: level, Lit: c.lit}
		c.mu.Unlock()
		c.emit(ev)
		return nil
	}

	if err := c.applier.Apply(level); err != nil {
		c.counts.ApplyErrors++
		c.mu.Unlock()
		return err
	}

	c.intended = level
	c.applied = level
	c.lit = level != 0
	c.counts.Sets++
	ev := Event{Timestamp: now, Type: EventSet, Level: level, Lit: c.lit}
	c.mu.Unlock()
	c.emit(ev)
	return nil
}

// Level returns the intended level. There is no firmware readback, so this
// reports intent, not measured state.
func (c *Controller) Level() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intended
}

// Lit reports whether the backlight is currently considered on.
func (c *Controller) Lit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lit
}

// Applied returns the believed-applied level (LevelUnknown before any
// successful write).
func (c *Controller) Applied() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied
}

// CountsSnapshot returns a copy of the transition counters.
func (c *Controller) CountsSnapshot() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}

// TryTurnOn turns the backlight on in response to activity, skipping the
// hardware write whenever it can: already lit, intended level zero, inside
// the debounce window, or firmware believed correct already. Apply failures
// are logged, not retried; the next activity re-attempts naturally.
func (c *Controller) TryTurnOn(now time.Time, debounce time.Duration) {
	c.mu.Lock()

	if c.lit {
		c.mu.Unlock()
		return
	}

	if c.intended == 0 {
		// Turning "on" to zero does nothing useful.
		c.mu.Unlock()
		return
	}

	if debounce > 0 && !c.lastOn.IsZero() && now.Before(c.lastOn.Add(debounce)) {
		c.mu.Unlock()
		return
	}

	if c.applied == c.intended {
		// Firmware already holds the intended level; just flip the flag.
		c.lit = true
		c.counts.TurnOns++
		ev := Event{Timestamp: now, Type: EventTurnOn, Level: c.intended, Lit: true}
		c.mu.Unlock()
		c.emit(ev)
		return
	}

	if err := c.applier.Apply(c.intended); err != nil {
		c.counts.ApplyErrors++
		c.mu.Unlock()
		log.Printf("backlight: turn-on apply failed: %v", err)
		return
	}

	c.applied = c.intended
	c.lit = true
	c.lastOn = now
	c.counts.TurnOns++
	ev := Event{Timestamp: now, Type: EventTurnOn, Level: c.intended, Lit: true}
	c.mu.Unlock()
	c.emit(ev)
}

// TryTurnOff turns the backlight off after idle timeout. No-op if already
// believed off; if the firmware is believed at zero only the lit flag is
// cleared. Apply failures are logged only.
func (c *Controller) TryTurnOff(now time.Time) {
	c.mu.Lock()

	if !c.lit && c.applied == 0 {
		c.mu.Unlock()
		return
	}

	if c.applied == 0 {
		c.lit = false
		c.counts.TurnOffs++
		ev := Event{Timestamp: now, Type: EventTurnOff, Level: 0, Lit: false}
		c.mu.Unlock()
		c.emit(ev)
		return
	}

	if err := c.applier.Apply(0); err != nil {
		c.counts.ApplyErrors++
		c.mu.Unlock()
		log.Printf("backlight: turn-off apply failed: %v", err)
		return
	}

	c.applied = 0
	c.lit = false
	c.counts.TurnOffs++
	ev := Event{Timestamp: now, Type: EventTurnOff, Level: 0, Lit: false}
	c.mu.Unlock()
	c.emit(ev)
}

// AssumeOff records the conservative startup belief: firmware at zero,
// backlight unlit. Used when apply-on-load is disabled so the first
// activity performs exactly one write.
func (c *Controller) AssumeOff() {
	c.mu.Lock()
	c.applied = 0
	c.lit = false
	c.mu.Unlock()
}

// ApplyInitial writes the intended level at startup (apply-on-load).
// Failure is returned for logging but leaves the applied level unknown, so
// the next trigger re-attempts.
func (c *Controller) ApplyInitial(now time.Time) error {
	c.mu.Lock()

	if err := c.applier.Apply(c.intended); err != nil {
		c.counts.ApplyErrors++
		c.mu.Unlock()
		return err
	}

	c.applied = c.intended
	c.lit = c.intended != 0
	if c.lit {
		c.lastOn = now
	}
	ev := Event{Timestamp: now, Type: EventSet, Level: c.intended, Lit: c.lit}
	c.mu.Unlock()
	c.emit(ev)
	return nil
}

func (c *Controller) emit(ev Event) {
	if c.notify != nil {
		c.notify(ev)
	}
}
