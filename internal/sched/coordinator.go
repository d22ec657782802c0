package sched

import (
	"log"
	"time"

	"github.com/lau-bin/acer-brightness/internal/backlight"
)

// Config holds the scheduling knobs.
type Config struct {
	// AutoOff is the idle window after the last activity before the
	// backlight turns off. Zero disables auto-off.
	AutoOff time.Duration

	// Debounce is the minimum spacing between off-to-on applies.
	// Zero disables debouncing.
	Debounce time.Duration

	// ApplyOnLoad applies the configured level immediately at startup
	// instead of conservatively assuming the firmware is off.
	ApplyOnLoad bool
}

// Coordinator routes activity notifications into the backlight controller
// via its two delayed tasks.
type Coordinator struct {
	ctrl    *backlight.Controller
	cfg     Config
	now     func() time.Time
	turnOn  *Task
	turnOff *Task
}

// NewCoordinator creates a Coordinator. now is the clock used for debounce
// checks and event timestamps (time.Now in production).
func NewCoordinator(ctrl *backlight.Controller, cfg Config, now func() time.Time) *Coordinator {
	c := &Coordinator{ctrl: ctrl, cfg: cfg, now: now}
	c.turnOn = NewTask(func() {
		ctrl.TryTurnOn(c.now(), cfg.Debounce)
	})
	c.turnOff = NewTask(func() {
		ctrl.TryTurnOff(c.now())
	})
	return c
}

// Startup establishes the initial firmware belief. Without apply-on-load it
// assumes the firmware is off so the first activity performs exactly one
// write; with it, the configured level is applied immediately and a failure
// is a warning, not fatal.
func (c *Coordinator) Startup() {
	if !c.cfg.ApplyOnLoad {
		c.ctrl.AssumeOff()
		return
	}
	if err := c.ctrl.ApplyInitial(c.now()); err != nil {
		log.Printf("sched: initial apply failed: %v", err)
	}
}

// OnActivity handles one activity notification. It must return quickly:
// the turn-on work is queued to run immediately on a worker, and the
// auto-off window restarts from now so the idle timer always measures from
// the most recent activity.
func (c *Coordinator) OnActivity() {
	if !c.ctrl.Lit() {
		c.turnOn.Schedule(0)
	}
	if c.cfg.AutoOff > 0 {
		c.turnOff.Reschedule(c.cfg.AutoOff)
	}
}

// Shutdown cancels both tasks and waits for any in-flight run to finish, so
// no deferred work executes against a torn-down adapter.
func (c *Coordinator) Shutdown() {
	c.turnOn.Stop()
	c.turnOff.Stop()
}
