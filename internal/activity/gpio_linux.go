//go:build linux

package activity

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOSource reports activity on rising edges of a GPIO line. Useful on
// embedded panels where the keypad is wired through a GPIO matrix instead
// of a USB/PS2 keyboard.
type GPIOSource struct {
	chip   *gpiocdev.Chip
	line   *gpiocdev.Line
	pin    int
	notify func()
}

// NewGPIOSource opens the GPIO chip for the given pin. The line itself is
// requested in Start, once the notify callback is known.
func NewGPIOSource(chipName string, pin int) (*GPIOSource, error) {
	if chipName == "" {
		chipName = "gpiochip0"
	}
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}
	return &GPIOSource{chip: chip, pin: pin}, nil
}

// Start requests the line with rising-edge detection. The event handler
// runs on gpiocdev's event goroutine, which matches the Source contract.
func (s *GPIOSource) Start(notify func()) error {
	s.notify = notify
	line, err := s.chip.RequestLine(s.pin,
		gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(s.handleEvent))
	if err != nil {
		return fmt.Errorf("request activity pin %d: %w", s.pin, err)
	}
	s.line = line
	return nil
}

func (s *GPIOSource) handleEvent(evt gpiocdev.LineEvent) {
	if evt.Type == gpiocdev.LineEventRisingEdge {
		s.notify()
	}
}

// Close releases the line and chip.
func (s *GPIOSource) Close() error {
	var errs []error
	if s.line != nil {
		if err := s.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
