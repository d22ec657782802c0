//go:build !linux

package activity

import "errors"

// EvdevSource is not available on non-Linux platforms.
type EvdevSource struct{}

// NewEvdevSource returns an error on non-Linux platforms.
func NewEvdevSource(paths []string) (*EvdevSource, error) {
	return nil, errors.New("activity: evdev not supported on this platform (requires Linux)")
}

// Start is not implemented on non-Linux platforms.
func (s *EvdevSource) Start(notify func()) error {
	return errors.New("activity: evdev not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *EvdevSource) Close() error {
	return nil
}
