//go:build !linux

package activity

import "errors"

// GPIOSource is not available on non-Linux platforms.
type GPIOSource struct{}

// NewGPIOSource returns an error on non-Linux platforms.
func NewGPIOSource(chipName string, pin int) (*GPIOSource, error) {
	return nil, errors.New("activity: gpio not supported on this platform (requires Linux)")
}

// Start is not implemented on non-Linux platforms.
func (s *GPIOSource) Start(notify func()) error {
	return errors.New("activity: gpio not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *GPIOSource) Close() error {
	return nil
}
