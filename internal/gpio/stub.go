//go:build !linux

package gpio

import "errors"

// RealIO is not available on non-Linux platforms.
type RealIO struct{}

// NewRealIO returns an error on non-Linux platforms.
func NewRealIO(chipName string, pins Pins) (*RealIO, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Events is not implemented on non-Linux platforms.
func (io *RealIO) Events() <-chan Event {
	return nil
}

// Read is not implemented on non-Linux platforms.
func (io *RealIO) Read(pin int) (int, error) {
	return 0, errors.New("gpio: not supported")
}

// Write is not implemented on non-Linux platforms.
func (io *RealIO) Write(pin, value int) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (io *RealIO) Close() error {
	return nil
}
