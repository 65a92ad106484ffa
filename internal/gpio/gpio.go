// Package gpio provides GPIO access with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "time"

// Level is the pin level reported with an edge event.
type Level int

const (
	LevelFalling Level = 0 // change to low
	LevelRising  Level = 1 // change to high
	LevelNone    Level = 2 // watchdog timeout, no level change
)

// Event is an edge event on an input pin.
type Event struct {
	Pin       int
	Level     Level
	Timestamp time.Duration // since an arbitrary kernel epoch
}

// Inputs delivers edge events from the switch pins.
type Inputs interface {
	// Events returns the channel edge events are delivered on.
	Events() <-chan Event

	// Read returns the current level (0 or 1) of an input pin.
	// Used for the one-time startup scan.
	Read(pin int) (int, error)

	// Close releases GPIO resources.
	Close() error
}

// LightWriter drives the light output pins.
type LightWriter interface {
	// Write sets pin to value (0 or 1).
	Write(pin, value int) error

	// Close releases GPIO resources.
	Close() error
}

// Pins maps logical roles to pin numbers (BCM numbering).
type Pins struct {
	Lights   [3]int  // light outputs: red, amber, green
	ForceOn  [3]int  // force-on bias switches: red, amber, green
	ForceOff [3]int  // force-off bias switches: red, amber, green
	Modes    [10]int // mode switches in panel order, party first
}

// DefaultPins returns the wiring of the original control board.
func DefaultPins() Pins {
	return Pins{
		Lights:   [3]int{2, 3, 4},
		ForceOn:  [3]int{17, 22, 9},
		ForceOff: [3]int{27, 10, 11},
		Modes:    [10]int{0, 5, 6, 13, 19, 26, 12, 16, 20, 21},
	}
}

// ModeSwitch returns the mode switch index wired to pin.
func (p Pins) ModeSwitch(pin int) (int, bool) {
	for i, mp := range p.Modes {
		if mp == pin {
			return i, true
		}
	}
	return 0, false
}

// ForceOnLamp returns the lamp index whose force-on switch is wired
// to pin.
func (p Pins) ForceOnLamp(pin int) (int, bool) {
	for i, bp := range p.ForceOn {
		if bp == pin {
			return i, true
		}
	}
	return 0, false
}

// ForceOffLamp returns the lamp index whose force-off switch is wired
// to pin.
func (p Pins) ForceOffLamp(pin int) (int, bool) {
	for i, bp := range p.ForceOff {
		if bp == pin {
			return i, true
		}
	}
	return 0, false
}

// InputPins returns all sixteen switch pins.
func (p Pins) InputPins() []int {
	pins := make([]int, 0, len(p.ForceOn)+len(p.ForceOff)+len(p.Modes))
	pins = append(pins, p.ForceOn[:]...)
	pins = append(pins, p.ForceOff[:]...)
	pins = append(pins, p.Modes[:]...)
	return pins
}
