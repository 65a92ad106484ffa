// Package lamp contains pure logic for the traffic light sequencer.
// This package has NO external dependencies (no GPIO, MQTT, OS, or timers).
package lamp

import (
	"fmt"
	"time"
)

// Pattern is a 3-bit lamp pattern. Bit order is fixed:
// red=bit2, amber=bit1, green=bit0. A set bit means the lamp is
// commanded on, before overrides are applied.
type Pattern uint8

const (
	// PatternMask keeps a Pattern inside the visible 3-bit field.
	PatternMask Pattern = 0b111

	PatternNone  Pattern = 0b000
	PatternGreen Pattern = 0b001
	PatternAmber Pattern = 0b010
	PatternRed   Pattern = 0b100
	PatternAll   Pattern = 0b111
)

// Lamp indexes one of the three lamps, top to bottom.
type Lamp int

const (
	LampRed Lamp = iota
	LampAmber
	LampGreen

	NumLamps = 3
)

// Bit returns the single-lamp pattern for l.
func (l Lamp) Bit() Pattern {
	return Pattern(1) << (NumLamps - 1 - int(l))
}

func (l Lamp) String() string {
	switch l {
	case LampRed:
		return "red"
	case LampAmber:
		return "amber"
	case LampGreen:
		return "green"
	}
	return fmt.Sprintf("lamp(%d)", int(l))
}

// Lit reports whether lamp l is on in p.
func (p Pattern) Lit(l Lamp) bool {
	return p&l.Bit() != 0
}

// String renders the pattern as three fixed positions, e.g. "R-G"
// for red and green on, amber off.
func (p Pattern) String() string {
	b := [NumLamps]byte{'-', '-', '-'}
	if p.Lit(LampRed) {
		b[0] = 'R'
	}
	if p.Lit(LampAmber) {
		b[1] = 'A'
	}
	if p.Lit(LampGreen) {
		b[2] = 'G'
	}
	return string(b[:])
}

// Rotation is the stepping rule applied once per timer tick.
type Rotation int

const (
	RotationDown Rotation = iota
	RotationUp
	RotationFlash
	RotationRandom
)

func (r Rotation) String() string {
	switch r {
	case RotationDown:
		return "down"
	case RotationUp:
		return "up"
	case RotationFlash:
		return "flash"
	case RotationRandom:
		return "random"
	}
	return fmt.Sprintf("rotation(%d)", int(r))
}

// Mode pairs a stepping interval with a rotation rule. It is what a
// mode switch selects.
type Mode struct {
	Interval time.Duration
	Rotation Rotation
}

func (m Mode) String() string {
	return fmt.Sprintf("%s/%s", m.Rotation, m.Interval)
}
