package lamp

import "time"

// Switch identifies one of the ten mode switches, in panel order
// (left to right on the control board).
type Switch int

const (
	SwitchParty Switch = iota
	SwitchDownSlow
	SwitchDownMedium
	SwitchDownFast
	SwitchUpSlow
	SwitchUpMedium
	SwitchUpFast
	SwitchFlashSlow
	SwitchFlashMedium
	SwitchFlashFast

	NumSwitches = 10
)

func (s Switch) String() string {
	if int(s) >= 0 && int(s) < len(switchNames) {
		return switchNames[s]
	}
	return "unknown"
}

var switchNames = [NumSwitches]string{
	"party",
	"down-slow", "down-medium", "down-fast",
	"up-slow", "up-medium", "up-fast",
	"flash-slow", "flash-medium", "flash-fast",
}

// Stepping intervals (time between light changes).
const (
	SlowInterval   = 5 * time.Second
	MediumInterval = 2 * time.Second
	FastInterval   = 1 * time.Second
)

// ModeFor returns the mode selected by sw. ok is false for switch
// ids outside the table.
func ModeFor(sw Switch) (Mode, bool) {
	switch sw {
	case SwitchParty:
		// Undocumented on the original control board; steps to a
		// random pattern at the fast interval.
		return Mode{Interval: FastInterval, Rotation: RotationRandom}, true

	case SwitchDownSlow:
		return Mode{Interval: SlowInterval, Rotation: RotationDown}, true
	case SwitchDownMedium:
		return Mode{Interval: MediumInterval, Rotation: RotationDown}, true
	case SwitchDownFast:
		return Mode{Interval: FastInterval, Rotation: RotationDown}, true

	case SwitchUpSlow:
		return Mode{Interval: SlowInterval, Rotation: RotationUp}, true
	case SwitchUpMedium:
		return Mode{Interval: MediumInterval, Rotation: RotationUp}, true
	case SwitchUpFast:
		return Mode{Interval: FastInterval, Rotation: RotationUp}, true

	case SwitchFlashSlow:
		return Mode{Interval: SlowInterval, Rotation: RotationFlash}, true
	case SwitchFlashMedium:
		return Mode{Interval: MediumInterval, Rotation: RotationFlash}, true
	case SwitchFlashFast:
		return Mode{Interval: FastInterval, Rotation: RotationFlash}, true
	}
	return Mode{}, false
}
