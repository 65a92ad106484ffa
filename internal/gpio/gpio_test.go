package gpio

import "testing"

func TestDefaultPinsRoles(t *testing.T) {
	pins := DefaultPins()

	if got := pins.InputPins(); len(got) != 16 {
		t.Errorf("InputPins: got %d pins, want 16", len(got))
	}

	// Every pin must appear in exactly one role.
	seen := make(map[int]bool)
	all := append(append([]int{}, pins.Lights[:]...), pins.InputPins()...)
	for _, pin := range all {
		if seen[pin] {
			t.Errorf("pin %d assigned to more than one role", pin)
		}
		seen[pin] = true
	}
	if len(seen) != 19 {
		t.Errorf("role table covers %d pins, want 19", len(seen))
	}
}

func TestModeSwitchLookup(t *testing.T) {
	pins := DefaultPins()

	for i, pin := range pins.Modes {
		sw, ok := pins.ModeSwitch(pin)
		if !ok {
			t.Errorf("ModeSwitch(%d): not found", pin)
			continue
		}
		if sw != i {
			t.Errorf("ModeSwitch(%d): got index %d, want %d", pin, sw, i)
		}
	}

	if _, ok := pins.ModeSwitch(pins.Lights[0]); ok {
		t.Error("ModeSwitch matched a light pin")
	}
	if _, ok := pins.ModeSwitch(99); ok {
		t.Error("ModeSwitch matched an unwired pin")
	}
}

func TestBiasLookups(t *testing.T) {
	pins := DefaultPins()

	for i, pin := range pins.ForceOn {
		l, ok := pins.ForceOnLamp(pin)
		if !ok || l != i {
			t.Errorf("ForceOnLamp(%d): got (%d, %t), want (%d, true)", pin, l, ok, i)
		}
		if _, ok := pins.ForceOffLamp(pin); ok {
			t.Errorf("ForceOffLamp matched force-on pin %d", pin)
		}
	}
	for i, pin := range pins.ForceOff {
		l, ok := pins.ForceOffLamp(pin)
		if !ok || l != i {
			t.Errorf("ForceOffLamp(%d): got (%d, %t), want (%d, true)", pin, l, ok, i)
		}
	}
}
