package lamp

// Overrides tracks the six bias switches that pin individual lamps on
// or off regardless of the running sequence. forceOff is applied as an
// AND mask, so it starts fully permissive.
type Overrides struct {
	forceOn  Pattern
	forceOff Pattern
}

// NewOverrides returns override masks with no bias applied.
func NewOverrides() *Overrides {
	return &Overrides{forceOn: PatternNone, forceOff: PatternMask}
}

// SetForceOn sets or clears the force-on bias for lamp l.
func (o *Overrides) SetForceOn(l Lamp, active bool) {
	if active {
		o.forceOn |= l.Bit()
	} else {
		o.forceOn &^= l.Bit()
	}
}

// SetForceOff sets or clears the force-off bias for lamp l. An active
// force-off switch means the lamp must stay dark, so the mask bit is
// cleared while the switch is active and set (permissive) otherwise.
func (o *Overrides) SetForceOff(l Lamp, active bool) {
	if active {
		o.forceOff &^= l.Bit()
	} else {
		o.forceOff |= l.Bit()
	}
}

// Apply combines a candidate pattern with the override masks.
// Force-on is applied first so an active force-off always wins.
func (o *Overrides) Apply(p Pattern) Pattern {
	return ((p & PatternMask) | o.forceOn) & o.forceOff
}

// ForceOn returns the current force-on mask.
func (o *Overrides) ForceOn() Pattern { return o.forceOn }

// ForceOff returns the current force-off mask.
func (o *Overrides) ForceOff() Pattern { return o.forceOff }
