// Package engine drives the light sequence. The Controller owns the
// sequence state, the override masks and the single periodic timer,
// and turns switch edge events and timer ticks into lamp writes.
//
// A Controller is not safe for concurrent use. The run loop in cmd
// serializes edge events and ticks onto it, so all mutation happens
// on one goroutine.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sweeney/traffic-light/internal/gpio"
	"github.com/sweeney/traffic-light/internal/lamp"
)

// UpdateKind says what a handled event changed.
type UpdateKind int

const (
	UpdateMode UpdateKind = iota
	UpdateOverride
	UpdateStep
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateMode:
		return "MODE_CHANGE"
	case UpdateOverride:
		return "OVERRIDE_CHANGE"
	case UpdateStep:
		return "STEP"
	}
	return "UNKNOWN"
}

// Update describes a state change for the run loop to log and report.
type Update struct {
	Kind     UpdateKind
	Switch   lamp.Switch  // selected mode switch (Kind == UpdateMode)
	Mode     lamp.Mode    // active mode
	Sequence lamp.Pattern // sequence state after the change
	Output   lamp.Pattern // effective pattern after overrides
	ForceOn  lamp.Pattern
	ForceOff lamp.Pattern
}

// Controller is the mode/bias state machine for the three lights.
type Controller struct {
	lights gpio.LightWriter
	pins   gpio.Pins

	seq       lamp.Pattern
	overrides *lamp.Overrides
	mode      lamp.Mode
	running   bool

	ticker *time.Ticker
	tickC  <-chan time.Time

	// Injection points for tests.
	newTicker func(time.Duration) (*time.Ticker, <-chan time.Time)
	intn      func(int) int
}

// New creates a Controller with the sequence parked on red and no
// timer armed.
func New(lights gpio.LightWriter, pins gpio.Pins) *Controller {
	return &Controller{
		lights:    lights,
		pins:      pins,
		seq:       lamp.PatternRed,
		overrides: lamp.NewOverrides(),
		newTicker: func(d time.Duration) (*time.Ticker, <-chan time.Time) {
			t := time.NewTicker(d)
			return t, t.C
		},
		intn: rand.Intn,
	}
}

// Start performs the one-time startup scan: it seeds the override
// masks from the current bias switch positions, selects the initial
// mode from whichever mode switch reads active, and drives the
// initial pattern so the lights reflect state before the first tick.
// When more than one mode switch reads active, the first match in
// panel order wins. When none does, no timer is armed until an edge
// arrives.
func (c *Controller) Start(in gpio.Inputs) error {
	for i, pin := range c.pins.ForceOn {
		v, err := in.Read(pin)
		if err != nil {
			return fmt.Errorf("scan force-on switch %s: %w", lamp.Lamp(i), err)
		}
		c.overrides.SetForceOn(lamp.Lamp(i), v == 1)
	}
	for i, pin := range c.pins.ForceOff {
		v, err := in.Read(pin)
		if err != nil {
			return fmt.Errorf("scan force-off switch %s: %w", lamp.Lamp(i), err)
		}
		c.overrides.SetForceOff(lamp.Lamp(i), v == 1)
	}

	for i, pin := range c.pins.Modes {
		v, err := in.Read(pin)
		if err != nil {
			return fmt.Errorf("scan mode switch %s: %w", lamp.Switch(i), err)
		}
		if v != 1 {
			continue
		}
		c.handleModeSwitch(lamp.Switch(i), gpio.LevelRising)
		break
	}

	return c.writeLights(c.overrides.Apply(c.seq))
}

// HandleEdge dispatches a switch edge event by pin role. The returned
// Update is nil when the event changed nothing. A write error means
// the hardware is gone and is fatal to the caller.
func (c *Controller) HandleEdge(ev gpio.Event) (*Update, error) {
	if sw, ok := c.pins.ModeSwitch(ev.Pin); ok {
		return c.handleModeSwitch(lamp.Switch(sw), ev.Level), nil
	}
	if l, ok := c.pins.ForceOnLamp(ev.Pin); ok {
		return c.handleBias(lamp.Lamp(l), ev.Level, true)
	}
	if l, ok := c.pins.ForceOffLamp(ev.Pin); ok {
		return c.handleBias(lamp.Lamp(l), ev.Level, false)
	}
	return nil, nil
}

// handleModeSwitch re-arms the periodic timer for a newly selected
// mode. Only the rising edge of the new selection matters: falling
// edges from the previously selected switch and watchdog timeouts
// must leave the current timer untouched.
func (c *Controller) handleModeSwitch(sw lamp.Switch, lv gpio.Level) *Update {
	if lv != gpio.LevelRising {
		return nil
	}
	m, ok := lamp.ModeFor(sw)
	if !ok {
		return nil
	}

	// Cancel before re-arm. The old ticker is stopped and its channel
	// abandoned, so a tick already buffered on it can never be
	// consumed with the new mode's rotation.
	c.cancelTimer()
	c.mode = m
	c.ticker, c.tickC = c.newTicker(m.Interval)
	c.running = true

	u := c.update(UpdateMode)
	u.Switch = sw
	return u
}

// handleBias updates one bias mask bit and immediately re-drives the
// lights so the override takes effect without waiting for a tick.
func (c *Controller) handleBias(l lamp.Lamp, lv gpio.Level, forceOn bool) (*Update, error) {
	if lv == gpio.LevelNone {
		return nil, nil
	}
	active := lv == gpio.LevelRising
	if forceOn {
		c.overrides.SetForceOn(l, active)
	} else {
		c.overrides.SetForceOff(l, active)
	}

	out := c.overrides.Apply(c.seq)
	if err := c.writeLights(out); err != nil {
		return nil, err
	}
	return c.update(UpdateOverride), nil
}

// Tick advances the sequence by one step, applies the overrides and
// drives the lights. It is the sole sequence-state transition.
func (c *Controller) Tick() (*Update, error) {
	var next lamp.Pattern
	switch c.mode.Rotation {
	case lamp.RotationUp:
		next = lamp.RotateUp(c.seq)
	case lamp.RotationFlash:
		next = lamp.FlashToggle(c.seq)
	case lamp.RotationRandom:
		next = lamp.RandomStep(c.seq, c.intn)
	default:
		next = lamp.RotateDown(c.seq)
	}
	c.seq = next

	out := c.overrides.Apply(next)
	if err := c.writeLights(out); err != nil {
		return nil, err
	}
	return c.update(UpdateStep), nil
}

// TickC returns the channel the armed timer ticks on, or nil when no
// timer is armed. The run loop selects on it; re-arming swaps the
// channel out from under the select on the next iteration.
func (c *Controller) TickC() <-chan time.Time {
	return c.tickC
}

// Stop cancels the periodic timer. No ticks are delivered after it
// returns.
func (c *Controller) Stop() {
	c.cancelTimer()
}

// Mode returns the active mode. ok is false before the first mode
// selection.
func (c *Controller) Mode() (lamp.Mode, bool) {
	return c.mode, c.running
}

// Sequence returns the current sequence state.
func (c *Controller) Sequence() lamp.Pattern {
	return c.seq
}

// Output returns the effective pattern after overrides.
func (c *Controller) Output() lamp.Pattern {
	return c.overrides.Apply(c.seq)
}

// Overrides returns the override masks.
func (c *Controller) Overrides() *lamp.Overrides {
	return c.overrides
}

func (c *Controller) cancelTimer() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	c.ticker = nil
	c.tickC = nil
	c.running = false
}

func (c *Controller) writeLights(out lamp.Pattern) error {
	for i, pin := range c.pins.Lights {
		bit := 0
		if out.Lit(lamp.Lamp(i)) {
			bit = 1
		}
		if err := c.lights.Write(pin, bit); err != nil {
			return fmt.Errorf("write %s light: %w", lamp.Lamp(i), err)
		}
	}
	return nil
}

func (c *Controller) update(kind UpdateKind) *Update {
	return &Update{
		Kind:     kind,
		Mode:     c.mode,
		Sequence: c.seq,
		Output:   c.overrides.Apply(c.seq),
		ForceOn:  c.overrides.ForceOn(),
		ForceOff: c.overrides.ForceOff(),
	}
}
