//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealIO drives the traffic light hardware via the Linux GPIO
// character device. It implements both Inputs and LightWriter.
type RealIO struct {
	chip   *gpiocdev.Chip
	lights map[int]*gpiocdev.Line
	inputs map[int]*gpiocdev.Line
	events chan Event
}

// NewRealIO opens the named chip ("gpiochip0" on a Raspberry Pi) and
// requests every pin in the role table. Light pins are requested as
// outputs driven low; switch pins as pulled-up inputs with edge
// detection feeding the event channel.
func NewRealIO(chipName string, pins Pins) (*RealIO, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	io := &RealIO{
		chip:   chip,
		lights: make(map[int]*gpiocdev.Line, len(pins.Lights)),
		inputs: make(map[int]*gpiocdev.Line, 16),
		events: make(chan Event, 16),
	}

	for _, pin := range pins.Lights {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			io.Close()
			return nil, fmt.Errorf("request light pin %d: %w", pin, err)
		}
		io.lights[pin] = line
	}

	handler := func(evt gpiocdev.LineEvent) {
		lv := LevelFalling
		if evt.Type == gpiocdev.LineEventRisingEdge {
			lv = LevelRising
		}
		select {
		case io.events <- Event{Pin: evt.Offset, Level: lv, Timestamp: evt.Timestamp}:
		default:
			// Never block the driver's event goroutine. Switch edges
			// are slow relative to the channel capacity, so a full
			// channel means the consumer is gone anyway.
		}
	}

	for _, pin := range pins.InputPins() {
		line, err := chip.RequestLine(pin,
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
			gpiocdev.WithBothEdges,
			gpiocdev.WithEventHandler(handler))
		if err != nil {
			io.Close()
			return nil, fmt.Errorf("request switch pin %d: %w", pin, err)
		}
		io.inputs[pin] = line
	}

	return io, nil
}

// Events returns the channel edge events are delivered on.
func (io *RealIO) Events() <-chan Event {
	return io.events
}

// Read returns the current level of an input pin.
func (io *RealIO) Read(pin int) (int, error) {
	line, ok := io.inputs[pin]
	if !ok {
		return 0, fmt.Errorf("pin %d is not a requested input", pin)
	}
	v, err := line.Value()
	if err != nil {
		return 0, fmt.Errorf("read pin %d: %w", pin, err)
	}
	return v, nil
}

// Write sets a light pin to value (0 or 1).
func (io *RealIO) Write(pin, value int) error {
	line, ok := io.lights[pin]
	if !ok {
		return fmt.Errorf("pin %d is not a requested output", pin)
	}
	if err := line.SetValue(value); err != nil {
		return fmt.Errorf("write pin %d: %w", pin, err)
	}
	return nil
}

// Close darkens the lights and releases all requested lines and the
// chip. Safe to call on a partially constructed RealIO.
func (io *RealIO) Close() error {
	var errs []error

	for pin, line := range io.lights {
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("darken pin %d: %w", pin, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close light pin %d: %w", pin, err))
		}
	}
	for pin, line := range io.inputs {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close switch pin %d: %w", pin, err))
		}
	}
	if io.chip != nil {
		if err := io.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
