package gpio

import "fmt"

// FakeIO is a test double that records light writes and replays
// scripted switch levels and edge events.
type FakeIO struct {
	// Levels holds the current level of each input pin, returned by
	// Read during the startup scan. Missing pins read as 0.
	Levels map[int]int

	// Lamps holds the last value written to each light pin.
	Lamps map[int]int

	// Writes records every Write call in order.
	Writes []WriteOp

	// ReadError, if set, will be returned by Read.
	ReadError error

	// WriteError, if set, will be returned by Write.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool

	events chan Event
}

// WriteOp is a single recorded Write call.
type WriteOp struct {
	Pin   int
	Value int
}

// NewFakeIO creates a FakeIO with all switches reading inactive.
func NewFakeIO() *FakeIO {
	return &FakeIO{
		Levels: make(map[int]int),
		Lamps:  make(map[int]int),
		events: make(chan Event, 16),
	}
}

// Events returns the channel SendEdge delivers on.
func (f *FakeIO) Events() <-chan Event {
	return f.events
}

// SendEdge delivers an edge event as the hardware would.
func (f *FakeIO) SendEdge(pin int, level Level) {
	f.events <- Event{Pin: pin, Level: level}
}

// Read returns the scripted level for pin.
func (f *FakeIO) Read(pin int) (int, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	return f.Levels[pin], nil
}

// Write records the light write.
func (f *FakeIO) Write(pin, value int) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	if value != 0 && value != 1 {
		return fmt.Errorf("write pin %d: invalid value %d", pin, value)
	}
	f.Lamps[pin] = value
	f.Writes = append(f.Writes, WriteOp{Pin: pin, Value: value})
	return nil
}

// Close marks the fake as closed.
func (f *FakeIO) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded writes and scripted levels.
func (f *FakeIO) Reset() {
	f.Levels = make(map[int]int)
	f.Lamps = make(map[int]int)
	f.Writes = nil
	f.ReadError = nil
	f.WriteError = nil
	f.Closed = false
}
