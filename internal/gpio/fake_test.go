package gpio

import (
	"errors"
	"testing"
)

func TestFakeIOReadLevels(t *testing.T) {
	f := NewFakeIO()
	f.Levels[5] = 1

	v, err := f.Read(5)
	if err != nil {
		t.Fatalf("Read(5): %v", err)
	}
	if v != 1 {
		t.Errorf("Read(5): got %d, want 1", v)
	}

	v, err = f.Read(6)
	if err != nil {
		t.Fatalf("Read(6): %v", err)
	}
	if v != 0 {
		t.Errorf("Read(6) on unscripted pin: got %d, want 0", v)
	}
}

func TestFakeIOReadError(t *testing.T) {
	f := NewFakeIO()
	f.ReadError = errors.New("hardware fault")

	if _, err := f.Read(5); err == nil {
		t.Error("expected read error")
	}
}

func TestFakeIORecordsWrites(t *testing.T) {
	f := NewFakeIO()

	if err := f.Write(2, 1); err != nil {
		t.Fatalf("Write(2, 1): %v", err)
	}
	if err := f.Write(3, 0); err != nil {
		t.Fatalf("Write(3, 0): %v", err)
	}

	if f.Lamps[2] != 1 || f.Lamps[3] != 0 {
		t.Errorf("lamp states: got %v", f.Lamps)
	}
	if len(f.Writes) != 2 {
		t.Fatalf("expected 2 recorded writes, got %d", len(f.Writes))
	}
	if f.Writes[0] != (WriteOp{Pin: 2, Value: 1}) {
		t.Errorf("first write: got %+v", f.Writes[0])
	}
}

func TestFakeIORejectsInvalidValue(t *testing.T) {
	f := NewFakeIO()
	if err := f.Write(2, 7); err == nil {
		t.Error("expected error writing value 7")
	}
}

func TestFakeIOWriteError(t *testing.T) {
	f := NewFakeIO()
	f.WriteError = errors.New("hardware fault")

	if err := f.Write(2, 1); err == nil {
		t.Error("expected write error")
	}
	if len(f.Writes) != 0 {
		t.Errorf("failed write was recorded: %v", f.Writes)
	}
}

func TestFakeIODeliversEdges(t *testing.T) {
	f := NewFakeIO()
	f.SendEdge(17, LevelRising)
	f.SendEdge(17, LevelFalling)

	ev := <-f.Events()
	if ev.Pin != 17 || ev.Level != LevelRising {
		t.Errorf("first event: got %+v", ev)
	}
	ev = <-f.Events()
	if ev.Pin != 17 || ev.Level != LevelFalling {
		t.Errorf("second event: got %+v", ev)
	}
}

func TestFakeIOReset(t *testing.T) {
	f := NewFakeIO()
	f.Levels[5] = 1
	f.Write(2, 1)
	f.Close()

	f.Reset()

	if len(f.Writes) != 0 || len(f.Lamps) != 0 || len(f.Levels) != 0 || f.Closed {
		t.Error("Reset did not clear state")
	}
}
