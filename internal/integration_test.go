package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/traffic-light/internal/engine"
	"github.com/sweeney/traffic-light/internal/gpio"
	"github.com/sweeney/traffic-light/internal/lamp"
	"github.com/sweeney/traffic-light/internal/mqtt"
)

// TestIntegrationFullFlow drives the controller the way the daemon's
// run loop does, from startup scan through mode changes, ticks and
// overrides, using fakes for the hardware and the broker.
func TestIntegrationFullFlow(t *testing.T) {
	pins := gpio.DefaultPins()
	hw := gpio.NewFakeIO()
	publisher := mqtt.NewFakePublisher()

	// The operator left the board on down-fast with no bias applied.
	hw.Levels[pins.Modes[lamp.SwitchDownFast]] = 1

	ctrl := engine.New(hw, pins)
	defer ctrl.Stop()

	if err := ctrl.Start(hw); err != nil {
		t.Fatalf("Start: %v", err)
	}

	mode, ok := ctrl.Mode()
	if !ok {
		t.Fatal("expected a mode after startup scan")
	}
	if mode.Rotation != lamp.RotationDown || mode.Interval != lamp.FastInterval {
		t.Fatalf("startup mode: got %v, want down/1s", mode)
	}
	if hw.Lamps[pins.Lights[0]] != 1 {
		t.Error("red lamp not driven after startup")
	}

	// Two ticks walk red -> amber -> green.
	for i, want := range []lamp.Pattern{lamp.PatternAmber, lamp.PatternGreen} {
		up, err := ctrl.Tick()
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if up.Output != want {
			t.Errorf("tick %d: output %03b, want %03b", i, up.Output, want)
		}
	}

	// Operator flicks the amber force-on switch.
	hw.SendEdge(pins.ForceOn[1], gpio.LevelRising)
	ev := <-hw.Events()
	up, err := ctrl.HandleEdge(ev)
	if err != nil {
		t.Fatalf("HandleEdge: %v", err)
	}
	if up == nil || up.Kind != engine.UpdateOverride {
		t.Fatalf("expected override update, got %+v", up)
	}
	if up.Output != lamp.PatternAmber|lamp.PatternGreen {
		t.Errorf("output: got %03b, want 011", up.Output)
	}

	// Publish it as the run loop would and check what goes on the wire.
	if err := publisher.Publish(mqtt.Event{
		Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Type:      mqtt.EventOverrideChange,
		Mode:      mode.String(),
		Output:    up.Output,
		ForceOn:   up.ForceOn,
		ForceOff:  up.ForceOff,
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	var payload mqtt.Payload
	if err := json.Unmarshal(publisher.Payloads[0], &payload); err != nil {
		t.Fatalf("invalid payload JSON: %v", err)
	}
	if payload.Traffic.Lights.Amber != "ON" || payload.Traffic.Lights.Green != "ON" {
		t.Errorf("payload lights: %+v", payload.Traffic.Lights)
	}
	if payload.Traffic.Overrides.ForceOn != "-A-" {
		t.Errorf("payload force-on: got %q, want -A-", payload.Traffic.Overrides.ForceOn)
	}

	// Operator turns the dial: old switch falls, new switch rises.
	hw.SendEdge(pins.Modes[lamp.SwitchDownFast], gpio.LevelFalling)
	hw.SendEdge(pins.Modes[lamp.SwitchFlashSlow], gpio.LevelRising)

	ev = <-hw.Events()
	if up, err := ctrl.HandleEdge(ev); err != nil || up != nil {
		t.Fatalf("falling edge: got (%+v, %v), want no-op", up, err)
	}
	ev = <-hw.Events()
	up, err = ctrl.HandleEdge(ev)
	if err != nil {
		t.Fatalf("HandleEdge: %v", err)
	}
	if up == nil || up.Kind != engine.UpdateMode {
		t.Fatalf("expected mode update, got %+v", up)
	}
	mode, _ = ctrl.Mode()
	if mode.Rotation != lamp.RotationFlash || mode.Interval != lamp.SlowInterval {
		t.Errorf("mode after dial turn: got %v, want flash/5s", mode)
	}

	// Flash ticks complement the field; the amber force-on holds
	// through the dark half of the cycle.
	up, err = ctrl.Tick()
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !up.Output.Lit(lamp.LampAmber) {
		t.Errorf("output %03b: amber dark despite force-on", up.Output)
	}
}

// TestIntegrationColdBoard checks the daemon is well-defined with no
// mode switch active: lights show the parked sequence and nothing
// ticks until an edge arrives.
func TestIntegrationColdBoard(t *testing.T) {
	pins := gpio.DefaultPins()
	hw := gpio.NewFakeIO()

	ctrl := engine.New(hw, pins)
	defer ctrl.Stop()

	if err := ctrl.Start(hw); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, ok := ctrl.Mode(); ok {
		t.Error("expected no mode on a cold board")
	}
	if ctrl.TickC() != nil {
		t.Error("expected no armed timer on a cold board")
	}
	if hw.Lamps[pins.Lights[0]] != 1 {
		t.Error("red lamp not driven on a cold board")
	}

	hw.SendEdge(pins.Modes[lamp.SwitchUpSlow], gpio.LevelRising)
	up, err := ctrl.HandleEdge(<-hw.Events())
	if err != nil {
		t.Fatalf("HandleEdge: %v", err)
	}
	if up == nil || up.Kind != engine.UpdateMode {
		t.Fatalf("expected mode update, got %+v", up)
	}
	if ctrl.TickC() == nil {
		t.Error("expected an armed timer after the first edge")
	}
}
