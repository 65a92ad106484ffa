package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/traffic-light/internal/lamp"
)

func TestFormatPayload(t *testing.T) {
	event := Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Type:      EventModeChange,
		Mode:      "down/5s",
		Output:    lamp.PatternRed | lamp.PatternGreen,
		ForceOn:   lamp.PatternGreen,
		ForceOff:  lamp.PatternMask,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Traffic.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Traffic.Timestamp)
	}
	if parsed.Traffic.Event != "MODE_CHANGE" {
		t.Errorf("unexpected event: %s", parsed.Traffic.Event)
	}
	if parsed.Traffic.Mode != "down/5s" {
		t.Errorf("unexpected mode: %s", parsed.Traffic.Mode)
	}
	if parsed.Traffic.Lights.Red != "ON" {
		t.Errorf("unexpected red state: %s", parsed.Traffic.Lights.Red)
	}
	if parsed.Traffic.Lights.Amber != "OFF" {
		t.Errorf("unexpected amber state: %s", parsed.Traffic.Lights.Amber)
	}
	if parsed.Traffic.Lights.Green != "ON" {
		t.Errorf("unexpected green state: %s", parsed.Traffic.Lights.Green)
	}
	if parsed.Traffic.Overrides.ForceOn != "--G" {
		t.Errorf("unexpected force-on mask: %s", parsed.Traffic.Overrides.ForceOn)
	}
	if parsed.Traffic.Overrides.ForceOff != "RAG" {
		t.Errorf("unexpected force-off mask: %s", parsed.Traffic.Overrides.ForceOff)
	}
}

func TestFormatPayloadOmitsEmptyMode(t *testing.T) {
	payload, err := FormatPayload(Event{
		Timestamp: time.Now(),
		Type:      EventOverrideChange,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, present := raw["traffic"]["mode"]; present {
		t.Error("empty mode should be omitted from the payload")
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Event != "SHUTDOWN" {
		t.Errorf("unexpected event: %s", parsed.System.Event)
	}
	if parsed.System.Reason != "SIGTERM" {
		t.Errorf("unexpected reason: %s", parsed.System.Reason)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"event":"HEARTBEAT"}}`)
	payload, err := FormatSystemPayload(SystemEvent{RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload not passed through: got %s", payload)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	event := Event{Timestamp: time.Now(), Type: EventOverrideChange, ForceOff: 0b110}
	if err := f.Publish(event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(f.Events) != 1 || f.Events[0].Type != EventOverrideChange {
		t.Errorf("recorded events: %+v", f.Events)
	}
	if len(f.Payloads) != 1 {
		t.Errorf("expected 1 payload, got %d", len(f.Payloads))
	}

	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}
	if len(f.SystemEvents) != 1 {
		t.Errorf("expected 1 system event, got %d", len(f.SystemEvents))
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker gone")

	if err := f.Publish(Event{}); err == nil {
		t.Error("expected publish error")
	}
	if len(f.Events) != 0 {
		t.Error("failed publish was recorded")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(Event{})
	f.PublishSystem(SystemEvent{})
	f.Connected = true
	f.Close()

	f.Reset()

	if len(f.Events) != 0 || len(f.SystemEvents) != 0 || f.Closed || f.Connected {
		t.Error("Reset did not clear state")
	}
}
