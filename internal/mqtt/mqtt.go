// Package mqtt provides MQTT publishing with abstraction for testing.
// Publishing is telemetry only — the lights keep running when the
// broker is unreachable.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/traffic-light/internal/lamp"
)

// Topic is the MQTT topic for light state events.
const Topic = "home/traffic-light/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/traffic-light/system"

// EventType classifies a state event.
type EventType string

const (
	EventModeChange     EventType = "MODE_CHANGE"
	EventOverrideChange EventType = "OVERRIDE_CHANGE"
)

// Event represents a state change to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Mode      string // e.g. "down/5s"; empty before the first selection
	Output    lamp.Pattern
	ForceOn   lamp.Pattern
	ForceOff  lamp.Pattern
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a state event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup,
// shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Traffic TrafficPayload `json:"traffic"`
}

// TrafficPayload contains the state event details.
type TrafficPayload struct {
	Timestamp string         `json:"timestamp"`
	Event     string         `json:"event"`
	Mode      string         `json:"mode,omitempty"`
	Lights    LightsState    `json:"lights"`
	Overrides OverridesState `json:"overrides"`
}

// LightsState reports the commanded state of each lamp.
type LightsState struct {
	Red   string `json:"red"`
	Amber string `json:"amber"`
	Green string `json:"green"`
}

// OverridesState reports the bias masks as fixed-position strings.
type OverridesState struct {
	ForceOn  string `json:"force_on"`
	ForceOff string `json:"force_off"`
}

func onOff(lit bool) string {
	if lit {
		return "ON"
	}
	return "OFF"
}

// FormatPayload creates the JSON payload for a state event.
func FormatPayload(event Event) ([]byte, error) {
	payload := Payload{
		Traffic: TrafficPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Mode:      event.Mode,
			Lights: LightsState{
				Red:   onOff(event.Output.Lit(lamp.LampRed)),
				Amber: onOff(event.Output.Lit(lamp.LampAmber)),
				Green: onOff(event.Output.Lit(lamp.LampGreen)),
			},
			Overrides: OverridesState{
				ForceOn:  event.ForceOn.String(),
				ForceOff: event.ForceOff.String(),
			},
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events
// that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full
// status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
