package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/traffic-light/internal/lamp"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string        `json:"event,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	Lights        LightsJSON    `json:"lights"`
	Sequence      string        `json:"sequence"`
	Mode          ModeJSON      `json:"mode"`
	Overrides     OverridesJSON `json:"overrides"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	MQTT          MQTTStatus    `json:"mqtt"`
	Counts        CountsJSON    `json:"event_counts"`
	Recent        []RecentJSON  `json:"recent_events,omitempty"`
	Config        ConfigJSON    `json:"config"`
}

// LightsJSON reports the commanded state of each lamp.
type LightsJSON struct {
	Red   string `json:"red"`
	Amber string `json:"amber"`
	Green string `json:"green"`
}

// ModeJSON reports the active sequencing mode.
type ModeJSON struct {
	Selected   bool   `json:"selected"`
	Rotation   string `json:"rotation,omitempty"`
	IntervalMs int64  `json:"interval_ms,omitempty"`
}

// OverridesJSON reports the bias masks as fixed-position strings.
type OverridesJSON struct {
	ForceOn  string `json:"force_on"`
	ForceOff string `json:"force_off"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Ticks           int `json:"ticks"`
	ModeChanges     int `json:"mode_changes"`
	OverrideChanges int `json:"override_changes"`
}

// RecentJSON is one entry of the recent-event history.
type RecentJSON struct {
	Timestamp string `json:"timestamp"`
	Kind      string `json:"kind"`
	Detail    string `json:"detail"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Chip        string `json:"chip"`
	Broker      string `json:"broker"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	HTTPAddr    string `json:"http_addr"`
}

func onOff(lit bool) string {
	if lit {
		return "ON"
	}
	return "OFF"
}

func buildInner(snap Snapshot) StatusInner {
	mode := ModeJSON{Selected: snap.ModeSelected}
	if snap.ModeSelected {
		mode.Rotation = snap.Mode.Rotation.String()
		mode.IntervalMs = snap.Mode.Interval.Milliseconds()
	}

	inner := StatusInner{
		Lights: LightsJSON{
			Red:   onOff(snap.Output.Lit(lamp.LampRed)),
			Amber: onOff(snap.Output.Lit(lamp.LampAmber)),
			Green: onOff(snap.Output.Lit(lamp.LampGreen)),
		},
		Sequence: snap.Sequence.String(),
		Mode:     mode,
		Overrides: OverridesJSON{
			ForceOn:  snap.ForceOn.String(),
			ForceOff: snap.ForceOff.String(),
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Ticks:           snap.Counts.Ticks,
			ModeChanges:     snap.Counts.ModeChanges,
			OverrideChanges: snap.Counts.OverrideChanges,
		},
		Config: ConfigJSON{
			Chip:        snap.Config.Chip,
			Broker:      snap.Config.Broker,
			HeartbeatMs: snap.Config.HeartbeatMs,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}

	for _, ev := range snap.Recent {
		inner.Recent = append(inner.Recent, RecentJSON{
			Timestamp: ev.Time.UTC().Format(time.RFC3339),
			Kind:      ev.Kind,
			Detail:    ev.Detail,
		})
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no
// event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
