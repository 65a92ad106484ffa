// Package status provides a thread-safe status tracker for the
// traffic-light daemon. It is read by the HTTP handlers and by the
// MQTT heartbeat, while the run loop writes it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/traffic-light/internal/lamp"
)

// Config contains daemon configuration for display.
type Config struct {
	Chip        string
	Broker      string
	HeartbeatMs int64
	HTTPAddr    string
}

// Counts tracks how often each kind of event has happened since
// startup.
type Counts struct {
	Ticks           int
	ModeChanges     int
	OverrideChanges int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Sequence      lamp.Pattern
	Output        lamp.Pattern
	ForceOn       lamp.Pattern
	ForceOff      lamp.Pattern
	Mode          lamp.Mode
	ModeSelected  bool
	Counts        Counts
	Recent        []RecentEvent
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu      sync.RWMutex
	snap    Snapshot
	history *history
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			ForceOff:  lamp.PatternMask,
		},
		history: newHistory(historyCapacity),
	}
}

// Update sets the light state after the run loop handled an event.
func (t *Tracker) Update(sequence, output, forceOn, forceOff lamp.Pattern, mode lamp.Mode, selected bool) {
	t.mu.Lock()
	t.snap.Sequence = sequence
	t.snap.Output = output
	t.snap.ForceOn = forceOn
	t.snap.ForceOff = forceOff
	t.snap.Mode = mode
	t.snap.ModeSelected = selected
	t.mu.Unlock()
}

// CountTick increments the tick counter.
func (t *Tracker) CountTick() {
	t.mu.Lock()
	t.snap.Counts.Ticks++
	t.mu.Unlock()
}

// RecordModeChange counts a mode change and adds it to the history.
func (t *Tracker) RecordModeChange(at time.Time, detail string) {
	t.mu.Lock()
	t.snap.Counts.ModeChanges++
	t.history.push(RecentEvent{Time: at, Kind: "MODE_CHANGE", Detail: detail})
	t.mu.Unlock()
}

// RecordOverrideChange counts an override change and adds it to the
// history.
func (t *Tracker) RecordOverrideChange(at time.Time, detail string) {
	t.mu.Lock()
	t.snap.Counts.OverrideChanges++
	t.history.push(RecentEvent{Time: at, Kind: "OVERRIDE_CHANGE", Detail: detail})
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state, newest
// history entry first. The Now field is set to the current time at
// the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Recent = t.history.newestFirst()
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
