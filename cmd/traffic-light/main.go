// Command traffic-light drives a three-light traffic signal from the
// mode and bias switches on its control board, publishing state
// changes to MQTT and serving a read-only status page.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/traffic-light/internal/engine"
	"github.com/sweeney/traffic-light/internal/gpio"
	"github.com/sweeney/traffic-light/internal/lamp"
	"github.com/sweeney/traffic-light/internal/mqtt"
	"github.com/sweeney/traffic-light/internal/status"
	"github.com/sweeney/traffic-light/internal/web"
)

// Exit statuses. Setup failures get a distinct status so a supervisor
// can tell a miswired board from a runtime hardware fault.
const (
	exitFatal = 1
	exitSetup = 2
)

// setupError marks failures during one-time hardware setup, before
// any lights are driven.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return "setup: " + e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

func main() {
	chip := flag.String("chip", "gpiochip0", "GPIO character device name")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	printState := flag.Bool("print-state", false, "Print current switch state and exit")

	flag.Parse()

	if err := run(*chip, gpio.DefaultPins(), *broker, *heartbeat, *httpAddr, *printState); err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var se *setupError
	if errors.As(err, &se) {
		return exitSetup
	}
	return exitFatal
}

func run(chip string, pins gpio.Pins, broker string, heartbeat time.Duration, httpAddr string, printState bool) error {
	// Initialize GPIO
	hw, err := gpio.NewRealIO(chip, pins)
	if err != nil {
		return &setupError{err}
	}
	defer hw.Close()

	// Print state mode
	if printState {
		return printSwitchState(os.Stdout, hw, pins)
	}

	ctrl := engine.New(hw, pins)

	tracker := status.NewTracker(time.Now(), status.Config{
		Chip:        chip,
		Broker:      broker,
		HeartbeatMs: heartbeat.Milliseconds(),
		HTTPAddr:    httpAddr,
	})

	// Initialize MQTT. Telemetry only: the lights must keep running
	// with no broker in reach.
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if broker != "" {
		real, err := mqtt.NewRealPublisher(broker)
		if err != nil {
			log.Printf("mqtt disabled: %v", err)
		} else {
			publisher = real
			mqttStatus = real
			defer real.Close()
		}
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	// Startup scan: seed the masks, pick the initial mode, drive the
	// initial pattern.
	if err := ctrl.Start(hw); err != nil {
		return &setupError{fmt.Errorf("startup scan: %w", err)}
	}
	defer ctrl.Stop()
	syncTracker(tracker, ctrl)

	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	if mode, ok := ctrl.Mode(); ok {
		log.Printf("started: chip=%s mode=%s broker=%s heartbeat=%v", chip, mode, broker, heartbeat)
	} else {
		log.Printf("started: chip=%s no mode switch active broker=%s heartbeat=%v", chip, broker, heartbeat)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ctrl, hw.Events(), publisher, mqttStatus, tracker, heartbeat, time.Now, sigCh)
}

// runLoop serializes switch edges, timer ticks, heartbeats and
// signals onto the controller. Every controller mutation happens
// here, on one goroutine.
func runLoop(ctrl *engine.Controller, events <-chan gpio.Event, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, sig <-chan os.Signal) error {
	var hbC <-chan time.Time
	if heartbeat > 0 {
		hb := time.NewTicker(heartbeat)
		defer hb.Stop()
		hbC = hb.C
	}

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if publisher != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event := mqtt.SystemEvent{
					Timestamp:  now(),
					Event:      "SHUTDOWN",
					Reason:     signalName,
					Retained:   true,
					RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
				}
				if err := publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			return nil

		case ev := <-events:
			up, err := ctrl.HandleEdge(ev)
			if err != nil {
				return fmt.Errorf("handle edge on pin %d: %w", ev.Pin, err)
			}
			reportUpdate(ctrl, up, publisher, tracker, now())

		case <-ctrl.TickC():
			up, err := ctrl.Tick()
			if err != nil {
				return fmt.Errorf("step sequence: %w", err)
			}
			tracker.CountTick()
			reportUpdate(ctrl, up, publisher, tracker, now())
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

		case t := <-hbC:
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			snap := tracker.Snapshot()
			log.Printf("heartbeat: uptime=%v ticks=%d mode_changes=%d override_changes=%d",
				snap.Uptime().Truncate(time.Second), snap.Counts.Ticks, snap.Counts.ModeChanges, snap.Counts.OverrideChanges)
			if publisher != nil {
				hbEvent := mqtt.SystemEvent{
					Timestamp:  t,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// reportUpdate logs, tracks and publishes a controller update. Steps
// happen up to once a second so they are tracked but neither logged
// nor published.
func reportUpdate(ctrl *engine.Controller, up *engine.Update, publisher mqtt.Publisher, tracker *status.Tracker, t time.Time) {
	if up == nil {
		return
	}
	syncTracker(tracker, ctrl)

	var event mqtt.Event
	switch up.Kind {
	case engine.UpdateMode:
		log.Printf("mode change: %s selected, %s", up.Switch, up.Mode)
		tracker.RecordModeChange(t, up.Mode.String())
		event = mqtt.Event{Type: mqtt.EventModeChange, Mode: up.Mode.String()}
	case engine.UpdateOverride:
		log.Printf("override change: force_on=%s force_off=%s output=%s", up.ForceOn, up.ForceOff, up.Output)
		tracker.RecordOverrideChange(t, fmt.Sprintf("force_on=%s force_off=%s", up.ForceOn, up.ForceOff))
		event = mqtt.Event{Type: mqtt.EventOverrideChange}
		if mode, ok := ctrl.Mode(); ok {
			event.Mode = mode.String()
		}
	default:
		return
	}

	if publisher == nil {
		return
	}
	event.Timestamp = t
	event.Output = up.Output
	event.ForceOn = up.ForceOn
	event.ForceOff = up.ForceOff
	if err := publisher.Publish(event); err != nil {
		log.Printf("publish error: %v", err)
		// Don't crash on publish failure
	}
}

func syncTracker(tracker *status.Tracker, ctrl *engine.Controller) {
	mode, selected := ctrl.Mode()
	tracker.Update(ctrl.Sequence(), ctrl.Output(), ctrl.Overrides().ForceOn(), ctrl.Overrides().ForceOff(), mode, selected)
}

// printSwitchState reads every switch once and reports what the board
// is asking for.
func printSwitchState(w io.Writer, in gpio.Inputs, pins gpio.Pins) error {
	active := "none"
	for i, pin := range pins.Modes {
		v, err := in.Read(pin)
		if err != nil {
			return fmt.Errorf("read mode switch %s: %w", lamp.Switch(i), err)
		}
		if v == 1 {
			active = lamp.Switch(i).String()
			break
		}
	}
	fmt.Fprintf(w, "mode: %s\n", active)

	for i := 0; i < lamp.NumLamps; i++ {
		on, err := in.Read(pins.ForceOn[i])
		if err != nil {
			return fmt.Errorf("read force-on switch %s: %w", lamp.Lamp(i), err)
		}
		off, err := in.Read(pins.ForceOff[i])
		if err != nil {
			return fmt.Errorf("read force-off switch %s: %w", lamp.Lamp(i), err)
		}
		fmt.Fprintf(w, "%s: force_on=%s force_off=%s\n", lamp.Lamp(i), stateString(on == 1), stateString(off == 1))
	}
	return nil
}

func stateString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
