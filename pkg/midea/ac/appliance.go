// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ac

import (
	"log"
	"time"

	"github.com/Thermoquad/mistral/pkg/dongle"
	"github.com/Thermoquad/mistral/pkg/midea"
)

// AutoconfStatus tracks the capability discovery state machine.
type AutoconfStatus uint8

// Autoconf states
const (
	AutoconfDisabled AutoconfStatus = iota
	AutoconfProgress
	AutoconfDone
	AutoconfError
)

// StateCallback is invoked after the device model changed.
type StateCallback func(*DeviceStatus)

// ResultCallback reports the outcome of one queued exchange; err is nil on
// success.
type ResultCallback func(err error)

// RequestError is the failure a queued exchange surfaces to its caller.
type RequestError struct {
	Kind dongle.FailureKind
}

func (e *RequestError) Error() string {
	if e.Kind == dongle.FailureCancelled {
		return "ac: request cancelled"
	}
	return "ac: request failed"
}

// AirConditioner is the appliance session: it owns the scheduler, the
// device model and the externally visible operations. Like the scheduler it
// is single-threaded; every method must be called from the tick loop's
// goroutine.
type AirConditioner struct {
	sched  *dongle.Scheduler
	status *DeviceStatus

	autoconf   AutoconfStatus
	autopoll   bool
	pollQueued bool
	onState    []StateCallback
}

// NewAirConditioner creates a session with no transport attached.
func NewAirConditioner() *AirConditioner {
	a := &AirConditioner{
		sched:    dongle.NewScheduler(),
		status:   NewDeviceStatus(),
		autopoll: true,
	}
	a.sched.OnFrame = a.onFrame
	a.sched.OnIdle = a.onIdle
	return a
}

// Scheduler exposes the underlying session scheduler.
func (a *AirConditioner) Scheduler() *dongle.Scheduler { return a.sched }

// Status returns the live device model. Callers must not retain it across
// ticks without copying.
func (a *AirConditioner) Status() *DeviceStatus { return a.status }

// SetTransport installs the byte link, cancelling anything outstanding.
func (a *AirConditioner) SetTransport(t dongle.Transport) {
	a.pollQueued = false
	a.sched.SetTransport(t)
}

// SetPeriod sets the minimum spacing between outbound frames.
func (a *AirConditioner) SetPeriod(d time.Duration) { a.sched.SetPeriod(d) }

// SetTimeout sets the per-attempt response deadline.
func (a *AirConditioner) SetTimeout(d time.Duration) { a.sched.SetTimeout(d) }

// SetAttempts sets the retry budget per request.
func (a *AirConditioner) SetAttempts(n int) { a.sched.SetAttempts(n) }

// SetBeeper enables audible feedback on subsequent commands.
func (a *AirConditioner) SetBeeper(on bool) { a.status.Settings.Beeper = on }

// SetAutopoll controls the autonomous status poll issued when the queue
// runs dry.
func (a *AirConditioner) SetAutopoll(on bool) { a.autopoll = on }

// SetAutoconf starts (or disables) capability discovery. Discovery runs on
// the next ticks and moves to Done or Error.
func (a *AirConditioner) SetAutoconf(on bool) {
	if !on {
		a.autoconf = AutoconfDisabled
		return
	}
	a.autoconf = AutoconfProgress
	a.QueryCapabilities(func(err error) {
		if err != nil {
			a.autoconf = AutoconfError
			return
		}
		a.autoconf = AutoconfDone
		log.Print(a.status.Caps.Dump())
	})
}

// Autoconf returns the discovery state.
func (a *AirConditioner) Autoconf() AutoconfStatus { return a.autoconf }

// OnStateChange registers a subscriber invoked synchronously after each
// model update.
func (a *AirConditioner) OnStateChange(cb StateCallback) {
	a.onState = append(a.onState, cb)
}

func (a *AirConditioner) publish() {
	for _, cb := range a.onState {
		cb(a.status)
	}
}

// Tick advances the session; the host loop calls it repeatedly.
func (a *AirConditioner) Tick() { a.sched.Tick() }

// onIdle enqueues the autonomous status poll.
func (a *AirConditioner) onIdle() {
	if !a.autopoll || a.pollQueued {
		return
	}
	a.pollQueued = true
	a.QueryStatus(func(error) {})
}

// onFrame handles unsolicited frames and late responses.
func (a *AirConditioner) onFrame(f *dongle.Frame) {
	t := f.Type()
	if !t.IsTransparent() {
		return
	}

	// Notify types that demand a blank acknowledgement get one before the
	// payload is looked at.
	if t == dongle.MsgNotifyStatusWithAck || t == dongle.MsgNotifyErrorWithAck {
		a.sched.Send(t, nil)
	}

	a.applyPayload(f.Body())
}

// applyPayload validates the inner CRC and merges the report. Invalid
// payloads are treated like framing errors: dropped without a trace so the
// request layer retries.
func (a *AirConditioner) applyPayload(p []byte) bool {
	if !midea.Valid(p) {
		return false
	}
	if !a.status.ApplyReport(p) {
		return false
	}
	a.publish()
	return true
}

// enqueue wraps a scheduler request with the error translation every
// surface operation shares.
func (a *AirConditioner) enqueue(priority bool, t dongle.MessageType, body []byte,
	onResponse dongle.ResponseHandler, done ResultCallback) {

	req := &dongle.Request{
		Type:       t,
		Body:       body,
		OnResponse: onResponse,
		OnSuccess: func() {
			if done != nil {
				done(nil)
			}
		},
		OnFailure: func(kind dongle.FailureKind) {
			if done != nil {
				done(&RequestError{Kind: kind})
			}
		},
	}
	if priority {
		a.sched.EnqueuePriority(req)
	} else {
		a.sched.Enqueue(req)
	}
}

// QueryStatus issues a 0x41 status query; the 0xC0/0xA0 answer updates the
// device model before done fires.
func (a *AirConditioner) QueryStatus(done ResultCallback) {
	a.enqueue(false, dongle.MsgQuery, midea.NewStatusQuery(),
		func(f *dongle.Frame) dongle.ResponseStatus {
			if !a.applyPayload(f.Body()) {
				return dongle.ResponseWrong
			}
			a.pollQueued = false
			return dongle.ResponseOK
		},
		func(err error) {
			a.pollQueued = false
			if done != nil {
				done(err)
			}
		})
}

// QueryPowerUsage requests the 0xC1 power report.
func (a *AirConditioner) QueryPowerUsage(done ResultCallback) {
	a.enqueue(false, dongle.MsgQuery, midea.NewPowerUsageQuery(),
		func(f *dongle.Frame) dongle.ResponseStatus {
			p := f.Body()
			if !midea.Valid(p) || midea.Type(p) != midea.TypePowerUsage {
				return dongle.ResponseWrong
			}
			a.status.ApplyReport(p)
			a.publish()
			return dongle.ResponseOK
		}, done)
}

// QueryCapabilities runs the 0xB5 discovery exchange, following the
// continuation id until the appliance reports zero, then issues the 0xB1
// property query when any discovered feature needs it.
func (a *AirConditioner) QueryCapabilities(done ResultCallback) {
	a.queryCapabilitiesPage(0, done)
}

func (a *AirConditioner) queryCapabilitiesPage(page uint8, done ResultCallback) {
	var next uint8
	a.enqueue(page > 0, dongle.MsgQuery, midea.NewCapabilitiesQuery(page),
		func(f *dongle.Frame) dongle.ResponseStatus {
			p := f.Body()
			if !midea.Valid(p) || midea.Type(p) != midea.TypeGetCapabilities {
				return dongle.ResponseWrong
			}
			props, nextID := midea.Properties(p)
			for _, prop := range props {
				a.status.Caps.Apply(prop)
			}
			next = nextID
			return dongle.ResponseOK
		},
		func(err error) {
			if err != nil {
				if done != nil {
					done(err)
				}
				return
			}
			if next != 0 {
				a.queryCapabilitiesPage(next, done)
				return
			}
			if a.status.Caps.IsPropertyQueryNeeded() {
				a.QueryProperties(done)
				return
			}
			if done != nil {
				done(nil)
			}
		})
}

// QueryProperties requests the 0xB1 state of every property implied by the
// discovered capabilities.
func (a *AirConditioner) QueryProperties(done ResultCallback) {
	uuids := a.status.Caps.PropertyUUIDs()
	if len(uuids) == 0 {
		if done != nil {
			done(nil)
		}
		return
	}
	a.enqueue(false, dongle.MsgQuery, midea.NewPropertiesQuery(uuids),
		func(f *dongle.Frame) dongle.ResponseStatus {
			p := f.Body()
			if !midea.Valid(p) || midea.Type(p) != midea.TypeGetProperties {
				return dongle.ResponseWrong
			}
			a.status.ApplyReport(p)
			a.publish()
			return dongle.ResponseOK
		}, done)
}

// ToggleDisplay flips the appliance LED display.
func (a *AirConditioner) ToggleDisplay(done ResultCallback) {
	a.enqueue(true, dongle.MsgQuery, midea.NewDisplayToggleQuery(),
		func(f *dongle.Frame) dongle.ResponseStatus {
			if !a.applyPayload(f.Body()) {
				return dongle.ResponseWrong
			}
			return dongle.ResponseOK
		}, done)
}

// Control snapshots the device state, hands the snapshot to fn for
// mutation, and enqueues the resulting 0x40 as a priority request. The
// appliance echoes a 0xC0 report, which updates the model and notifies
// subscribers before done fires. A no-op mutation completes immediately.
func (a *AirConditioner) Control(fn func(*Control), done ResultCallback) {
	ctl := NewControl(a.status)
	fn(ctl)
	if !ctl.Changed() {
		if done != nil {
			done(nil)
		}
		return
	}

	cmd := ctl.Command()
	a.enqueue(true, dongle.MsgControl, cmd,
		func(f *dongle.Frame) dongle.ResponseStatus {
			p := f.Body()
			if !midea.Valid(p) || midea.Type(p) != midea.TypeStatusC0 {
				return dongle.ResponseWrong
			}
			a.status.ApplyReport(p)
			a.publish()
			return dongle.ResponseOK
		}, done)
}
