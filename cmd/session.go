// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"time"

	"github.com/Thermoquad/mistral/pkg/dongle"
	"github.com/Thermoquad/mistral/pkg/midea/ac"
)

// session runs an appliance tick loop on its own goroutine. The protocol
// core is single-threaded, so all access goes through do(), which executes
// closures on the loop goroutine.
type session struct {
	appliance *ac.AirConditioner
	transport *dongle.StreamTransport
	ops       chan func(*ac.AirConditioner)
	done      chan struct{}

	// onEvent forwards loop-side events to the UI layer, when one is
	// attached.
	onEvent func(any)
}

func newSession(conn Connection) *session {
	s := &session{
		appliance: ac.NewAirConditioner(),
		transport: dongle.NewStreamTransport(conn),
		ops:       make(chan func(*ac.AirConditioner), 16),
		done:      make(chan struct{}),
	}
	s.appliance.SetTransport(s.transport)
	return s
}

// run drives the tick loop until stop is called.
func (s *session) run() {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case op := <-s.ops:
			op(s.appliance)
		case <-ticker.C:
			s.appliance.Tick()
		}
	}
}

// do schedules fn on the loop goroutine.
func (s *session) do(fn func(*ac.AirConditioner)) {
	select {
	case s.ops <- fn:
	case <-s.done:
	}
}

// notify delivers an event to the attached UI layer, if any.
func (s *session) notify(msg any) {
	if s.onEvent != nil {
		s.onEvent(msg)
	}
}

func (s *session) stop() {
	close(s.done)
	s.transport.Close()
}
