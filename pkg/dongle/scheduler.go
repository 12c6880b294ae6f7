// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package dongle

import (
	"log"
	"time"
)

// Transport is the byte link to the appliance. ReadByte must not block: it
// returns false when no byte is pending. Write either completes or buffers
// internally.
type Transport interface {
	ReadByte() (byte, bool)
	Write(p []byte) error
}

// Clock supplies the scheduler's notion of now. Injectable for tests.
type Clock func() time.Time

// ResponseStatus is a matcher's verdict on an inbound frame.
type ResponseStatus int

const (
	// ResponseOK completes the in-flight request.
	ResponseOK ResponseStatus = iota
	// ResponsePartial keeps the request in flight and re-arms its timeout;
	// more frames are expected.
	ResponsePartial
	// ResponseWrong means the frame does not belong to the request and is
	// handled as unsolicited.
	ResponseWrong
)

// ResponseHandler inspects an inbound frame on behalf of the in-flight
// request. It is only consulted for frames of the request's expected type.
type ResponseHandler func(*Frame) ResponseStatus

// FailureKind tells a failure callback why its request died.
type FailureKind int

const (
	// FailureTimeout: all attempts exhausted without a matching response.
	FailureTimeout FailureKind = iota
	// FailureCancelled: the scheduler was closed or its transport replaced.
	FailureCancelled
)

// Handler is a request success callback.
type Handler func()

// FailureHandler is a request failure callback.
type FailureHandler func(FailureKind)

// Request describes one queued exchange. A nil OnResponse means
// fire-and-forget: the frame is sent once and no callback ever fires.
type Request struct {
	Type       MessageType
	Body       []byte
	OnResponse ResponseHandler
	OnSuccess  Handler
	OnFailure  FailureHandler
}

// match applies the expected-type gate before consulting the handler.
// Responses are never matched by message id: the firmware does not reliably
// echo it.
func (r *Request) match(f *Frame) ResponseStatus {
	if f.Type() != r.Type {
		return ResponseWrong
	}
	if r.OnResponse == nil {
		return ResponseOK
	}
	return r.OnResponse(f)
}

// Default communication settings
const (
	DefaultPeriod       = 1000 * time.Millisecond
	DefaultTimeout      = 2000 * time.Millisecond
	DefaultAttempts     = 3
	DefaultNotifyPeriod = 2 * time.Minute
)

// Scheduler owns the protocol session against one appliance: the request
// queue, the response matcher and the retry/timeout engine. It is
// single-threaded and cooperative; the host loop calls Tick repeatedly and
// nothing inside ever blocks.
type Scheduler struct {
	dec *Decoder
	enc *Encoder

	transport Transport
	now       Clock

	period   time.Duration
	timeout  time.Duration
	attempts int

	queue    []*Request
	inflight *Request
	remain   int

	busyUntil  time.Time
	responseBy time.Time
	nextNotify time.Time

	// Network is consulted for network-status answers and periodic
	// notifications. Nil disables both.
	Network NetworkStatusProvider

	// OnFrame receives unsolicited frames (and late responses).
	OnFrame func(*Frame)

	// OnIdle runs when the queue is empty and nothing is in flight, giving
	// the surrounding layer a chance to enqueue an autonomous poll.
	OnIdle func()
}

// NewScheduler creates a scheduler with default settings and no transport.
func NewScheduler() *Scheduler {
	return &Scheduler{
		dec:      NewDecoder(),
		enc:      NewEncoder(),
		now:      time.Now,
		period:   DefaultPeriod,
		timeout:  DefaultTimeout,
		attempts: DefaultAttempts,
	}
}

// SetClock replaces the time source. For tests.
func (s *Scheduler) SetClock(c Clock) { s.now = c }

// SetPeriod sets the minimum spacing between outbound frames.
func (s *Scheduler) SetPeriod(d time.Duration) { s.period = d }

// SetTimeout sets the per-attempt response deadline.
func (s *Scheduler) SetTimeout(d time.Duration) { s.timeout = d }

// SetAttempts sets how many times a matched request is sent before failing.
func (s *Scheduler) SetAttempts(n int) { s.attempts = n }

// Decoder exposes the session decoder (learned appliance/protocol).
func (s *Scheduler) Decoder() *Decoder { return s.dec }

// SetTransport installs the byte link. Replacing a live transport cancels
// the in-flight request and every queued one, exactly once each.
func (s *Scheduler) SetTransport(t Transport) {
	s.cancelAll()
	s.transport = t
}

// Close drops the in-flight request and clears the queue, delivering
// Cancelled to every pending callback.
func (s *Scheduler) Close() {
	s.cancelAll()
	s.transport = nil
}

func (s *Scheduler) cancelAll() {
	if s.inflight != nil {
		if s.inflight.OnFailure != nil {
			s.inflight.OnFailure(FailureCancelled)
		}
		s.destroyInflight()
	}
	for _, req := range s.queue {
		if req.OnResponse != nil && req.OnFailure != nil {
			req.OnFailure(FailureCancelled)
		}
	}
	s.queue = nil
}

// Enqueue appends a request to the queue.
func (s *Scheduler) Enqueue(req *Request) { s.queue = append(s.queue, req) }

// EnqueuePriority inserts a request at the head of the queue. It cannot
// preempt an already in-flight request.
func (s *Scheduler) EnqueuePriority(req *Request) {
	s.queue = append([]*Request{req}, s.queue...)
}

// QueueLen reports the number of requests waiting (excluding in-flight).
func (s *Scheduler) QueueLen() int { return len(s.queue) }

// Tick advances the session: drains inbound bytes, fires deadlines and
// starts the next queued request when the link is free.
func (s *Scheduler) Tick() {
	if s.transport == nil {
		return
	}
	now := s.now()

	// Drain inbound bytes first so a buffered response cannot lose the race
	// against its own timeout.
	for {
		b, ok := s.transport.ReadByte()
		if !ok {
			break
		}
		if f := s.dec.Feed(b); f != nil {
			s.enc.Adopt(s.dec)
			s.dispatch(f)
		}
	}

	if s.inflight != nil && now.After(s.responseBy) {
		s.onTimeout()
	}

	if s.Network != nil {
		if s.nextNotify.IsZero() {
			s.nextNotify = now.Add(DefaultNotifyPeriod)
		} else if now.After(s.nextNotify) {
			s.nextNotify = now.Add(DefaultNotifyPeriod)
			s.Enqueue(&Request{
				Type: MsgNotifyNetworkStatus,
				Body: NetworkNotifyBody(s.Network()),
			})
		}
	}

	if s.inflight != nil || now.Before(s.busyUntil) {
		return
	}

	if len(s.queue) == 0 {
		if s.OnIdle != nil {
			s.OnIdle()
		}
		return
	}

	req := s.queue[0]
	s.queue = s.queue[1:]
	s.send(req.Type, req.Body)

	// Requests without a matcher are fire-and-forget: sent once, no
	// response tracking, no callbacks.
	if req.OnResponse != nil {
		s.inflight = req
		s.remain = s.attempts
		s.responseBy = s.now().Add(s.timeout)
	}
}

// dispatch routes one validated inbound frame.
func (s *Scheduler) dispatch(f *Frame) {
	if s.inflight != nil {
		switch s.inflight.match(f) {
		case ResponseOK:
			if s.inflight.OnSuccess != nil {
				s.inflight.OnSuccess()
			}
			s.destroyInflight()
			return
		case ResponsePartial:
			s.remain = s.attempts
			s.responseBy = s.now().Add(s.timeout)
			return
		case ResponseWrong:
			// Not ours; fall through to unsolicited handling.
		}
	}

	switch f.Type() {
	case MsgNotifyNetworkStatus:
		// Echo of our own notification; nothing to do.
		return
	case MsgGetNetworkStatus:
		if s.Network != nil {
			s.send(MsgGetNetworkStatus, NetworkNotifyBody(s.Network()))
		}
		return
	}

	if s.OnFrame != nil {
		s.OnFrame(f)
	}
}

// Send transmits a frame immediately, bypassing the queue, and arms the
// inter-frame spacing. Used for acks that must not wait behind requests.
func (s *Scheduler) Send(t MessageType, body []byte) {
	if s.transport == nil {
		return
	}
	s.send(t, body)
}

func (s *Scheduler) send(t MessageType, body []byte) {
	raw, err := s.enc.Emit(t, body)
	if err != nil {
		log.Printf("dongle: dropping oversized frame: %v", err)
		return
	}
	if err := s.transport.Write(raw); err != nil {
		log.Printf("dongle: transport write: %v", err)
	}
	s.busyUntil = s.now().Add(s.period)
}

func (s *Scheduler) onTimeout() {
	s.remain--
	if s.remain <= 0 {
		log.Printf("dongle: request type 0x%02X failed after %d attempts", uint8(s.inflight.Type), s.attempts)
		if s.inflight.OnFailure != nil {
			s.inflight.OnFailure(FailureTimeout)
		}
		s.destroyInflight()
		return
	}
	s.send(s.inflight.Type, s.inflight.Body)
	s.responseBy = s.now().Add(s.timeout)
}

func (s *Scheduler) destroyInflight() {
	s.inflight = nil
	s.responseBy = time.Time{}
}
