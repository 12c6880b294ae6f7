// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package dongle

import "io"

// StreamTransport adapts a blocking io.ReadWriter (a serial port, a
// websocket bridge) to the scheduler's non-blocking Transport. A reader
// goroutine pumps bytes into a buffered channel; ReadByte never blocks.
type StreamTransport struct {
	rw   io.ReadWriter
	ch   chan byte
	done chan struct{}
}

// NewStreamTransport starts the reader goroutine. Call Close to stop it;
// the underlying stream is not closed.
func NewStreamTransport(rw io.ReadWriter) *StreamTransport {
	t := &StreamTransport{
		rw:   rw,
		ch:   make(chan byte, 2*MaxFrameSize),
		done: make(chan struct{}),
	}
	go t.pump()
	return t
}

func (t *StreamTransport) pump() {
	buf := make([]byte, 128)
	for {
		n, err := t.rw.Read(buf)
		for _, b := range buf[:n] {
			select {
			case t.ch <- b:
			case <-t.done:
				return
			}
		}
		if err != nil {
			return
		}
		select {
		case <-t.done:
			return
		default:
		}
	}
}

// ReadByte returns the next pending byte, or false when none is buffered.
func (t *StreamTransport) ReadByte() (byte, bool) {
	select {
	case b := <-t.ch:
		return b, true
	default:
		return 0, false
	}
}

// Write passes through to the underlying stream.
func (t *StreamTransport) Write(p []byte) error {
	_, err := t.rw.Write(p)
	return err
}

// Close stops the reader goroutine.
func (t *StreamTransport) Close() { close(t.done) }
