// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package dongle

import "log"

// Decoder implements the carrier frame receive state machine. It consumes a
// lossy byte stream one byte at a time and emits validated frames.
//
// There is no dedicated framing escape: resynchronization is byte-by-byte.
// After any malformed byte the accumulator resets and every subsequent byte
// is retried as a potential start byte.
type Decoder struct {
	buf [MaxFrameSize]byte
	n   int

	appliance Appliance
	protocol  uint8

	// Debug enables per-byte drop logging.
	Debug bool
}

// NewDecoder creates a decoder with no learned session values: the appliance
// defaults to broadcast and the protocol version to 0 until a valid inbound
// frame teaches them.
func NewDecoder() *Decoder {
	return &Decoder{appliance: ApplianceBroadcast}
}

// Reset discards any partially accumulated frame.
func (d *Decoder) Reset() { d.n = 0 }

// Appliance returns the appliance tag learned from the last valid frame.
func (d *Decoder) Appliance() Appliance { return d.appliance }

// Protocol returns the protocol version learned from the last valid frame.
func (d *Decoder) Protocol() uint8 { return d.protocol }

// Feed consumes one byte. It returns a complete validated frame, or nil
// while a frame is incomplete. Malformed input is dropped silently and never
// produces an error: the upstream request timeout is the recovery path.
//
// The returned frame aliases the decoder's scratch buffer and is only valid
// until the next call to Feed.
func (d *Decoder) Feed(b byte) *Frame {
	idx := d.n
	d.buf[idx] = b
	d.n++

	switch idx {
	case idxStart:
		if b == StartByte {
			return nil
		}

	case idxLength:
		// The length counts the full header, so anything that does not
		// exceed it cannot be a frame.
		if b > HeaderLength {
			return nil
		}

	default:
		if idx < int(d.buf[idxLength]) {
			return nil
		}

		// Checksum slot.
		if Checksum(d.buf[:idx]) != b {
			if d.Debug {
				log.Printf("dongle: checksum mismatch, dropping %d bytes", d.n)
			}
			break
		}

		d.n = 0
		frame := &Frame{raw: d.buf[:idx+1]}
		d.learn(frame)
		return frame
	}

	d.Reset()
	return nil
}

// learn captures session-level values from a valid inbound frame.
func (d *Decoder) learn(f *Frame) {
	if app := f.Appliance(); app != d.appliance {
		d.appliance = app
		log.Printf("dongle: appliance updated to 0x%02X (%s)", uint8(app), app)
	}
	if proto := f.Protocol(); proto != d.protocol {
		d.protocol = proto
		log.Printf("dongle: protocol version updated to %d", proto)
	}
}
