// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package dongle

import "fmt"

// Encoder builds finished carrier frames. It owns the per-session message
// identifier generator and the learned appliance/protocol header values, so
// one encoder must be shared by all outbound traffic of a session.
type Encoder struct {
	appliance Appliance
	protocol  uint8
	id        uint8
}

// NewEncoder creates an encoder that stamps broadcast/0 headers until
// Adopt teaches it the appliance's values.
func NewEncoder() *Encoder {
	return &Encoder{appliance: ApplianceBroadcast}
}

// Adopt copies the session values learned by a decoder so outbound frames
// carry the appliance's own tag and protocol version.
func (e *Encoder) Adopt(d *Decoder) {
	e.appliance = d.Appliance()
	e.protocol = d.Protocol()
}

// nextID is a wrap-around 8-bit counter that never yields zero.
func (e *Encoder) nextID() uint8 {
	e.id++
	if e.id == 0 {
		e.id++
	}
	return e.id
}

// Emit builds the wire image for one frame. Every call consumes a fresh
// message identifier, including retransmissions of the same body.
func (e *Encoder) Emit(t MessageType, body []byte) ([]byte, error) {
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("dongle: body too large: %d bytes (max %d)", len(body), MaxBodySize)
	}

	length := HeaderLength + len(body)
	raw := make([]byte, length+1)
	raw[idxStart] = StartByte
	raw[idxLength] = byte(length)
	raw[idxAppliance] = byte(e.appliance)
	raw[idxSync] = byte(length) ^ byte(e.appliance)
	raw[idxID] = e.nextID()
	raw[idxProtocol] = e.protocol
	raw[idxType] = byte(t)
	copy(raw[HeaderLength:], body)
	raw[length] = Checksum(raw[:length])

	return raw, nil
}
