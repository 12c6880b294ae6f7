// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package midea

import "encoding/binary"

// Property is one TLV record from a 0xB0/0xB1/0xB5 payload.
type Property struct {
	UUID uint16
	// Result is the per-record status byte (0 = ok). Only present in
	// 0xB0/0xB1 records; always 0 for 0xB5.
	Result uint8
	Data   []byte
}

// Ok reports whether the record carries a success result.
func (p Property) Ok() bool { return p.Result == 0 }

// PropertyReader iterates the TLV records of a 0xBx payload.
//
// Records start at offset 2 (after the type byte and the record-count byte)
// and run until the remaining bytes cannot hold a complete record. The first
// unconsumed byte before the trailing CRC, if any, is the continuation id:
// zero means the stream is complete, non-zero is the id the appliance
// expects in the follow-up query.
type PropertyReader struct {
	p         []byte
	pos       int
	end       int // index of the trailing CRC byte
	hasResult bool
	done      bool
	nextID    uint8
}

// NewPropertyReader prepares iteration over a 0xBx payload (including its
// trailing CRC byte, which the caller is expected to have validated).
func NewPropertyReader(payload []byte) *PropertyReader {
	r := &PropertyReader{
		p:         payload,
		pos:       2,
		end:       len(payload) - 1,
		hasResult: Type(payload) != TypeGetCapabilities,
	}
	if r.end < 2 {
		r.finish()
	}
	return r
}

// header size: 2-byte little-endian UUID, optional result byte, length byte.
func (r *PropertyReader) headerLen() int {
	if r.hasResult {
		return 4
	}
	return 3
}

// Next yields the following complete record. It returns false when the data
// runs out; no partial record is ever surfaced.
func (r *PropertyReader) Next() (Property, bool) {
	if r.done || r.pos+r.headerLen() > r.end {
		r.finish()
		return Property{}, false
	}

	var prop Property
	prop.UUID = binary.LittleEndian.Uint16(r.p[r.pos:])
	cursor := r.pos + 2
	if r.hasResult {
		prop.Result = r.p[cursor]
		cursor++
	}
	length := int(r.p[cursor])
	cursor++
	if cursor+length > r.end {
		r.finish()
		return Property{}, false
	}
	prop.Data = r.p[cursor : cursor+length]
	r.pos = cursor + length
	return prop, true
}

// NextID returns the continuation id. Only meaningful once Next has
// returned false.
func (r *PropertyReader) NextID() uint8 { return r.nextID }

func (r *PropertyReader) finish() {
	if r.done {
		return
	}
	r.done = true
	if r.pos >= 2 && r.pos < r.end {
		r.nextID = r.p[r.pos]
	}
}

// Properties collects every record of a 0xBx payload and its continuation
// id in one call.
func Properties(payload []byte) ([]Property, uint8) {
	r := NewPropertyReader(payload)
	var props []Property
	for {
		p, ok := r.Next()
		if !ok {
			return props, r.NextID()
		}
		props = append(props, p)
	}
}
