// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package midea implements the inner appliance payload layer carried by
// transparent dongle frames: the CRC-8/MAXIM envelope, the TLV property
// stream of the 0xBx message family and the fixed query bodies.
//
// A payload is the payload-type byte, type-specific data and a trailing
// CRC-8/MAXIM byte computed over everything before it.
package midea

// Payload type ids
const (
	TypeSetStatus       = 0x40
	TypeGetStatus       = 0x41
	TypeStatusA0        = 0xA0
	TypeStatusA1        = 0xA1
	TypeSetProperties   = 0xB0
	TypeGetProperties   = 0xB1
	TypeGetCapabilities = 0xB5
	TypeStatusC0        = 0xC0
	TypePowerUsage      = 0xC1
)

// Type returns the payload type id, or 0 for an empty payload.
func Type(p []byte) uint8 {
	if len(p) == 0 {
		return 0
	}
	return p[0]
}

// Valid reports whether the payload's trailing CRC matches its content.
// Payloads shorter than type+CRC are never valid.
func Valid(p []byte) bool {
	if len(p) < 2 {
		return false
	}
	return Checksum(p[:len(p)-1]) == p[len(p)-1]
}

// Finalize appends the CRC byte to a payload body and returns the result.
func Finalize(body []byte) []byte {
	return append(body, Checksum(body))
}
