// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package midea

import "encoding/binary"

// Query builder functions create finalized inner payloads (trailing CRC
// included) for the fixed request bodies used by the scheduler.

// NewStatusQuery creates the 0x41 device status query.
func NewStatusQuery() []byte {
	return Finalize([]byte{TypeGetStatus, 0x81})
}

// NewPowerUsageQuery creates the 0x41 power usage query; the appliance
// answers with a 0xC1 report.
func NewPowerUsageQuery() []byte {
	return Finalize([]byte{TypeGetStatus, 0x21, 0x01, 0x44, 0x00, 0x01})
}

// NewCapabilitiesQuery creates the 0xB5 capability discovery query. A
// non-zero n requests the continuation page the appliance announced in its
// previous report.
func NewCapabilitiesQuery(n uint8) []byte {
	if n == 0 {
		return Finalize([]byte{TypeGetCapabilities, 0x01, 0x11})
	}
	return Finalize([]byte{TypeGetCapabilities, 0x01, 0x01, n})
}

// NewDisplayToggleQuery creates the LED display toggle command.
func NewDisplayToggleQuery() []byte {
	return Finalize([]byte{TypeGetStatus, 0x61, 0x00, 0xFF, 0x02})
}

// NewPropertiesQuery creates a 0xB1 property state query for the given
// UUID list.
func NewPropertiesQuery(uuids []uint16) []byte {
	body := make([]byte, 0, 2+2*len(uuids))
	body = append(body, TypeGetProperties, byte(len(uuids)))
	for _, uuid := range uuids {
		body = binary.LittleEndian.AppendUint16(body, uuid)
	}
	return Finalize(body)
}
