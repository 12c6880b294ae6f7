// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package midea

import (
	"bytes"
	"testing"
)

func TestProperties_CapabilityRecords(t *testing.T) {
	// 0xB5 layout: uuid(2, little-endian) + length + data, no result byte.
	body := []byte{
		TypeGetCapabilities, 0x02,
		0x14, 0x02, 0x01, 0x01, // MODES = 1
		0x25, 0x02, 0x07, 0x22, 0x3C, 0x22, 0x3C, 0x22, 0x3C, 0x01, // TEMP ranges
	}
	p := Finalize(body)

	props, nextID := Properties(p)
	if nextID != 0 {
		t.Errorf("nextID: got %d, want 0", nextID)
	}
	if len(props) != 2 {
		t.Fatalf("records: got %d, want 2", len(props))
	}
	if props[0].UUID != 0x0214 || !bytes.Equal(props[0].Data, []byte{0x01}) {
		t.Errorf("record 0: %+v", props[0])
	}
	if props[1].UUID != 0x0225 || len(props[1].Data) != 7 {
		t.Errorf("record 1: %+v", props[1])
	}
}

func TestProperties_Continuation(t *testing.T) {
	body := []byte{
		TypeGetCapabilities, 0x01,
		0x24, 0x02, 0x01, 0x01, // LIGHT = 1
		0x02, // continuation id
	}
	p := Finalize(body)

	props, nextID := Properties(p)
	if len(props) != 1 {
		t.Fatalf("records: got %d, want 1", len(props))
	}
	if nextID != 0x02 {
		t.Errorf("nextID: got %d, want 2", nextID)
	}

	// A follow-up payload ending in zero closes the stream.
	body = []byte{
		TypeGetCapabilities, 0x01,
		0x2C, 0x02, 0x01, 0x01, // BUZZER = 1
		0x00,
	}
	_, nextID = Properties(Finalize(body))
	if nextID != 0 {
		t.Errorf("final nextID: got %d, want 0", nextID)
	}
}

func TestProperties_StateRecordsCarryResult(t *testing.T) {
	// 0xB1 layout has a result byte between uuid and length.
	body := []byte{
		TypeGetProperties, 0x02,
		0x09, 0x00, 0x00, 0x01, 0x19, // VWIND ok, value 25
		0x0A, 0x00, 0x11, 0x01, 0x32, // HWIND failed
	}
	p := Finalize(body)

	props, nextID := Properties(p)
	if nextID != 0 {
		t.Errorf("nextID: got %d, want 0", nextID)
	}
	if len(props) != 2 {
		t.Fatalf("records: got %d, want 2", len(props))
	}
	if props[0].UUID != 0x0009 || !props[0].Ok() || props[0].Data[0] != 0x19 {
		t.Errorf("record 0: %+v", props[0])
	}
	if props[1].UUID != 0x000A || props[1].Ok() {
		t.Errorf("record 1 should carry a failure result: %+v", props[1])
	}
}

func TestProperties_TruncatedRecordDropped(t *testing.T) {
	// The second record announces more data than the payload holds.
	body := []byte{
		TypeGetProperties, 0x02,
		0x09, 0x00, 0x00, 0x01, 0x19,
		0x0A, 0x00, 0x00, 0x10, 0x01,
	}
	p := Finalize(body)

	props, _ := Properties(p)
	if len(props) != 1 {
		t.Fatalf("records: got %d, want 1 (partial record must not surface)", len(props))
	}
}

func TestProperties_EmptyPayload(t *testing.T) {
	props, nextID := Properties(Finalize([]byte{TypeGetProperties, 0x00}))
	if len(props) != 0 || nextID != 0 {
		t.Errorf("empty payload: props=%v nextID=%d", props, nextID)
	}
}
