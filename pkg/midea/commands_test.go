// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package midea

import (
	"bytes"
	"testing"
)

func TestQueryBuilders_AreFinalized(t *testing.T) {
	tests := []struct {
		name string
		p    []byte
		typ  uint8
	}{
		{"status", NewStatusQuery(), TypeGetStatus},
		{"power usage", NewPowerUsageQuery(), TypeGetStatus},
		{"capabilities", NewCapabilitiesQuery(0), TypeGetCapabilities},
		{"capabilities page", NewCapabilitiesQuery(2), TypeGetCapabilities},
		{"display toggle", NewDisplayToggleQuery(), TypeGetStatus},
		{"properties", NewPropertiesQuery([]uint16{0x0015, 0x0018}), TypeGetProperties},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !Valid(tt.p) {
				t.Errorf("payload not CRC-valid: % X", tt.p)
			}
			if got := Type(tt.p); got != tt.typ {
				t.Errorf("type: got 0x%02X, want 0x%02X", got, tt.typ)
			}
		})
	}
}

func TestNewCapabilitiesQuery_Continuation(t *testing.T) {
	base := NewCapabilitiesQuery(0)
	if !bytes.Equal(base[:3], []byte{0xB5, 0x01, 0x11}) {
		t.Errorf("base query: % X", base)
	}

	next := NewCapabilitiesQuery(0x02)
	if !bytes.Equal(next[:4], []byte{0xB5, 0x01, 0x01, 0x02}) {
		t.Errorf("continuation query: % X", next)
	}
}

func TestNewPropertiesQuery_Layout(t *testing.T) {
	p := NewPropertiesQuery([]uint16{0x0215, 0x0009})
	want := []byte{0xB1, 0x02, 0x15, 0x02, 0x09, 0x00}
	if !bytes.Equal(p[:len(want)], want) {
		t.Errorf("query: got % X, want prefix % X", p, want)
	}
	if len(p) != len(want)+1 {
		t.Errorf("length: got %d, want %d", len(p), len(want)+1)
	}
}
