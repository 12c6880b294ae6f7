// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package dongle

// LinkState describes the module's current networking role.
type LinkState uint8

// Link states as reported to the appliance
const (
	LinkClient LinkState = 1
	LinkConfig LinkState = 2
	LinkAP     LinkState = 3
)

// NetworkStatus is a snapshot of the module's network connectivity, provided
// by the host environment. The core only serialises it.
type NetworkStatus struct {
	Connected bool
	RSSI      int // dBm, ignored when not connected
	IP        [4]byte
	State     LinkState
}

// NetworkStatusProvider returns the current connectivity snapshot.
type NetworkStatusProvider func() NetworkStatus

// SignalLevel maps the RSSI to the appliance's 0..4 signal scale.
func (s NetworkStatus) SignalLevel() uint8 {
	if !s.Connected {
		return 0
	}
	switch {
	case s.RSSI >= -50:
		return 4
	case s.RSSI >= -70:
		return 3
	case s.RSSI >= -80:
		return 2
	default:
		return 1
	}
}

// NetworkNotifyBody builds the 9-byte network status payload carried by
// NOTIFY_NETWORK_STATUS frames and by answers to GET_NETWORK_STATUS.
func NetworkNotifyBody(s NetworkStatus) []byte {
	notConnected := byte(1)
	if s.Connected {
		notConnected = 0
	}
	return []byte{
		1, // link kind: Wi-Fi
		byte(s.State),
		s.SignalLevel(),
		s.IP[0], s.IP[1], s.IP[2], s.IP[3],
		0xFF, // RF not supported
		notConnected,
	}
}
