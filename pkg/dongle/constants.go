// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package dongle implements the outer carrier protocol spoken between a
// Wi-Fi dongle module and a Midea-family home appliance over UART.
//
// Each frame on the wire is a 10-byte header, up to 245 payload bytes and a
// single checksum byte:
//
//	uint8  start (always 0xAA)
//	uint8  length (header + payload, excludes the checksum byte)
//	uint8  appliance type
//	uint8  sync (length XOR appliance)
//	uint16 reserved
//	uint8  message id
//	uint8  reserved
//	uint8  protocol version
//	uint8  message type
//	[]byte payload
//	uint8  checksum (byte sum of the whole frame is 0 mod 256)
//
// "Transparent" message types carry an inner Midea payload with its own
// CRC; see the midea package.
package dongle

// Frame constants
const (
	StartByte    = 0xAA
	HeaderLength = 10
	MaxFrameSize = 256 // header + payload + checksum
	MaxBodySize  = 245
)

// Header byte offsets
const (
	idxStart = iota
	idxLength
	idxAppliance
	idxSync
	_
	_
	idxID
	_
	idxProtocol
	idxType
)

// Appliance represents the appliance-type tag carried in every frame.
type Appliance uint8

// Known appliance types
const (
	ApplianceDehumidifier   Appliance = 0xA1
	ApplianceAirConditioner Appliance = 0xAC
	ApplianceHumidifier     Appliance = 0xFD
	ApplianceBroadcast      Appliance = 0xFF
)

func (a Appliance) String() string {
	switch a {
	case ApplianceDehumidifier:
		return "DEHUMIDIFIER"
	case ApplianceAirConditioner:
		return "AIR_CONDITIONER"
	case ApplianceHumidifier:
		return "HUMIDIFIER"
	case ApplianceBroadcast:
		return "BROADCAST"
	default:
		return "UNKNOWN"
	}
}

// MessageType is the outer frame type.
type MessageType uint8

// Message types - transparent transport of appliance payloads
const (
	MsgControl             MessageType = 0x02
	MsgQuery               MessageType = 0x03
	MsgNotifyStatus        MessageType = 0x04
	MsgNotifyStatusWithAck MessageType = 0x05
	MsgNotifyError         MessageType = 0x06
	MsgNotifyErrorWithAck  MessageType = 0x0A
)

// Message types - control plane
const (
	MsgGetElectronicID     MessageType = 0x07
	MsgNotifyNetworkStatus MessageType = 0x0D
	MsgSetElectronicID     MessageType = 0x11
	MsgSetSSID             MessageType = 0x12
	MsgGetMAC              MessageType = 0x13
	MsgSetDatetime         MessageType = 0x61
	MsgGetNetworkStatus    MessageType = 0x63
	MsgSetWifiState        MessageType = 0x68
	MsgSetupWifiClient     MessageType = 0x6A
	MsgGetAPList           MessageType = 0x6B
	MsgSetWifiMode         MessageType = 0x81
	MsgResetSoft           MessageType = 0x82
	MsgResetHard           MessageType = 0x83
	MsgGetInfo             MessageType = 0xA0
)

// IsTransparent reports whether the frame body is an inner Midea payload
// that the module forwards without interpreting.
func (t MessageType) IsTransparent() bool {
	switch t {
	case MsgControl, MsgQuery, MsgNotifyStatus, MsgNotifyStatusWithAck,
		MsgNotifyError, MsgNotifyErrorWithAck, MsgSetDatetime, MsgGetInfo:
		return true
	default:
		return false
	}
}
