// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package dongle

import (
	"fmt"
	"time"
)

// FormatMessageType returns the human-readable name for an outer frame type.
func FormatMessageType(t MessageType) string {
	switch t {
	case MsgControl:
		return "CONTROL"
	case MsgQuery:
		return "QUERY"
	case MsgNotifyStatus:
		return "NOTIFY_STATUS"
	case MsgNotifyStatusWithAck:
		return "NOTIFY_STATUS_WITH_ACK"
	case MsgNotifyError:
		return "NOTIFY_ERROR"
	case MsgNotifyErrorWithAck:
		return "NOTIFY_ERROR_WITH_ACK"
	case MsgGetElectronicID:
		return "GET_ELECTRONIC_ID"
	case MsgNotifyNetworkStatus:
		return "NOTIFY_NETWORK_STATUS"
	case MsgSetElectronicID:
		return "SET_ELECTRONIC_ID"
	case MsgSetSSID:
		return "SET_SSID"
	case MsgGetMAC:
		return "GET_MAC"
	case MsgSetDatetime:
		return "SET_DATETIME"
	case MsgGetNetworkStatus:
		return "GET_NETWORK_STATUS"
	case MsgSetWifiState:
		return "SET_WIFI_STATE"
	case MsgSetupWifiClient:
		return "SETUP_WIFI_CLIENT"
	case MsgGetAPList:
		return "GET_AP_LIST"
	case MsgSetWifiMode:
		return "SET_WIFI_MODE"
	case MsgResetSoft:
		return "RESET_SOFT"
	case MsgResetHard:
		return "RESET_HARD"
	case MsgGetInfo:
		return "GET_INFO"
	default:
		return "UNKNOWN"
	}
}

// FormatFrame formats a frame into a human-readable log line.
func FormatFrame(f *Frame, at time.Time) string {
	line := fmt.Sprintf("[%s] %s (0x%02X) app=%s id=%d proto=%d len=%d",
		at.Format("15:04:05.000"), FormatMessageType(f.Type()), uint8(f.Type()),
		f.Appliance(), f.ID(), f.Protocol(), len(f.Body()))
	if body := f.Body(); len(body) > 0 {
		line += fmt.Sprintf("\n  % X", body)
	}
	return line + "\n"
}
