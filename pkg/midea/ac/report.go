// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ac

import (
	"math"

	"github.com/Thermoquad/mistral/pkg/midea"
)

// The native status layouts rely on compiler bit-field packing in the
// appliance firmware. This file is the portable bit-extraction layer:
// explicit masks and shifts over the raw payload bytes, offsets numbered as
// in the firmware structures (payload[0] is the type id, fields start at
// byte 1).

func bit(b byte, n uint) bool { return b&(1<<n) != 0 }

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// sensorTemp converts a raw temperature byte and its BCD decimal nibble to
// °C. The raw value is 0.5°C units with a +25°C offset; 0xFF means no
// sensor. The decimal nibble refines to 0.1°C; its sign follows the offset
// subtraction, so readings below 0°C mirror it.
func sensorTemp(value, decimal uint8) float64 {
	if value == 0xFF {
		return math.NaN()
	}
	v := int(value) * 5
	d := int(decimal)
	// the .5 is already in the raw value; drop it from the decimal
	if d >= 5 {
		d -= 5
	}
	v -= 250
	if v < 0 {
		d = -d
	}
	return float64(v+d) * 0.1
}

func bcd(x uint8) uint { return uint(x/16)*10 + uint(x%16) }

// decodePreset applies the report precedence: sleep wins, then either turbo
// bit (firmwares do not report them consistently), then eco, then frost
// protection.
func decodePreset(sleep, turbo1, turbo2, eco, frost bool) Preset {
	switch {
	case sleep:
		return PresetSleep
	case turbo1 || turbo2:
		return PresetTurbo
	case eco:
		return PresetEco
	case frost:
		return PresetFrostProtection
	default:
		return PresetNone
	}
}

// Report payload minimum lengths (type byte + fields + CRC).
const (
	lenStatusA0 = 16
	lenStatusA1 = 19
	lenStatusC0 = 24
	lenStatusC1 = 20
	lenCommand  = 24
)

// ApplyReport merges one inbound appliance payload into the device model.
// The payload must already be CRC-valid. It returns true when the report
// was recognized and merged (i.e. subscribers should be notified), whether
// or not any value differs from before; false for unrecognized or
// too-short payloads.
func (s *DeviceStatus) ApplyReport(p []byte) bool {
	switch midea.Type(p) {
	case midea.TypeStatusA0:
		if len(p) < lenStatusA0 {
			return false
		}
		s.applyA0(p)
	case midea.TypeStatusA1:
		if len(p) < lenStatusA1 {
			return false
		}
		s.applyA1(p)
	case midea.TypeStatusC0:
		if len(p) < lenStatusC0 {
			return false
		}
		s.applyC0(p)
	case midea.TypePowerUsage:
		if len(p) < lenStatusC1 {
			return false
		}
		s.applyC1(p)
	case midea.TypeSetStatus:
		if len(p) < lenCommand {
			return false
		}
		s.applyCommand(p)
	case midea.TypeGetProperties, midea.TypeSetProperties:
		s.applyProperties(p)
	case midea.TypeGetCapabilities:
		props, _ := midea.Properties(p)
		for _, prop := range props {
			s.Caps.Apply(prop)
		}
	default:
		return false
	}
	return true
}

func (s *DeviceStatus) applyA0(p []byte) {
	ctl := &s.Control
	ctl.Power = bit(p[1], 0)
	newTemp := (p[1] >> 1) & 0x1F
	dot := boolByte(bit(p[1], 6))
	ctl.TargetTemp = (newTemp+12)*2 + dot
	ctl.Mode = Mode(p[2] >> 5)
	ctl.FanSpeed = p[3] & 0x7F
	ctl.Timers = UnpackTimers([3]byte{p[4], p[5], p[6]})
	ctl.HSwing = p[7]&0x03 != 0
	ctl.VSwing = (p[7]>>2)&0x03 != 0
	ctl.Humidity = p[13] & 0x7F
	ctl.Preset = decodePreset(
		bit(p[10], 0),          // sleep
		bit(p[8], 5),           // turbo1
		bit(p[10], 1),          // turbo2
		bit(p[9], 4),           // eco
		bit(p[12], 7),          // frost protection
	)
	s.applyCommonFlags(p)
}

func (s *DeviceStatus) applyA1(p []byte) {
	s.Readable.IndoorTemp = sensorTemp(p[13], 0)
	s.Readable.OutdoorTemp = sensorTemp(p[14], 0)
	s.Control.Humidity = p[17] & 0x7F
}

func (s *DeviceStatus) applyC0(p []byte) {
	ctl := &s.Control
	r := &s.Readable

	ctl.Power = bit(p[1], 0)
	r.imodeResume = bit(p[1], 2)
	r.timerMode = bit(p[1], 4)
	r.test2 = bit(p[1], 5)

	ctl.Mode = Mode(p[2] >> 5)
	dot := boolByte(bit(p[2], 4))
	// Old firmwares report the setpoint only in the 4-bit field of byte 2;
	// newer ones use the 5-bit field of byte 13.
	if newTemp := p[13] & 0x1F; newTemp != 0 {
		ctl.TargetTemp = (newTemp+12)*2 + dot
	} else {
		ctl.TargetTemp = (p[2]&0x0F+16)*2 + dot
	}

	ctl.FanSpeed = p[3] & 0x7F
	ctl.Timers = UnpackTimers([3]byte{p[4], p[5], p[6]})
	ctl.HSwing = p[7]&0x03 != 0
	ctl.VSwing = (p[7]>>2)&0x03 != 0
	ctl.Humidity = p[19] & 0x7F
	ctl.Preset = decodePreset(
		bit(p[10], 0),
		bit(p[8], 5),
		bit(p[10], 1),
		bit(p[9], 4),
		bit(p[21], 7),
	)

	r.IndoorTemp = sensorTemp(p[11], p[15]&0x0F)
	r.OutdoorTemp = sensorTemp(p[12], p[15]>>4)
	r.ErrorCode = p[16]
	r.FilterFull = bit(p[13], 5)
	r.childSleep = bit(p[9], 0)
	r.naturalFan = bit(p[9], 1)
	r.dryClean = bit(p[9], 2)
	r.cleanUp = bit(p[9], 5)
	r.exchangeAir = bit(p[10], 3)
	r.nightLight = bit(p[10], 4)
	r.catchCold = bit(p[10], 5)
	r.peakElec = bit(p[10], 6)
	r.cosySleep = p[8] & 0x03
	r.save = bit(p[8], 3)
	r.lowFreqFan = bit(p[8], 4)
	r.feelOwn = bit(p[8], 7)
	r.LEDOn = (p[14]>>4)&0x07 == 0
	r.setExpand = p[21] & 0x3F
	r.doubleTemp = bit(p[21], 6)
}

// applyCommonFlags copies the A0-layout opaque flags and LED state.
func (s *DeviceStatus) applyCommonFlags(p []byte) {
	r := &s.Readable
	r.cosySleep = p[8] & 0x03
	r.save = bit(p[8], 3)
	r.lowFreqFan = bit(p[8], 4)
	r.feelOwn = bit(p[8], 7)
	r.exchangeAir = bit(p[9], 1)
	r.dryClean = bit(p[9], 2)
	r.cleanUp = bit(p[9], 5)
	r.catchCold = bit(p[10], 3)
	r.nightLight = bit(p[10], 4)
	r.peakElec = bit(p[10], 5)
	r.naturalFan = bit(p[10], 6)
	r.LEDOn = (p[11]>>4)&0x07 == 0
	r.setExpand = p[12] & 0x3F
	r.doubleTemp = bit(p[12], 6)
}

// applyC1 decodes the power usage report: six BCD digits in bytes 16..18,
// scaled by 0.1 to watts.
func (s *DeviceStatus) applyC1(p []byte) {
	watts := bcd(p[16])*10000 + bcd(p[17])*100 + bcd(p[18])
	s.Readable.PowerUsage = float64(watts) * 0.1
}

// applyCommand decodes our own 0x40 set-status layout. The appliance never
// sends it, but feeding a just-built command back through the model keeps
// control state coherent between the send and the 0xC0 echo.
func (s *DeviceStatus) applyCommand(p []byte) {
	ctl := &s.Control
	ctl.Power = bit(p[1], 0)
	s.Settings.Beeper = bit(p[1], 6)

	ctl.Mode = Mode(p[2] >> 5)
	dot := boolByte(bit(p[2], 4))
	if newTemp := p[18] & 0x1F; newTemp != 0 {
		ctl.TargetTemp = (newTemp+12)*2 + dot
	} else {
		ctl.TargetTemp = (p[2]&0x0F+16)*2 + dot
	}

	ctl.FanSpeed = p[3] & 0x7F
	ctl.Timers = UnpackTimers([3]byte{p[4], p[5], p[6]})
	ctl.HSwing = p[7]&0x03 != 0
	ctl.VSwing = (p[7]>>2)&0x03 != 0
	ctl.Humidity = p[19] & 0x7F
	ctl.Preset = decodePreset(
		bit(p[10], 0),
		bit(p[8], 5),
		bit(p[10], 1),
		bit(p[9], 7),
		bit(p[21], 7),
	)
	s.Settings.DisplayUnit = UnitCelsius
	if bit(p[10], 2) {
		s.Settings.DisplayUnit = UnitFahrenheit
	}
}

// applyProperties merges a 0xB1 property state report.
func (s *DeviceStatus) applyProperties(p []byte) {
	props, _ := midea.Properties(p)
	for _, prop := range props {
		if !prop.Ok() || len(prop.Data) == 0 {
			continue
		}
		s.applyProperty(prop)
	}
}

func (s *DeviceStatus) applyProperty(prop midea.Property) {
	ctl := &s.Control
	b0 := prop.Data[0]
	switch prop.UUID {
	case UUIDVWind:
		ctl.VWindDirection = b0
	case UUIDHWind:
		ctl.HWindDirection = b0
	case UUIDBreezeless:
		ctl.Breezeless = BreezelessMode(b0)
	case UUIDBuzzer:
		ctl.BuzzerOn = b0 != 0
	case UUIDSelfClean:
		ctl.SelfCleanOn = b0 != 0
	case UUIDSilkyCool:
		ctl.SilkyCoolOn = b0 != 0
	case UUIDWindOnMe:
		ctl.WindOnMeOn = b0 != 0
	case UUIDWindOffMe:
		ctl.WindOffMeOn = b0 != 0
	case UUIDBreezeAway:
		ctl.BreezeAwayOn = b0 == 2
	case UUIDEcoEye:
		ctl.SmartEyeOn = b0 != 0
	case UUIDHumidity:
		s.Readable.IndoorHumidity = b0
	case UUIDMasterValues:
		copy(ctl.MasterValues[:], prop.Data)
	case UUIDSlaveValues:
		copy(ctl.SlaveValues[:], prop.Data)
	}
}
