// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ac

import (
	"errors"

	"github.com/Thermoquad/mistral/pkg/midea"
)

// ErrUnsupported is returned by setters when the requested value is outside
// the discovered capabilities. The control state is left unchanged.
var ErrUnsupported = errors.New("ac: not supported by this appliance")

// Control is a transient mutator: a snapshot of the controllable state and
// settings plus diff bookkeeping. It lives only long enough to be serialised
// into one 0x40 command.
type Control struct {
	ControlState
	Settings Settings

	parent      *DeviceStatus
	cleanFilter bool
	oldChanged  bool
}

// NewControl snapshots the device status for mutation.
func NewControl(s *DeviceStatus) *Control {
	return &Control{
		ControlState: s.Control,
		Settings:     s.Settings,
		parent:       s,
	}
}

// Changed reports whether any setter actually modified the classic control
// surface since the snapshot was taken.
func (c *Control) Changed() bool { return c.oldChanged }

// SetPower switches the appliance on or off. Turning power off leaves the
// mode unchanged.
func (c *Control) SetPower(on bool) {
	if c.Power == on {
		return
	}
	c.Power = on
	c.oldChanged = true
}

// SetMode selects the operation mode, gated by capabilities. Switching mode
// clears the active preset and implies power-on.
func (c *Control) SetMode(m Mode) error {
	if c.Power && m == c.Mode {
		return nil
	}
	if !c.parent.Caps.HasMode(m) {
		return ErrUnsupported
	}
	c.Mode = m
	c.Preset = PresetNone
	c.Power = true
	c.oldChanged = true
	return nil
}

// SetTargetTemp sets the setpoint in °C, rounded to the nearest half
// degree.
func (c *Control) SetTargetTemp(celsius float64) {
	c.SetTargetTempInt(uint8(celsius*2 + 0.5))
}

// SetTargetTempInt sets the setpoint in half-degrees Celsius. The value is
// clamped to the mode's capability range at serialisation time.
func (c *Control) SetTargetTempInt(halfDegrees uint8) {
	if halfDegrees == c.TargetTemp {
		return
	}
	c.TargetTemp = halfDegrees
	c.oldChanged = true
}

// SetFanSpeed sets the fan percentage (102 = AUTO), gated by capabilities.
// Selecting a concrete speed clears a preset that forces its own speed.
func (c *Control) SetFanSpeed(percent uint8) error {
	if percent == c.FanSpeed {
		return nil
	}
	if !c.parent.Caps.HasFanSpeed(percent) {
		return ErrUnsupported
	}
	c.FanSpeed = percent
	if percent != uint8(FanAuto) && c.Preset == PresetTurbo {
		c.Preset = PresetNone
	}
	c.oldChanged = true
	return nil
}

// SetPreset selects a comfort preset, gated by capabilities.
func (c *Control) SetPreset(p Preset) error {
	if p == c.Preset {
		return nil
	}
	caps := &c.parent.Caps
	switch p {
	case PresetNone, PresetSleep:
		// Sleep is always supported.
	case PresetTurbo:
		if !caps.HasTurboCool() && !caps.HasTurboHeat() {
			return ErrUnsupported
		}
	case PresetEco:
		if !caps.HasEco() && !caps.HasEcoSpecial() {
			return ErrUnsupported
		}
	case PresetFrostProtection:
		if !caps.HasFrostProtection() {
			return ErrUnsupported
		}
	}
	c.Preset = p
	c.oldChanged = true
	return nil
}

// SetVerticalSwing toggles the vertical louver sweep.
func (c *Control) SetVerticalSwing(on bool) {
	if c.VSwing != on {
		c.VSwing = on
		c.oldChanged = true
	}
}

// SetHorizontalSwing toggles the horizontal louver sweep.
func (c *Control) SetHorizontalSwing(on bool) {
	if c.HSwing != on {
		c.HSwing = on
		c.oldChanged = true
	}
}

// SetTargetHumidity sets the smart dry setpoint in percent.
func (c *Control) SetTargetHumidity(percent uint8) {
	if c.Humidity != percent {
		c.Humidity = percent
		c.oldChanged = true
	}
}

// SetTimeOn arms the on timer; while the appliance is powered on it
// disarms the on timer instead.
func (c *Control) SetTimeOn(minutes uint) {
	if c.Power {
		minutes = 0
	}
	before := c.Timers
	c.Timers.SetOn(minutes)
	if c.Timers != before {
		c.oldChanged = true
	}
}

// SetTimeOff arms the off timer; while the appliance is off it disarms the
// off timer instead.
func (c *Control) SetTimeOff(minutes uint) {
	if !c.Power {
		minutes = 0
	}
	before := c.Timers
	c.Timers.SetOff(minutes)
	if c.Timers != before {
		c.oldChanged = true
	}
}

// ClearFilterReminder requests a filter maintenance timer reset with the
// next command, if the reminder is currently raised.
func (c *Control) ClearFilterReminder() {
	c.cleanFilter = c.parent.Readable.FilterFull
}

// constraints applies the two mode-dependent passes before serialisation:
// the capability temperature clamp and the forced-auto fan override.
func (c *Control) constraints() {
	switch c.Mode {
	case ModeAuto, ModeDry, ModeDryCustom:
		c.FanSpeed = uint8(FanAuto)
	}

	r := c.parent.Caps.TempRange(c.Mode)
	if c.TargetTemp < r.Min {
		c.TargetTemp = r.Min
	}
	if c.TargetTemp > r.Max {
		c.TargetTemp = r.Max
	}
}

// Command serialises the control into a finalized 0x40 payload.
//
// Both temperature encodings are emitted because firmware generations
// disagree on which one they respect: the 4-bit legacy field of byte 2
// covers 17..30°C, the 5-bit field of byte 18 covers 13..42°C. All other
// bytes mirror the most recently observed device state so the appliance
// does not read omission as a command.
func (c *Control) Command() []byte {
	c.constraints()

	temp := c.TargetTemp
	dot := temp & 1
	newTemp := temp/2 - 12
	oldDegrees := temp / 2
	if oldDegrees < 17 {
		oldDegrees = 17
	}
	if oldDegrees > 30 {
		oldDegrees = 30
	}
	oldTemp := oldDegrees - 16

	// Auxiliary electric heat rides along whenever heating is requested
	// and the hardware has the heater.
	ptcAssist := c.Mode == ModeHeat && c.parent.Caps.HasElectricHeater()

	r := &c.parent.Readable
	turbo := c.Preset == PresetTurbo

	p := make([]byte, 23)
	p[0] = midea.TypeSetStatus
	p[1] = boolByte(c.Settings.Beeper)<<6 | boolByte(r.test2)<<5 |
		boolByte(r.timerMode)<<4 | boolByte(r.childSleep)<<3 |
		boolByte(r.imodeResume)<<2 | 1<<1 | boolByte(c.Power)
	p[2] = uint8(c.Mode)<<5 | dot<<4 | oldTemp
	p[3] = c.FanSpeed
	timers := c.Timers.Pack()
	copy(p[4:7], timers[:])
	p[7] = 0x30
	if c.VSwing {
		p[7] |= 0x0C
	}
	if c.HSwing {
		p[7] |= 0x03
	}
	p[8] = boolByte(r.feelOwn)<<7 | boolByte(turbo)<<5 |
		boolByte(r.lowFreqFan)<<4 | boolByte(r.save)<<3 | r.cosySleep
	p[9] = boolByte(c.Preset == PresetEco)<<7 | boolByte(r.cleanUp)<<5 |
		boolByte(ptcAssist)<<3 | boolByte(r.dryClean)<<2 | boolByte(r.exchangeAir)<<1
	p[10] = boolByte(c.cleanFilter)<<7 | boolByte(r.FilterFull)<<6 |
		boolByte(r.peakElec)<<5 | boolByte(r.nightLight)<<4 |
		boolByte(r.catchCold)<<3 | uint8(c.Settings.DisplayUnit)<<2 |
		boolByte(turbo)<<1 | boolByte(c.Preset == PresetSleep)
	p[15] = boolByte(r.naturalFan) << 6
	p[18] = newTemp
	p[19] = c.Humidity
	p[21] = boolByte(c.Preset == PresetFrostProtection)<<7 |
		boolByte(r.doubleTemp)<<6 | r.setExpand

	return midea.Finalize(p)
}
