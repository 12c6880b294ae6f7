// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ac

import (
	"testing"

	"github.com/Thermoquad/mistral/pkg/midea"
)

// referenceStatus returns a device model seeded from the reference 0xC0
// report: powered on, COOL, 22.5°C, fan 60%, vertical swing.
func referenceStatus(t *testing.T) *DeviceStatus {
	t.Helper()
	s := NewDeviceStatus()
	if !s.ApplyReport(referenceC0()) {
		t.Fatal("reference report rejected")
	}
	return s
}

func TestControl_CommandEncodesBothTemperatures(t *testing.T) {
	s := referenceStatus(t)
	ctl := NewControl(s)
	ctl.SetTargetTempInt(45) // 22.5°C, already the current value: no-op
	if ctl.Changed() {
		t.Fatal("setting the current value must not mark a change")
	}

	cmd := ctl.Command()
	if !midea.Valid(cmd) {
		t.Fatal("command not CRC-valid")
	}
	if got := midea.Type(cmd); got != midea.TypeSetStatus {
		t.Fatalf("type: got 0x%02X", got)
	}
	if len(cmd) != 24 {
		t.Fatalf("length: got %d, want 24", len(cmd))
	}

	// 22.5°C in COOL: legacy nibble 22-16=6 with the half-degree bit,
	// wide field 22-12=10.
	if got := cmd[2] & 0x0F; got != 6 {
		t.Errorf("legacy temp nibble: got %d, want 6", got)
	}
	if cmd[2]&0x10 == 0 {
		t.Error("half-degree bit missing")
	}
	if got := cmd[2] >> 5; got != uint8(ModeCool) {
		t.Errorf("mode bits: got %d", got)
	}
	if got := cmd[18]; got != 10 {
		t.Errorf("wide temp field: got %d, want 10", got)
	}
}

func TestControl_TemperatureClampedToCapabilities(t *testing.T) {
	s := referenceStatus(t)
	ctl := NewControl(s)
	ctl.SetTargetTempInt(90) // far above the 30°C default limit

	cmd := ctl.Command()
	if got := cmd[18]; got != 30-12 {
		t.Errorf("wide field: got %d, want %d", got, 30-12)
	}
	if got := cmd[2] & 0x0F; got != 30-16 {
		t.Errorf("legacy nibble: got %d, want %d", got, 30-16)
	}

	// The legal ranges of both encodings hold for every in-range setpoint.
	for half := uint8(34); half <= 60; half++ {
		ctl := NewControl(s)
		ctl.SetTargetTempInt(half)
		cmd := ctl.Command()
		if nib := cmd[2] & 0x0F; nib < 1 || nib > 14 {
			t.Fatalf("half=%d: legacy nibble %d out of range", half, nib)
		}
		if wide := cmd[18]; wide < 1 || wide > 30 {
			t.Fatalf("half=%d: wide field %d out of range", half, wide)
		}
	}
}

func TestControl_FanForcedAutoInAutoAndDry(t *testing.T) {
	for _, mode := range []Mode{ModeAuto, ModeDry} {
		s := referenceStatus(t)
		ctl := NewControl(s)
		if err := ctl.SetMode(mode); err != nil {
			t.Fatalf("SetMode(%v): %v", mode, err)
		}
		cmd := ctl.Command()
		if got := cmd[3]; got != uint8(FanAuto) {
			t.Errorf("mode %v: fan byte got %d, want %d", mode, got, FanAuto)
		}
	}

	// COOL keeps the chosen speed.
	s := referenceStatus(t)
	ctl := NewControl(s)
	cmd := ctl.Command()
	if got := cmd[3]; got != 60 {
		t.Errorf("cool: fan byte got %d, want 60", got)
	}
}

func TestControl_SetModeRejectsUnsupported(t *testing.T) {
	s := referenceStatus(t)
	s.Caps.Apply(prop(UUIDModes, 3)) // COOL only

	ctl := NewControl(s)
	if err := ctl.SetMode(ModeHeat); err != ErrUnsupported {
		t.Fatalf("SetMode: got %v, want ErrUnsupported", err)
	}
	if ctl.Mode != ModeCool {
		t.Errorf("mode changed on rejected setter: %v", ctl.Mode)
	}
	if ctl.Changed() {
		t.Error("rejected setter marked a change")
	}
}

func TestControl_ModeChangeClearsPresetAndPowersOn(t *testing.T) {
	s := referenceStatus(t)
	s.Control.Power = false
	s.Control.Preset = PresetEco

	ctl := NewControl(s)
	if err := ctl.SetMode(ModeHeat); err != nil {
		t.Fatal(err)
	}
	if !ctl.Power {
		t.Error("mode change must power on")
	}
	if ctl.Preset != PresetNone {
		t.Error("mode change must clear the preset")
	}
}

func TestControl_SetFanSpeedRejectsUnsupported(t *testing.T) {
	s := referenceStatus(t)
	s.Caps.Apply(prop(UUIDFan, 2)) // LOW only

	ctl := NewControl(s)
	if err := ctl.SetFanSpeed(uint8(FanHigh)); err != ErrUnsupported {
		t.Fatalf("SetFanSpeed: got %v", err)
	}
	if err := ctl.SetFanSpeed(uint8(FanLow)); err != nil {
		t.Fatalf("SetFanSpeed(LOW): %v", err)
	}
}

func TestControl_ConcreteFanSpeedClearsTurbo(t *testing.T) {
	s := referenceStatus(t)
	s.Control.Preset = PresetTurbo

	ctl := NewControl(s)
	if err := ctl.SetFanSpeed(uint8(FanHigh)); err != nil {
		t.Fatal(err)
	}
	if ctl.Preset != PresetNone {
		t.Errorf("preset survived a concrete fan speed: %v", ctl.Preset)
	}
}

func TestControl_SetPresetGatedByCapabilities(t *testing.T) {
	s := referenceStatus(t)
	// Fresh capabilities advertise no turbo/eco/frost.
	ctl := NewControl(s)
	if err := ctl.SetPreset(PresetTurbo); err != ErrUnsupported {
		t.Errorf("turbo: got %v", err)
	}
	if err := ctl.SetPreset(PresetSleep); err != nil {
		t.Errorf("sleep must always work: %v", err)
	}

	s.Caps.Apply(prop(UUIDTurbo, 1))
	ctl = NewControl(s)
	if err := ctl.SetPreset(PresetTurbo); err != nil {
		t.Errorf("turbo with capability: %v", err)
	}
}

func TestControl_SetTargetTempRounds(t *testing.T) {
	s := referenceStatus(t)
	ctl := NewControl(s)
	ctl.SetTargetTemp(21.3)
	if got := ctl.TargetTemp; got != 43 { // 21.5°C
		t.Errorf("rounded target: got %d, want 43", got)
	}
}

func TestControl_IdempotentSetters(t *testing.T) {
	s := referenceStatus(t)
	ctl := NewControl(s)

	ctl.SetTargetTempInt(50)
	if !ctl.Changed() {
		t.Fatal("first change not recorded")
	}

	// Re-applying the same value must not alter the bookkeeping.
	before := ctl.Changed()
	ctl.SetTargetTempInt(50)
	if ctl.Changed() != before {
		t.Error("idempotent setter changed bookkeeping")
	}
	ctl.SetPower(ctl.Power)
	if ctl.Changed() != before {
		t.Error("idempotent power setter changed bookkeeping")
	}
}

func TestControl_BeeperAndPresetBits(t *testing.T) {
	s := referenceStatus(t)
	s.Settings.Beeper = true
	s.Caps.Apply(prop(UUIDTurbo, 1))

	ctl := NewControl(s)
	if err := ctl.SetPreset(PresetTurbo); err != nil {
		t.Fatal(err)
	}
	cmd := ctl.Command()

	if cmd[1]&(1<<6) == 0 {
		t.Error("beeper bit missing")
	}
	if cmd[1]&(1<<1) == 0 {
		t.Error("constant bit 1 of byte 1 missing")
	}
	// Turbo is written redundantly.
	if cmd[8]&(1<<5) == 0 || cmd[10]&(1<<1) == 0 {
		t.Error("turbo bits not redundant across bytes 8 and 10")
	}
}

func TestControl_PTCAssistOnlyInHeat(t *testing.T) {
	s := referenceStatus(t)
	s.Caps.Apply(prop(UUIDAuxHeater, 1))

	ctl := NewControl(s)
	if err := ctl.SetMode(ModeHeat); err != nil {
		t.Fatal(err)
	}
	cmd := ctl.Command()
	if cmd[9]&(1<<3) == 0 {
		t.Error("PTC assist bit missing in HEAT with heater capability")
	}

	ctl = NewControl(s)
	cmd = ctl.Command() // still COOL
	if cmd[9]&(1<<3) != 0 {
		t.Error("PTC assist bit set outside HEAT")
	}
}

func TestControl_RoundTripThroughModel(t *testing.T) {
	s := referenceStatus(t)

	ctl := NewControl(s)
	cmd := ctl.Command()

	fresh := NewDeviceStatus()
	if !fresh.ApplyReport(cmd) {
		t.Fatal("command rejected by the model")
	}

	if fresh.Control != s.Control {
		t.Errorf("controllable state drifted:\n got %+v\nwant %+v", fresh.Control, s.Control)
	}
}

func TestControl_TimersSuppressedByPowerState(t *testing.T) {
	s := referenceStatus(t) // powered on
	ctl := NewControl(s)

	ctl.SetTimeOn(30) // pointless while on
	if ctl.Timers.OnActive() {
		t.Error("on timer armed while powered on")
	}
	ctl.SetTimeOff(30)
	if !ctl.Timers.OffActive() || ctl.Timers.Off() != 30 {
		t.Error("off timer lost")
	}
}
