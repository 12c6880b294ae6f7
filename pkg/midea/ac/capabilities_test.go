// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ac

import (
	"strings"
	"testing"

	"github.com/Thermoquad/mistral/pkg/midea"
)

func prop(uuid uint16, data ...byte) midea.Property {
	return midea.Property{UUID: uuid, Data: data}
}

func TestCapabilities_ModeShapes(t *testing.T) {
	tests := []struct {
		data                  byte
		cool, auto, heat, dry bool
	}{
		{1, true, true, true, true},
		{2, false, true, true, false},
		{3, true, false, false, false},
		{4, true, false, true, false},
		{5, true, false, false, true},
		{0, true, true, false, true},
	}

	for _, tt := range tests {
		c := NewCapabilities()
		c.Apply(prop(UUIDModes, tt.data))
		if c.HasModeCool() != tt.cool || c.HasModeAuto() != tt.auto ||
			c.HasModeHeat() != tt.heat || c.HasModeDry() != tt.dry {
			t.Errorf("data %d: cool=%v auto=%v heat=%v dry=%v", tt.data,
				c.HasModeCool(), c.HasModeAuto(), c.HasModeHeat(), c.HasModeDry())
		}
		if !c.HasMode(ModeFan) {
			t.Errorf("data %d: FAN must always be supported", tt.data)
		}
	}
}

func TestCapabilities_FanShapes(t *testing.T) {
	c := NewCapabilities()
	c.Apply(prop(UUIDFan, 1))
	if !c.HasFanRaw() || !c.HasFanAuto() || !c.HasFanLow() || !c.HasFanMedium() || !c.HasFanHigh() {
		t.Error("shape 1 must enable everything")
	}
	if !c.HasFanSpeed(37) {
		t.Error("raw percentage rejected with RAW support")
	}

	c.Apply(prop(UUIDFan, 2))
	if c.HasFanSpeed(uint8(FanAuto)) {
		t.Error("AUTO accepted by LOW-only appliance")
	}
	if !c.HasFanSpeed(uint8(FanLow)) {
		t.Error("LOW rejected by LOW-only appliance")
	}
	if c.HasFanSpeed(37) {
		t.Error("raw percentage accepted without RAW support")
	}
}

func TestCapabilities_TempRanges(t *testing.T) {
	c := NewCapabilities()

	// Defaults cover 17..30°C in half-degrees.
	if r := c.TempRange(ModeCool); r.Min != 34 || r.Max != 60 {
		t.Fatalf("default cool range: %+v", r)
	}

	c.Apply(prop(UUIDTempRanges, 32, 62, 34, 60, 30, 56, 1))
	if r := c.TempRange(ModeCool); r.Min != 32 || r.Max != 62 {
		t.Errorf("cool range: %+v", r)
	}
	if r := c.TempRange(ModeAuto); r.Min != 34 || r.Max != 60 {
		t.Errorf("auto range: %+v", r)
	}
	if r := c.TempRange(ModeHeat); r.Min != 30 || r.Max != 56 {
		t.Errorf("heat range: %+v", r)
	}
	// DRY and FAN fall back to the cool range.
	if r := c.TempRange(ModeDry); r.Min != 32 || r.Max != 62 {
		t.Errorf("dry range: %+v", r)
	}
	if !c.HasDecimalPoint() {
		t.Error("decimal point flag lost")
	}

	if r := c.TempRangeMax(); r.Min != 30 || r.Max != 62 {
		t.Errorf("max range: %+v", r)
	}
}

func TestCapabilities_FahrenheitInvertedAtZero(t *testing.T) {
	c := NewCapabilities()

	c.Apply(prop(UUIDFahrenheit, 0))
	if !c.IsUnitChangeable() {
		t.Error("zero must mean changeable")
	}

	c.Apply(prop(UUIDFahrenheit, 1))
	if c.IsUnitChangeable() {
		t.Error("one must mean not changeable")
	}

	// Values other than 0/1 are unspecified; keep the conservative answer.
	c.Apply(prop(UUIDFahrenheit, 5))
	if c.IsUnitChangeable() {
		t.Error("unknown value must mean not changeable")
	}
}

func TestCapabilities_BooleanFeatures(t *testing.T) {
	c := NewCapabilities()
	c.Apply(prop(UUIDBuzzer, 1))
	c.Apply(prop(UUIDSelfClean, 1))
	c.Apply(prop(UUIDAuxHeater, 1))
	c.Apply(prop(UUIDLight, 7))
	c.Apply(prop(UUIDFrostProtect, 1))

	if !c.HasBuzzer() || !c.HasSelfClean() || !c.HasElectricHeater() ||
		!c.HasLight() || !c.HasFrostProtection() {
		t.Error("boolean capability lost")
	}
}

func TestCapabilities_PropertyQueryNeeded(t *testing.T) {
	c := NewCapabilities()
	if c.IsPropertyQueryNeeded() {
		t.Error("fresh capabilities must not require a property query")
	}

	c.Apply(prop(UUIDBreezeless, 1))
	if !c.IsPropertyQueryNeeded() {
		t.Error("breezeless must trigger the property query")
	}

	uuids := c.PropertyUUIDs()
	found := false
	for _, u := range uuids {
		if u == UUIDBreezeless {
			found = true
		}
	}
	if !found {
		t.Errorf("breezeless missing from query list: %v", uuids)
	}
}

func TestCapabilities_TurboEcoPowerFilterShapes(t *testing.T) {
	c := NewCapabilities()

	c.Apply(prop(UUIDTurbo, 0))
	if !c.HasTurboCool() || c.HasTurboHeat() {
		t.Error("turbo shape 0")
	}
	c.Apply(prop(UUIDTurbo, 3))
	if c.HasTurboCool() || !c.HasTurboHeat() {
		t.Error("turbo shape 3")
	}
	c.Apply(prop(UUIDTurbo, 1))
	if !c.HasTurboCool() || !c.HasTurboHeat() {
		t.Error("turbo shape 1")
	}

	c.Apply(prop(UUIDEco, 2))
	if !c.HasEco() || !c.HasEcoSpecial() {
		t.Error("eco shape 2")
	}

	c.Apply(prop(UUIDPower, 3))
	if !c.HasPowerReport() || !c.HasPowerLimits() {
		t.Error("power shape 3")
	}

	c.Apply(prop(UUIDFilter, 4))
	if !c.HasFilterCleanReminder() || !c.HasFilterReplaceReminder() {
		t.Error("filter shape 4")
	}
}

func TestCapabilities_Dump(t *testing.T) {
	c := NewCapabilities()
	c.Apply(prop(UUIDBuzzer, 1))
	out := c.Dump()
	if !strings.Contains(out, "Buzzer") {
		t.Errorf("dump missing buzzer line:\n%s", out)
	}
	if !strings.Contains(out, "Cool Mode") {
		t.Errorf("dump missing cool mode line:\n%s", out)
	}
}
