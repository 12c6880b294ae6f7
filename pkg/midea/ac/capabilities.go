// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ac

import (
	"fmt"
	"log"
	"strings"

	"github.com/Thermoquad/mistral/pkg/midea"
)

// Capability UUIDs carried in 0xB5 reports and 0xB1 property state.
const (
	UUIDVWind         uint16 = 0x0009 // vertical air flow direction: 1, 25, 50, 75, 100
	UUIDHWind         uint16 = 0x000A // horizontal air flow direction
	UUIDHumidity      uint16 = 0x0015 // indoor humidity readable via 0xB1
	UUIDSilkyCool     uint16 = 0x0018
	UUIDFeedback      uint16 = 0x001A // beeper feedback in 0xB0
	UUIDEcoEye        uint16 = 0x0030
	UUIDWindOnMe      uint16 = 0x0032
	UUIDWindOffMe     uint16 = 0x0033
	UUIDSelfClean     uint16 = 0x0039
	UUIDBreezeAway    uint16 = 0x0042 // 1 off, 2 on
	UUIDBreezeless    uint16 = 0x0043 // 1 off, 2 away, 3 mild, 4 less
	UUIDMasterValues  uint16 = 0x0230
	UUIDSlaveValues   uint16 = 0x0231
	UUIDFan           uint16 = 0x0210
	UUIDEco           uint16 = 0x0212
	UUIDFrostProtect  uint16 = 0x0213 // 8°C heating, HEAT mode only
	UUIDModes         uint16 = 0x0214
	UUIDSwing         uint16 = 0x0215
	UUIDPower         uint16 = 0x0216
	UUIDFilter        uint16 = 0x0217
	UUIDAuxHeater     uint16 = 0x0219
	UUIDTurbo         uint16 = 0x021A
	UUIDDry           uint16 = 0x021F
	UUIDFahrenheit    uint16 = 0x0222
	UUIDLight         uint16 = 0x0224 // LED: 0 off, 7 on
	UUIDTempRanges    uint16 = 0x0225
	UUIDBuzzer        uint16 = 0x022C
	UUIDTwins         uint16 = 0x0232
	UUIDFourDirection uint16 = 0x0233
)

// mode mask bits
const (
	modeBitCool = 1 << iota
	modeBitAuto
	modeBitHeat
	modeBitDry
)

// fan mask bits
const (
	fanBitLow = 1 << iota
	fanBitMedium
	fanBitHigh
	fanBitAuto
	fanBitRaw
)

// TempRange is a target temperature limit pair in half-degrees Celsius.
type TempRange struct {
	Min, Max uint8
}

// defaultTempRange covers 17..30°C, the limits every firmware accepts.
var defaultTempRange = TempRange{Min: 34, Max: 60}

// Capabilities is the feature set discovered from one or more 0xB5
// exchanges at session start. It is filled once and treated as immutable
// afterwards; a re-query may only refine it.
type Capabilities struct {
	modes    uint8
	swing    uint8
	fan      uint8
	drySmart uint8
	turbo    uint8
	eco      uint8
	power    uint8
	filter   uint8

	tempCool, tempAuto, tempHeat TempRange
	decimalPoint                 bool

	unitChangeable bool
	light          bool
	frostProtect   bool
	auxHeater      bool
	buzzer         bool
	smartEye       bool
	selfClean      bool
	windOnMe       bool
	windOffMe      bool
	breezeAway     bool
	breezeless     bool
	silkyCool      bool
	indoorHumidity bool
	verticalWind   bool
	horizontalWind bool
	twins          bool
	fourDirection  bool
}

// NewCapabilities returns the conservative defaults assumed before
// discovery: cool, auto, heat and dry modes (no custom dry), the four fan
// presets (no raw percentages), both swing axes, 17..30°C.
func NewCapabilities() *Capabilities {
	return &Capabilities{
		modes:    modeBitCool | modeBitAuto | modeBitHeat | modeBitDry,
		swing:    0b11,
		fan:      fanBitLow | fanBitMedium | fanBitHigh | fanBitAuto,
		tempCool: defaultTempRange,
		tempAuto: defaultTempRange,
		tempHeat: defaultTempRange,
	}
}

// decode tables: each capability byte is a small shape selector.

func modeMask(x uint8) uint8 {
	switch x {
	case 1:
		return modeBitDry | modeBitHeat | modeBitAuto | modeBitCool
	case 2:
		return modeBitHeat | modeBitAuto
	case 3:
		return modeBitCool
	case 4:
		return modeBitHeat | modeBitCool
	case 5:
		return modeBitDry | modeBitCool
	default:
		return modeBitDry | modeBitAuto | modeBitCool
	}
}

func swingMask(x uint8) uint8 {
	switch x {
	case 1:
		return 0b11 // horizontal | vertical
	case 2:
		return 0b00
	case 3:
		return 0b10 // horizontal
	default:
		return 0b01 // vertical
	}
}

func fanMask(x uint8) uint8 {
	switch x {
	case 1:
		return fanBitRaw | fanBitAuto | fanBitHigh | fanBitMedium | fanBitLow
	case 2:
		return fanBitLow
	case 3:
		return fanBitHigh | fanBitLow
	case 4:
		return fanBitAuto | fanBitHigh | fanBitLow
	case 7:
		return fanBitHigh | fanBitMedium | fanBitLow
	default:
		return fanBitAuto | fanBitHigh | fanBitMedium | fanBitLow
	}
}

func dryMask(x uint8) uint8 {
	switch x {
	case 1:
		return 0b01 // smart
	case 2:
		return 0b11 // custom | smart
	case 3:
		return 0b10 // custom
	default:
		return 0b00
	}
}

func turboMask(x uint8) uint8 {
	switch x {
	case 0:
		return 0b01 // cool
	case 2:
		return 0b00
	case 3:
		return 0b10 // heat
	default:
		return 0b11 // heat | cool
	}
}

func powerMask(x uint8) uint8 {
	switch x {
	case 2:
		return 0b01 // report
	case 3:
		return 0b11 // report | limits
	default:
		return 0b00
	}
}

func filterMask(x uint8) uint8 {
	switch x {
	case 0:
		return 0b00
	case 3:
		return 0b10 // replace reminder
	case 4:
		return 0b11
	default:
		return 0b01 // clean reminder
	}
}

func ecoMask(x uint8) uint8 {
	switch x {
	case 1:
		return 0b01 // eco
	case 2:
		return 0b11 // special | eco
	default:
		return 0b00
	}
}

// Apply consumes one capability record.
func (c *Capabilities) Apply(p midea.Property) {
	if len(p.Data) == 0 {
		return
	}
	data := p.Data[0]
	nzero := data != 0

	switch p.UUID {
	case UUIDTempRanges:
		if len(p.Data) >= 7 {
			c.tempCool = TempRange{p.Data[0], p.Data[1]}
			c.tempAuto = TempRange{p.Data[2], p.Data[3]}
			c.tempHeat = TempRange{p.Data[4], p.Data[5]}
			c.decimalPoint = p.Data[6] != 0
		}
	case UUIDModes:
		c.modes = modeMask(data)
	case UUIDSwing:
		c.swing = swingMask(data)
	case UUIDFan:
		c.fan = fanMask(data)
	case UUIDDry:
		c.drySmart = dryMask(data)
	case UUIDTurbo:
		c.turbo = turboMask(data)
	case UUIDEco:
		c.eco = ecoMask(data)
	case UUIDPower:
		c.power = powerMask(data)
	case UUIDFilter:
		c.filter = filterMask(data)
	case UUIDFahrenheit:
		// Not a mistake: zero means changeable. Other values are
		// unspecified by the firmware; treat them as not changeable.
		c.unitChangeable = data == 0
		if data > 1 {
			log.Printf("ac: unexpected fahrenheit capability value %d", data)
		}
	case UUIDVWind:
		c.verticalWind = nzero
	case UUIDHWind:
		c.horizontalWind = nzero
	case UUIDHumidity:
		c.indoorHumidity = nzero
	case UUIDSilkyCool:
		c.silkyCool = nzero
	case UUIDEcoEye:
		c.smartEye = nzero
	case UUIDSelfClean:
		c.selfClean = nzero
	case UUIDWindOnMe:
		c.windOnMe = nzero
	case UUIDWindOffMe:
		c.windOffMe = nzero
	case UUIDBreezeAway:
		c.breezeAway = nzero
	case UUIDBreezeless:
		c.breezeless = nzero
	case UUIDBuzzer:
		c.buzzer = nzero
	case UUIDAuxHeater:
		c.auxHeater = nzero
	case UUIDLight:
		c.light = nzero
	case UUIDTwins:
		c.twins = nzero
	case UUIDFrostProtect:
		c.frostProtect = nzero
	case UUIDFourDirection:
		c.fourDirection = nzero
	default:
		log.Printf("ac: unknown capability 0x%04X", p.UUID)
	}
}

// Mode capabilities

func (c *Capabilities) HasModeCool() bool { return c.modes&modeBitCool != 0 }
func (c *Capabilities) HasModeAuto() bool { return c.modes&modeBitAuto != 0 }
func (c *Capabilities) HasModeHeat() bool { return c.modes&modeBitHeat != 0 }
func (c *Capabilities) HasModeDry() bool  { return c.modes&modeBitDry != 0 }

// HasDrySmart reports sensor-driven smart dehumidification support.
func (c *Capabilities) HasDrySmart() bool { return c.drySmart&0b01 != 0 }

// HasModeDryCustom reports manual humidity setpoint support.
func (c *Capabilities) HasModeDryCustom() bool { return c.drySmart&0b10 != 0 }

// HasMode reports whether the operation mode is supported. FAN always is.
func (c *Capabilities) HasMode(m Mode) bool {
	switch m {
	case ModeAuto:
		return c.HasModeAuto()
	case ModeCool:
		return c.HasModeCool()
	case ModeDry:
		return c.HasModeDry()
	case ModeHeat:
		return c.HasModeHeat()
	case ModeFan:
		return true
	case ModeDryCustom:
		return c.HasModeDryCustom()
	default:
		return false
	}
}

// Fan capabilities

func (c *Capabilities) HasFanLow() bool    { return c.fan&fanBitLow != 0 }
func (c *Capabilities) HasFanMedium() bool { return c.fan&fanBitMedium != 0 }
func (c *Capabilities) HasFanHigh() bool   { return c.fan&fanBitHigh != 0 }
func (c *Capabilities) HasFanAuto() bool   { return c.fan&fanBitAuto != 0 }
func (c *Capabilities) HasFanRaw() bool    { return c.fan&fanBitRaw != 0 }

// HasFanSpeed reports whether the raw speed value is accepted.
func (c *Capabilities) HasFanSpeed(x uint8) bool {
	switch FanSpeed(x) {
	case FanAuto:
		return c.HasFanAuto()
	case FanLow:
		return c.HasFanLow()
	case FanMedium:
		return c.HasFanMedium()
	case FanHigh:
		return c.HasFanHigh()
	default:
		return c.HasFanRaw() && x <= 100
	}
}

// Swing capabilities

func (c *Capabilities) HasSwingVertical() bool   { return c.swing&0b01 != 0 }
func (c *Capabilities) HasSwingHorizontal() bool { return c.swing&0b10 != 0 }
func (c *Capabilities) HasSwingBoth() bool       { return c.swing == 0b11 }

// Preset capabilities

func (c *Capabilities) HasTurboCool() bool       { return c.turbo&0b01 != 0 }
func (c *Capabilities) HasTurboHeat() bool       { return c.turbo&0b10 != 0 }
func (c *Capabilities) HasEco() bool             { return c.eco&0b01 != 0 }
func (c *Capabilities) HasEcoSpecial() bool      { return c.eco&0b10 != 0 }
func (c *Capabilities) HasFrostProtection() bool { return c.frostProtect }

// Power / filter capabilities

func (c *Capabilities) HasPowerReport() bool           { return c.power&0b01 != 0 }
func (c *Capabilities) HasPowerLimits() bool           { return c.power&0b10 != 0 }
func (c *Capabilities) HasFilterCleanReminder() bool   { return c.filter&0b01 != 0 }
func (c *Capabilities) HasFilterReplaceReminder() bool { return c.filter&0b10 != 0 }

// Misc capabilities

func (c *Capabilities) HasDecimalPoint() bool   { return c.decimalPoint }
func (c *Capabilities) IsUnitChangeable() bool  { return c.unitChangeable }
func (c *Capabilities) HasLight() bool          { return c.light }
func (c *Capabilities) HasElectricHeater() bool { return c.auxHeater }
func (c *Capabilities) HasBuzzer() bool         { return c.buzzer }
func (c *Capabilities) HasSmartEye() bool       { return c.smartEye }
func (c *Capabilities) HasSelfClean() bool      { return c.selfClean }
func (c *Capabilities) HasWindOnMe() bool       { return c.windOnMe }
func (c *Capabilities) HasWindOffMe() bool      { return c.windOffMe }
func (c *Capabilities) HasBreezeAway() bool     { return c.breezeAway }
func (c *Capabilities) HasBreezeless() bool     { return c.breezeless }
func (c *Capabilities) HasSilkyCool() bool      { return c.silkyCool }
func (c *Capabilities) HasIndoorHumidity() bool { return c.indoorHumidity }
func (c *Capabilities) HasVerticalWind() bool   { return c.verticalWind }
func (c *Capabilities) HasHorizontalWind() bool { return c.horizontalWind }
func (c *Capabilities) IsTwins() bool           { return c.twins }
func (c *Capabilities) IsFourDirection() bool   { return c.fourDirection }

// TempRange returns the target temperature limits for a mode, in
// half-degrees Celsius.
func (c *Capabilities) TempRange(m Mode) TempRange {
	switch m {
	case ModeAuto:
		return c.tempAuto
	case ModeHeat:
		return c.tempHeat
	default:
		return c.tempCool
	}
}

// TempRangeMax returns the widest span across all modes.
func (c *Capabilities) TempRangeMax() TempRange {
	r := c.tempCool
	for _, x := range []TempRange{c.tempAuto, c.tempHeat} {
		if x.Min < r.Min {
			r.Min = x.Min
		}
		if x.Max > r.Max {
			r.Max = x.Max
		}
	}
	return r
}

// IsPropertyQueryNeeded reports whether any discovered feature lives in the
// 0xB1 property state and therefore requires a follow-up property query.
func (c *Capabilities) IsPropertyQueryNeeded() bool {
	return c.selfClean || c.silkyCool || c.breezeAway || c.breezeless ||
		c.buzzer || c.smartEye || c.indoorHumidity || c.verticalWind ||
		c.horizontalWind || c.twins || c.fourDirection
}

// PropertyUUIDs returns the 0xB1 query list implied by the discovered
// capabilities.
func (c *Capabilities) PropertyUUIDs() []uint16 {
	var uuids []uint16
	add := func(ok bool, uuid uint16) {
		if ok {
			uuids = append(uuids, uuid)
		}
	}
	add(c.windOnMe, UUIDWindOnMe)
	add(c.windOffMe, UUIDWindOffMe)
	add(c.selfClean, UUIDSelfClean)
	add(c.breezeAway, UUIDBreezeAway)
	add(c.breezeless, UUIDBreezeless)
	add(c.smartEye, UUIDEcoEye)
	add(c.buzzer, UUIDBuzzer)
	add(c.HasDrySmart() || c.HasModeDryCustom() || c.indoorHumidity, UUIDHumidity)
	add(c.verticalWind, UUIDVWind)
	add(c.horizontalWind, UUIDHWind)
	add(c.twins, UUIDSlaveValues)
	add(c.fourDirection, UUIDMasterValues)
	return uuids
}

// Dump renders the capability report the way the discovery log prints it.
func (c *Capabilities) Dump() string {
	var b strings.Builder
	b.WriteString("Capabilities Report:\n")

	mark := func(ok bool, name string) {
		if ok {
			fmt.Fprintf(&b, "  [x] %s\n", name)
		}
	}

	if c.HasModeAuto() {
		fmt.Fprintf(&b, "  [x] Auto Mode (%d..%d°C)\n", c.tempAuto.Min/2, c.tempAuto.Max/2)
	}
	if c.HasModeCool() {
		fmt.Fprintf(&b, "  [x] Cool Mode (%d..%d°C)\n", c.tempCool.Min/2, c.tempCool.Max/2)
	}
	if c.HasModeHeat() {
		fmt.Fprintf(&b, "  [x] Heat Mode (%d..%d°C)\n", c.tempHeat.Min/2, c.tempHeat.Max/2)
	}
	mark(c.HasModeDry(), "Dry Mode")
	mark(c.HasDrySmart(), "Smart Dry")
	mark(c.HasModeDryCustom(), "Custom Dry")
	mark(c.HasFanRaw(), "Fan: RAW")
	mark(c.HasFanAuto(), "Fan: AUTO")
	mark(c.HasFanLow(), "Fan: LOW")
	mark(c.HasFanMedium(), "Fan: MEDIUM")
	mark(c.HasFanHigh(), "Fan: HIGH")
	mark(c.HasSwingVertical(), "Vertical Swing")
	mark(c.HasSwingHorizontal(), "Horizontal Swing")
	mark(c.HasTurboCool(), "Turbo Cool")
	mark(c.HasTurboHeat(), "Turbo Heat")
	mark(c.HasEco(), "ECO")
	mark(c.HasEcoSpecial(), "Special ECO")
	mark(c.frostProtect, "8°C Frost Protection")
	mark(c.decimalPoint, "Decimal Point")
	mark(c.unitChangeable, "Fahrenheit Display")
	mark(c.auxHeater, "Electric Auxiliary Heat")
	mark(c.light, "LED Control")
	mark(c.buzzer, "Buzzer")
	mark(c.smartEye, "ECO Intelligent Eye")
	mark(c.selfClean, "Active Clean")
	mark(c.silkyCool, "Silky Cool")
	mark(c.windOnMe, "Wind ON Me")
	mark(c.windOffMe, "Wind OFF Me")
	mark(c.breezeAway, "Breeze Away")
	mark(c.breezeless, "Breezeless")
	mark(c.indoorHumidity, "Indoor Humidity")
	mark(c.verticalWind, "Vertical Direction")
	mark(c.horizontalWind, "Horizontal Direction")
	mark(c.twins, "Twins")
	mark(c.fourDirection, "Four Direction")
	mark(c.HasFilterCleanReminder(), "Filter Cleaning Reminder")
	mark(c.HasFilterReplaceReminder(), "Filter Replacement Reminder")
	mark(c.HasPowerReport(), "Power Report")
	mark(c.HasPowerLimits(), "Power Limit")
	return b.String()
}
