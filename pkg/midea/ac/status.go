// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ac

// ControlState holds every field a user can set: the classic 0xA0/0xC0
// surface controlled through 0x40 and the property-backed features
// controlled through 0xB0.
type ControlState struct {
	Power  bool
	Mode   Mode
	HSwing bool
	VSwing bool
	// TargetTemp is the setpoint in half-degrees Celsius.
	TargetTemp uint8
	// FanSpeed in percent; 102 is AUTO.
	FanSpeed uint8
	Preset   Preset
	// Humidity is the setpoint in percent for smart dry mode.
	Humidity uint8
	Timers   Timers

	// Property-backed features (0xB1 state, 0xB0 control)
	VWindDirection uint8 // 1, 25, 50, 75, 100
	HWindDirection uint8
	Breezeless     BreezelessMode
	BuzzerOn       bool
	SelfCleanOn    bool
	SilkyCoolOn    bool
	WindOnMeOn     bool
	WindOffMeOn    bool
	BreezeAwayOn   bool
	SmartEyeOn     bool
	MasterValues   [4]uint8
	SlaveValues    [4]uint8
}

// TargetTempC returns the setpoint in °C.
func (c *ControlState) TargetTempC() float64 { return float64(c.TargetTemp) * 0.5 }

// FanSpeedEnum buckets the raw fan percentage for display.
func (c *ControlState) FanSpeedEnum() FanSpeed { return FanSpeedOf(c.FanSpeed) }

// ReadableState holds sensor and telemetry values the appliance reports but
// the user cannot set. The unexported flags are opaque device state that
// must round-trip verbatim into the next control command so the appliance
// does not interpret their omission as a change.
type ReadableState struct {
	// IndoorTemp and OutdoorTemp are °C; NaN when the sensor is absent.
	IndoorTemp  float64
	OutdoorTemp float64
	// IndoorHumidity in percent, reported via 0xB1.
	IndoorHumidity uint8
	// PowerUsage is the real-time consumption in watts.
	PowerUsage float64
	// ErrorCode; 0x26 is known to mean "water full".
	ErrorCode uint8
	// LEDOn is the display state.
	LEDOn bool
	// FilterFull is the air filter maintenance reminder.
	FilterFull bool

	// opaque flags, preserved for the 0x40 round-trip
	imodeResume bool
	timerMode   bool
	test2       bool
	cosySleep   uint8
	save        bool
	lowFreqFan  bool
	feelOwn     bool
	childSleep  bool
	naturalFan  bool
	dryClean    bool
	cleanUp     bool
	exchangeAir bool
	nightLight  bool
	catchCold   bool
	peakElec    bool
	setExpand   uint8
	doubleTemp  bool
}

// Settings are module-side control preferences, copied into each control
// command rather than read back from the appliance.
type Settings struct {
	// Beeper enables audible feedback on every accepted command.
	Beeper bool
	// DisplayUnit selects °C or °F on the appliance panel.
	DisplayUnit TemperatureUnit
}

// DeviceStatus aggregates the complete device model: discovered
// capabilities, controllable state, readable telemetry and control
// preferences.
type DeviceStatus struct {
	Caps     Capabilities
	Control  ControlState
	Readable ReadableState
	Settings Settings
}

// NewDeviceStatus creates a device model with pre-discovery capability
// defaults and everything else zero.
func NewDeviceStatus() *DeviceStatus {
	return &DeviceStatus{Caps: *NewCapabilities()}
}
