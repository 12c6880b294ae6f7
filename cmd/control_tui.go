// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Thermoquad/mistral/pkg/midea/ac"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

// statusMsg carries a device model snapshot from the session goroutine.
type statusMsg struct {
	status ac.DeviceStatus
}

// resultMsg reports the outcome of a queued exchange.
type resultMsg struct {
	op  string
	err error
}

//////////////////////////////////////////////////////////////
// Styles
//////////////////////////////////////////////////////////////

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	onStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	offStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

//////////////////////////////////////////////////////////////
// Model
//////////////////////////////////////////////////////////////

type controlModel struct {
	sess     *session
	connInfo string

	status    ac.DeviceStatus
	haveState bool
	lastOp    string
	lastErr   error

	tempInput textinput.Model
	typing    bool
}

func initialControlModel(sess *session, connInfo string) controlModel {
	ti := textinput.New()
	ti.Placeholder = "22.5"
	ti.CharLimit = 5
	ti.Width = 8

	return controlModel{
		sess:      sess,
		connInfo:  connInfo,
		tempInput: ti,
	}
}

func (m controlModel) Init() tea.Cmd {
	return nil
}

//////////////////////////////////////////////////////////////
// Update
//////////////////////////////////////////////////////////////

func (m controlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = msg.status
		m.haveState = true
		return m, nil

	case resultMsg:
		m.lastOp = msg.op
		m.lastErr = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m controlModel) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(m.tempInput.Value())
		m.typing = false
		m.tempInput.Blur()
		m.tempInput.SetValue("")
		celsius, err := strconv.ParseFloat(value, 64)
		if err != nil {
			m.lastOp = "set temperature"
			m.lastErr = fmt.Errorf("invalid temperature %q", value)
			return m, nil
		}
		m.control("set temperature", func(c *ac.Control) {
			c.SetTargetTemp(celsius)
		})
		return m, nil

	case "esc":
		m.typing = false
		m.tempInput.Blur()
		m.tempInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.tempInput, cmd = m.tempInput.Update(msg)
	return m, cmd
}

func (m controlModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "P":
		on := !m.status.Control.Power
		m.control("power", func(c *ac.Control) { c.SetPower(on) })

	case "m":
		next := m.nextMode()
		m.control("mode", func(c *ac.Control) {
			m.reportSetter(c.SetMode(next))
		})

	case "+", "=":
		target := m.status.Control.TargetTemp + 1
		m.control("temperature", func(c *ac.Control) { c.SetTargetTempInt(target) })

	case "-":
		target := m.status.Control.TargetTemp - 1
		m.control("temperature", func(c *ac.Control) { c.SetTargetTempInt(target) })

	case "t":
		m.typing = true
		m.tempInput.Focus()
		return m, textinput.Blink

	case "f":
		next := m.nextFanSpeed()
		m.control("fan", func(c *ac.Control) {
			m.reportSetter(c.SetFanSpeed(next))
		})

	case "r":
		next := m.nextPreset()
		m.control("preset", func(c *ac.Control) {
			m.reportSetter(c.SetPreset(next))
		})

	case "v":
		on := !m.status.Control.VSwing
		m.control("vertical swing", func(c *ac.Control) { c.SetVerticalSwing(on) })

	case "h":
		on := !m.status.Control.HSwing
		m.control("horizontal swing", func(c *ac.Control) { c.SetHorizontalSwing(on) })

	case "d":
		m.op("display toggle", func(a *ac.AirConditioner, done ac.ResultCallback) {
			a.ToggleDisplay(done)
		})

	case "u":
		m.op("power usage", func(a *ac.AirConditioner, done ac.ResultCallback) {
			a.QueryPowerUsage(done)
		})
	}

	return m, nil
}

// control schedules a mutation on the session goroutine and routes its
// outcome back as a resultMsg.
func (m *controlModel) control(op string, fn func(*ac.Control)) {
	m.op(op, func(a *ac.AirConditioner, done ac.ResultCallback) {
		a.Control(fn, done)
	})
}

func (m *controlModel) op(op string, fn func(*ac.AirConditioner, ac.ResultCallback)) {
	sess := m.sess
	sess.do(func(a *ac.AirConditioner) {
		fn(a, func(err error) {
			// The program pointer is owned by control.go via the state
			// callback channel; reuse the ops channel pattern in reverse.
			sess.notify(resultMsg{op: op, err: err})
		})
	})
}

// reportSetter is a helper for setters that can reject unsupported values.
func (m *controlModel) reportSetter(err error) {
	if err != nil {
		m.sess.notify(resultMsg{op: "setter", err: err})
	}
}

// nextMode cycles through the capability-supported modes.
func (m *controlModel) nextMode() ac.Mode {
	order := []ac.Mode{ac.ModeAuto, ac.ModeCool, ac.ModeDry, ac.ModeHeat, ac.ModeFan}
	cur := m.status.Control.Mode
	start := 0
	for i, mode := range order {
		if mode == cur {
			start = i + 1
			break
		}
	}
	for i := 0; i < len(order); i++ {
		mode := order[(start+i)%len(order)]
		if m.status.Caps.HasMode(mode) {
			return mode
		}
	}
	return cur
}

func (m *controlModel) nextFanSpeed() uint8 {
	order := []ac.FanSpeed{ac.FanLow, ac.FanMedium, ac.FanHigh, ac.FanAuto}
	cur := m.status.Control.FanSpeedEnum()
	start := 0
	for i, s := range order {
		if s == cur {
			start = i + 1
			break
		}
	}
	for i := 0; i < len(order); i++ {
		s := order[(start+i)%len(order)]
		if m.status.Caps.HasFanSpeed(uint8(s)) {
			return uint8(s)
		}
	}
	return uint8(cur)
}

func (m *controlModel) nextPreset() ac.Preset {
	order := []ac.Preset{ac.PresetNone, ac.PresetSleep, ac.PresetTurbo, ac.PresetEco, ac.PresetFrostProtection}
	cur := m.status.Control.Preset
	for i, p := range order {
		if p == cur {
			return order[(i+1)%len(order)]
		}
	}
	return ac.PresetNone
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m controlModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Mistral AC Control"))
	b.WriteString("  " + labelStyle.Render(m.connInfo) + "\n\n")

	if !m.haveState {
		b.WriteString("Waiting for the first status report...\n")
		return b.String()
	}

	ctl := m.status.Control
	r := m.status.Readable

	power := offStyle.Render("OFF")
	if ctl.Power {
		power = onStyle.Render("ON")
	}

	rows := []string{
		row("Power", power),
		row("Mode", ctl.Mode.String()),
		row("Target", fmt.Sprintf("%.1f°C", ctl.TargetTempC())),
		row("Indoor", formatTemp(r.IndoorTemp)),
		row("Outdoor", formatTemp(r.OutdoorTemp)),
		row("Fan", fmt.Sprintf("%s (%d%%)", ctl.FanSpeedEnum(), ctl.FanSpeed)),
		row("Preset", ctl.Preset.String()),
		row("Swing", formatSwing(ctl.VSwing, ctl.HSwing)),
	}
	if r.PowerUsage > 0 {
		rows = append(rows, row("Usage", fmt.Sprintf("%.1f W", r.PowerUsage)))
	}
	if r.ErrorCode != 0 {
		rows = append(rows, row("Error", errStyle.Render(fmt.Sprintf("0x%02X", r.ErrorCode))))
	}

	b.WriteString(borderStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	if m.typing {
		b.WriteString("\nTarget temperature: " + m.tempInput.View() + "\n")
	}

	if m.lastOp != "" {
		if m.lastErr != nil {
			b.WriteString("\n" + errStyle.Render(fmt.Sprintf("%s: %v", m.lastOp, m.lastErr)) + "\n")
		} else {
			b.WriteString("\n" + labelStyle.Render(m.lastOp+": ok") + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("P power · m mode · +/- temp · t type temp · f fan · r preset · v/h swing · d display · u usage · q quit") + "\n")

	return b.String()
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-8s", label)) + valueStyle.Render(value)
}

func formatTemp(t float64) string {
	if math.IsNaN(t) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f°C", t)
}

func formatSwing(v, h bool) string {
	switch {
	case v && h:
		return "BOTH"
	case v:
		return "VERTICAL"
	case h:
		return "HORIZONTAL"
	default:
		return "OFF"
	}
}
