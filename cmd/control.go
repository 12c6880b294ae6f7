// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/Thermoquad/mistral/pkg/midea/ac"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Interactive TUI for controlling a Midea air conditioner",
	Long: `Control an air conditioner via an interactive terminal UI.

On startup the session discovers the appliance capabilities, then shows the
live status panel. Key bindings:

  P        toggle power
  m        cycle operation mode
  + / -    target temperature up/down by 0.5°C
  t        type an exact target temperature
  f        cycle fan speed presets
  r        cycle comfort presets
  v / h    toggle vertical / horizontal swing
  d        toggle the LED display
  u        query power usage
  q        quit

Supports both serial and WebSocket connections.`,
	RunE: runControl,
}

func init() {
	rootCmd.AddCommand(controlCmd)
}

func runControl(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	sess := newSession(conn)
	m := initialControlModel(sess, connInfo)

	p := tea.NewProgram(m, tea.WithAltScreen())
	sess.onEvent = func(msg any) { p.Send(msg) }

	// Forward every model update into the TUI.
	sess.do(func(a *ac.AirConditioner) {
		a.OnStateChange(func(s *ac.DeviceStatus) {
			p.Send(statusMsg{status: *s})
		})
		a.SetAutoconf(true)
	})
	go sess.run()
	defer sess.stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}
