// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	portName      string
	baudRate      int
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool
)

var rootCmd = &cobra.Command{
	Use:   "mistral",
	Short: "Midea UART Dongle Toolkit",
	Long: `Mistral - A CLI tool for Midea-family appliances on the serial dongle protocol.

Provides live frame monitoring, packet capture, an interactive control TUI
and a Prometheus telemetry exporter for air conditioners attached over UART
or a serial-over-WebSocket bridge.`,
	Version: "1.0.0",
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 9600, "Baud rate")
	rootCmd.PersistentFlags().StringVar(&wsURL, "url", "", "WebSocket bridge URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "user", "", "WebSocket HTTP Basic auth username")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "insecure", false, "Skip TLS certificate verification")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
