// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Mistral - Midea UART Dongle Toolkit
//
// A CLI tool for monitoring and controlling Midea-family appliances over
// the half-duplex serial dongle protocol, with commands for live frame
// logging, packet capture, interactive control and telemetry export.

package main

import (
	"fmt"
	"os"

	"github.com/Thermoquad/mistral/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
