// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/Thermoquad/mistral/pkg/dongle"
	"github.com/Thermoquad/mistral/pkg/midea"
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Display the dongle frame log in human-readable format",
	Long: `Continuously decode and display carrier frames as they arrive.

Each frame is shown with timestamp, message type and header fields; the
inner Midea payload of transparent frames is summarised with its CRC
verdict.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Mistral - Frame Monitor\n")
	fmt.Printf("%s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder := dongle.NewDecoder()
	buf := make([]byte, 128)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			log.Printf("Read error: %v", err)
			return err
		}

		for i := 0; i < n; i++ {
			frame := decoder.Feed(buf[i])
			if frame == nil {
				continue
			}
			fmt.Print(dongle.FormatFrame(frame, time.Now()))
			if frame.Type().IsTransparent() {
				fmt.Print(formatPayload(frame.Body()))
			}
		}
	}
}

// formatPayload summarises an inner Midea payload.
func formatPayload(p []byte) string {
	if len(p) == 0 {
		return ""
	}
	verdict := "crc ok"
	if !midea.Valid(p) {
		verdict = "CRC MISMATCH"
	}
	return fmt.Sprintf("  midea type=0x%02X %s\n", midea.Type(p), verdict)
}
