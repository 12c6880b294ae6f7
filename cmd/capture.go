// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Thermoquad/mistral/pkg/dongle"
	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
)

var captureFile string

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Record decoded frames to a CBOR capture file",
	Long: `Decode carrier frames and append them to a capture file as a stream of
CBOR records, one per frame:

  {1: unix-millis, 2: raw-bytes, 3: type, 4: appliance}

The file can be post-processed with any CBOR tooling.`,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().StringVarP(&captureFile, "output", "o", "mistral.cbor", "Capture file path")
	rootCmd.AddCommand(captureCmd)
}

// captureRecord is one frame in the capture stream. Integer keys keep the
// records compact.
type captureRecord struct {
	Time      int64  `cbor:"1,keyasint"`
	Raw       []byte `cbor:"2,keyasint"`
	Type      uint8  `cbor:"3,keyasint"`
	Appliance uint8  `cbor:"4,keyasint"`
}

func runCapture(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	out, err := os.OpenFile(captureFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %v", err)
	}
	defer out.Close()

	fmt.Printf("Mistral - Frame Capture\n")
	fmt.Printf("%s -> %s\n", connInfo, captureFile)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	enc := cbor.NewEncoder(out)
	decoder := dongle.NewDecoder()
	buf := make([]byte, 128)
	frames := 0

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
			rec := captureRecord{
				Time:      time.Now().UnixMilli(),
				Raw:       append([]byte(nil), frame.Bytes()...),
				Type:      uint8(frame.Type()),
				Appliance: uint8(frame.Appliance()),
			}
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("capture write: %v", err)
			}
			frames++
			if frames%100 == 0 {
				fmt.Printf("%d frames captured\n", frames)
			}
		}
	}
}
