// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Christian Gudrian

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/cgudrian/qbidib/pkg/bidib"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Display decoded bus traffic in human-readable format",
	Long: `Continuously decode and display BiDiB messages as they arrive.

Each message is shown with its symbolic name, sequence number, address
and decoded payload. Frames failing CRC validation are reported and
skipped.

Supports both serial and WebSocket connections.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	tr, connInfo, err := OpenTransport()
	if err != nil {
		return err
	}
	defer tr.Close()

	fmt.Printf("qbidib - Bus Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	for {
		frames, err := tr.ReadFrames()
		for _, frame := range frames {
			packet, err := bidib.DecodeFrame(frame)
			if err != nil {
				fmt.Printf("[ERROR] %v (%x)\n", err, frame)
				continue
			}
			msgs := bidib.SplitFrame(packet, func(err error, record []byte) {
				fmt.Printf("[ERROR] %v (%x)\n", err, record)
			})
			for _, m := range msgs {
				fmt.Println(bidib.FormatMsg(m))
			}
		}
		if err != nil {
			log.Printf("connection closed: %v", err)
			return nil
		}
	}
}
