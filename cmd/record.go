// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Christian Gudrian

package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/cgudrian/qbidib/pkg/bidib"
)

// captureRecord is one validated frame in a capture file: the unescaped
// packet bytes (without CRC) and the receive timestamp.
type captureRecord struct {
	T      int64  `cbor:"1,keyasint"`
	Packet []byte `cbor:"2,keyasint"`
}

var recordOutput string

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Capture validated frames to a CBOR log file",
	Long: `Capture BiDiB bus traffic to a file for later replay.

Each frame that passes CRC validation is stored as a CBOR record with a
millisecond timestamp. Frames failing validation are counted and
skipped. Use the replay command to play a capture back.`,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVarP(&recordOutput, "output", "o", "bidib.capture", "Capture file to write")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	tr, connInfo, err := OpenTransport()
	if err != nil {
		return err
	}
	defer tr.Close()

	f, err := os.Create(recordOutput)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("qbidib - Frame Recorder\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Capture: %s\n", recordOutput)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	frames, dropped, err := captureStream(tr, cbor.NewEncoder(f), func(frames, dropped int) {
		fmt.Printf("\rframes: %d  dropped: %d", frames, dropped)
	})
	fmt.Println()
	if err != nil {
		return err
	}
	log.Printf("connection closed (%d frames, %d dropped)", frames, dropped)
	return nil
}

// captureStream appends every validated frame from tr to the capture
// until the transport ends. It returns the frame and drop counts; the
// error is non-nil only when the capture itself cannot be written.
func captureStream(tr *Transport, enc *cbor.Encoder, progress func(frames, dropped int)) (int, int, error) {
	frames, dropped := 0, 0
	for {
		batch, err := tr.ReadFrames()
		for _, frame := range batch {
			packet, derr := bidib.DecodeFrame(frame)
			if derr != nil {
				dropped++
				log.Printf("dropping frame: %v", derr)
				progress(frames, dropped)
				continue
			}
			rec := captureRecord{T: time.Now().UnixMilli(), Packet: packet}
			if werr := enc.Encode(rec); werr != nil {
				return frames, dropped, fmt.Errorf("writing capture: %w", werr)
			}
			frames++
			progress(frames, dropped)
		}
		if err != nil {
			return frames, dropped, nil
		}
	}
}
