// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Christian Gudrian

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/cgudrian/qbidib/pkg/bidib"
)

var (
	replaySpeed float64
	replayLoop  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <capture-file>",
	Short: "Replay a captured frame log onto a transport",
	Long: `Replay a CBOR capture produced by the record command.

Frames are re-encoded (CRC and escaping applied) and written to the
connected transport with their original pacing. Without a --port or
--url the decoded messages are printed instead of sent.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Replay speed factor (2 = twice as fast)")
	replayCmd.Flags().BoolVar(&replayLoop, "loop", false, "Restart from the beginning at end of capture")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	if replaySpeed <= 0 {
		return fmt.Errorf("--speed must be > 0")
	}

	var tr *Transport
	if portName != "" || wsURL != "" {
		var connInfo string
		var err error
		tr, connInfo, err = OpenTransport()
		if err != nil {
			return err
		}
		defer tr.Close()
		fmt.Printf("Connection: %s\n", connInfo)
	}

	for {
		if err := replayFile(args[0], tr); err != nil {
			return err
		}
		if !replayLoop {
			return nil
		}
	}
}

// replayFile plays one pass of a capture. With a nil transport the
// decoded messages are printed instead of sent.
func replayFile(path string, tr *Transport) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := cbor.NewDecoder(f)
	var last int64

	for {
		var rec captureRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading capture: %w", err)
		}

		if last != 0 && rec.T > last {
			delay := time.Duration(float64(rec.T-last)/replaySpeed) * time.Millisecond
			time.Sleep(delay)
		}
		last = rec.T

		if tr != nil {
			if err := tr.WritePacket(rec.Packet); err != nil {
				return fmt.Errorf("write failed: %w", err)
			}
			continue
		}

		msgs := bidib.SplitFrame(rec.Packet, func(err error, record []byte) {
			fmt.Printf("[ERROR] %v (%x)\n", err, record)
		})
		for _, m := range msgs {
			fmt.Println(bidib.FormatMsg(m))
		}
	}
}
