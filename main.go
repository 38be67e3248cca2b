// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

// qbidib - BiDiB node emulator
//
// Emulates a BiDiB node (booster, accessory decoder, command station)
// on a serial or WebSocket transport and provides monitoring and
// capture tools for BiDiB bus traffic.

package main

import (
	"os"

	"github.com/cgudrian/qbidib/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
