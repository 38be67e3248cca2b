// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Christian Gudrian

package cmd

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cgudrian/qbidib/pkg/node"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the BiDiB node emulator",
	Long: `Run the node emulator on a serial port or WebSocket bridge.

The emulated node identity, feature table and user strings come from the
YAML configuration file (--config); without one, the built-in default
node is used (booster + accessory + DCC generator).

When the transport fails, the emulator backs off for one second and
reopens it. Frame reassembly state survives the reconnect, so a frame
split across a port hiccup is still decoded.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := node.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if portName != "" {
		cfg.Port = portName
	}
	if cmd.Flags().Changed("baud") {
		cfg.Baud = baudRate
	}
	if wsURL == "" && cfg.Port == "" {
		return fmt.Errorf("either --port, --url or a configured port is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := node.NewLoop()
	stack := node.NewStack(cfg, loop, nil)

	go nodeTransportLoop(ctx, loop, stack, cfg)

	loop.Run(ctx)
	log.Printf("quitting")
	return nil
}

// nodeTransportLoop keeps the transport open, feeding received bytes
// into the event loop. On failure it backs off for a second and
// reopens; the stack keeps its frame reassembly state across the
// reconnect.
func nodeTransportLoop(ctx context.Context, loop *node.Loop, stack *node.Stack, cfg node.Config) {
	for ctx.Err() == nil {
		conn, info, err := openNodeConn(cfg)
		if err != nil {
			log.Printf("cannot open transport: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		log.Printf("connected: %s", info)
		loop.Post(func() { stack.SetWriter(conn) })

		buf := make([]byte, 256)
		for {
			n, err := conn.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				loop.Post(func() { stack.Feed(data) })
			}
			if err != nil {
				log.Printf("read error: %v", err)
				break
			}
		}

		conn.Close()
		loop.Post(func() { stack.SetWriter(nil) })
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

// openNodeConn opens the node's transport: the WebSocket bridge when
// --url is given, otherwise the configured serial port.
func openNodeConn(cfg node.Config) (Conn, string, error) {
	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = promptPassword()
			if err != nil {
				return nil, "", err
			}
		}
		conn, err := dialWebSocket(wsURL, wsUsername, password, wsNoSSLVerify)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}
	conn, err := dialSerial(cfg.Port, cfg.Baud)
	if err != nil {
		return nil, "", err
	}
	return conn, fmt.Sprintf("Serial: %s @ %d baud", cfg.Port, cfg.Baud), nil
}
