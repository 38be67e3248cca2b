// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Christian Gudrian

package cmd

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"

	"github.com/cgudrian/qbidib/pkg/bidib"
)

// Conn is a raw byte pipe carrying BiDiB traffic: a serial port in the
// common case, or a WebSocket bridge tunnelling the same byte stream as
// binary messages.
type Conn interface {
	io.Reader
	io.Writer
	io.Closer
}

// Transport couples a byte pipe with BiDiB frame assembly. Reads yield
// whole magic-delimited frames; writes take an unescaped packet and put
// it on the wire with CRC, escaping and delimiters applied. The framer
// state lives here rather than in the pipe, so Reattach can swap in a
// reopened connection without losing a frame split across the outage.
type Transport struct {
	conn   Conn
	framer bidib.Framer
	buf    []byte
}

// NewTransport wraps an open connection.
func NewTransport(conn Conn) *Transport {
	return &Transport{conn: conn, buf: make([]byte, 256)}
}

// OpenTransport opens the connection selected by the persistent flags
// and wraps it for frame I/O.
func OpenTransport() (*Transport, string, error) {
	conn, info, err := openConn()
	if err != nil {
		return nil, "", err
	}
	return NewTransport(conn), info, nil
}

// ReadFrames blocks until the connection delivers at least one complete
// frame or fails. Frames received before the error are returned with it.
func (t *Transport) ReadFrames() ([][]byte, error) {
	for {
		n, err := t.conn.Read(t.buf)
		var frames [][]byte
		if n > 0 {
			frames = t.framer.Feed(t.buf[:n])
		}
		if len(frames) > 0 || err != nil {
			return frames, err
		}
	}
}

// WritePacket encodes one packet (concatenated serialized messages) and
// writes it as a delimited frame.
func (t *Transport) WritePacket(packet []byte) error {
	_, err := t.conn.Write(bidib.Wrap(bidib.EncodeFrame(packet)))
	return err
}

// Reattach swaps the underlying connection, keeping reassembly state.
func (t *Transport) Reattach(conn Conn) {
	t.conn = conn
}

func (t *Transport) Close() error {
	return t.conn.Close()
}

// serialConn is the 8-N-1 serial pipe BiDiB specifies.
type serialConn struct {
	port serial.Port
}

func (c *serialConn) Read(p []byte) (int, error)  { return c.port.Read(p) }
func (c *serialConn) Write(p []byte) (int, error) { return c.port.Write(p) }
func (c *serialConn) Close() error                { return c.port.Close() }

func dialSerial(device string, baud int) (Conn, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", device, err)
	}
	return &serialConn{port: port}, nil
}

// wsConn adapts a WebSocket to the byte-pipe contract. Message
// boundaries carry no meaning: a frame may span binary messages and one
// message may hold several frames, so the bytes simply flow into the
// framer above. Non-binary messages are dropped.
type wsConn struct {
	conn *websocket.Conn
	rest []byte
}

func (c *wsConn) Read(p []byte) (int, error) {
	for len(c.rest) == 0 {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if typ == websocket.BinaryMessage {
			c.rest = data
		}
	}
	n := copy(p, c.rest)
	c.rest = c.rest[n:]
	return n, nil
}

func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

func dialWebSocket(rawURL, username, password string, skipSSLVerify bool) (Conn, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: skipSSLVerify}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, rawURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %w", err)
	}
	return &wsConn{conn: conn}, nil
}

// promptPassword retrieves the WebSocket password from the environment
// or prompts for it without echo.
func promptPassword() (string, error) {
	if pw := os.Getenv("QBIDIB_PASSWORD"); pw != "" {
		return pw, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(passwordBytes), nil
}

// openConn opens the byte pipe selected by the persistent flags.
func openConn() (Conn, string, error) {
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

	if portName != "" {
		conn, err := dialSerial(portName, baudRate)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil
	}

	return nil, "", fmt.Errorf("either --port or --url must be specified")
}
