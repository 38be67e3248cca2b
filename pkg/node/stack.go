// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package node

import (
	"io"
	"log"

	"github.com/cgudrian/qbidib/pkg/bidib"
)

// Stack binds the protocol layers to a byte transport: inbound bytes
// are framed, unescaped, CRC-checked and split into messages for the
// node; outbound messages are numbered, serialized, encoded and
// written. The outbound sequence number runs 1..255 and skips zero.
type Stack struct {
	node   *Node
	framer bidib.Framer
	num    byte
	w      io.Writer
}

// NewStack creates the pipeline around a node configuration. The
// returned node emits its replies through the stack.
func NewStack(cfg Config, sched Scheduler, w io.Writer) *Stack {
	s := &Stack{w: w}
	s.node = New(cfg, sched, s.Send)
	return s
}

// Node returns the engine driven by this stack.
func (s *Stack) Node() *Node {
	return s.node
}

// SetWriter swaps the transport writer, e.g. after a reopened port.
// Frame reassembly state is untouched.
func (s *Stack) SetWriter(w io.Writer) {
	s.w = w
}

// Feed pushes received transport bytes through the stack. Invalid
// frames are logged and dropped; the framer resynchronizes on the next
// magic byte.
func (s *Stack) Feed(data []byte) {
	for _, frame := range s.framer.Feed(data) {
		packet, err := bidib.DecodeFrame(frame)
		if err != nil {
			log.Printf("dropping frame: %v (%x)", err, frame)
			continue
		}
		msgs := bidib.SplitFrame(packet, func(err error, record []byte) {
			log.Printf("cannot parse message data: %v (%x)", err, record)
		})
		for _, m := range msgs {
			s.node.HandleMessage(m)
		}
	}
}

// Send serializes one outbound message and writes it to the transport.
func (s *Stack) Send(m bidib.Message) {
	num := s.nextNum()
	log.Printf("SEND %d %v", num, m)
	buf, err := m.ToSendBuffer(bidib.LocalNode(), num)
	if err != nil {
		log.Printf("dropping message: %v: %v", err, m)
		return
	}
	if s.w == nil {
		return
	}
	if _, err := s.w.Write(bidib.Wrap(bidib.EncodeFrame(buf))); err != nil {
		log.Printf("write failed: %v", err)
	}
}

func (s *Stack) nextNum() byte {
	if s.num == 0 {
		s.num++
	}
	n := s.num
	s.num++
	return n
}
