// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package node

import (
	"log"
	"time"

	"github.com/cgudrian/qbidib/pkg/bidib"
)

var (
	nodeNA    = bidib.MakeMessage(bidib.MsgNodeNA, byte(0xff))
	featureNA = bidib.MakeMessage(bidib.MsgFeatureNA, byte(0xff))
)

// Node is the BiDiB node engine: a 256-entry handler table plus the
// node state (features, node table, strings, booster and command
// station state). All state is owned by the event loop; handlers and
// timer callbacks never run concurrently.
type Node struct {
	sched Scheduler
	out   func(bidib.Message)

	handlers [256]func(bidib.Msg)

	uniqueID       bidib.UniqueID
	swVersion      bidib.Version
	nodes          []bidib.UniqueID
	nodeTabVersion byte

	features *Features
	strings  map[uint16]string

	boosterState   byte
	boosterVoltage byte
	csState        byte

	measureInterval time.Duration
	measureRunning  bool
	measureGen      uint
}

// New creates a node from cfg. Outbound messages are passed to out;
// timed follow-ups are scheduled on sched.
func New(cfg Config, sched Scheduler, out func(bidib.Message)) *Node {
	n := &Node{
		sched:           sched,
		out:             out,
		uniqueID:        cfg.uniqueID(),
		swVersion:       bidib.Version{Patch: 1, Minor: 0, Major: 0},
		nodeTabVersion:  1,
		strings:         make(map[uint16]string),
		boosterState:    bidib.BstStateOff,
		boosterVoltage:  cfg.BoosterVoltage,
		csState:         bidib.CsStateOff,
		measureInterval: time.Second,
	}

	n.nodes = append(n.nodes, n.uniqueID)
	for _, nc := range cfg.Nodes {
		n.nodes = append(n.nodes, nc.uniqueID())
	}

	n.features = NewFeatures(cfg.featureValues(n.measureInterval))

	for _, s := range cfg.Strings {
		n.strings[stringKey(s.Namespace, s.ID)] = s.Value
	}

	n.registerHandlers()
	return n
}

// HandleMessage dispatches one inbound message to its handler.
func (n *Node) HandleMessage(m bidib.Msg) {
	log.Printf("RECV %v", m)
	if handler := n.handlers[m.Type]; handler != nil {
		handler(m)
	} else {
		log.Printf("message not handled")
	}
}

func (n *Node) sendReply(typ byte, args ...any) {
	n.out(bidib.MakeMessage(typ, args...))
}

func (n *Node) send(m bidib.Message) {
	n.out(m)
}

// bind installs a raw handler for a message type.
func (n *Node) bind(typ byte, handler func(bidib.Msg)) {
	n.handlers[typ] = handler
}

// registerStaticReply makes the node answer typ with a fixed message.
func (n *Node) registerStaticReply(typ byte, m bidib.Message) {
	n.handlers[typ] = func(bidib.Msg) { n.send(m) }
}

// handle0 registers a handler for a message without arguments.
func handle0(n *Node, typ byte, fn func()) {
	n.handlers[typ] = func(bidib.Msg) { fn() }
}

// The typed registrations unpack the payload into the handler's
// parameter list before invoking it. A failed unpack is logged and the
// handler does not run. Unsupported parameter types panic here, at
// registration.

func handle1[A any](n *Node, typ byte, fn func(A)) {
	probeArgs(new(A))
	n.handlers[typ] = func(m bidib.Msg) {
		var a A
		if err := bidib.UnpackArgs(m.Data, &a); err != nil {
			log.Printf("error unpacking args: %v %v", err, m)
			return
		}
		fn(a)
	}
}

func handle2[A, B any](n *Node, typ byte, fn func(A, B)) {
	probeArgs(new(A), new(B))
	n.handlers[typ] = func(m bidib.Msg) {
		var a A
		var b B
		if err := bidib.UnpackArgs(m.Data, &a, &b); err != nil {
			log.Printf("error unpacking args: %v %v", err, m)
			return
		}
		fn(a, b)
	}
}

func handle3[A, B, C any](n *Node, typ byte, fn func(A, B, C)) {
	probeArgs(new(A), new(B), new(C))
	n.handlers[typ] = func(m bidib.Msg) {
		var a A
		var b B
		var c C
		if err := bidib.UnpackArgs(m.Data, &a, &b, &c); err != nil {
			log.Printf("error unpacking args: %v %v", err, m)
			return
		}
		fn(a, b, c)
	}
}

// probeArgs runs the unpack machinery against an empty payload so that
// an unsupported parameter type panics during registration instead of
// on the first matching message.
func probeArgs(dsts ...any) {
	u := bidib.NewUnpacker(nil)
	for _, dst := range dsts {
		_ = u.Arg(dst)
	}
}

func stringKey(ns, id byte) uint16 {
	return uint16(ns)<<8 | uint16(id)
}

// updateFeature validates a feature write and returns the value
// actually stored. Unknown validation rules keep the previous value
// read-only.
func (n *Node) updateFeature(id, value byte) byte {
	switch id {
	case bidib.FeatureBstVolt:
		value = clamp(value, 3, 16)
		n.boosterVoltage = value

	case bidib.FeatureBstCurMeasInterval:
		if value < 10 {
			value = 10
		}
		n.measureInterval = time.Duration(value) * 10 * time.Millisecond

	default:
		if v, ok := n.features.Get(id); ok {
			value = v
		}
	}
	return value
}

func clamp(v, lo, hi byte) byte {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// startMeasurement begins the periodic booster diagnostic emission.
func (n *Node) startMeasurement() {
	n.measureGen++
	n.measureRunning = true
	n.scheduleMeasurement(n.measureGen)
}

func (n *Node) stopMeasurement() {
	n.measureRunning = false
	n.measureGen++
}

func (n *Node) scheduleMeasurement(gen uint) {
	n.sched.After(n.measureInterval, func() {
		if !n.measureRunning || gen != n.measureGen {
			return
		}
		v := clamp(n.boosterVoltage, 0, 25) * 10
		n.sendReply(bidib.MsgBoostDiagnostic,
			bidib.KeyValue8{Key: bidib.BstDiagI, Value: 100},
			bidib.KeyValue8{Key: bidib.BstDiagV, Value: v})
		n.scheduleMeasurement(gen)
	})
}
