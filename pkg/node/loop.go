// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package node

import (
	"context"
	"time"
)

// Scheduler posts a callback after a delay. Callbacks run on the node's
// event loop and never preempt a running handler.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Loop is the single-threaded cooperative event loop driving the node.
// Transport reads, timer callbacks and handler side effects all execute
// on the one goroutine running Run.
type Loop struct {
	events chan func()
}

// NewLoop creates an event loop.
func NewLoop() *Loop {
	return &Loop{events: make(chan func(), 64)}
}

// Post enqueues fn for execution on the loop.
func (l *Loop) Post(fn func()) {
	l.events <- fn
}

// After schedules fn to run on the loop after d.
func (l *Loop) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		l.Post(fn)
	})
}

// Run processes events until ctx is cancelled. Pending timers are
// dropped on cancellation.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.events:
			fn()
		}
	}
}
