// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package node

import "github.com/cgudrian/qbidib/pkg/bidib"

// startEnumeration installs a one-shot override for the GETNEXT message
// type of a running enumeration. Each GETNEXT emits the next item; when
// the collection is exhausted the handler reverts to the static
// "no more entries" reply. A new GETALL simply installs a fresh
// override, replacing any enumeration still in flight.
func startEnumeration[T any](n *Node, getNextType byte, items []T, emit func(index byte, item T), na bidib.Message) {
	if len(items) == 0 {
		n.registerStaticReply(getNextType, na)
		return
	}
	next := 0
	n.bind(getNextType, func(bidib.Msg) {
		emit(byte(next), items[next])
		next++
		if next == len(items) {
			n.registerStaticReply(getNextType, na)
		}
	})
}
