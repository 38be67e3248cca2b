// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package node

import (
	"sort"

	"github.com/cgudrian/qbidib/pkg/bidib"
)

// Features is the node's feature store: a mapping from feature ID to a
// byte value. Enumeration order is by ascending ID so FEATURE_GETALL
// walks deterministically.
type Features struct {
	values map[byte]byte
}

// NewFeatures creates a store holding the given initial values.
func NewFeatures(initial map[byte]byte) *Features {
	values := make(map[byte]byte, len(initial))
	for id, v := range initial {
		values[id] = v
	}
	return &Features{values: values}
}

// Has reports whether the feature exists.
func (f *Features) Has(id byte) bool {
	_, ok := f.values[id]
	return ok
}

// Get returns the feature value.
func (f *Features) Get(id byte) (byte, bool) {
	v, ok := f.values[id]
	return v, ok
}

// Set stores value for an existing feature.
func (f *Features) Set(id, value byte) {
	f.values[id] = value
}

// Count returns the number of features.
func (f *Features) Count() int {
	return len(f.values)
}

// Sorted returns all features as id/value pairs in ascending ID order.
func (f *Features) Sorted() []bidib.KeyValue8 {
	out := make([]bidib.KeyValue8, 0, len(f.values))
	for id, v := range f.values {
		out = append(out, bidib.KeyValue8{Key: id, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
