// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package bidib

import (
	"bytes"
	"errors"
	"testing"
)

func mustParseAddress(t *testing.T, ba []byte) Address {
	t.Helper()
	a, err := ParseAddress(ba)
	if err != nil {
		t.Fatalf("ParseAddress(%x) failed: %v", ba, err)
	}
	return a
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		size    int
		wantErr error
	}{
		{name: "empty buffer", in: nil, wantErr: ErrOutOfData},
		{name: "empty stack", in: []byte{0}, size: 0},
		{name: "one entry", in: []byte{1, 0}, size: 1},
		{name: "four entries", in: []byte{4, 3, 2, 1, 0}, size: 4},
		{name: "five entries", in: []byte{1, 2, 3, 4, 5, 0}, wantErr: ErrAddressTooLong},
		{name: "no terminator", in: []byte{1, 2, 3}, wantErr: ErrAddressMissingTerminator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAddress(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Size() != tt.size {
				t.Errorf("size = %d, want %d", a.Size(), tt.size)
			}
			if a.IsLocalNode() != (tt.size == 0) {
				t.Errorf("IsLocalNode = %v for size %d", a.IsLocalNode(), tt.size)
			}
		})
	}
}

func TestAddressDownstream(t *testing.T) {
	a := mustParseAddress(t, []byte{1, 2, 3, 4, 0})

	for i, want := range []struct {
		node byte
		rest []byte
	}{
		{1, []byte{2, 3, 4, 0}},
		{2, []byte{3, 4, 0}},
		{3, []byte{4, 0}},
		{4, []byte{0}},
	} {
		node, err := a.Downstream()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if node != want.node {
			t.Errorf("step %d: node = %d, want %d", i, node, want.node)
		}
		if !bytes.Equal(a.Bytes(), want.rest) {
			t.Errorf("step %d: rest = %x, want %x", i, a.Bytes(), want.rest)
		}
	}
	if !a.IsLocalNode() {
		t.Error("expected local node after draining the stack")
	}
}

func TestAddressDownstreamSelf(t *testing.T) {
	a := LocalNode()
	if _, err := a.Downstream(); !errors.Is(err, ErrAddressStackEmpty) {
		t.Fatalf("expected ErrAddressStackEmpty, got %v", err)
	}
	if !a.IsLocalNode() {
		t.Error("address changed by failed Downstream")
	}
}

func TestAddressUpstream(t *testing.T) {
	a := LocalNode()

	for _, want := range [][]byte{
		{1, 0},
		{2, 1, 0},
		{3, 2, 1, 0},
		{4, 3, 2, 1, 0},
	} {
		if err := a.Upstream(want[0]); err != nil {
			t.Fatalf("Upstream(%d) failed: %v", want[0], err)
		}
		if !bytes.Equal(a.Bytes(), want) {
			t.Errorf("stack = %x, want %x", a.Bytes(), want)
		}
	}
}

func TestAddressUpstreamFullStack(t *testing.T) {
	a := mustParseAddress(t, []byte{2, 3, 4, 5, 0})
	if err := a.Upstream(1); !errors.Is(err, ErrAddressStackFull) {
		t.Fatalf("expected ErrAddressStackFull, got %v", err)
	}
	if !bytes.Equal(a.Bytes(), []byte{2, 3, 4, 5, 0}) {
		t.Errorf("address changed by failed Upstream: %x", a.Bytes())
	}
}

func TestAddressUpstreamThenDownstream(t *testing.T) {
	a := mustParseAddress(t, []byte{7, 8, 0})
	if err := a.Upstream(42); err != nil {
		t.Fatalf("Upstream failed: %v", err)
	}
	node, err := a.Downstream()
	if err != nil {
		t.Fatalf("Downstream failed: %v", err)
	}
	if node != 42 {
		t.Errorf("node = %d, want 42", node)
	}
	if !bytes.Equal(a.Bytes(), []byte{7, 8, 0}) {
		t.Errorf("address not restored: %x", a.Bytes())
	}
}

func TestAddressSize(t *testing.T) {
	for size := 0; size <= 4; size++ {
		buf := make([]byte, size+1)
		for i := 0; i < size; i++ {
			buf[i] = byte(i + 1)
		}
		a := mustParseAddress(t, buf)
		if a.Size() != size {
			t.Errorf("Size() = %d, want %d", a.Size(), size)
		}
	}
}

func TestAddressBytesRoundTrip(t *testing.T) {
	in := []byte{4, 8, 4, 0}
	a := mustParseAddress(t, in)
	if !bytes.Equal(a.Bytes(), in) {
		t.Errorf("Bytes() = %x, want %x", a.Bytes(), in)
	}
	b := mustParseAddress(t, a.Bytes())
	if a != b {
		t.Error("parse/serialize round trip changed the address")
	}
}
