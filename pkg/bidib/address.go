// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package bidib

// Address is a stack of up to four node bytes describing a path through
// the BiDiB sub-bus tree. The low byte of the packed stack is the
// nearest hop; the empty stack addresses the local node. The serialized
// form is the stack bytes followed by a single zero terminator.
type Address struct {
	stack uint32
}

// LocalNode returns the empty address.
func LocalNode() Address {
	return Address{}
}

// ParseAddress reads an address from the start of ba. The buffer must
// contain the terminating zero within the first five bytes.
func ParseAddress(ba []byte) (Address, error) {
	if len(ba) == 0 {
		return Address{}, ErrOutOfData
	}
	size := -1
	for i, b := range ba {
		if b == 0 {
			size = i
			break
		}
	}
	if size == -1 {
		return Address{}, ErrAddressMissingTerminator
	}
	if size > 4 {
		return Address{}, ErrAddressTooLong
	}
	var stack uint32
	for i := size - 1; i >= 0; i-- {
		stack = stack<<8 | uint32(ba[i])
	}
	return Address{stack: stack}, nil
}

// Size returns the number of stack entries (0-4).
func (a Address) Size() int {
	switch {
	case a.stack&0xff000000 != 0:
		return 4
	case a.stack&0xff0000 != 0:
		return 3
	case a.stack&0xff00 != 0:
		return 2
	case a.stack&0xff != 0:
		return 1
	}
	return 0
}

// IsLocalNode reports whether the stack is empty.
func (a Address) IsLocalNode() bool {
	return a.stack == 0
}

// Bytes returns the serialized address: stack bytes plus terminator.
func (a Address) Bytes() []byte {
	return a.AppendTo(make([]byte, 0, 5))
}

// AppendTo appends the serialized address to buf.
func (a Address) AppendTo(buf []byte) []byte {
	s := a.stack
	for i := a.Size(); i > 0; i-- {
		buf = append(buf, byte(s))
		s >>= 8
	}
	return append(buf, 0)
}

// Downstream pops the nearest hop off the stack and returns it.
func (a *Address) Downstream() (byte, error) {
	if a.IsLocalNode() {
		return 0, ErrAddressStackEmpty
	}
	node := byte(a.stack)
	a.stack >>= 8
	return node, nil
}

// Upstream prepends node as the new nearest hop.
func (a *Address) Upstream(node byte) error {
	if a.Size() == 4 {
		return ErrAddressStackFull
	}
	a.stack = a.stack<<8 | uint32(node)
	return nil
}
