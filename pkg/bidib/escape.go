// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package bidib

// Escape replaces every magic and escape byte in ba by the two-byte
// sequence escape, original^0x20.
func Escape(ba []byte) []byte {
	out := make([]byte, 0, len(ba))
	for _, b := range ba {
		if b == PktMagic || b == PktEscape {
			out = append(out, PktEscape, b^EscXor)
		} else {
			out = append(out, b)
		}
	}
	return out
}

// Unescape inverts Escape. A trailing escape byte with no follow-up
// yields ErrEscapingIncomplete.
func Unescape(ba []byte) ([]byte, error) {
	if len(ba) > 0 && ba[len(ba)-1] == PktEscape {
		return nil, ErrEscapingIncomplete
	}
	out := make([]byte, 0, len(ba))
	esc := false
	for _, b := range ba {
		if esc {
			out = append(out, b^EscXor)
			esc = false
		} else if b == PktEscape {
			esc = true
		} else {
			out = append(out, b)
		}
	}
	return out, nil
}

// EncodeFrame prepares a packet (one or more serialized messages) for
// the wire: the CRC-8 is appended and the whole frame is escaped. The
// result still needs Wrap around it.
func EncodeFrame(packet []byte) []byte {
	out := make([]byte, 0, len(packet)+4)
	var crc byte
	for _, c := range packet {
		crc = crc8Update(crc, c)
		if c == PktMagic || c == PktEscape {
			out = append(out, PktEscape, c^EscXor)
		} else {
			out = append(out, c)
		}
	}
	if crc == PktMagic || crc == PktEscape {
		out = append(out, PktEscape, crc^EscXor)
	} else {
		out = append(out, crc)
	}
	return out
}

// DecodeFrame unescapes a raw frame and validates its trailing CRC.
// It returns the packet bytes without the CRC byte. The CRC residual
// over the unescaped frame including its CRC byte must be zero.
func DecodeFrame(frame []byte) ([]byte, error) {
	packet, err := Unescape(frame)
	if err != nil {
		return nil, err
	}
	if len(packet) == 0 {
		return nil, ErrOutOfData
	}
	if Crc8(packet) != 0 {
		return nil, ErrBadChecksum
	}
	return packet[:len(packet)-1], nil
}
