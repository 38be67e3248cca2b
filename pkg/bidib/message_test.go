// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package bidib

import (
	"bytes"
	"errors"
	"testing"
)

func TestMessageTypeAndPayload(t *testing.T) {
	m := NewMessage(1, []byte{1, 2, 3, 4})
	if m.Type() != 1 {
		t.Errorf("Type = %d, want 1", m.Type())
	}
	if !bytes.Equal(m.Payload(), []byte{1, 2, 3, 4}) {
		t.Errorf("Payload = %x", m.Payload())
	}
}

func TestMessageToSendBuffer(t *testing.T) {
	t.Run("local node", func(t *testing.T) {
		m := NewMessage(1, []byte{10, 20, 30, 40})
		buf, err := m.ToSendBuffer(LocalNode(), 42)
		if err != nil {
			t.Fatalf("ToSendBuffer failed: %v", err)
		}
		want := []byte{7, 0, 42, 1, 10, 20, 30, 40}
		if !bytes.Equal(buf, want) {
			t.Errorf("buf = %x, want %x", buf, want)
		}
	})

	t.Run("addressed", func(t *testing.T) {
		m := NewMessage(1, []byte{10, 20, 30, 40})
		addr := mustParseAddress(t, []byte{9, 4, 5, 0})
		buf, err := m.ToSendBuffer(addr, 99)
		if err != nil {
			t.Fatalf("ToSendBuffer failed: %v", err)
		}
		want := []byte{10, 9, 4, 5, 0, 99, 1, 10, 20, 30, 40}
		if !bytes.Equal(buf, want) {
			t.Errorf("buf = %x, want %x", buf, want)
		}
	})

	t.Run("too large", func(t *testing.T) {
		m := NewMessage(1, make([]byte, 100))
		addr := mustParseAddress(t, []byte{9, 4, 5, 0})
		if _, err := m.ToSendBuffer(addr, 99); !errors.Is(err, ErrMessageTooLarge) {
			t.Fatalf("expected ErrMessageTooLarge, got %v", err)
		}
	})

	t.Run("size limit boundary", func(t *testing.T) {
		// 3 + 0 + 60 = 63 fits, 61 bytes of payload does not
		m := NewMessage(1, make([]byte, 60))
		if _, err := m.ToSendBuffer(LocalNode(), 1); err != nil {
			t.Fatalf("63-byte message rejected: %v", err)
		}
		m = NewMessage(1, make([]byte, 61))
		if _, err := m.ToSendBuffer(LocalNode(), 1); !errors.Is(err, ErrMessageTooLarge) {
			t.Fatalf("expected ErrMessageTooLarge, got %v", err)
		}
	})
}

func TestSplitFrameSingleMessage(t *testing.T) {
	frame := []byte{7, 0, 42, 1, 10, 20, 30, 40}
	msgs := SplitFrame(frame, nil)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	m := msgs[0]
	if !m.Addr.IsLocalNode() {
		t.Error("expected local node address")
	}
	if m.Num != 42 || m.Type != 1 {
		t.Errorf("num/type = %d/%d, want 42/1", m.Num, m.Type)
	}
	if !bytes.Equal(m.Data, []byte{10, 20, 30, 40}) {
		t.Errorf("data = %x", m.Data)
	}
}

func TestSplitFrameMultipleMessages(t *testing.T) {
	var frame []byte
	frame = append(frame, 4, 0, 1, 0x01, 0xAA)    // first message, 1 payload byte
	frame = append(frame, 5, 2, 0, 2, 0x0B, 0xBB) // second, addressed
	frame = append(frame, 3, 0, 3, 0x32)          // third, no payload

	msgs := SplitFrame(frame, nil)
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].Type != 0x01 || !bytes.Equal(msgs[0].Data, []byte{0xAA}) {
		t.Errorf("message 0 = %+v", msgs[0])
	}
	if msgs[1].Addr.Size() != 1 || msgs[1].Type != 0x0B {
		t.Errorf("message 1 = %+v", msgs[1])
	}
	if msgs[2].Type != 0x32 || len(msgs[2].Data) != 0 {
		t.Errorf("message 2 = %+v", msgs[2])
	}
}

func TestSplitFrameTruncatedRecord(t *testing.T) {
	frame := []byte{9, 0, 42, 1, 10} // length byte promises more than the frame holds
	var gotErr error
	msgs := SplitFrame(frame, func(err error, record []byte) { gotErr = err })
	if len(msgs) != 0 {
		t.Fatalf("got %d messages from truncated frame", len(msgs))
	}
	if !errors.Is(gotErr, ErrOutOfData) {
		t.Errorf("expected ErrOutOfData, got %v", gotErr)
	}
}

func TestSplitFrameMalformedRecordContinues(t *testing.T) {
	var frame []byte
	frame = append(frame, 2, 0, 42)      // too short for num+type
	frame = append(frame, 3, 0, 7, 0x01) // valid

	var errs []error
	msgs := SplitFrame(frame, func(err error, record []byte) { errs = append(errs, err) })
	if len(errs) != 1 || !errors.Is(errs[0], ErrMessageMalformed) {
		t.Fatalf("errs = %v, want one ErrMessageMalformed", errs)
	}
	if len(msgs) != 1 || msgs[0].Type != 0x01 {
		t.Fatalf("valid record after malformed one not parsed: %+v", msgs)
	}
}

func TestSplitFrameBadAddress(t *testing.T) {
	frame := []byte{7, 1, 2, 3, 4, 5, 6, 7} // no terminator within the record
	var gotErr error
	SplitFrame(frame, func(err error, record []byte) { gotErr = err })
	if !errors.Is(gotErr, ErrAddressMissingTerminator) {
		t.Errorf("expected ErrAddressMissingTerminator, got %v", gotErr)
	}
}

func TestSplitFrameRoundTrip(t *testing.T) {
	m := MakeMessage(MsgSysMagic, uint16(SysMagic))
	buf, err := m.ToSendBuffer(LocalNode(), 7)
	if err != nil {
		t.Fatalf("ToSendBuffer failed: %v", err)
	}
	msgs := SplitFrame(buf, nil)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Type != MsgSysMagic || msgs[0].Num != 7 {
		t.Errorf("round trip = %+v", msgs[0])
	}
	if !bytes.Equal(msgs[0].Data, []byte{0xFE, 0xAF}) {
		t.Errorf("data = %x, want feaf", msgs[0].Data)
	}
}
