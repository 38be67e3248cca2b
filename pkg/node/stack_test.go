// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package node

import (
	"bytes"
	"testing"

	"github.com/cgudrian/qbidib/pkg/bidib"
)

// frameWriter collects frames written to the transport and decodes them
// back into messages.
type frameWriter struct {
	framer bidib.Framer
	msgs   []bidib.Msg
	nums   []byte
}

func (w *frameWriter) Write(p []byte) (int, error) {
	for _, frame := range w.framer.Feed(p) {
		packet, err := bidib.DecodeFrame(frame)
		if err != nil {
			panic(err)
		}
		for _, m := range bidib.SplitFrame(packet, nil) {
			w.msgs = append(w.msgs, m)
			w.nums = append(w.nums, m.Num)
		}
	}
	return len(p), nil
}

func newTestStack(t *testing.T) (*Stack, *frameWriter) {
	t.Helper()
	w := &frameWriter{}
	s := NewStack(DefaultConfig(), &fakeScheduler{}, w)
	return s, w
}

func wireFrame(t *testing.T, typ byte, num byte, payload ...byte) []byte {
	t.Helper()
	buf, err := bidib.NewMessage(typ, payload).ToSendBuffer(bidib.LocalNode(), num)
	if err != nil {
		t.Fatalf("ToSendBuffer failed: %v", err)
	}
	return bidib.Wrap(bidib.EncodeFrame(buf))
}

func TestStackRoundTrip(t *testing.T) {
	s, w := newTestStack(t)

	s.Feed(wireFrame(t, bidib.MsgSysGetMagic, 1))

	if len(w.msgs) != 1 {
		t.Fatalf("got %d outbound messages, want 1", len(w.msgs))
	}
	m := w.msgs[0]
	if m.Type != bidib.MsgSysMagic {
		t.Errorf("reply = %s, want SYS_MAGIC", bidib.MessageName(m.Type))
	}
	if !bytes.Equal(m.Data, []byte{0xFE, 0xAF}) {
		t.Errorf("payload = %x, want feaf", m.Data)
	}
	if m.Num != 1 {
		t.Errorf("first outbound num = %d, want 1", m.Num)
	}
}

func TestStackFragmentedInput(t *testing.T) {
	s, w := newTestStack(t)

	frame := wireFrame(t, bidib.MsgSysGetMagic, 1)
	for _, b := range frame {
		s.Feed([]byte{b})
	}

	if len(w.msgs) != 1 {
		t.Fatalf("got %d outbound messages, want 1", len(w.msgs))
	}
}

func TestStackDropsCorruptFrame(t *testing.T) {
	s, w := newTestStack(t)

	frame := wireFrame(t, bidib.MsgSysGetMagic, 1)
	frame[2] ^= 0x01 // corrupt a body byte, CRC now fails

	s.Feed(frame)
	if len(w.msgs) != 0 {
		t.Fatalf("corrupt frame produced %d replies", len(w.msgs))
	}

	// the stack recovers on the next good frame
	s.Feed(wireFrame(t, bidib.MsgSysGetMagic, 2))
	if len(w.msgs) != 1 {
		t.Fatalf("got %d outbound messages after recovery, want 1", len(w.msgs))
	}
}

func TestStackSequenceNumbersSkipZero(t *testing.T) {
	s, w := newTestStack(t)

	for i := 0; i < 300; i++ {
		s.Feed(wireFrame(t, bidib.MsgBoostQuery, byte(i%255+1)))
	}

	if len(w.nums) != 300 {
		t.Fatalf("got %d replies, want 300", len(w.nums))
	}
	if w.nums[0] != 1 {
		t.Errorf("first num = %d, want 1", w.nums[0])
	}
	for i := 1; i < len(w.nums); i++ {
		prev, cur := w.nums[i-1], w.nums[i]
		var want byte
		if prev == 255 {
			want = 1
		} else {
			want = prev + 1
		}
		if cur != want {
			t.Fatalf("num %d follows %d, want %d", cur, prev, want)
		}
	}
}

func TestStackMultipleMessagesPerFrame(t *testing.T) {
	s, w := newTestStack(t)

	buf1, _ := bidib.NewMessage(bidib.MsgSysGetMagic, nil).ToSendBuffer(bidib.LocalNode(), 1)
	buf2, _ := bidib.NewMessage(bidib.MsgBoostQuery, nil).ToSendBuffer(bidib.LocalNode(), 2)
	s.Feed(bidib.Wrap(bidib.EncodeFrame(append(buf1, buf2...))))

	if len(w.msgs) != 2 {
		t.Fatalf("got %d replies, want 2", len(w.msgs))
	}
	if w.msgs[0].Type != bidib.MsgSysMagic || w.msgs[1].Type != bidib.MsgBoostStat {
		t.Errorf("replies = %s, %s",
			bidib.MessageName(w.msgs[0].Type), bidib.MessageName(w.msgs[1].Type))
	}
}

func TestStackNilWriterDropsOutput(t *testing.T) {
	s := NewStack(DefaultConfig(), &fakeScheduler{}, nil)
	// must not panic while the transport is down
	s.Feed(wireFrame(t, bidib.MsgSysGetMagic, 1))

	w := &frameWriter{}
	s.SetWriter(w)
	s.Feed(wireFrame(t, bidib.MsgSysGetMagic, 2))
	if len(w.msgs) != 1 {
		t.Fatalf("got %d replies after writer attach, want 1", len(w.msgs))
	}
	// the dropped reply still consumed sequence number 1
	if w.msgs[0].Num != 2 {
		t.Errorf("num = %d, want 2", w.msgs[0].Num)
	}
}
