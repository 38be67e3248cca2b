// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package bidib

import (
	"fmt"
	"strings"
)

// FormatMsg renders a decoded inbound message for the monitor output:
// timestamp-free one-liner with the message name and a decoded detail
// line for the types worth decoding, hex dump otherwise.
func FormatMsg(m Msg) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-20s num=%-3d", MessageName(m.Type), m.Num)
	if !m.Addr.IsLocalNode() {
		b := m.Addr.Bytes()
		fmt.Fprintf(&sb, " addr=%x", b[:len(b)-1])
	}
	if detail := formatDetail(m.Type, m.Data); detail != "" {
		sb.WriteString("  ")
		sb.WriteString(detail)
	} else if len(m.Data) > 0 {
		fmt.Fprintf(&sb, "  %x", m.Data)
	}
	return sb.String()
}

func formatDetail(typ byte, data []byte) string {
	u := NewUnpacker(data)
	switch typ {
	case MsgSysMagic, MsgSysPVersion:
		v, err := u.U16()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("0x%04X", v)

	case MsgSysSwVersion:
		b, err := u.take(3)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%d.%d.%d", b[2], b[1], b[0])

	case MsgSysUniqueID:
		var id UniqueID
		if err := id.unpack(u); err != nil {
			return ""
		}
		return fmt.Sprintf("class=0x%02X vid=0x%02X pid=0x%08X", id.ClassID, id.VendorID, id.ProductID)

	case MsgSysClock:
		var t Time
		if err := t.unpack(u); err != nil {
			return ""
		}
		return fmt.Sprintf("dow=%d %02d:%02d speed=%d", t.Dow, t.Hour, t.Minute, t.Speed)

	case MsgFeature, MsgFeatureSet:
		id, err := u.U8()
		if err != nil {
			return ""
		}
		value, err := u.U8()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("feature %d = %d", id, value)

	case MsgFeatureGet:
		id, err := u.U8()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("feature %d", id)

	case MsgFeatureCount, MsgNodeTabCount:
		n, err := u.U8()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("count=%d", n)

	case MsgNodeTab:
		version, err := u.U8()
		if err != nil {
			return ""
		}
		addr, err := u.U8()
		if err != nil {
			return ""
		}
		var id UniqueID
		if err := id.unpack(u); err != nil {
			return ""
		}
		return fmt.Sprintf("version=%d addr=%d vid=0x%02X pid=0x%08X", version, addr, id.VendorID, id.ProductID)

	case MsgBoostStat:
		state, err := u.U8()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("state=0x%02X", state)

	case MsgBoostDiagnostic:
		var parts []string
		for u.Remaining() >= 2 {
			k, _ := u.U8()
			v, _ := u.U8()
			switch k {
			case BstDiagI:
				parts = append(parts, fmt.Sprintf("I=%d", v))
			case BstDiagV:
				parts = append(parts, fmt.Sprintf("V=%d", v))
			case BstDiagT:
				parts = append(parts, fmt.Sprintf("T=%d", v))
			default:
				parts = append(parts, fmt.Sprintf("%d=%d", k, v))
			}
		}
		return strings.Join(parts, " ")

	case MsgCsState, MsgCsSetState:
		state, err := u.U8()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("state=0x%02X", state)

	case MsgCsDrive:
		var d CsDrive
		if err := d.unpack(u); err != nil {
			return ""
		}
		dir := "rev"
		if d.Forward() {
			dir = "fwd"
		}
		return fmt.Sprintf("addr=%d speed=%d %s", d.Addr, d.Speed&0x7f, dir)

	case MsgCsDriveAck:
		addr, err := u.U16()
		if err != nil {
			return ""
		}
		ack, err := u.U8()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("addr=%d ack=%d", addr, ack)

	case MsgAccessoryState:
		b, err := u.take(5)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("num=%d aspect=%d total=%d execute=0b%08b wait=%d", b[0], b[1], b[2], b[3], b[4])

	case MsgString:
		ns, err := u.U8()
		if err != nil {
			return ""
		}
		id, err := u.U8()
		if err != nil {
			return ""
		}
		s, err := u.Str()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("[%d:%d] %q", ns, id, s)
	}
	return ""
}
