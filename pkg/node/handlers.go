// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package node

import (
	"log"
	"time"

	"github.com/cgudrian/qbidib/pkg/bidib"
)

func (n *Node) registerHandlers() {
	n.registerStaticReply(bidib.MsgSysGetMagic,
		bidib.MakeMessage(bidib.MsgSysMagic, uint16(bidib.SysMagic)))
	n.registerStaticReply(bidib.MsgSysGetPVersion,
		bidib.MakeMessage(bidib.MsgSysPVersion, uint16(bidib.ProtocolVersion)))
	n.registerStaticReply(bidib.MsgSysGetSwVersion,
		bidib.MakeMessage(bidib.MsgSysSwVersion, n.swVersion))
	n.registerStaticReply(bidib.MsgSysGetUniqueID,
		bidib.MakeMessage(bidib.MsgSysUniqueID, n.uniqueID))
	n.registerStaticReply(bidib.MsgNodeTabGetNext, nodeNA)
	n.registerStaticReply(bidib.MsgFeatureGetNext, featureNA)

	handle0(n, bidib.MsgSysEnable, n.handleSysEnable)
	handle0(n, bidib.MsgSysDisable, n.handleSysDisable)
	handle0(n, bidib.MsgSysGetError, n.handleSysGetError)
	handle1(n, bidib.MsgSysPing, n.handleSysPing)
	handle1(n, bidib.MsgSysClock, n.handleSysClock)

	handle0(n, bidib.MsgNodeTabGetAll, n.handleNodeTabGetAll)

	handle1(n, bidib.MsgFeatureGetAll, n.handleFeatureGetAll)
	handle1(n, bidib.MsgFeatureGet, n.handleFeatureGet)
	handle2(n, bidib.MsgFeatureSet, n.handleFeatureSet)

	handle0(n, bidib.MsgBoostQuery, n.handleBoostQuery)
	handle1(n, bidib.MsgBoostOn, n.handleBoostOn)
	handle1(n, bidib.MsgBoostOff, n.handleBoostOff)

	handle1(n, bidib.MsgCsSetState, n.handleCsSetState)
	handle1(n, bidib.MsgCsDrive, n.handleCsDrive)

	handle1(n, bidib.MsgAccessoryGet, n.handleAccessoryGet)
	handle2(n, bidib.MsgAccessorySet, n.handleAccessorySet)
	handle2(n, bidib.MsgAccessoryParaGet, n.handleAccessoryParaGet)

	handle3(n, bidib.MsgLcPortQueryAll, n.handleLcPortQueryAll)
	handle2(n, bidib.MsgLcConfigXGetAll, n.handleLcConfigXGetAll)

	handle2(n, bidib.MsgStringGet, n.handleStringGet)
	handle3(n, bidib.MsgStringSet, n.handleStringSet)
}

func (n *Node) handleSysEnable() {
	log.Printf("system enabled")
}

func (n *Node) handleSysDisable() {
	log.Printf("system disabled")
}

func (n *Node) handleSysGetError() {
	n.sendReply(bidib.MsgSysError, byte(0))
}

func (n *Node) handleSysPing(marker byte) {
	n.sendReply(bidib.MsgSysPong, marker)
}

func (n *Node) handleSysClock(t bidib.Time) {
	log.Printf("CLOCK dow=%d %02d:%02d speed=%d", t.Dow, t.Hour, t.Minute, t.Speed)
}

func (n *Node) handleNodeTabGetAll() {
	n.sendReply(bidib.MsgNodeTabCount, byte(len(n.nodes)))
	startEnumeration(n, bidib.MsgNodeTabGetNext, n.nodes,
		func(index byte, id bidib.UniqueID) {
			n.sendReply(bidib.MsgNodeTab, n.nodeTabVersion, index, id)
		}, nodeNA)
}

func (n *Node) handleFeatureGetAll(shouldStream bidib.Opt[byte]) {
	if shouldStream.Or(0) == 1 {
		log.Printf("streamed feature reporting not supported, falling back to polling")
	}

	features := n.features.Sorted()
	n.sendReply(bidib.MsgFeatureCount, byte(len(features)))
	startEnumeration(n, bidib.MsgFeatureGetNext, features,
		func(_ byte, f bidib.KeyValue8) {
			n.sendReply(bidib.MsgFeature, f.Key, f.Value)
		}, featureNA)
}

func (n *Node) handleFeatureGet(id byte) {
	if value, ok := n.features.Get(id); ok {
		n.sendReply(bidib.MsgFeature, id, value)
	} else {
		n.send(featureNA)
	}
}

func (n *Node) handleFeatureSet(id, value byte) {
	if !n.features.Has(id) {
		n.send(featureNA)
		return
	}
	n.features.Set(id, n.updateFeature(id, value))
	stored, _ := n.features.Get(id)
	n.sendReply(bidib.MsgFeature, id, stored)
}

func (n *Node) handleBoostQuery() {
	n.sendReply(bidib.MsgBoostStat, n.boosterState)
}

func (n *Node) handleBoostOn(local byte) {
	n.boosterState = bidib.BstStateOn
	n.sendReply(bidib.MsgBoostStat, n.boosterState)
	n.startMeasurement()
}

func (n *Node) handleBoostOff(local byte) {
	n.boosterState = bidib.BstStateOff
	n.sendReply(bidib.MsgBoostStat, n.boosterState)
	n.stopMeasurement()
}

func (n *Node) handleCsSetState(state byte) {
	if state != bidib.CsStateQuery {
		n.csState = state
	}
	n.sendReply(bidib.MsgCsState, n.csState)
}

func (n *Node) handleCsDrive(drive bidib.CsDrive) {
	n.sendReply(bidib.MsgCsDriveAck, drive.Addr, byte(1))
}

func (n *Node) handleAccessoryGet(num byte) {
	var aspect, total byte = 0, 3
	n.sendReply(bidib.MsgAccessoryState, num, aspect, total, byte(0), byte(0))
}

func (n *Node) handleAccessorySet(num, aspect byte) {
	var total byte = 2
	var execute byte = 0b00000011
	var wait byte = 10
	n.sendReply(bidib.MsgAccessoryState, num, aspect, total, execute, wait)
	n.sched.After(time.Second, func() {
		var execute byte = 0b00000010
		var wait byte = 0
		n.sendReply(bidib.MsgAccessoryState, num, aspect, total, execute, wait)
	})
}

func (n *Node) handleAccessoryParaGet(anum, pnum byte) {
	n.sendReply(bidib.MsgAccessoryPara, anum, byte(bidib.AccessoryParaNotExist), pnum)
}

func (n *Node) handleLcPortQueryAll(sel, start, end bidib.Opt[uint16]) {
	_ = sel // port-type selector not honoured, all ports are switches
	lo := start.Or(0)
	hi := end.Or(0xffff)
	if hi > 15 {
		hi = 15
	}
	for port := lo; port < hi; port++ {
		n.sendReply(bidib.MsgLcStat, byte(bidib.PortTypeSwitch), port, byte(0))
	}
	n.sendReply(bidib.MsgLcNA, uint16(0xffff))
}

func (n *Node) handleLcConfigXGetAll(start, end bidib.Opt[uint16]) {
	lo := start.Or(0)
	hi := end.Or(0xffff)
	for port := uint32(lo); port <= uint32(hi); port++ {
		typ := byte(port)
		if typ == bidib.PortTypeServo || typ == bidib.PortTypeSwitch {
			n.sendReply(bidib.MsgLcConfigX, uint16(port),
				bidib.KeyValue8{Key: bidib.PcfgServoSpeed, Value: 55})
		}
	}
}

func (n *Node) handleStringGet(ns, id byte) {
	n.sendReply(bidib.MsgString, ns, id, n.strings[stringKey(ns, id)])
}

func (n *Node) handleStringSet(ns, id byte, s string) {
	if size, ok := n.features.Get(bidib.FeatureStringSize); ok && len(s) > int(size) {
		s = s[:size]
	}
	n.strings[stringKey(ns, id)] = s
	n.sendReply(bidib.MsgString, ns, id, s)
}
