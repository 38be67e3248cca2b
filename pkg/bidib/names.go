// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package bidib

import "strconv"

var messageNames = map[byte]string{
	MsgSysGetMagic:     "SYS_GET_MAGIC",
	MsgSysGetPVersion:  "SYS_GET_P_VERSION",
	MsgSysEnable:       "SYS_ENABLE",
	MsgSysDisable:      "SYS_DISABLE",
	MsgSysGetUniqueID:  "SYS_GET_UNIQUE_ID",
	MsgSysGetSwVersion: "SYS_GET_SW_VERSION",
	MsgSysPing:         "SYS_PING",
	MsgSysIdentify:     "SYS_IDENTIFY",
	MsgSysReset:        "SYS_RESET",
	MsgGetPktCapacity:  "GET_PKT_CAPACITY",
	MsgNodeTabGetAll:   "NODETAB_GETALL",
	MsgNodeTabGetNext:  "NODETAB_GETNEXT",
	MsgNodeChangedAck:  "NODE_CHANGED_ACK",
	MsgSysGetError:     "SYS_GET_ERROR",
	MsgSysClock:        "SYS_CLOCK",

	MsgFeatureGetAll:  "FEATURE_GETALL",
	MsgFeatureGetNext: "FEATURE_GETNEXT",
	MsgFeatureGet:     "FEATURE_GET",
	MsgFeatureSet:     "FEATURE_SET",
	MsgVendorEnable:   "VENDOR_ENABLE",
	MsgVendorDisable:  "VENDOR_DISABLE",
	MsgVendorSet:      "VENDOR_SET",
	MsgVendorGet:      "VENDOR_GET",
	MsgStringSet:      "STRING_SET",
	MsgStringGet:      "STRING_GET",

	MsgBmGetRange:       "BM_GET_RANGE",
	MsgBmMirrorMultiple: "BM_MIRROR_MULTIPLE",
	MsgBmMirrorOcc:      "BM_MIRROR_OCC",
	MsgBmMirrorFree:     "BM_MIRROR_FREE",
	MsgBmAddrGetRange:   "BM_ADDR_GET_RANGE",
	MsgBmGetConfidence:  "BM_GET_CONFIDENCE",
	MsgBmMirrorPosition: "BM_MIRROR_POSITION",

	MsgBoostOff:   "BOOST_OFF",
	MsgBoostOn:    "BOOST_ON",
	MsgBoostQuery: "BOOST_QUERY",

	MsgAccessorySet:     "ACCESSORY_SET",
	MsgAccessoryGet:     "ACCESSORY_GET",
	MsgAccessoryParaSet: "ACCESSORY_PARA_SET",
	MsgAccessoryParaGet: "ACCESSORY_PARA_GET",
	MsgAccessoryGetAll:  "ACCESSORY_GETALL",

	MsgLcOutput:        "LC_OUTPUT",
	MsgLcConfigSet:     "LC_CONFIG_SET",
	MsgLcConfigGet:     "LC_CONFIG_GET",
	MsgLcKeyQuery:      "LC_KEY_QUERY",
	MsgLcPortQuery:     "LC_PORT_QUERY",
	MsgLcConfigXGetAll: "LC_CONFIGX_GET_ALL",
	MsgLcConfigXSet:    "LC_CONFIGX_SET",
	MsgLcConfigXGet:    "LC_CONFIGX_GET",
	MsgLcPortQueryAll:  "LC_PORT_QUERY_ALL",

	MsgLcMacroHandle:  "LC_MACRO_HANDLE",
	MsgLcMacroSet:     "LC_MACRO_SET",
	MsgLcMacroGet:     "LC_MACRO_GET",
	MsgLcMacroParaSet: "LC_MACRO_PARA_SET",
	MsgLcMacroParaGet: "LC_MACRO_PARA_GET",

	MsgCsAllocate:  "CS_ALLOCATE",
	MsgCsSetState:  "CS_SET_STATE",
	MsgCsDrive:     "CS_DRIVE",
	MsgCsAccessory: "CS_ACCESSORY",
	MsgCsBinState:  "CS_BIN_STATE",
	MsgCsPom:       "CS_POM",
	MsgCsRcPlus:    "CS_RCPLUS",
	MsgCsQuery:     "CS_QUERY",
	MsgCsProg:      "CS_PROG",

	MsgLocalLogonAck:      "LOCAL_LOGON_ACK",
	MsgLocalPing:          "LOCAL_PING",
	MsgLocalLogonRejected: "LOCAL_LOGON_REJECTED",
	MsgLocalAccessory:     "LOCAL_ACCESSORY",
	MsgLocalSync:          "LOCAL_SYNC",
	MsgLocalDiscover:      "LOCAL_DISCOVER",
	MsgLocalBidibDown:     "LOCAL_BIDIB_DOWN",
	MsgLocalBidibUp:       "LOCAL_BIDIB_UP",

	MsgSysMagic:         "SYS_MAGIC",
	MsgSysPong:          "SYS_PONG",
	MsgSysPVersion:      "SYS_P_VERSION",
	MsgSysUniqueID:      "SYS_UNIQUE_ID",
	MsgSysSwVersion:     "SYS_SW_VERSION",
	MsgSysError:         "SYS_ERROR",
	MsgSysIdentifyState: "SYS_IDENTIFY_STATE",
	MsgNodeTabCount:     "NODETAB_COUNT",
	MsgNodeTab:          "NODETAB",
	MsgPktCapacity:      "PKT_CAPACITY",
	MsgNodeNA:           "NODE_NA",
	MsgNodeLost:         "NODE_LOST",
	MsgNodeNew:          "NODE_NEW",
	MsgStall:            "STALL",
	MsgFwUpdateStat:     "FW_UPDATE_STAT",

	MsgFeature:      "FEATURE",
	MsgFeatureNA:    "FEATURE_NA",
	MsgFeatureCount: "FEATURE_COUNT",
	MsgVendor:       "VENDOR",
	MsgVendorAck:    "VENDOR_ACK",
	MsgString:       "STRING",

	MsgBmOcc:        "BM_OCC",
	MsgBmFree:       "BM_FREE",
	MsgBmMultiple:   "BM_MULTIPLE",
	MsgBmAddress:    "BM_ADDRESS",
	MsgBmAccessory:  "BM_ACCESSORY",
	MsgBmCv:         "BM_CV",
	MsgBmSpeed:      "BM_SPEED",
	MsgBmCurrent:    "BM_CURRENT",
	MsgBmXPom:       "BM_XPOM",
	MsgBmConfidence: "BM_CONFIDENCE",
	MsgBmDynState:   "BM_DYN_STATE",
	MsgBmRcPlus:     "BM_RCPLUS",
	MsgBmPosition:   "BM_POSITION",

	MsgBoostStat:       "BOOST_STAT",
	MsgBoostCurrent:    "BOOST_CURRENT",
	MsgBoostDiagnostic: "BOOST_DIAGNOSTIC",

	MsgAccessoryState:  "ACCESSORY_STATE",
	MsgAccessoryPara:   "ACCESSORY_PARA",
	MsgAccessoryNotify: "ACCESSORY_NOTIFY",

	MsgLcStat:    "LC_STAT",
	MsgLcNA:      "LC_NA",
	MsgLcConfig:  "LC_CONFIG",
	MsgLcKey:     "LC_KEY",
	MsgLcWait:    "LC_WAIT",
	MsgLcConfigX: "LC_CONFIGX",

	MsgLcMacroState: "LC_MACRO_STATE",
	MsgLcMacro:      "LC_MACRO",
	MsgLcMacroPara:  "LC_MACRO_PARA",

	MsgCsAllocAck:        "CS_ALLOC_ACK",
	MsgCsState:           "CS_STATE",
	MsgCsDriveAck:        "CS_DRIVE_ACK",
	MsgCsAccessoryAck:    "CS_ACCESSORY_ACK",
	MsgCsPomAck:          "CS_POM_ACK",
	MsgCsDriveManual:     "CS_DRIVE_MANUAL",
	MsgCsDriveEvent:      "CS_DRIVE_EVENT",
	MsgCsAccessoryManual: "CS_ACCESSORY_MANUAL",
	MsgCsRcPlusAck:       "CS_RCPLUS_ACK",

	MsgLocalLogon: "LOCAL_LOGON",
	MsgLocalPong:  "LOCAL_PONG",
}

// MessageName returns the symbolic name of a message type, or its
// decimal value for unknown types.
func MessageName(typ byte) string {
	if name, ok := messageNames[typ]; ok {
		return name
	}
	return strconv.Itoa(int(typ))
}
