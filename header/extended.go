package header

import (
	"github.com/dltview/dltidx/endian"
	"github.com/dltview/dltidx/format"
	"github.com/dltview/dltidx/internal/cursor"
	"github.com/dltview/dltidx/internal/dltstring"
)

const (
	messageInfoVerboseMask = 0x01
	messageInfoMajorShift  = 1
	messageInfoMajorMask   = 0x07
	messageInfoSubShift    = 4
	messageInfoSubMask     = 0x0F
)

// MessageType is the tagged major/sub-type classification of a message,
// decoded from message_info. Major is always one of the four closed kinds
// (or MajorUnknown); the concrete sub-type is read from whichever of
// LogLevel / AppTraceKind / ControlKind applies and Raw preserves the
// original sub-type nibble for diagnostics even when it didn't map to a
// known value.
type MessageType struct {
	Major      format.MessageMajorType
	LogLevel   format.LogLevel
	TraceKind  format.AppTraceKind
	ControlOp  format.ControlKind
	Raw        uint8 // the undecoded sub-type nibble (bits 4..7 of message_info)
	Recognized bool  // false when Major or the sub-type nibble didn't map to a known value
}

// decodeMessageType interprets message_info's major/sub-type bits.
func decodeMessageType(messageInfo uint8) MessageType {
	sub := (messageInfo >> messageInfoSubShift) & messageInfoSubMask
	mt := MessageType{Raw: sub, Recognized: true}

	// The wire encodes message type (MSTP) 0-indexed: 0=Log, 1=AppTrace,
	// 2=NetworkTrace, 3=Control. Sub-type (MTIN) nibbles are themselves
	// 1-indexed per the AUTOSAR tables below.
	switch (messageInfo >> messageInfoMajorShift) & messageInfoMajorMask {
	case 0:
		mt.Major = format.MajorLog
		if sub >= 1 && sub <= 6 {
			mt.LogLevel = format.LogLevel(sub)
		} else {
			mt.LogLevel = format.LogLevelInvalid
			mt.Recognized = false
		}
	case 1:
		mt.Major = format.MajorAppTrace
		if sub >= 1 && sub <= 5 {
			mt.TraceKind = format.AppTraceKind(sub)
		} else {
			mt.TraceKind = format.TraceKindInvalid
			mt.Recognized = false
		}
	case 2:
		mt.Major = format.MajorNetworkTrace
		if sub >= 1 && sub <= 5 {
			mt.TraceKind = format.AppTraceKind(sub)
		} else {
			mt.TraceKind = format.TraceKindInvalid
			mt.Recognized = false
		}
	case 3:
		mt.Major = format.MajorControl
		if sub == 1 || sub == 2 {
			mt.ControlOp = format.ControlKind(sub)
		} else {
			mt.ControlOp = format.ControlKindUnknown
			mt.Recognized = false
		}
	default:
		mt.Major = format.MajorUnknown
		mt.Recognized = false
	}

	return mt
}

// ExtendedHeader carries the verbosity flag, argument count, message
// classification, and application/context ids. Present only when the
// standard header's UEH flag is set.
type ExtendedHeader struct {
	Verbose       bool
	ArgumentCount uint8
	MessageType   MessageType
	ApplicationID string
	ContextID     string
}

// ParseExtendedHeader reads message_info, argument_count, application id,
// and context id. Unknown message types, log levels, trace kinds, and
// control types are not fatal — the header is still returned, with
// MessageType.Recognized set to false so the caller can emit a WARNING
// notification (best-effort classification, per §4.3).
func ParseExtendedHeader(data []byte, engine endian.EndianEngine) (rest []byte, hdr ExtendedHeader, err error) {
	c := cursor.New(data, engine)

	messageInfo, err := c.Uint8()
	if err != nil {
		return nil, ExtendedHeader{}, err
	}

	argCount, err := c.Uint8()
	if err != nil {
		return nil, ExtendedHeader{}, err
	}

	appRaw, err := c.Bytes(4)
	if err != nil {
		return nil, ExtendedHeader{}, err
	}

	ctxRaw, err := c.Bytes(4)
	if err != nil {
		return nil, ExtendedHeader{}, err
	}

	hdr = ExtendedHeader{
		Verbose:       messageInfo&messageInfoVerboseMask != 0,
		ArgumentCount: argCount,
		MessageType:   decodeMessageType(messageInfo),
		ApplicationID: dltstring.Truncate(appRaw),
		ContextID:     dltstring.Truncate(ctxRaw),
	}

	return c.Rest(), hdr, nil
}
