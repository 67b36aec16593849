package index

import (
	"github.com/dltview/dltidx/errs"
	"github.com/dltview/dltidx/filter"
	"github.com/dltview/dltidx/format"
	"github.com/dltview/dltidx/header"
	"github.com/dltview/dltidx/payload"
)

// parseOne decodes exactly one message from the front of data.
//
// On success, consumed is always the exact byte count the message
// occupies (header.StorageHeaderSize, if present, plus overall_length —
// §8 invariant 2), even when the message was filtered out. dropped is
// true when the filter gate rejected the message (§4.5's "Ok(consumed,
// None)" case) — msg is nil in that case but the caller must still
// advance by consumed.
//
// An error return is either an *errs.Hickup (recoverable: advance by the
// magic-pattern length, not by consumed, and resume — §7) or an
// *errs.Unrecoverable (incomplete buffer or an invariant violation).
func parseOne(data []byte, withStorageHeader bool, filt *filter.Gate) (consumed int, msg *Message, dropped bool, err error) {
	rest := data
	var storage header.StorageHeader
	hasStorage := false
	storageBytes := 0

	if withStorageHeader {
		r, sh, perr := header.ParseStorageHeader(rest)
		if perr != nil {
			return 0, nil, false, perr
		}
		storage = sh
		hasStorage = true
		storageBytes = header.StorageHeaderSize
		rest = r
	}

	afterStd, std, err := header.ParseStandardHeader(rest)
	if err != nil {
		return 0, nil, false, err
	}

	consumed = storageBytes + int(std.OverallLen)
	if consumed > len(data) {
		return 0, nil, false, errs.NewIncomplete("index.parseOne", consumed-len(data))
	}

	var extPtr *header.ExtendedHeader
	payloadView := afterStd
	if std.HasExtended {
		afterExt, ext, perr := header.ParseExtendedHeader(afterStd, std.Endianness)
		if perr != nil {
			return 0, nil, false, perr
		}
		extPtr = &ext
		payloadView = afterExt
	}

	if len(payloadView) < int(std.PayloadLength) {
		return 0, nil, false, errs.NewIncomplete("index.parseOne", int(std.PayloadLength)-len(payloadView))
	}
	payloadView = payloadView[:std.PayloadLength]

	if extPtr != nil && filt != nil {
		level := extPtr.MessageType.LogLevel
		if !filt.Allow(storage.EcuID, extPtr.ApplicationID, extPtr.ContextID, extPtr.MessageType.Major, level) {
			return consumed, nil, true, nil
		}
	}

	var pl payload.Payload
	if extPtr != nil {
		pl, err = payload.Decode(payloadView, std.Endianness, *extPtr)
	} else {
		// No extended header: the message carries no verbose flag, so it
		// is treated as non-verbose (classic DLT behavior for messages
		// that opt out of the extended header entirely).
		var nv payload.NonVerbose
		nv, err = payload.DecodeNonVerbose(payloadView, std.Endianness)
		pl = payload.Payload{Kind: payload.KindNonVerbose, NonVerbose: nv}
	}
	if err != nil {
		return 0, nil, false, errs.NewHickup("index.parseOne", err)
	}

	msg = &Message{
		Storage:  storage,
		HasStore: hasStorage,
		Standard: std,
		Extended: extPtr,
		Payload:  pl,
	}
	return consumed, msg, false, nil
}

// messageMajor returns MajorUnknown when the message has no extended
// header (and therefore no classification), for callers that want a
// uniform MessageMajorType regardless of ext header presence.
func messageMajor(msg *Message) format.MessageMajorType {
	if msg.Extended == nil {
		return format.MajorUnknown
	}
	return msg.Extended.MessageType.Major
}
