// Package payload decodes the three DLT payload shapes — verbose argument
// streams, non-verbose message-id blobs, and control request/response
// bodies — selected by the extended header's verbose flag and message
// type (§4.4).
package payload

import (
	"github.com/dltview/dltidx/endian"
	"github.com/dltview/dltidx/format"
	"github.com/dltview/dltidx/header"
)

// Kind discriminates which of the three payload shapes was decoded.
type Kind uint8

const (
	KindVerbose Kind = iota + 1
	KindNonVerbose
	KindControl
)

// Payload is the tagged result of Decode.
type Payload struct {
	Kind       Kind
	Verbose    []Argument
	NonVerbose NonVerbose
	Control    Control
}

// Decode dispatches to the verbose, non-verbose, or control decoder based
// on ext.Verbose and ext.MessageType.Major, exactly as §4.4 specifies.
func Decode(data []byte, engine endian.EndianEngine, ext header.ExtendedHeader) (Payload, error) {
	if ext.MessageType.Major == format.MajorControl {
		ctrl, err := DecodeControl(data)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Kind: KindControl, Control: ctrl}, nil
	}

	if ext.Verbose {
		args, err := DecodeVerbose(data, engine, ext.ArgumentCount)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Kind: KindVerbose, Verbose: args}, nil
	}

	nv, err := DecodeNonVerbose(data, engine)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Kind: KindNonVerbose, NonVerbose: nv}, nil
}
