package header

import (
	"fmt"

	"github.com/dltview/dltidx/endian"
	"github.com/dltview/dltidx/errs"
	"github.com/dltview/dltidx/internal/cursor"
	"github.com/dltview/dltidx/internal/dltstring"
)

// StandardHeader is present on every DLT message, file or socket. Its
// fields are always read big-endian; MSBF only governs the payload that
// follows an (optional) extended header.
type StandardHeader struct {
	HeaderType  uint8
	Version     uint8
	Endianness  endian.EndianEngine
	MsgCounter  uint8
	OverallLen  uint16
	EcuID       string
	SessionID   uint32
	Timestamp   uint32
	HasExtended bool

	// PayloadLength is derived: overall_length minus every header section
	// present (standard + optional extended), never framed directly.
	PayloadLength uint16
}

// HasEcuID reports whether the WEID flag was set.
func (h StandardHeader) HasEcuID() bool { return h.HeaderType&FlagWEID != 0 }

// HasSessionID reports whether the WSID flag was set.
func (h StandardHeader) HasSessionID() bool { return h.HeaderType&FlagWSID != 0 }

// HasTimestamp reports whether the WTMS flag was set.
func (h StandardHeader) HasTimestamp() bool { return h.HeaderType&FlagWTMS != 0 }

// ParseStandardHeader reads header_type, message_counter, overall_length,
// then the optional ECU id / session id / timestamp fields the header_type
// flag bits declare present. payload_length is then derived as
// overall_length minus the standard-header bytes actually present, minus
// the extended-header size if UEH is set; overall_length smaller than that
// sum is an unrecoverable invariant violation (§3, §8 boundary case).
func ParseStandardHeader(data []byte) (rest []byte, hdr StandardHeader, err error) {
	c := cursor.New(data, endian.GetBigEndianEngine())

	headerType, err := c.Uint8()
	if err != nil {
		return nil, StandardHeader{}, err
	}

	msgCounter, err := c.Uint8()
	if err != nil {
		return nil, StandardHeader{}, err
	}

	overallLen, err := c.Uint16()
	if err != nil {
		return nil, StandardHeader{}, err
	}

	hdr = StandardHeader{
		HeaderType:  headerType,
		Version:     (headerType >> versionShift) & versionMask,
		Endianness:  endian.EngineForMSBF(headerType&FlagMSBF != 0),
		MsgCounter:  msgCounter,
		OverallLen:  overallLen,
		HasExtended: headerType&FlagUEH != 0,
	}

	if hdr.HasEcuID() {
		raw, err := c.Bytes(ecuIDFieldSize)
		if err != nil {
			return nil, StandardHeader{}, err
		}
		hdr.EcuID = dltstring.Truncate(raw)
	}

	if hdr.HasSessionID() {
		v, err := c.Uint32()
		if err != nil {
			return nil, StandardHeader{}, err
		}
		hdr.SessionID = v
	}

	if hdr.HasTimestamp() {
		v, err := c.Uint32()
		if err != nil {
			return nil, StandardHeader{}, err
		}
		hdr.Timestamp = v
	}

	headerBytes := standardHeaderBytes(headerType)
	if hdr.HasExtended {
		headerBytes += ExtendedHeaderSize
	}

	if int(overallLen) < headerBytes {
		return nil, StandardHeader{}, errs.NewUnrecoverable("header.ParseStandardHeader",
			fmt.Errorf("%w: %d (message only has %d bytes)", errs.ErrInvalidHeaderLength, headerBytes, overallLen))
	}

	hdr.PayloadLength = overallLen - uint16(headerBytes)

	return c.Rest(), hdr, nil
}
