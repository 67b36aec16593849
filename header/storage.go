package header

import (
	"bytes"
	"fmt"

	"github.com/dltview/dltidx/endian"
	"github.com/dltview/dltidx/errs"
	"github.com/dltview/dltidx/internal/cursor"
	"github.com/dltview/dltidx/internal/dltstring"
)

// Timestamp is the storage header's capture-time timestamp: seconds plus
// a microsecond fraction, kept as two raw fields rather than collapsed
// into a single time.Time so the original wire values round-trip exactly.
type Timestamp struct {
	Seconds      uint32
	Microseconds uint32
}

// StorageHeader is the 16-byte prefix present only in stored captures
// (file sources); live socket frames carry no storage header at all.
type StorageHeader struct {
	Timestamp Timestamp
	EcuID     string
}

// ParseStorageHeader consumes the magic, the 8-byte timestamp, and the
// 4-byte NUL-padded ECU id. Input shorter than StorageHeaderSize yields an
// errs.Unrecoverable incomplete error. Otherwise it fails (as an errs.Hickup,
// not fatal to the whole run) only if the magic bytes are not present at all — the caller
// is expected to have already located the magic via the frame locator, so
// this should only trigger on a caller bug or a byte stream that was
// resynchronized incorrectly.
func ParseStorageHeader(data []byte) (rest []byte, hdr StorageHeader, err error) {
	if len(data) < StorageHeaderSize {
		return nil, StorageHeader{}, errs.NewIncomplete("header.ParseStorageHeader", StorageHeaderSize-len(data))
	}

	if !bytes.Equal(data[0:4], StorageMagic[:]) {
		return nil, StorageHeader{}, errs.NewHickup("header.ParseStorageHeader", errs.ErrShortStorageMagic)
	}

	// Storage header fields are plain headers, always big-endian on the
	// wire (§6) — independent of the MSBF-selected payload endianness.
	c := cursor.New(data[4:StorageHeaderSize], endian.GetBigEndianEngine())

	seconds, err := c.Uint32()
	if err != nil {
		return nil, StorageHeader{}, errs.NewUnrecoverable("header.ParseStorageHeader", err)
	}

	micros, err := c.Uint32()
	if err != nil {
		return nil, StorageHeader{}, errs.NewUnrecoverable("header.ParseStorageHeader", err)
	}

	ecuRaw, err := c.Bytes(4)
	if err != nil {
		return nil, StorageHeader{}, errs.NewUnrecoverable("header.ParseStorageHeader", err)
	}

	hdr = StorageHeader{
		Timestamp: Timestamp{Seconds: seconds, Microseconds: micros},
		EcuID:     dltstring.Truncate(ecuRaw),
	}

	return data[StorageHeaderSize:], hdr, nil
}

// String renders the storage header for diagnostic output only.
func (h StorageHeader) String() string {
	return fmt.Sprintf("%s %d.%06d", h.EcuID, h.Timestamp.Seconds, h.Timestamp.Microseconds)
}
