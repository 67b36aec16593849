// Package endian provides byte order utilities for binary encoding and decoding.
//
// This package extends Go's standard encoding/binary package by combining
// ByteOrder and AppendByteOrder interfaces into a unified EndianEngine interface.
// This enables cleaner API design and improved performance for binary data operations.
//
// This is the only place in dltidx where endianness branching lives. The
// standard header is always big-endian on the wire (use GetBigEndianEngine
// directly); a message's payload endianness is decided per-message by the
// MSBF bit of header_type and selected once via EngineForMSBF, then threaded
// through the rest of that message's decode as a plain EndianEngine value —
// every higher decoder (header, payload) is written generically against the
// interface and never branches on endianness itself.
//
// # Basic Usage
//
//	engine := endian.EngineForMSBF(standardHeader.MSBF)
//	v := engine.Uint32(data)
//
// # Performance
//
// Using EndianEngine (which includes AppendByteOrder) provides approximately 30%
// better performance for appending operations compared to ByteOrder alone:
//
//	// Using EndianEngine (recommended)
//	buf = engine.AppendUint64(buf, value)  // ~30% faster
//
//	// Using ByteOrder only
//	tmp := make([]byte, 8)
//	engine.PutUint64(tmp, value)
//	buf = append(buf, tmp...)  // Slower, extra allocation
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library, making it fully compatible with existing Go code while
// providing access to both read/write and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	// Create a byte slice pointing to the memory address of 'i'.
	// We only need the first byte.
	b := (*[2]byte)(unsafe.Pointer(&i))

	// Check the first byte at the lowest memory address
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// EngineForMSBF returns the big-endian engine when msbf is true (the
// standard header's MSBF flag set) and the little-endian engine otherwise,
// per the DLT wire format's per-message payload endianness.
func EngineForMSBF(msbf bool) EndianEngine {
	if msbf {
		return GetBigEndianEngine()
	}
	return GetLittleEndianEngine()
}

// Uint128 reads a 128-bit unsigned integer as two 64-bit halves under the
// given engine, returning (high, low) in the order the engine's own byte
// order implies (i.e. callers should not reorder these further). The
// standard library has no native 128-bit primitive, so wider verbose
// arguments compose two Uint64 reads.
func Uint128(engine EndianEngine, data []byte) (hi, lo uint64) {
	if engine == binary.BigEndian {
		return engine.Uint64(data[0:8]), engine.Uint64(data[8:16])
	}
	return engine.Uint64(data[8:16]), engine.Uint64(data[0:8])
}
