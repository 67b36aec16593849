// Package format defines the small closed enumerations shared across the
// DLT message model (log levels, trace/control kinds, verbose-argument
// type info) and the capture source compression types detected by the
// source package.
package format

// CompressionType identifies the compression codec wrapping a capture
// source, as sniffed by the source package. It is distinct from any DLT
// wire-format field: DLT messages themselves are never compressed, only
// the container they are shipped in (e.g. a zstd-, S2- or LZ4-compressed
// .dlt file).
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 (Snappy-derived) compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
