// Package source opens a byte source for ingestion and transparently
// wraps it in a streaming decompressor when the capture was stored
// zstd, S2 or LZ4 compressed; any other stream (gzip included) is passed
// through as is. Sniffing is based on each format's leading magic bytes, the
// same format.CompressionType enumeration the teacher's compress package
// already uses for its block-based codecs (§9 "domain stack" expansion).
package source

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/dltview/dltidx/format"
)

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
	s2Magic   = []byte{0xFF, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}
)

const sniffWindow = 10

// Sniff peeks at the leading bytes of r (without consuming them from the
// caller's perspective — the returned io.Reader replays them) and reports
// which compression, if any, the stream appears to carry.
func Sniff(r io.Reader) (format.CompressionType, io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffWindow+1)
	peek, err := br.Peek(sniffWindow)
	if err != nil && err != io.EOF {
		return format.CompressionNone, br, err
	}

	switch {
	case hasPrefix(peek, zstdMagic):
		return format.CompressionZstd, br, nil
	case hasPrefix(peek, lz4Magic):
		return format.CompressionLZ4, br, nil
	case hasPrefix(peek, s2Magic):
		return format.CompressionS2, br, nil
	default:
		return format.CompressionNone, br, nil
	}
}

func hasPrefix(data, magic []byte) bool {
	if len(data) < len(magic) {
		return false
	}
	for i, b := range magic {
		if data[i] != b {
			return false
		}
	}
	return true
}

// Open wraps r in the appropriate streaming decompressor after sniffing
// its leading bytes. The returned io.Reader yields the decompressed (or,
// for CompressionNone, the original) byte stream. Callers that no longer
// need the zstd decoder should call Close on the returned closer, if one
// is returned; CompressionNone and S2/LZ4 readers have nothing to close.
func Open(r io.Reader) (io.Reader, io.Closer, error) {
	kind, peeked, err := Sniff(r)
	if err != nil {
		return nil, nil, err
	}

	switch kind {
	case format.CompressionZstd:
		dec, err := zstd.NewReader(peeked, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, err
		}
		rc := dec.IOReadCloser()
		return rc, rc, nil
	case format.CompressionLZ4:
		return lz4.NewReader(peeked), nil, nil
	case format.CompressionS2:
		return s2.NewReader(peeked), nil, nil
	default:
		return peeked, nil, nil
	}
}
