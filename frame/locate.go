// Package frame finds the next storage-header signature in a byte stream
// and reports how many leading bytes had to be dropped to reach it.
package frame

import (
	"bytes"

	"github.com/dltview/dltidx/header"
)

// Locate scans data for the 4-byte storage magic. It reports the number of
// bytes that would have to be dropped to align on the magic (0 if data
// already starts with it) and whether the magic was found at all. Locate
// does no I/O and has no channel dependency — the caller (the streaming
// indexer) is responsible for turning a non-zero drop count or a failed
// locate into a progress notification.
func Locate(data []byte) (drop int, ok bool) {
	idx := bytes.Index(data, header.StorageMagic[:])
	if idx < 0 {
		return 0, false
	}
	return idx, true
}
