package stats

import (
	"github.com/dltview/dltidx/errs"
	"github.com/dltview/dltidx/header"
)

// record is the sliver of a decoded message the statistics pass actually
// needs: the ids and classification carried by the extended header.
// Payload bytes are never sliced out or decoded.
type record struct {
	EcuID string
	Ext   header.ExtendedHeader
}

// parseOne decodes just enough of one frame to classify it: storage
// header (if present), standard header, and extended header (if UEH is
// set). Unlike index.parseOne it never touches the payload — consumed is
// still derived purely from overall_length, so the caller advances past
// the payload bytes without reading them.
func parseOne(data []byte, withStorageHeader bool) (consumed int, rec record, hasExt bool, err error) {
	rest := data
	storageBytes := 0
	ecuID := ""

	if withStorageHeader {
		r, sh, perr := header.ParseStorageHeader(rest)
		if perr != nil {
			return 0, record{}, false, perr
		}
		storageBytes = header.StorageHeaderSize
		ecuID = sh.EcuID
		rest = r
	}

	afterStd, std, err := header.ParseStandardHeader(rest)
	if err != nil {
		return 0, record{}, false, err
	}

	consumed = storageBytes + int(std.OverallLen)
	if consumed > len(data) {
		return 0, record{}, false, errs.NewIncomplete("stats.parseOne", consumed-len(data))
	}

	if ecuID == "" {
		ecuID = std.EcuID
	}

	if !std.HasExtended {
		return consumed, record{EcuID: ecuID}, false, nil
	}

	_, ext, perr := header.ParseExtendedHeader(afterStd, std.Endianness)
	if perr != nil {
		return 0, record{}, false, perr
	}

	return consumed, record{EcuID: ecuID, Ext: ext}, true, nil
}
