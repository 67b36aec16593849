package payload

import (
	"fmt"

	"github.com/dltview/dltidx/endian"
	"github.com/dltview/dltidx/errs"
	"github.com/dltview/dltidx/internal/cursor"
)

// NonVerbose is the decoded payload of a verbose=0, non-control message:
// a message id plus an opaque byte blob left for an external FIBEX
// collaborator to resolve (§4.4, §9).
type NonVerbose struct {
	MessageID uint32
	Data      []byte
}

// DecodeNonVerbose reads the 4-byte message id and keeps the remainder
// opaque. A payload shorter than 4 bytes is a per-frame Hickup, not a
// stream-ending Unrecoverable — the message is abandoned and the indexer
// resynchronizes (§4.4 boundary case).
func DecodeNonVerbose(data []byte, engine endian.EndianEngine) (NonVerbose, error) {
	if len(data) < 4 {
		return NonVerbose{}, fmt.Errorf("%w: have %d bytes", errs.ErrShortNonVerbose, len(data))
	}
	c := cursor.New(data, engine)
	id, err := c.Uint32()
	if err != nil {
		return NonVerbose{}, err
	}
	return NonVerbose{MessageID: id, Data: c.Rest()}, nil
}
