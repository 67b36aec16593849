package index

import (
	"github.com/dltview/dltidx/header"
	"github.com/dltview/dltidx/payload"
)

// Message is one fully decoded DLT record: the storage header (absent for
// live socket sources), the standard header, the optional extended
// header, and the decoded payload (§3).
type Message struct {
	Storage   header.StorageHeader
	HasStore  bool
	Standard  header.StandardHeader
	Extended  *header.ExtendedHeader
	Payload   payload.Payload
}
