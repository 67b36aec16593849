package payload

import (
	"fmt"

	"github.com/dltview/dltidx/errs"
	"github.com/dltview/dltidx/format"
)

// Control is the decoded payload of a Control message: a leading control
// message id byte (mapped to the closed format.ControlMessageID enum, with
// unknown ids surfaced as format.ControlMessageUnknown) plus an opaque
// remainder (§4.4).
type Control struct {
	ID   format.ControlMessageID
	Data []byte
}

var knownControlIDs = map[byte]format.ControlMessageID{
	byte(format.ControlMessageSetLogLevel):           format.ControlMessageSetLogLevel,
	byte(format.ControlMessageSetTraceStatus):        format.ControlMessageSetTraceStatus,
	byte(format.ControlMessageGetLogInfo):             format.ControlMessageGetLogInfo,
	byte(format.ControlMessageGetDefaultLogLevel):     format.ControlMessageGetDefaultLogLevel,
	byte(format.ControlMessageStoreConfig):            format.ControlMessageStoreConfig,
	byte(format.ControlMessageResetFactoryDefault):    format.ControlMessageResetFactoryDefault,
	byte(format.ControlMessageSetDefaultLogLevel):     format.ControlMessageSetDefaultLogLevel,
	byte(format.ControlMessageSetDefaultTraceStat):    format.ControlMessageSetDefaultTraceStat,
	byte(format.ControlMessageGetSoftwareVersion):     format.ControlMessageGetSoftwareVersion,
	byte(format.ControlMessageMessageBufferOverflow):  format.ControlMessageMessageBufferOverflow,
}

// DecodeControl reads the control message id and keeps the remainder
// opaque. A payload shorter than 1 byte is a per-frame Hickup (§4.4
// boundary case).
func DecodeControl(data []byte) (Control, error) {
	if len(data) < 1 {
		return Control{}, fmt.Errorf("%w: payload empty", errs.ErrShortControl)
	}
	id, ok := knownControlIDs[data[0]]
	if !ok {
		id = format.ControlMessageUnknown
	}
	return Control{ID: id, Data: data[1:]}, nil
}
