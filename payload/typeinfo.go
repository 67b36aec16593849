package payload

import (
	"fmt"

	"github.com/dltview/dltidx/errs"
	"github.com/dltview/dltidx/format"
)

// type_info bit layout (AUTOSAR DLT, always read in payload endianness).
const (
	typeLenMask     = 0x0000000F
	bitBool         = 1 << 4
	bitSigned       = 1 << 5
	bitUnsigned     = 1 << 6
	bitFloat        = 1 << 7
	bitArray        = 1 << 8
	bitString       = 1 << 9
	bitRaw          = 1 << 10
	bitVariableInfo = 1 << 11
	bitFixedPoint   = 1 << 12
	bitTraceInfo    = 1 << 13
	bitStruct       = 1 << 14
)

// TypeInfo is the decoded leading word of a verbose argument.
type TypeInfo struct {
	Kind            format.TypeInfoKind
	Width           format.Width
	HasVariableInfo bool
	Raw             uint32
}

func lengthToWidth(tyle uint32) (format.Width, bool) {
	switch tyle {
	case 0x1:
		return format.Width8, true
	case 0x2:
		return format.Width16, true
	case 0x3:
		return format.Width32, true
	case 0x4:
		return format.Width64, true
	case 0x5:
		return format.Width128, true
	default:
		return 0, false
	}
}

// decodeTypeInfo classifies a raw type_info word. An unrecognized
// combination of kind bits, or a TYLE nibble outside 1..5, is reported as
// ErrUnknownTypeInfo — the caller turns this into a recoverable per-message
// Hickup (§4.4, §7).
func decodeTypeInfo(raw uint32) (TypeInfo, error) {
	width, widthOK := lengthToWidth(raw & typeLenMask)
	fixed := raw&bitFixedPoint != 0
	ti := TypeInfo{
		Width:           width,
		HasVariableInfo: raw&bitVariableInfo != 0,
		Raw:             raw,
	}

	switch {
	case raw&bitBool != 0:
		ti.Kind = format.KindBool
	case raw&bitSigned != 0 && !widthOK:
		return TypeInfo{}, fmt.Errorf("%w: 0x%08x (bad TYLE)", errs.ErrUnknownTypeInfo, raw)
	case raw&bitSigned != 0 && fixed:
		ti.Kind = format.KindSignedFixedPoint
	case raw&bitSigned != 0:
		ti.Kind = format.KindSigned
	case raw&bitUnsigned != 0 && !widthOK:
		return TypeInfo{}, fmt.Errorf("%w: 0x%08x (bad TYLE)", errs.ErrUnknownTypeInfo, raw)
	case raw&bitUnsigned != 0 && fixed:
		ti.Kind = format.KindUnsignedFixedPoint
	case raw&bitUnsigned != 0:
		ti.Kind = format.KindUnsigned
	case raw&bitFloat != 0:
		if width != format.Width32 && width != format.Width64 {
			return TypeInfo{}, fmt.Errorf("%w: 0x%08x (bad float width)", errs.ErrUnknownTypeInfo, raw)
		}
		ti.Kind = format.KindFloat
	case raw&bitRaw != 0:
		ti.Kind = format.KindRaw
	case raw&bitString != 0:
		ti.Kind = format.KindString
	default:
		return TypeInfo{}, fmt.Errorf("%w: 0x%08x (no recognized kind bit)", errs.ErrUnknownTypeInfo, raw)
	}

	return ti, nil
}
