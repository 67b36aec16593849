package payload

import "github.com/dltview/dltidx/format"

// Value is the tagged union of a verbose argument's decoded payload. Kind
// mirrors TypeInfo.Kind; exactly one of the typed fields below is
// meaningful for any given Kind, matching the teacher's preference for
// concrete struct fields over a boxed interface{} in the hot decode path.
type Value struct {
	Kind format.TypeInfoKind

	Bool    bool
	Int     int64 // Signed 8/16/32/64; for 128-bit see IntHi/IntLo
	Uint    uint64
	IntHi   uint64 // high 64 bits of a 128-bit signed/unsigned value
	IntLo   uint64
	Is128   bool
	Float32 float32
	Float64 float64
	Raw     []byte
	Str     string
}

// FixedPointValue carries the signed offset of a *FixedPoint argument, at
// the same width as the underlying value (§4.4).
type FixedPointValue struct {
	Width  format.Width // Width32 or Width64
	Offset32 int32
	Offset64 int64
}

// FixedPoint is the quantization/offset pair preceding a *FixedPoint
// argument's value.
type FixedPoint struct {
	Quantization float32
	Offset       FixedPointValue
}

// Argument is one decoded verbose-mode payload element.
type Argument struct {
	TypeInfo   TypeInfo
	Name       string
	Unit       string
	HasName    bool
	HasUnit    bool
	FixedPoint *FixedPoint
	Value      Value
}
