package payload

import (
	"fmt"

	"github.com/dltview/dltidx/endian"
	"github.com/dltview/dltidx/errs"
	"github.com/dltview/dltidx/format"
	"github.com/dltview/dltidx/internal/cursor"
	"github.com/dltview/dltidx/internal/dltstring"
)

// DecodeVerbose reads exactly argCount arguments from data, in payload
// endianness. A malformed argument (unrecognized type_info, or a short
// read) aborts the whole message — the caller wraps the error in an
// errs.Hickup so the indexer skips forward and keeps going (§4.4, §7).
func DecodeVerbose(data []byte, engine endian.EndianEngine, argCount uint8) ([]Argument, error) {
	c := cursor.New(data, engine)
	args := make([]Argument, 0, argCount)

	for i := uint8(0); i < argCount; i++ {
		raw, err := c.Uint32()
		if err != nil {
			return nil, err
		}
		ti, err := decodeTypeInfo(raw)
		if err != nil {
			return nil, err
		}

		arg, err := decodeArgument(c, ti)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	return args, nil
}

func decodeArgument(c *cursor.Cursor, ti TypeInfo) (Argument, error) {
	switch ti.Kind {
	case format.KindSigned:
		name, unit, hasName, hasUnit, err := readNameAndUnit(c, ti.HasVariableInfo)
		if err != nil {
			return Argument{}, err
		}
		val, err := readSigned(c, ti.Width)
		if err != nil {
			return Argument{}, err
		}
		return Argument{TypeInfo: ti, Name: name, Unit: unit, HasName: hasName, HasUnit: hasUnit, Value: val}, nil

	case format.KindSignedFixedPoint:
		name, unit, hasName, hasUnit, err := readNameAndUnit(c, ti.HasVariableInfo)
		if err != nil {
			return Argument{}, err
		}
		fp, err := readFixedPoint(c, ti.Width)
		if err != nil {
			return Argument{}, err
		}
		val, err := readSigned(c, ti.Width)
		if err != nil {
			return Argument{}, err
		}
		val.Kind = ti.Kind
		return Argument{TypeInfo: ti, Name: name, Unit: unit, HasName: hasName, HasUnit: hasUnit, FixedPoint: &fp, Value: val}, nil

	case format.KindUnsigned:
		name, unit, hasName, hasUnit, err := readNameAndUnit(c, ti.HasVariableInfo)
		if err != nil {
			return Argument{}, err
		}
		val, err := readUnsigned(c, ti.Width)
		if err != nil {
			return Argument{}, err
		}
		return Argument{TypeInfo: ti, Name: name, Unit: unit, HasName: hasName, HasUnit: hasUnit, Value: val}, nil

	case format.KindUnsignedFixedPoint:
		name, unit, hasName, hasUnit, err := readNameAndUnit(c, ti.HasVariableInfo)
		if err != nil {
			return Argument{}, err
		}
		fp, err := readFixedPoint(c, ti.Width)
		if err != nil {
			return Argument{}, err
		}
		val, err := readUnsigned(c, ti.Width)
		if err != nil {
			return Argument{}, err
		}
		val.Kind = ti.Kind
		return Argument{TypeInfo: ti, Name: name, Unit: unit, HasName: hasName, HasUnit: hasUnit, FixedPoint: &fp, Value: val}, nil

	case format.KindFloat:
		name, unit, hasName, hasUnit, err := readNameAndUnit(c, ti.HasVariableInfo)
		if err != nil {
			return Argument{}, err
		}
		val, err := readFloat(c, ti.Width)
		if err != nil {
			return Argument{}, err
		}
		return Argument{TypeInfo: ti, Name: name, Unit: unit, HasName: hasName, HasUnit: hasUnit, Value: val}, nil

	case format.KindRaw:
		byteCount, err := c.Uint16()
		if err != nil {
			return Argument{}, err
		}
		name, hasName, err := readName(c, ti.HasVariableInfo)
		if err != nil {
			return Argument{}, err
		}
		raw, err := c.Bytes(int(byteCount))
		if err != nil {
			return Argument{}, err
		}
		buf := make([]byte, len(raw))
		copy(buf, raw)
		return Argument{TypeInfo: ti, Name: name, HasName: hasName, Value: Value{Kind: ti.Kind, Raw: buf}}, nil

	case format.KindBool:
		name, hasName, err := readName(c, ti.HasVariableInfo)
		if err != nil {
			return Argument{}, err
		}
		b, err := c.Uint8()
		if err != nil {
			return Argument{}, err
		}
		return Argument{TypeInfo: ti, Name: name, HasName: hasName, Value: Value{Kind: ti.Kind, Bool: b != 0}}, nil

	case format.KindString:
		size, err := c.Uint16()
		if err != nil {
			return Argument{}, err
		}
		name, hasName, err := readName(c, ti.HasVariableInfo)
		if err != nil {
			return Argument{}, err
		}
		raw, err := c.Bytes(int(size))
		if err != nil {
			return Argument{}, err
		}
		return Argument{TypeInfo: ti, Name: name, HasName: hasName, Value: Value{Kind: ti.Kind, Str: dltstring.Truncate(raw)}}, nil

	default:
		return Argument{}, fmt.Errorf("%w: kind %v", errs.ErrUnknownTypeInfo, ti.Kind)
	}
}

// readNameAndUnit reads the optional 2×u16 lengths plus the name/unit
// zero-terminated strings present when has_variable_info is set.
func readNameAndUnit(c *cursor.Cursor, hasVariableInfo bool) (name, unit string, hasName, hasUnit bool, err error) {
	if !hasVariableInfo {
		return "", "", false, false, nil
	}
	nameSize, err := c.Uint16()
	if err != nil {
		return "", "", false, false, err
	}
	unitSize, err := c.Uint16()
	if err != nil {
		return "", "", false, false, err
	}
	nameRaw, err := c.Bytes(int(nameSize))
	if err != nil {
		return "", "", false, false, err
	}
	unitRaw, err := c.Bytes(int(unitSize))
	if err != nil {
		return "", "", false, false, err
	}
	return dltstring.Truncate(nameRaw), dltstring.Truncate(unitRaw), true, true, nil
}

// readName reads the single length-prefixed name carried by Raw/Bool/String
// arguments when has_variable_info is set (no accompanying unit).
func readName(c *cursor.Cursor, hasVariableInfo bool) (name string, hasName bool, err error) {
	if !hasVariableInfo {
		return "", false, nil
	}
	size, err := c.Uint16()
	if err != nil {
		return "", false, err
	}
	raw, err := c.Bytes(int(size))
	if err != nil {
		return "", false, err
	}
	return dltstring.Truncate(raw), true, nil
}

func readFixedPoint(c *cursor.Cursor, width format.Width) (FixedPoint, error) {
	q, err := c.Float32()
	if err != nil {
		return FixedPoint{}, err
	}
	switch width {
	case format.Width32:
		off, err := c.Int32()
		if err != nil {
			return FixedPoint{}, err
		}
		return FixedPoint{Quantization: q, Offset: FixedPointValue{Width: format.Width32, Offset32: off}}, nil
	case format.Width64:
		off, err := c.Int64()
		if err != nil {
			return FixedPoint{}, err
		}
		return FixedPoint{Quantization: q, Offset: FixedPointValue{Width: format.Width64, Offset64: off}}, nil
	default:
		return FixedPoint{}, fmt.Errorf("%w: fixed point width %v", errs.ErrUnknownTypeInfo, width)
	}
}

func readSigned(c *cursor.Cursor, width format.Width) (Value, error) {
	switch width {
	case format.Width8:
		v, err := c.Int8()
		return Value{Kind: format.KindSigned, Int: int64(v)}, err
	case format.Width16:
		v, err := c.Int16()
		return Value{Kind: format.KindSigned, Int: int64(v)}, err
	case format.Width32:
		v, err := c.Int32()
		return Value{Kind: format.KindSigned, Int: int64(v)}, err
	case format.Width64:
		v, err := c.Int64()
		return Value{Kind: format.KindSigned, Int: v}, err
	case format.Width128:
		hi, lo, err := c.Uint128()
		return Value{Kind: format.KindSigned, IntHi: hi, IntLo: lo, Is128: true}, err
	default:
		return Value{}, fmt.Errorf("%w: signed width %v", errs.ErrUnknownTypeInfo, width)
	}
}

func readUnsigned(c *cursor.Cursor, width format.Width) (Value, error) {
	switch width {
	case format.Width8:
		v, err := c.Uint8()
		return Value{Kind: format.KindUnsigned, Uint: uint64(v)}, err
	case format.Width16:
		v, err := c.Uint16()
		return Value{Kind: format.KindUnsigned, Uint: uint64(v)}, err
	case format.Width32:
		v, err := c.Uint32()
		return Value{Kind: format.KindUnsigned, Uint: uint64(v)}, err
	case format.Width64:
		v, err := c.Uint64()
		return Value{Kind: format.KindUnsigned, Uint: v}, err
	case format.Width128:
		hi, lo, err := c.Uint128()
		return Value{Kind: format.KindUnsigned, IntHi: hi, IntLo: lo, Is128: true}, err
	default:
		return Value{}, fmt.Errorf("%w: unsigned width %v", errs.ErrUnknownTypeInfo, width)
	}
}

func readFloat(c *cursor.Cursor, width format.Width) (Value, error) {
	switch width {
	case format.Width32:
		v, err := c.Float32()
		return Value{Kind: format.KindFloat, Float32: v}, err
	case format.Width64:
		v, err := c.Float64()
		return Value{Kind: format.KindFloat, Float64: v}, err
	default:
		return Value{}, fmt.Errorf("%w: float width %v", errs.ErrUnknownTypeInfo, width)
	}
}
