// Package cursor implements a bounds-checked, forward-only sequential
// reader over a byte slice, parameterized by endian.EndianEngine.
//
// This is the byte-order reader capability described by the spec: it
// distinguishes a short read (errs.ErrIncomplete, "need n more bytes, may
// succeed once buffered") from the caller's own notion of a malformed
// field, which the caller reports separately. The cursor itself never
// backtracks — each read advances its position — matching the parser's
// forward-only contract.
package cursor

import (
	"math"

	"github.com/dltview/dltidx/endian"
	"github.com/dltview/dltidx/errs"
)

// Cursor reads primitives sequentially from data under engine's byte
// order. Cursor is not safe for concurrent use.
type Cursor struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

// New creates a Cursor over data using engine for multi-byte fields.
func New(data []byte, engine endian.EndianEngine) *Cursor {
	return &Cursor{data: data, engine: engine}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Rest returns the unread tail of data without consuming it.
func (c *Cursor) Rest() []byte { return c.data[c.pos:] }

// Skip advances the cursor by n bytes without interpreting them.
func (c *Cursor) Skip(n int) error {
	_, err := c.Bytes(n)
	return err
}

// Bytes consumes and returns the next n bytes.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if c.Remaining() < n {
		return nil, errs.NewIncomplete("cursor.Bytes", n-c.Remaining())
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Uint8 reads an endian-independent unsigned byte.
func (c *Cursor) Uint8() (uint8, error) {
	b, err := c.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Int8 reads an endian-independent signed byte.
func (c *Cursor) Int8() (int8, error) {
	v, err := c.Uint8()
	return int8(v), err
}

// Uint16 reads a 16-bit unsigned integer under the cursor's engine.
func (c *Cursor) Uint16() (uint16, error) {
	b, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}
	return c.engine.Uint16(b), nil
}

// Int16 reads a 16-bit signed integer under the cursor's engine.
func (c *Cursor) Int16() (int16, error) {
	v, err := c.Uint16()
	return int16(v), err
}

// Uint32 reads a 32-bit unsigned integer under the cursor's engine.
func (c *Cursor) Uint32() (uint32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return c.engine.Uint32(b), nil
}

// Int32 reads a 32-bit signed integer under the cursor's engine.
func (c *Cursor) Int32() (int32, error) {
	v, err := c.Uint32()
	return int32(v), err
}

// Uint64 reads a 64-bit unsigned integer under the cursor's engine.
func (c *Cursor) Uint64() (uint64, error) {
	b, err := c.Bytes(8)
	if err != nil {
		return 0, err
	}
	return c.engine.Uint64(b), nil
}

// Int64 reads a 64-bit signed integer under the cursor's engine.
func (c *Cursor) Int64() (int64, error) {
	v, err := c.Uint64()
	return int64(v), err
}

// Uint128 reads a 128-bit unsigned integer as (high, low) 64-bit halves
// under the cursor's engine; see endian.Uint128.
func (c *Cursor) Uint128() (hi, lo uint64, err error) {
	b, err := c.Bytes(16)
	if err != nil {
		return 0, 0, err
	}
	hi, lo = endian.Uint128(c.engine, b)
	return hi, lo, nil
}

// Float32 reads an IEEE-754 32-bit float under the cursor's engine.
func (c *Cursor) Float32() (float32, error) {
	v, err := c.Uint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Float64 reads an IEEE-754 64-bit float under the cursor's engine.
func (c *Cursor) Float64() (float64, error) {
	v, err := c.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}
