package index

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dltview/dltidx/format"
	"github.com/dltview/dltidx/internal/pool"
	"github.com/dltview/dltidx/payload"
)

// formatLine renders msg as a single canonical output line:
// "<tag>\t<line_nr>\t<payload text>\n" (§4.5).
func formatLine(tag string, lineNr uint64, msg *Message) string {
	bb := pool.NewByteBuffer(64)
	formatLineInto(bb, tag, lineNr, msg)
	return string(bb.Bytes())
}

// formatLineInto renders the same line as formatLine, but appends it to a
// pooled buffer instead of allocating a fresh string — Run reuses one
// buffer from lineBufferPool across the whole loop instead of allocating
// per message.
func formatLineInto(bb *pool.ByteBuffer, tag string, lineNr uint64, msg *Message) {
	bb.MustWrite([]byte(tag))
	bb.MustWrite([]byte{'\t'})
	bb.B = strconv.AppendUint(bb.B, lineNr, 10)
	bb.MustWrite([]byte{'\t'})
	bb.MustWrite([]byte(formatPayload(msg)))
	bb.MustWrite([]byte{'\n'})
}

func formatPayload(msg *Message) string {
	switch msg.Payload.Kind {
	case payload.KindVerbose:
		return formatVerbose(msg.Payload.Verbose)
	case payload.KindControl:
		return fmt.Sprintf("ctrl:%s %x", msg.Payload.Control.ID, msg.Payload.Control.Data)
	case payload.KindNonVerbose:
		return fmt.Sprintf("msg_id:0x%x %x", msg.Payload.NonVerbose.MessageID, msg.Payload.NonVerbose.Data)
	default:
		return ""
	}
}

func formatVerbose(args []payload.Argument) string {
	parts, cleanup := pool.GetStringSlice(len(args))
	defer cleanup()
	for i, a := range args {
		parts[i] = formatArgument(a)
	}
	return strings.Join(parts, " ")
}

func formatArgument(a payload.Argument) string {
	var v string
	switch a.Value.Kind {
	case format.KindBool:
		v = strconv.FormatBool(a.Value.Bool)
	case format.KindSigned, format.KindSignedFixedPoint:
		if a.Value.Is128 {
			v = fmt.Sprintf("0x%016x%016x", a.Value.IntHi, a.Value.IntLo)
		} else {
			v = strconv.FormatInt(a.Value.Int, 10)
		}
	case format.KindUnsigned, format.KindUnsignedFixedPoint:
		if a.Value.Is128 {
			v = fmt.Sprintf("0x%016x%016x", a.Value.IntHi, a.Value.IntLo)
		} else {
			v = strconv.FormatUint(a.Value.Uint, 10)
		}
	case format.KindFloat:
		if a.TypeInfo.Width == format.Width64 {
			v = strconv.FormatFloat(a.Value.Float64, 'g', -1, 64)
		} else {
			v = strconv.FormatFloat(float64(a.Value.Float32), 'g', -1, 32)
		}
	case format.KindRaw:
		v = fmt.Sprintf("%x", a.Value.Raw)
	case format.KindString:
		v = a.Value.Str
	}
	if a.HasName {
		return a.Name + "=" + v
	}
	return v
}
