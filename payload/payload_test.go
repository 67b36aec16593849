package payload

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dltview/dltidx/endian"
	"github.com/dltview/dltidx/format"
	"github.com/dltview/dltidx/header"
)

func TestDecodeControlS1(t *testing.T) {
	ext := header.ExtendedHeader{
		Verbose: false,
		MessageType: header.MessageType{
			Major:     format.MajorControl,
			ControlOp: format.ControlRequest,
		},
	}
	data := []byte{0x11, 0x00, 0x00, 0x00, 0x04, 0x72, 0x65, 0x6D, 0x6F}

	p, err := Decode(data, endian.GetLittleEndianEngine(), ext)
	require.NoError(t, err)
	require.Equal(t, KindControl, p.Kind)
	require.Equal(t, format.ControlMessageSetDefaultLogLevel, p.Control.ID)
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x04, 0x72, 0x65, 0x6D, 0x6F}, p.Control.Data)
}

func TestDecodeControlUnknownID(t *testing.T) {
	ctrl, err := DecodeControl([]byte{0xEE, 0x01})
	require.NoError(t, err)
	require.Equal(t, format.ControlMessageUnknown, ctrl.ID)
}

func TestDecodeControlEmpty(t *testing.T) {
	_, err := DecodeControl(nil)
	require.Error(t, err)
}

func TestDecodeNonVerbose(t *testing.T) {
	data := []byte{0x00, 0x00, 0x01, 0x00, 0xAA, 0xBB}
	nv, err := DecodeNonVerbose(data, endian.GetLittleEndianEngine())
	require.NoError(t, err)
	require.Equal(t, uint32(0x00010000), nv.MessageID)
	require.Equal(t, []byte{0xAA, 0xBB}, nv.Data)
}

func TestDecodeNonVerboseTooShort(t *testing.T) {
	_, err := DecodeNonVerbose([]byte{0x01, 0x02}, endian.GetLittleEndianEngine())
	require.Error(t, err)
}

func TestDecodeVerboseUnsigned32(t *testing.T) {
	// type_info: UINT | TYLE=32bit (0x3) -> bit6 | 0x3 = 0x43
	data := []byte{
		0x43, 0x00, 0x00, 0x00, // type_info little-endian
		0x2A, 0x00, 0x00, 0x00, // value = 42
	}
	args, err := DecodeVerbose(data, endian.GetLittleEndianEngine(), 1)
	require.NoError(t, err)
	require.Len(t, args, 1)
	require.Equal(t, format.KindUnsigned, args[0].Value.Kind)
	require.Equal(t, uint64(42), args[0].Value.Uint)
}

func TestDecodeVerboseBoolWithName(t *testing.T) {
	// type_info: BOOL | VARI -> bit4 | bit11 = 0x10 | 0x800 = 0x810
	data := []byte{
		0x10, 0x08, 0x00, 0x00, // type_info
		0x02, 0x00, // name size = 2
		'o', 'k', // name "ok"
		0x01, // bool value = true
	}
	args, err := DecodeVerbose(data, endian.GetLittleEndianEngine(), 1)
	require.NoError(t, err)
	require.Len(t, args, 1)
	require.True(t, args[0].HasName)
	require.Equal(t, "ok", args[0].Name)
	require.True(t, args[0].Value.Bool)
}

func TestDecodeVerboseUnknownTypeInfo(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00} // no kind bit set at all
	_, err := DecodeVerbose(data, endian.GetLittleEndianEngine(), 1)
	require.Error(t, err)
}

func TestDecodeVerboseString(t *testing.T) {
	// type_info: STRG -> bit9 = 0x200
	data := []byte{
		0x00, 0x02, 0x00, 0x00, // type_info little-endian
		0x04, 0x00, // size = 4
		'h', 'i', 0x00, 0x00, // zero-terminated + padding
	}
	args, err := DecodeVerbose(data, endian.GetLittleEndianEngine(), 1)
	require.NoError(t, err)
	require.Equal(t, "hi", args[0].Value.Str)
}
