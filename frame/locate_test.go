package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dltview/dltidx/header"
)

func TestLocateAtStart(t *testing.T) {
	data := append(append([]byte{}, header.StorageMagic[:]...), 0x01, 0x02)
	drop, ok := Locate(data)
	require.True(t, ok)
	require.Equal(t, 0, drop)
}

func TestLocateAfterGarbage(t *testing.T) {
	garbage := []byte{0xAA, 0xBB, 0xCC}
	data := append(append([]byte{}, garbage...), header.StorageMagic[:]...)
	drop, ok := Locate(data)
	require.True(t, ok)
	require.Equal(t, len(garbage), drop)
}

func TestLocateNotFound(t *testing.T) {
	data := []byte{0xAA, 0xBB, 0xCC, 0x44, 0x4C, 0x54} // magic truncated, no trailing 0x01
	_, ok := Locate(data)
	require.False(t, ok)
}

func TestLocateEmpty(t *testing.T) {
	_, ok := Locate(nil)
	require.False(t, ok)
}
