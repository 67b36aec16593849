package dltidx

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dltview/dltidx/chunk"
	"github.com/dltview/dltidx/progress"
)

var s1Frame = []byte{
	0x44, 0x4C, 0x54, 0x01, 0x26, 0x2C, 0xC9, 0x4D, 0xD8, 0xA2, 0x0C, 0x00, 0x45, 0x43, 0x55, 0x00,
	0x35, 0x00, 0x00, 0x1F, 0x45, 0x43, 0x55, 0x00, 0x3F, 0x88, 0x62, 0x3A,
	0x16, 0x01, 0x41, 0x50, 0x50, 0x00, 0x43, 0x4F, 0x4E, 0x00,
	0x11, 0x00, 0x00, 0x00, 0x04, 0x72, 0x65, 0x6D, 0x6F,
}

func TestIndexWritesOneLine(t *testing.T) {
	var out bytes.Buffer
	progressCh := make(chan progress.Event[chunk.Chunk], 8)
	notifyCh := make(chan progress.Notification, 8)

	err := Index(context.Background(), bytes.NewReader(s1Frame), &out, 1, nil, progressCh, notifyCh)
	require.NoError(t, err)

	require.Contains(t, out.String(), "DLT\t1\t")

	var finished bool
	for ev := range progressCh {
		if ev.Kind == progress.KindFinished {
			finished = true
		}
	}
	require.True(t, finished)

	for n := range notifyCh {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestStatisticsReturnsAccumulator(t *testing.T) {
	acc, err := Statistics(context.Background(), bytes.NewReader(s1Frame), nil, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, acc)

	appIDs := acc.AppIDs()
	require.Len(t, appIDs, 1)
	require.Equal(t, "APP", appIDs[0].ID)
}
