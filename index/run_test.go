package index

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dltview/dltidx/chunk"
	"github.com/dltview/dltidx/filter"
	"github.com/dltview/dltidx/progress"
)

func drainProgress(ch <-chan progress.Event[chunk.Chunk]) []progress.Event[chunk.Chunk] {
	var events []progress.Event[chunk.Chunk]
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func drainNotifications(ch <-chan progress.Notification) []progress.Notification {
	var notes []progress.Notification
	for n := range ch {
		notes = append(notes, n)
	}
	return notes
}

func TestRunS1SingleMessage(t *testing.T) {
	out := &bytes.Buffer{}
	progressCh := make(chan progress.Event[chunk.Chunk], 8)
	notifyCh := make(chan progress.Notification, 8)

	err := Run(context.Background(), bytes.NewReader(scenarioS1), out, 0, nil, progressCh, notifyCh,
		WithChunkSize(500))
	require.NoError(t, err)

	require.Equal(t, 1, strings.Count(out.String(), "\n"))
	require.Contains(t, out.String(), "ctrl:SetDefaultLogLevel")

	events := drainProgress(progressCh)
	require.NotEmpty(t, events)
	require.Equal(t, progress.KindFinished, events[len(events)-1].Kind)

	notes := drainNotifications(notifyCh)
	require.Empty(t, notes)
}

func TestRunS2Resynchronization(t *testing.T) {
	garbage := bytes.Repeat([]byte{0xFF}, 8)
	input := append(append([]byte{}, garbage...), scenarioS1...)

	out := &bytes.Buffer{}
	progressCh := make(chan progress.Event[chunk.Chunk], 8)
	notifyCh := make(chan progress.Notification, 8)

	err := Run(context.Background(), bytes.NewReader(input), out, 0, nil, progressCh, notifyCh)
	require.NoError(t, err)

	require.Equal(t, 1, strings.Count(out.String(), "\n"))

	notes := drainNotifications(notifyCh)
	require.Len(t, notes, 1)
	require.Equal(t, progress.SeverityWarning, notes[0].Severity)
	require.Contains(t, notes[0].Content, "dropped 8")

	drainProgress(progressCh)
}

func TestRunS3FilterDrop(t *testing.T) {
	out := &bytes.Buffer{}
	progressCh := make(chan progress.Event[chunk.Chunk], 8)
	notifyCh := make(chan progress.Notification, 8)

	err := Run(context.Background(), bytes.NewReader(scenarioS1), out, 0, nil, progressCh, notifyCh,
		WithFilter(filter.Config{AppIDs: []string{"OTHR"}}))
	require.NoError(t, err)

	require.Empty(t, out.String())

	notes := drainNotifications(notifyCh)
	require.Empty(t, notes)

	drainProgress(progressCh)
}

func TestRunS4InvalidHeaderLength(t *testing.T) {
	bad := []byte{
		0x44, 0x4C, 0x54, 0x01, 0x26, 0x2C, 0xC9, 0x4D, 0xD8, 0xA2, 0x0C, 0x00, 0x45, 0x43, 0x55, 0x00,
		0x35, 0x00, 0x00, 0x04,
	}
	input := append(append([]byte{}, bad...), scenarioS1...)

	out := &bytes.Buffer{}
	progressCh := make(chan progress.Event[chunk.Chunk], 8)
	notifyCh := make(chan progress.Notification, 8)

	err := Run(context.Background(), bytes.NewReader(input), out, 0, nil, progressCh, notifyCh)
	require.NoError(t, err)

	require.Equal(t, 1, strings.Count(out.String(), "\n"))

	notes := drainNotifications(notifyCh)
	require.NotEmpty(t, notes)
	require.Equal(t, progress.SeverityError, notes[0].Severity)
	require.Contains(t, notes[0].Content, "invalid header length")

	drainProgress(progressCh)
}

func TestRunS5Truncated(t *testing.T) {
	truncated := scenarioS1[:len(scenarioS1)-3]

	out := &bytes.Buffer{}
	progressCh := make(chan progress.Event[chunk.Chunk], 8)
	notifyCh := make(chan progress.Notification, 8)

	err := Run(context.Background(), bytes.NewReader(truncated), out, 0, nil, progressCh, notifyCh)
	require.Error(t, err)
	require.Empty(t, out.String())

	notes := drainNotifications(notifyCh)
	require.Len(t, notes, 1)
	require.Equal(t, progress.SeverityError, notes[0].Severity)

	events := drainProgress(progressCh)
	require.NotEmpty(t, events)
	require.Equal(t, progress.KindStopped, events[len(events)-1].Kind)
}

func TestRunDanglingBytesAtEOFTerminates(t *testing.T) {
	// A real capture file truncated mid-write: a complete message followed
	// by a stray 2-byte prefix of the next storage magic that never
	// arrives. Run must give up rather than looping forever waiting for
	// bytes Refill can never produce.
	input := append(append([]byte{}, scenarioS1...), 0x44, 0x4C)

	out := &bytes.Buffer{}
	progressCh := make(chan progress.Event[chunk.Chunk], 8)
	notifyCh := make(chan progress.Notification, 8)

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), bytes.NewReader(input), out, 0, nil, progressCh, notifyCh)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not terminate on dangling trailing bytes")
	}

	require.Equal(t, 1, strings.Count(out.String(), "\n"))

	notes := drainNotifications(notifyCh)
	require.NotEmpty(t, notes)
	last := notes[len(notes)-1]
	require.Equal(t, progress.SeverityWarning, last.Severity)
	require.Contains(t, last.Content, "did not find another storage header")

	events := drainProgress(progressCh)
	require.NotEmpty(t, events)
	require.Equal(t, progress.KindFinished, events[len(events)-1].Kind)
}

func TestRunChunkBoundaryEmitsItem(t *testing.T) {
	input := append(append([]byte{}, scenarioS1...), scenarioS1...)

	out := &bytes.Buffer{}
	progressCh := make(chan progress.Event[chunk.Chunk], 8)
	notifyCh := make(chan progress.Notification, 8)

	err := Run(context.Background(), bytes.NewReader(input), out, 0, nil, progressCh, notifyCh,
		WithChunkSize(1))
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(out.String(), "\n"))

	events := drainProgress(progressCh)
	var chunks []chunk.Chunk
	for _, ev := range events {
		if ev.Kind == progress.KindItem {
			chunks = append(chunks, ev.Item)
		}
	}
	require.Len(t, chunks, 2)
	require.Equal(t, uint64(0), chunks[0].FirstLine)
	require.Equal(t, uint64(0), chunks[0].LastLine)
	require.Equal(t, uint64(1), chunks[1].FirstLine)
	require.Equal(t, uint64(1), chunks[1].LastLine)

	drainNotifications(notifyCh)
}
