// Package dltidx provides convenience wrappers around the index and stats
// packages for the common case of indexing or summarizing one AUTOSAR DLT
// capture end to end.
//
// # Basic Usage
//
// Indexing a capture file into a chunked line-oriented index:
//
//	import "github.com/dltview/dltidx"
//
//	f, _ := os.Open("capture.dlt")
//	defer f.Close()
//	out, _ := os.Create("capture.idx")
//	defer out.Close()
//
//	progressCh := make(chan progress.Event[chunk.Chunk])
//	notifyCh := make(chan progress.Notification)
//	go func() {
//	    for range progressCh {
//	    }
//	}()
//	go func() {
//	    for n := range notifyCh {
//	        log.Println(n.Severity, n.Content)
//	    }
//	}()
//
//	err := dltidx.Index(context.Background(), f, out, 0, nil, progressCh, notifyCh)
//
// Computing per-id statistics without writing an index:
//
//	acc, err := dltidx.Statistics(context.Background(), f, nil, nil, nil)
//	for _, entry := range acc.AppIDs() {
//	    fmt.Println(entry.ID, entry.Distribution.Counts())
//	}
//
// # Package Structure
//
// This package is a thin convenience layer over index.Run and stats.Run.
// For fine-grained control over buffering, filtering, FIBEX sharing, or
// output-append behavior, call those packages directly with their own
// functional options.
package dltidx

import (
	"context"
	"io"

	"github.com/dltview/dltidx/chunk"
	"github.com/dltview/dltidx/index"
	"github.com/dltview/dltidx/progress"
	"github.com/dltview/dltidx/stats"
)

// Index runs the streaming indexer over src, writing the line-oriented
// index format to out and reporting progress/notifications on the given
// channels. It is a thin wrapper over index.Run; see that package for the
// full set of Option values (chunk size, filter, FIBEX sharing, append
// mode, buffer policy, output tag).
//
// cancel, progressCh, and notifyCh may each be nil: a nil cancel disables
// cooperative cancellation via that channel (ctx is still honored), and a
// nil progressCh/notifyCh simply means the caller doesn't want that
// channel's events.
func Index(ctx context.Context, src io.Reader, out io.Writer, initialLineNr uint64, cancel <-chan struct{}, progressCh chan<- progress.Event[chunk.Chunk], notifyCh chan<- progress.Notification, opts ...index.Option) error {
	return index.Run(ctx, src, out, initialLineNr, cancel, progressCh, notifyCh, opts...)
}

// Statistics runs the statistics pass over src and returns the accumulated
// per-id level histograms. It is a thin wrapper over stats.Run; see that
// package for its Option values (storage-header presence, total byte
// count for progress ticks, buffer policy).
func Statistics(ctx context.Context, src io.Reader, cancel <-chan struct{}, progressCh chan<- progress.Event[struct{}], notifyCh chan<- progress.Notification, opts ...stats.Option) (*stats.Accumulator, error) {
	return stats.Run(ctx, src, cancel, progressCh, notifyCh, opts...)
}
