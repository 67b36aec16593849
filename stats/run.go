package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dltview/dltidx/errs"
	"github.com/dltview/dltidx/format"
	"github.com/dltview/dltidx/frame"
	"github.com/dltview/dltidx/header"
	"github.com/dltview/dltidx/internal/logging"
	"github.com/dltview/dltidx/internal/options"
	"github.com/dltview/dltidx/membuf"
	"github.com/dltview/dltidx/progress"
	"github.com/dltview/dltidx/source"
)

// Run drives one statistics pass over src: identical framing to
// index.Run, but the payload is never sliced out or decoded — only the
// extended header's ids and classification are folded into the returned
// Accumulator (§4.5 "Statistics loop" variant). cancel/ctx are polled
// every StopCheckLineThreshold accepted messages, at which point a
// Progress(processed_bytes, total_bytes) tick is also emitted.
func Run(ctx context.Context, src io.Reader, cancel <-chan struct{}, progressCh chan<- progress.Event[struct{}], notifyCh chan<- progress.Notification, opts ...Option) (*Accumulator, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	reader, closer, err := source.Open(src)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer.Close()
	}

	buf := membuf.New(reader, cfg.BufferCapacity, cfg.BufferMinRetained)

	if progressCh != nil {
		defer close(progressCh)
	}
	if notifyCh != nil {
		defer close(notifyCh)
	}

	log := logging.WithRun(logging.Logger(), "stats.Run")
	acc := NewAccumulator()

	notify := func(n progress.Notification) {
		if notifyCh != nil {
			select {
			case notifyCh <- n:
			default:
			}
		}
		level := slog.LevelWarn
		if n.Severity == progress.SeverityError {
			level = slog.LevelError
		}
		log.Log(context.Background(), level, n.Content)
	}

	emitTerminal := func(ev progress.Event[struct{}]) {
		if progressCh == nil {
			return
		}
		progressCh <- ev
	}

	cancelled := func() bool {
		select {
		case <-cancel:
			return true
		default:
		}
		select {
		case <-ctx.Done():
			return true
		default:
		}
		return false
	}

	var processedMessages, processedBytes, lineNr uint64

	for {
		if rerr := buf.Refill(); rerr != nil {
			notify(progress.NewNotification(progress.SeverityError, rerr.Error()))
			emitTerminal(progress.NewStoppedEvent[struct{}]())
			return acc, rerr
		}

		if buf.Len() == 0 {
			break
		}

		if cfg.WithStorageHeader {
			if drop, ok := frame.Locate(buf.Bytes()); ok && drop > 0 {
				buf.Consume(drop)
				processedBytes += uint64(drop)
				notify(progress.NewLineNotification(progress.SeverityWarning,
					fmt.Sprintf("dropped %d to get to next message", drop), lineNr))
				continue
			} else if !ok {
				keep := len(header.StorageMagic) - 1
				if keep > buf.Len() {
					keep = buf.Len()
				}
				drop := buf.Len() - keep
				buf.Consume(drop)
				processedBytes += uint64(drop)
				if drop > 0 {
					notify(progress.NewLineNotification(progress.SeverityWarning,
						fmt.Sprintf("dropped %d to get to next message", drop), lineNr))
				}
				if buf.Exhausted() && drop == 0 {
					notify(progress.NewNotification(progress.SeverityWarning, "did not find another storage header"))
					break
				}
				continue
			}
		}

		consumed, rec, hasExt, perr := parseOne(buf.Bytes(), cfg.WithStorageHeader)
		if perr != nil {
			if errs.IsHickup(perr) {
				skip := 4
				if skip > buf.Len() {
					skip = buf.Len()
				}
				buf.Consume(skip)
				processedBytes += uint64(skip)
				notify(progress.NewLineNotification(progress.SeverityWarning,
					fmt.Sprintf("dropped %d to get to next message", skip), lineNr))
				continue
			}
			if u, ok := errs.IsUnrecoverable(perr); ok && errors.Is(u.Err, errs.ErrInvalidHeaderLength) {
				skip := 4
				if skip > buf.Len() {
					skip = buf.Len()
				}
				buf.Consume(skip)
				processedBytes += uint64(skip)
				notify(progress.NewLineNotification(progress.SeverityError, perr.Error(), lineNr))
				continue
			}
			notify(progress.NewNotification(progress.SeverityError, perr.Error()))
			emitTerminal(progress.NewStoppedEvent[struct{}]())
			return acc, perr
		}

		buf.Consume(consumed)
		processedBytes += uint64(consumed)

		if hasExt {
			acc.Add(rec.EcuID, rec.Ext.ApplicationID, rec.Ext.ContextID,
				rec.Ext.MessageType.Major, rec.Ext.MessageType.LogLevel, rec.Ext.MessageType.Recognized, rec.Ext.Verbose)
		} else {
			// No extended header: no verbose flag on the wire, so treated
			// as non-verbose, mirroring index.parseOne's fallback.
			acc.Add(rec.EcuID, "", "", format.MajorUnknown, format.LogLevelInvalid, false, false)
		}

		processedMessages++
		lineNr++

		if processedMessages%StopCheckLineThreshold == 0 {
			if progressCh != nil {
				select {
				case progressCh <- progress.NewProgressEvent[struct{}](processedBytes, cfg.TotalBytes):
				default:
				}
			}
			if cancelled() {
				emitTerminal(progress.NewStoppedEvent[struct{}]())
				return acc, nil
			}
		}
	}

	emitTerminal(progress.NewFinishedEvent[struct{}]())
	return acc, nil
}
