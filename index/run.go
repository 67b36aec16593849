package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dltview/dltidx/chunk"
	"github.com/dltview/dltidx/errs"
	"github.com/dltview/dltidx/filter"
	"github.com/dltview/dltidx/frame"
	"github.com/dltview/dltidx/header"
	"github.com/dltview/dltidx/internal/logging"
	"github.com/dltview/dltidx/internal/options"
	"github.com/dltview/dltidx/internal/pool"
	"github.com/dltview/dltidx/membuf"
	"github.com/dltview/dltidx/progress"
	"github.com/dltview/dltidx/source"
)

// flusher is implemented by buffered output sinks (e.g. *bufio.Writer);
// Run flushes after every chunk boundary and at termination when out
// implements it.
type flusher interface{ Flush() error }

// sized is implemented by *os.File; Run uses it to compare the total byte
// count written through the counting writer (the offset chunk byte ranges
// are measured in) against the actual output size (§4.5 step 4, §8
// invariant 1).
type sized interface{ Stat() (os.FileInfo, error) }

// lineBufferPool reuses the per-message line-rendering buffer across Run
// calls, so a long-running process indexing many captures back-to-back
// doesn't re-grow a fresh buffer from zero on every message.
var lineBufferPool = pool.NewByteBufferPool(256, 64*1024)

// countingWriter tracks the total number of bytes written so the chunk
// factory can be fed exact byte offsets without the caller tracking them.
type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}

// Run drives one indexing pass over src, writing formatted lines to out
// and reporting progress/notifications on the given channels (§4.5, §5,
// §6). initialLineNr seeds line numbering (non-zero in append mode).
// cancel is polled non-blockingly at chunk boundaries; ctx cancellation is
// honored identically. progressCh and notifyCh may be nil (best-effort,
// lossy telemetry) except that, once the options are applied and the
// source is open, the terminal Finished/Stopped event is always attempted.
func Run(ctx context.Context, src io.Reader, out io.Writer, initialLineNr uint64, cancel <-chan struct{}, progressCh chan<- progress.Event[chunk.Chunk], notifyCh chan<- progress.Notification, opts ...Option) error {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return err
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 500
	}

	reader, closer, err := source.Open(src)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	buf := membuf.New(reader, cfg.BufferCapacity, cfg.BufferMinRetained)
	filt := filter.New(cfg.Filter)

	startByte := uint64(0)
	if cfg.Append {
		startByte = cfg.CurrentOutFileSize
	}
	cf := chunk.NewFactory(cfg.ChunkSize, initialLineNr, startByte)
	cw := &countingWriter{w: out, n: startByte}

	// The core owns these channels for the duration of the run and closes
	// them on the way out, in the usual Go sender-closes idiom; callers
	// range over them until closed rather than polling for Finished.
	if progressCh != nil {
		defer close(progressCh)
	}
	if notifyCh != nil {
		defer close(notifyCh)
	}

	log := logging.WithRun(logging.Logger(), "index.Run")

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

	emitItem := func(c chunk.Chunk) {
		if progressCh == nil {
			return
		}
		select {
		case progressCh <- progress.NewItemEvent[chunk.Chunk](c):
		default:
		}
	}

	emitTerminal := func(ev progress.Event[chunk.Chunk]) {
		if progressCh == nil {
			return
		}
		progressCh <- ev
	}

	flush := func() {
		if f, ok := out.(flusher); ok {
			_ = f.Flush()
		}
	}

	lineNr := initialLineNr
	tag := cfg.Tag
	if tag == "" {
		tag = "DLT"
	}

	for {
		if cfg.MaxLines != 0 && lineNr-initialLineNr >= cfg.MaxLines {
			break
		}

		if rerr := buf.Refill(); rerr != nil {
			notify(progress.NewNotification(progress.SeverityError, rerr.Error()))
			flush()
			emitTerminal(progress.NewStoppedEvent[chunk.Chunk]())
			return rerr
		}

		if buf.Len() == 0 {
			break
		}

		if cfg.WithStorageHeader {
			if drop, ok := frame.Locate(buf.Bytes()); ok && drop > 0 {
				buf.Consume(drop)
				notify(progress.NewLineNotification(progress.SeverityWarning,
					fmt.Sprintf("dropped %d to get to next message", drop), lineNr))
				continue
			} else if !ok {
				// No magic anywhere in the buffered window: drop everything
				// except a tail that could be the start of a magic split
				// across the next Refill, and keep scanning.
				keep := len(header.StorageMagic) - 1
				if keep > buf.Len() {
					keep = buf.Len()
				}
				drop := buf.Len() - keep
				buf.Consume(drop)
				if drop > 0 {
					notify(progress.NewLineNotification(progress.SeverityWarning,
						fmt.Sprintf("dropped %d to get to next message", drop), lineNr))
				}
				if buf.Exhausted() && drop == 0 {
					// The source is closed and every remaining byte has
					// already been through a failed magic scan: no amount
					// of further Refill will locate another frame.
					notify(progress.NewNotification(progress.SeverityWarning, "did not find another storage header"))
					break
				}
				continue
			}
		}

		consumed, msg, dropped, perr := parseOne(buf.Bytes(), cfg.WithStorageHeader, filt)
		if perr != nil {
			if errs.IsHickup(perr) {
				skip := 4
				if skip > buf.Len() {
					skip = buf.Len()
				}
				buf.Consume(skip)
				notify(progress.NewLineNotification(progress.SeverityWarning,
					fmt.Sprintf("dropped %d to get to next message", skip), lineNr))
				continue
			}
			if u, ok := errs.IsUnrecoverable(perr); ok && errors.Is(u.Err, errs.ErrInvalidHeaderLength) {
				// An invalid overall_length means this one frame's boundary
				// can't be trusted, but the stream itself isn't necessarily
				// corrupt beyond it: drop the frame like a Hickup (4-byte
				// magic skip) rather than aborting the whole run, matching
				// spec scenario S4 ("ERROR notification ... parse continues").
				skip := 4
				if skip > buf.Len() {
					skip = buf.Len()
				}
				buf.Consume(skip)
				notify(progress.NewLineNotification(progress.SeverityError, perr.Error(), lineNr))
				continue
			}
			notify(progress.NewNotification(progress.SeverityError, perr.Error()))
			flush()
			emitTerminal(progress.NewStoppedEvent[chunk.Chunk]())
			return perr
		}

		buf.Consume(consumed)

		if dropped {
			continue
		}

		if msg.Extended != nil && !msg.Extended.MessageType.Recognized {
			notify(progress.NewLineNotification(progress.SeverityWarning,
				fmt.Sprintf("unrecognized message classification (raw sub-type %d)", msg.Extended.MessageType.Raw), lineNr))
		}

		lineBB := lineBufferPool.Get()
		lineBB.Reset()
		formatLineInto(lineBB, tag, lineNr, msg)
		_, werr := cw.Write(lineBB.Bytes())
		lineBufferPool.Put(lineBB)
		if werr != nil {
			emitTerminal(progress.NewStoppedEvent[chunk.Chunk]())
			return werr
		}
		lineNr++

		if c, ok := cf.Add(cw.n); ok {
			flush()
			emitItem(c)

			select {
			case <-cancel:
				emitTerminal(progress.NewStoppedEvent[chunk.Chunk]())
				return nil
			default:
			}
			select {
			case <-ctx.Done():
				emitTerminal(progress.NewStoppedEvent[chunk.Chunk]())
				return ctx.Err()
			default:
			}
		}
	}

	flush()

	if c, ok := cf.Final(cw.n); ok {
		emitItem(c)
	}

	if st, ok := out.(sized); ok {
		if info, serr := st.Stat(); serr == nil {
			if uint64(info.Size()) != cw.n {
				notify(progress.NewNotification(progress.SeverityError,
					fmt.Sprintf("%v: chunk byte range end %d, output file size %d", errs.ErrChunkSizeMismatch, cw.n, info.Size())))
			}
		}
	}

	emitTerminal(progress.NewFinishedEvent[chunk.Chunk]())
	return nil
}
