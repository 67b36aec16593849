// Package logging provides the process-wide structured logger used by
// the indexer and statistics entry points. Grounded on the teacher's
// internal/logger package: a JSON slog.Logger, its level controlled by an
// environment variable, initialized once and safe to read concurrently.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

const envLogLevel = "DLTIDX_LOG_LEVEL"

var (
	atomicLevel = &dynamicLevel{v: int64(slog.LevelInfo)}
	global      *slog.Logger
	initOnce    sync.Once
)

type dynamicLevel struct{ v int64 }

func (d *dynamicLevel) Level() slog.Level { return slog.Level(atomic.LoadInt64(&d.v)) }
func (d *dynamicLevel) set(l slog.Level)  { atomic.StoreInt64(&d.v, int64(l)) }

// Init initializes the global logger. Safe to call multiple times; only
// the first call has effect.
func Init() {
	initOnce.Do(func() {
		atomicLevel.set(detectLevel())
		global = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: atomicLevel}))
	})
}

func detectLevel() slog.Level {
	if env := os.Getenv(envLogLevel); env != "" {
		if lvl, ok := parseLevel(env); ok {
			return lvl
		}
	}
	return slog.LevelInfo
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error", "err":
		return slog.LevelError, true
	}
	return 0, false
}

// SetLevel changes the runtime log level.
func SetLevel(level string) bool {
	Init()
	lvl, ok := parseLevel(level)
	if !ok {
		return false
	}
	atomicLevel.set(lvl)
	return true
}

// UseWriter swaps the output writer, retaining the current level. Intended
// for tests.
func UseWriter(w io.Writer) {
	Init()
	global = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: atomicLevel}))
}

// Logger returns the global logger, initializing it on first use.
func Logger() *slog.Logger {
	Init()
	return global
}

// WithRun attaches run-scoped identity fields (e.g. the input file path)
// to every record a component logs during one indexing or statistics run.
func WithRun(l *slog.Logger, source string) *slog.Logger {
	return l.With("source", source)
}

// WithMessage attaches per-message metadata fields (line number, ECU,
// application and context ids) for records about one decoded message (§7).
func WithMessage(l *slog.Logger, line uint64, ecuID, appID, contextID string) *slog.Logger {
	return l.With("line", line, "ecu_id", ecuID, "app_id", appID, "context_id", contextID)
}
