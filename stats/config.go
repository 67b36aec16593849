package stats

import (
	"github.com/dltview/dltidx/internal/options"
	"github.com/dltview/dltidx/membuf"
)

// StopCheckLineThreshold is how often (in accepted messages) the
// statistics loop tests the cancellation signal and emits a progress
// tick (§4.5 "STOP_CHECK_LINE_THRESHOLD = 250_000").
const StopCheckLineThreshold = 250_000

// Config holds the statistics pass's configuration surface (§6).
type Config struct {
	WithStorageHeader bool
	TotalBytes        uint64
	BufferCapacity    int
	BufferMinRetained int
}

// DefaultConfig returns storage-header-present framing (file ingestion)
// and the §4.5 buffer policy.
func DefaultConfig() Config {
	return Config{
		WithStorageHeader: true,
		BufferCapacity:    membuf.DefaultCapacity,
		BufferMinRetained: membuf.DefaultMinRetained,
	}
}

// Option configures a Config via the functional-options pattern.
type Option = options.Option[*Config]

// WithoutStorageHeader configures live-socket ingestion.
func WithoutStorageHeader() Option {
	return options.NoError(func(c *Config) { c.WithStorageHeader = false })
}

// WithTotalBytes sets the denominator reported in Progress(processed,
// total) ticks; 0 (the default) means the total size is unknown.
func WithTotalBytes(n uint64) Option {
	return options.NoError(func(c *Config) { c.TotalBytes = n })
}

// WithBufferPolicy overrides the refillable buffer's capacity and
// minimum-retained thresholds.
func WithBufferPolicy(capacity, minRetained int) Option {
	return options.NoError(func(c *Config) { c.BufferCapacity = capacity; c.BufferMinRetained = minRetained })
}
