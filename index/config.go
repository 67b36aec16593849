package index

import (
	"github.com/dltview/dltidx/fibex"
	"github.com/dltview/dltidx/filter"
	"github.com/dltview/dltidx/internal/options"
	"github.com/dltview/dltidx/membuf"
)

// Config holds the external-interface parameters of §6: chunk size, line
// cap, append mode, storage-header presence, the filter gate, and a
// shared FIBEX resolver. Run does not consult Fibex: non-verbose payloads
// are always rendered unresolved (message id plus hex bytes).
type Config struct {
	ChunkSize         uint64
	MaxLines          uint64
	Append            bool
	CurrentOutFileSize uint64
	WithStorageHeader bool
	Filter            filter.Config
	Fibex             *fibex.Shared
	BufferCapacity    int
	BufferMinRetained int
	Tag               string
}

// DefaultConfig returns the spec's defaults: chunk_size 500, the §4.5
// buffer policy (10MiB/10KiB), storage headers expected (file ingestion).
func DefaultConfig() Config {
	return Config{
		ChunkSize:         500,
		WithStorageHeader: true,
		BufferCapacity:    membuf.DefaultCapacity,
		BufferMinRetained: membuf.DefaultMinRetained,
		Tag:               "DLT",
	}
}

// Option configures a Config via the functional-options pattern.
type Option = options.Option[*Config]

// WithChunkSize overrides the default 500-line chunk boundary.
func WithChunkSize(n uint64) Option {
	return options.NoError(func(c *Config) { c.ChunkSize = n })
}

// WithMaxLines caps the number of lines produced in this run.
func WithMaxLines(n uint64) Option {
	return options.NoError(func(c *Config) { c.MaxLines = n })
}

// WithAppend opens the output in append mode, seeding the chunk factory
// from the existing output file's size.
func WithAppend(currentSize uint64) Option {
	return options.NoError(func(c *Config) { c.Append = true; c.CurrentOutFileSize = currentSize })
}

// WithoutStorageHeader configures live-socket ingestion (no storage
// header prefix on each frame).
func WithoutStorageHeader() Option {
	return options.NoError(func(c *Config) { c.WithStorageHeader = false })
}

// WithFilter installs the filter gate configuration.
func WithFilter(f filter.Config) Option {
	return options.NoError(func(c *Config) { c.Filter = f })
}

// WithFibex stores a shared FIBEX resolver in the Config. Run does not
// call it; non-verbose lines are rendered as message id plus hex payload.
func WithFibex(r *fibex.Shared) Option {
	return options.NoError(func(c *Config) { c.Fibex = r })
}

// WithTag overrides the default "DLT" output line tag.
func WithTag(tag string) Option {
	return options.NoError(func(c *Config) { c.Tag = tag })
}

// WithBufferPolicy overrides the refillable buffer's capacity and
// minimum-retained thresholds; tests use small values to exercise refill
// behavior without multi-megabyte fixtures.
func WithBufferPolicy(capacity, minRetained int) Option {
	return options.NoError(func(c *Config) { c.BufferCapacity = capacity; c.BufferMinRetained = minRetained })
}
