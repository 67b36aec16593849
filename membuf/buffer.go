// Package membuf implements the streaming indexer's refillable byte
// buffer (§4.5, §5, §9): a growable slice that tops itself up from an
// io.Reader on demand, is capped at a maximum capacity, and guarantees a
// minimum number of resident bytes after every Consume so the parser
// never sees a spurious Incomplete in the middle of a file.
package membuf

import (
	"io"
)

const (
	// DefaultCapacity is the buffer's maximum resident size (§4.5: "10
	// MiB capacity").
	DefaultCapacity = 10 * 1024 * 1024

	// DefaultMinRetained is the minimum number of bytes guaranteed to
	// remain buffered after a Consume call, whenever the source still
	// has that many bytes left (§4.5, §5).
	DefaultMinRetained = 10 * 1024

	growStep = 64 * 1024
)

// Buffer is a growable byte window fed by an underlying io.Reader.
// Not safe for concurrent use — matches the indexer's single-threaded,
// synchronous-per-source scheduling model (§5).
type Buffer struct {
	src         io.Reader
	capacity    int
	minRetained int
	data        []byte
	eof         bool
}

// New creates a Buffer reading from src, capped at capacity bytes, that
// tries to keep at least minRetained bytes buffered after every Consume.
func New(src io.Reader, capacity, minRetained int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if minRetained <= 0 {
		minRetained = DefaultMinRetained
	}
	return &Buffer{
		src:         src,
		capacity:    capacity,
		minRetained: minRetained,
		data:        make([]byte, 0, min(capacity, growStep)),
	}
}

// Bytes returns the currently buffered, unconsumed content. The returned
// slice is only valid until the next Consume or Refill call.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of buffered, unconsumed bytes.
func (b *Buffer) Len() int { return len(b.data) }

// AtEOF reports whether the underlying source is exhausted and every
// buffered byte has been returned by Bytes (i.e. a further Refill cannot
// produce more data).
func (b *Buffer) AtEOF() bool { return b.eof && len(b.data) == 0 }

// Exhausted reports whether the underlying source has reached EOF,
// regardless of how many bytes remain buffered. Used by the driver loop
// to tell a truncated final frame (source exhausted, bytes still short of
// a full frame) apart from a frame that merely needs another Refill.
func (b *Buffer) Exhausted() bool { return b.eof }

// Consume discards the first n bytes of the buffered window, sliding the
// remainder to the front. n must not exceed Len().
func (b *Buffer) Consume(n int) {
	if n <= 0 {
		return
	}
	if n > len(b.data) {
		n = len(b.data)
	}
	copy(b.data, b.data[n:])
	b.data = b.data[:len(b.data)-n]
}

// Refill tops the buffer up from the source until either minRetained
// bytes are resident, the source is exhausted, or the buffer reaches its
// capacity. It returns any non-EOF read error from the source.
func (b *Buffer) Refill() error {
	for len(b.data) < b.minRetained && !b.eof && len(b.data) < b.capacity {
		n, err := b.readMore()
		if n == 0 && err != nil {
			if err == io.EOF {
				b.eof = true
				return nil
			}
			return err
		}
		if err == io.EOF {
			b.eof = true
		}
	}
	return nil
}

func (b *Buffer) readMore() (int, error) {
	b.grow(growStep)
	start := len(b.data)
	end := cap(b.data)
	if end > b.capacity {
		end = b.capacity
	}
	if end <= start {
		return 0, nil
	}
	n, err := b.src.Read(b.data[start:end])
	b.data = b.data[:start+n]
	return n, err
}

// grow ensures the buffer has room for at least n additional bytes,
// without exceeding capacity. Mirrors the teacher's pooled-buffer growth
// strategy (small buffers grow by a fixed step, large ones by a fraction
// of current capacity) adapted to a hard capacity ceiling.
func (b *Buffer) grow(n int) {
	available := cap(b.data) - len(b.data)
	if available >= n {
		return
	}

	growBy := growStep
	if cap(b.data) > 4*growStep {
		growBy = cap(b.data) / 4
	}
	if growBy < n {
		growBy = n
	}

	newCap := cap(b.data) + growBy
	if newCap > b.capacity {
		newCap = b.capacity
	}
	if newCap <= cap(b.data) {
		return
	}

	newBuf := make([]byte, len(b.data), newCap)
	copy(newBuf, b.data)
	b.data = newBuf
}
