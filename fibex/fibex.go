// Package fibex declares the read-only collaborator interface used to
// resolve non-verbose payloads against FIBEX metadata. Parsing FIBEX
// description files is out of scope (§1 Non-goals) — only the shared,
// read-only lookup surface the indexer calls into is defined here.
package fibex

// Resolver resolves a non-verbose message id plus its opaque payload
// bytes into a human-readable rendering. A nil Resolver means non-verbose
// payloads are passed through unresolved (raw message id + hex payload).
type Resolver interface {
	// Resolve returns a rendered line for messageID/data, or ok=false if
	// the id has no known description.
	Resolve(ecuID string, messageID uint32, data []byte) (rendered string, ok bool)
}

// Shared wraps a Resolver so it can be passed by reference into a run and
// shared across every message without the indexer taking ownership of it
// (§9 "FIBEX metadata sharing" — a read-only reference whose lifetime
// extends across the entire run).
type Shared struct {
	Resolver Resolver
}
