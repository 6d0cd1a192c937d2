package store

import (
	"sync"

	"github.com/google/uuid"

	"deaddrop/internal/record"
)

// MessageIDGenerator produces the 16-byte ids assigned to stored messages.
//
// Implementations must guarantee that two concurrent calls never return the
// same id. Generation is a bounded, non-blocking computation.
type MessageIDGenerator interface {
	Generate() record.MessageID
}

// UUIDGenerator generates random (version 4) UUIDs as message ids.
//
// A v4 UUID is 122 random bits, which makes the collision probability
// negligible across all messages ever stored. The messages table's primary
// key turns the astronomically unlikely collision into a write error rather
// than a silent overwrite.
//
// Uses github.com/google/uuid for RFC 4122 compliant UUIDs.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate creates a new random message id.
//
// Panics if the system's entropy source fails (should never happen in
// practice).
func (UUIDGenerator) Generate() record.MessageID {
	return record.MessageID(uuid.Must(uuid.NewRandom()))
}

// FixedGenerator returns predetermined message ids for testing.
//
// This enables deterministic tests that assert on exact ids.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal
// mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []record.MessageID
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
//
// Panics once all ids have been consumed. This is a fail-fast approach to
// catch test misconfiguration (test stored more messages than expected).
func NewFixedGenerator(ids ...record.MessageID) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
func (g *FixedGenerator) Generate() record.MessageID {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
