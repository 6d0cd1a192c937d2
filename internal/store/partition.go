package store

import (
	"context"
	"fmt"
	"sync"

	"deaddrop/internal/record"
)

// partition is the serialization point for one recipient's two append
// sequences. Each partition carries its own lock plus the cached tail of
// the recipient's log, so assigning (seq, created_at) never needs a
// read-modify-write round trip to the database.
type partition struct {
	mu     sync.Mutex
	seeded bool
	// lastSeq and lastTS describe the most recent committed write for
	// this recipient, across both record kinds. Valid only while mu is
	// held and seeded is true.
	lastSeq int64
	lastTS  record.Timestamp
}

// partitionFor returns the partition for a recipient, creating it on first
// use. Unrelated recipients get unrelated partitions, so their writes never
// block on each other's locks.
func (s *Store) partitionFor(recipient record.Identity) *partition {
	s.mu.RLock()
	p, ok := s.partitions[recipient]
	s.mu.RUnlock()
	if ok {
		return p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok = s.partitions[recipient]; ok {
		return p
	}
	p = &partition{}
	s.partitions[recipient] = p
	return p
}

// seed loads the partition tail from the database after a restart.
// Must be called with p.mu held.
func (s *Store) seed(ctx context.Context, p *partition, recipient record.Identity) error {
	if p.seeded {
		return nil
	}

	var lastSeq, lastTS int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0), COALESCE(MAX(created_at), 0)
		FROM (
			SELECT seq, created_at FROM messages WHERE recipient = ?
			UNION ALL
			SELECT seq, created_at FROM exchange_keys WHERE recipient = ?
		)
	`, recipient[:], recipient[:]).Scan(&lastSeq, &lastTS)
	if err != nil {
		return fmt.Errorf("seed partition: %w", err)
	}

	p.lastSeq = lastSeq
	p.lastTS = record.Timestamp(lastTS)
	p.seeded = true
	return nil
}

// nextSlot assigns the (seq, created_at) pair for the partition's next
// write. created_at is clamped so it never moves backwards within the
// partition even if the wall clock does. Must be called with p.mu held and
// the partition seeded; the caller commits the slot with commitSlot only
// after the database write succeeds.
func (s *Store) nextSlot(p *partition) (seq int64, ts record.Timestamp) {
	seq = p.lastSeq + 1
	ts = record.TimestampFromTime(s.now())
	if ts < p.lastTS {
		ts = p.lastTS
	}
	return seq, ts
}

// commitSlot records a durably committed write as the partition's new tail.
// Must be called with p.mu held.
func (p *partition) commitSlot(seq int64, ts record.Timestamp) {
	p.lastSeq = seq
	p.lastTS = ts
}
