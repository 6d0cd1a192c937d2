package store

import (
	"context"
	"fmt"

	"deaddrop/internal/record"
)

// PutExchangeKey appends an exchange-key record under the recipient's
// partition and returns the assigned timestamp.
//
// The record's CreatedAt is ignored; the store assigns it at commit.
// InResponseTo is stored verbatim when present and NULL when nil. The
// store never checks that it names a previously posted key, and a missing
// pairing target is not an error.
//
// An accepted write runs to completion even if the caller's context is
// cancelled mid-flight; a client disconnect never unwinds the write or
// desyncs the partition tail from the committed rows.
func (s *Store) PutExchangeKey(ctx context.Context, rec record.ExchangeKeyRecord) (record.Timestamp, error) {
	ctx = context.WithoutCancel(ctx)

	p := s.partitionFor(rec.Recipient)
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := s.seed(ctx, p, rec.Recipient); err != nil {
		return 0, fmt.Errorf("put exchange key: %w", err)
	}
	seq, ts := s.nextSlot(p)

	var inResponseTo any
	if rec.InResponseTo != nil {
		inResponseTo = rec.InResponseTo[:]
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exchange_keys
		(recipient, sender, exchange_key, signature, in_response_to, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		rec.Recipient[:],
		rec.Sender[:],
		rec.ExchangeKey[:],
		rec.Signature[:],
		inResponseTo,
		seq,
		int64(ts),
	)
	if err != nil {
		return 0, fmt.Errorf("put exchange key: %w", err)
	}

	p.commitSlot(seq, ts)
	return ts, nil
}

// PutMessage generates a fresh unique id, appends the message under the
// recipient's partition, and returns the id and assigned timestamp.
//
// The record's ID and CreatedAt are ignored; the store assigns both at
// commit. Two concurrent calls never return the same id, and each
// recipient's partition reflects the total order in which writes were
// durably committed.
//
// Exactly one attempt is made per call: a failed write is reported, not
// retried, so ids and timestamps are never assigned twice for one request.
// Like PutExchangeKey, the write ignores caller cancellation once accepted.
func (s *Store) PutMessage(ctx context.Context, rec record.MessageRecord) (record.MessageID, record.Timestamp, error) {
	ctx = context.WithoutCancel(ctx)

	p := s.partitionFor(rec.Recipient)
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := s.seed(ctx, p, rec.Recipient); err != nil {
		return record.MessageID{}, 0, fmt.Errorf("put message: %w", err)
	}
	seq, ts := s.nextSlot(p)
	id := s.ids.Generate()

	// A nil slice would bind as SQL NULL; an empty ciphertext is a valid
	// record and must store as an empty blob.
	ciphertext := rec.Ciphertext
	if ciphertext == nil {
		ciphertext = []byte{}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages
		(id, recipient, sender, ciphertext, signature, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		id[:],
		rec.Recipient[:],
		rec.Sender[:],
		ciphertext,
		rec.Signature[:],
		seq,
		int64(ts),
	)
	if err != nil {
		return record.MessageID{}, 0, fmt.Errorf("put message: %w", err)
	}

	p.commitSlot(seq, ts)
	return id, ts, nil
}
