// Package store provides SQLite-backed durable storage for the deaddrop
// relay.
//
// The store is logically a mapping from recipient identity to two
// append-only sequences: posted exchange keys and posted messages. Records
// are created, retained forever, and never mutated or deleted; there is no
// update or delete operation.
//
// # Invariants
//
//   - Message ids are random 128-bit values, unique across all messages
//     ever stored, generated at write time.
//   - created_at is assigned at commit, in Unix microseconds, and is
//     monotonically non-decreasing per recipient partition.
//   - Ties on created_at are broken by a per-recipient seq column assigned
//     under the partition lock, so query order always matches commit order.
//   - Queries return copies scanned fresh from the database; callers never
//     receive references into store-owned state.
//
// # Concurrency
//
// Writes to the same recipient are serialized by a per-partition mutex;
// writes to different recipients only contend on SQLite's WAL writer, which
// busy-waits rather than failing. Accepted writes are detached from caller
// cancellation and always run to completion, keeping the cached partition
// tail in lockstep with the committed rows. Reads run on pooled connections and
// observe a consistent snapshot: they may miss a write that commits after
// the snapshot point, but never see a partial record.
//
// # Database configuration
//
// Connection pragmas ride in the DSN so every pooled connection gets them:
//
//   - journal_mode=WAL: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for the writer lock up to 5 seconds
package store
