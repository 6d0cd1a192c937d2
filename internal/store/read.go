package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"deaddrop/internal/record"
)

// Query filter semantics, shared by both query methods:
//
//   - senders: nil or empty means "accept from anyone". A non-empty set
//     retains only records whose sender is a member.
//   - since: nil means no lower bound. A non-nil value is an inclusive
//     bound (created_at >= since); clients paging by latest-seen timestamp
//     must deduplicate the boundary record themselves.
//
// Results are ascending by created_at with ties broken by per-recipient
// insertion order, i.e. exactly commit order. Empty result sets are
// returned as empty slices, not nil.

// QueryExchangeKeys returns the recipient's exchange-key sequence, filtered
// and ordered as described above.
func (s *Store) QueryExchangeKeys(ctx context.Context, recipient record.Identity, senders []record.Identity, since *record.Timestamp) ([]record.ExchangeKeyRecord, error) {
	query := `
		SELECT recipient, sender, exchange_key, signature, in_response_to, created_at
		FROM exchange_keys
		WHERE recipient = ?`
	args := []any{recipient[:]}
	query, args = appendFilters(query, args, senders, since)
	query += `
		ORDER BY created_at ASC, seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exchange keys: %w", err)
	}
	defer rows.Close()

	keys := []record.ExchangeKeyRecord{}
	for rows.Next() {
		rec, err := scanExchangeKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exchange keys: %w", err)
	}

	return keys, nil
}

// QueryMessages returns the recipient's message sequence, filtered and
// ordered as described above.
func (s *Store) QueryMessages(ctx context.Context, recipient record.Identity, senders []record.Identity, since *record.Timestamp) ([]record.MessageRecord, error) {
	query := `
		SELECT id, recipient, sender, ciphertext, signature, created_at
		FROM messages
		WHERE recipient = ?`
	args := []any{recipient[:]}
	query, args = appendFilters(query, args, senders, since)
	query += `
		ORDER BY created_at ASC, seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	msgs := []record.MessageRecord{}
	for rows.Next() {
		rec, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return msgs, nil
}

// appendFilters adds the optional sender allow-list and since clauses.
// Absence of a filter adds no clause at all, which is what makes absence
// mean "no constraint" rather than "match nothing".
func appendFilters(query string, args []any, senders []record.Identity, since *record.Timestamp) (string, []any) {
	if len(senders) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(senders)), ", ")
		query += ` AND sender IN (` + placeholders + `)`
		for _, sender := range senders {
			args = append(args, sender.Slice())
		}
	}
	if since != nil {
		query += ` AND created_at >= ?`
		args = append(args, int64(*since))
	}
	return query, args
}

// scanExchangeKey scans a row into an ExchangeKeyRecord.
func scanExchangeKey(rows *sql.Rows) (record.ExchangeKeyRecord, error) {
	var rec record.ExchangeKeyRecord
	var recipient, sender, exchangeKey, signature, inResponseTo []byte
	var createdAt int64

	if err := rows.Scan(&recipient, &sender, &exchangeKey, &signature, &inResponseTo, &createdAt); err != nil {
		return record.ExchangeKeyRecord{}, fmt.Errorf("scan exchange key: %w", err)
	}

	var ok bool
	if rec.Recipient, ok = record.IdentityFromBytes(recipient); !ok {
		return record.ExchangeKeyRecord{}, fmt.Errorf("scan exchange key: recipient is %d bytes", len(recipient))
	}
	if rec.Sender, ok = record.IdentityFromBytes(sender); !ok {
		return record.ExchangeKeyRecord{}, fmt.Errorf("scan exchange key: sender is %d bytes", len(sender))
	}
	if rec.ExchangeKey, ok = record.ExchangeKeyFromBytes(exchangeKey); !ok {
		return record.ExchangeKeyRecord{}, fmt.Errorf("scan exchange key: key is %d bytes", len(exchangeKey))
	}
	if rec.Signature, ok = record.SignatureFromBytes(signature); !ok {
		return record.ExchangeKeyRecord{}, fmt.Errorf("scan exchange key: signature is %d bytes", len(signature))
	}
	if inResponseTo != nil {
		key, ok := record.ExchangeKeyFromBytes(inResponseTo)
		if !ok {
			return record.ExchangeKeyRecord{}, fmt.Errorf("scan exchange key: in_response_to is %d bytes", len(inResponseTo))
		}
		rec.InResponseTo = &key
	}
	rec.CreatedAt = record.Timestamp(createdAt)

	return rec, nil
}

// scanMessage scans a row into a MessageRecord.
func scanMessage(rows *sql.Rows) (record.MessageRecord, error) {
	var rec record.MessageRecord
	var id, recipient, sender, ciphertext, signature []byte
	var createdAt int64

	if err := rows.Scan(&id, &recipient, &sender, &ciphertext, &signature, &createdAt); err != nil {
		return record.MessageRecord{}, fmt.Errorf("scan message: %w", err)
	}

	var ok bool
	if rec.ID, ok = record.MessageIDFromBytes(id); !ok {
		return record.MessageRecord{}, fmt.Errorf("scan message: id is %d bytes", len(id))
	}
	if rec.Recipient, ok = record.IdentityFromBytes(recipient); !ok {
		return record.MessageRecord{}, fmt.Errorf("scan message: recipient is %d bytes", len(recipient))
	}
	if rec.Sender, ok = record.IdentityFromBytes(sender); !ok {
		return record.MessageRecord{}, fmt.Errorf("scan message: sender is %d bytes", len(sender))
	}
	if rec.Signature, ok = record.SignatureFromBytes(signature); !ok {
		return record.MessageRecord{}, fmt.Errorf("scan message: signature is %d bytes", len(signature))
	}
	// Scanning into *[]byte copies the row bytes, so the caller owns
	// the slice outright. An empty blob scans as nil; normalize so the
	// round-trip stays lossless.
	if ciphertext == nil {
		ciphertext = []byte{}
	}
	rec.Ciphertext = ciphertext
	rec.CreatedAt = record.Timestamp(createdAt)

	return rec, nil
}
