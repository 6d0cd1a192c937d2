package store

import (
	"context"
	"path/filepath"
	"testing"

	"deaddrop/internal/record"
)

// createTestStore creates a store backed by a temp-dir SQLite file.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testIdentity returns an identity filled with b.
func testIdentity(b byte) record.Identity {
	var id record.Identity
	for i := range id {
		id[i] = b
	}
	return id
}

// testExchangeKey returns an exchange key filled with b.
func testExchangeKey(b byte) record.ExchangeKey {
	var k record.ExchangeKey
	for i := range k {
		k[i] = b
	}
	return k
}

// testSignature returns a signature filled with b.
func testSignature(b byte) record.Signature {
	var sig record.Signature
	for i := range sig {
		sig[i] = b
	}
	return sig
}

// putTestMessage stores a message and fails the test on error.
func putTestMessage(t *testing.T, s *Store, recipient, sender record.Identity, ciphertext string) (record.MessageID, record.Timestamp) {
	t.Helper()
	id, ts, err := s.PutMessage(context.Background(), record.MessageRecord{
		Recipient:  recipient,
		Sender:     sender,
		Ciphertext: []byte(ciphertext),
		Signature:  testSignature(0xEE),
	})
	if err != nil {
		t.Fatalf("PutMessage() failed: %v", err)
	}
	return id, ts
}

// putTestExchangeKey stores an exchange key and fails the test on error.
func putTestExchangeKey(t *testing.T, s *Store, recipient, sender record.Identity, key record.ExchangeKey, inResponseTo *record.ExchangeKey) record.Timestamp {
	t.Helper()
	ts, err := s.PutExchangeKey(context.Background(), record.ExchangeKeyRecord{
		Recipient:    recipient,
		Sender:       sender,
		ExchangeKey:  key,
		Signature:    testSignature(0xEE),
		InResponseTo: inResponseTo,
	})
	if err != nil {
		t.Fatalf("PutExchangeKey() failed: %v", err)
	}
	return ts
}
