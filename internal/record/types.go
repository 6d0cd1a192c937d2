package record

import "time"

// Field sizes, in bytes. These are fixed by the wire contract and must be
// preserved by any persistence backend for interoperability with existing
// clients.
const (
	IdentitySize    = 32
	ExchangeKeySize = 32
	SignatureSize   = 64
	MessageIDSize   = 16
)

// Identity is a 32-byte public key value used as an opaque recipient or
// sender address.
type Identity [IdentitySize]byte

// Slice returns the identity as a []byte.
func (id Identity) Slice() []byte { return id[:] }

// IdentityFromBytes copies b into an Identity. ok is false if b is not
// exactly IdentitySize bytes.
func IdentityFromBytes(b []byte) (id Identity, ok bool) {
	if len(b) != IdentitySize {
		return id, false
	}
	copy(id[:], b)
	return id, true
}

// ExchangeKey is an ephemeral 32-byte Diffie-Hellman public key posted for
// another party to collect.
type ExchangeKey [ExchangeKeySize]byte

// Slice returns the key as a []byte.
func (k ExchangeKey) Slice() []byte { return k[:] }

// ExchangeKeyFromBytes copies b into an ExchangeKey. ok is false if b is
// not exactly ExchangeKeySize bytes.
func ExchangeKeyFromBytes(b []byte) (k ExchangeKey, ok bool) {
	if len(b) != ExchangeKeySize {
		return k, false
	}
	copy(k[:], b)
	return k, true
}

// Signature is a 64-byte detached signature over a record's signing bytes.
// The relay stores it verbatim; whether it is ever verified depends on the
// configured verifier.
type Signature [SignatureSize]byte

// Slice returns the signature as a []byte.
func (s Signature) Slice() []byte { return s[:] }

// SignatureFromBytes copies b into a Signature. ok is false if b is not
// exactly SignatureSize bytes.
func SignatureFromBytes(b []byte) (s Signature, ok bool) {
	if len(b) != SignatureSize {
		return s, false
	}
	copy(s[:], b)
	return s, true
}

// MessageID is a random 128-bit identifier generated by the store at write
// time. IDs are unique across all messages ever stored and never reused.
type MessageID [MessageIDSize]byte

// Slice returns the id as a []byte.
func (id MessageID) Slice() []byte { return id[:] }

// MessageIDFromBytes copies b into a MessageID. ok is false if b is not
// exactly MessageIDSize bytes.
func MessageIDFromBytes(b []byte) (id MessageID, ok bool) {
	if len(b) != MessageIDSize {
		return id, false
	}
	copy(id[:], b)
	return id, true
}

// Timestamp is a point in time in Unix microseconds. The store assigns one
// to every record at the moment of successful write; per recipient they are
// monotonically non-decreasing in commit order.
type Timestamp int64

// TimestampFromTime converts a time.Time to a Timestamp.
func TimestampFromTime(t time.Time) Timestamp { return Timestamp(t.UnixMicro()) }

// Time converts the timestamp back to a time.Time in UTC.
func (t Timestamp) Time() time.Time { return time.UnixMicro(int64(t)).UTC() }

// ExchangeKeyRecord is a posted public exchange key addressed to Recipient.
//
// InResponseTo, when non-nil, is the exchange key this one answers. It is
// opaque passthrough: the store never checks that it matches a previously
// posted key.
type ExchangeKeyRecord struct {
	Recipient    Identity
	Sender       Identity
	ExchangeKey  ExchangeKey
	Signature    Signature
	InResponseTo *ExchangeKey
	CreatedAt    Timestamp
}

// MessageRecord is a stored encrypted message addressed to Recipient.
// ID and CreatedAt are assigned by the store on write; values supplied by
// callers are ignored.
type MessageRecord struct {
	ID         MessageID
	Recipient  Identity
	Sender     Identity
	Ciphertext []byte
	Signature  Signature
	CreatedAt  Timestamp
}
