package relay

import (
	"context"

	"deaddrop/internal/record"
	"deaddrop/internal/store"
	"deaddrop/internal/verify"
)

// DefaultMaxCiphertextBytes is the default upper bound on message
// ciphertext size.
const DefaultMaxCiphertextBytes = 2764

// Service is the relay core. It validates incoming posts, gates them
// through the configured signature verifier, and delegates persistence
// and retrieval to the store.
//
// A Service is safe for concurrent use.
type Service struct {
	store         *store.Store
	verifier      verify.Verifier
	maxCiphertext int
}

// Options configures optional Service behavior.
type Options struct {
	// MaxCiphertextBytes overrides the ciphertext size limit.
	// Zero means DefaultMaxCiphertextBytes.
	MaxCiphertextBytes int
}

// New creates a relay service backed by the given store and verifier.
func New(s *store.Store, v verify.Verifier, opts Options) *Service {
	maxCiphertext := opts.MaxCiphertextBytes
	if maxCiphertext <= 0 {
		maxCiphertext = DefaultMaxCiphertextBytes
	}
	return &Service{
		store:         s,
		verifier:      v,
		maxCiphertext: maxCiphertext,
	}
}

// PostExchangeKeyRequest carries a decoded exchange-key post.
//
// All fields are raw bytes; the transport layer is responsible for any
// wire decoding. InResponseTo is nil when the key does not answer a
// previous one.
type PostExchangeKeyRequest struct {
	Recipient    []byte
	Sender       []byte
	ExchangeKey  []byte
	Signature    []byte
	InResponseTo []byte
}

// PostMessageRequest carries a decoded message post.
type PostMessageRequest struct {
	Recipient  []byte
	Sender     []byte
	Ciphertext []byte
	Signature  []byte
}

// FetchRequest selects records for one recipient.
//
// An empty Senders list means "accept from anyone". Since, when set,
// is an inclusive lower bound on creation time.
type FetchRequest struct {
	Recipient []byte
	Senders   [][]byte
	Since     *record.Timestamp
}

// FetchResult holds both record kinds for a fetch, each in stable
// per-recipient order.
type FetchResult struct {
	ExchangeKeys []record.ExchangeKeyRecord
	Messages     []record.MessageRecord
}

// PostExchangeKey validates, verifies, and stores an exchange-key
// record. It returns the store-assigned creation timestamp.
func (s *Service) PostExchangeKey(ctx context.Context, req PostExchangeKeyRequest) (record.Timestamp, error) {
	recipient, ok := record.IdentityFromBytes(req.Recipient)
	if !ok {
		return 0, NewValidationError("recipient must be %d bytes, got %d", record.IdentitySize, len(req.Recipient))
	}
	sender, ok := record.IdentityFromBytes(req.Sender)
	if !ok {
		return 0, NewValidationError("sender must be %d bytes, got %d", record.IdentitySize, len(req.Sender))
	}
	key, ok := record.ExchangeKeyFromBytes(req.ExchangeKey)
	if !ok {
		return 0, NewValidationError("exchange_key must be %d bytes, got %d", record.ExchangeKeySize, len(req.ExchangeKey))
	}
	sig, ok := record.SignatureFromBytes(req.Signature)
	if !ok {
		return 0, NewValidationError("signature must be %d bytes, got %d", record.SignatureSize, len(req.Signature))
	}

	var inResponseTo *record.ExchangeKey
	if req.InResponseTo != nil {
		prev, ok := record.ExchangeKeyFromBytes(req.InResponseTo)
		if !ok {
			return 0, NewValidationError("in_response_to must be %d bytes, got %d", record.ExchangeKeySize, len(req.InResponseTo))
		}
		inResponseTo = &prev
	}

	if !s.verifier.Verify(sender, record.ExchangeKeySigningBytes(recipient, sender, key), sig) {
		return 0, NewUnauthorizedError("exchange key signature verification failed")
	}

	ts, err := s.store.PutExchangeKey(ctx, record.ExchangeKeyRecord{
		Recipient:    recipient,
		Sender:       sender,
		ExchangeKey:  key,
		Signature:    sig,
		InResponseTo: inResponseTo,
	})
	if err != nil {
		return 0, NewStorageError(err)
	}
	return ts, nil
}

// PostMessage validates, verifies, and stores a message record. It
// returns the store-assigned message id and creation timestamp.
func (s *Service) PostMessage(ctx context.Context, req PostMessageRequest) (record.MessageID, record.Timestamp, error) {
	recipient, ok := record.IdentityFromBytes(req.Recipient)
	if !ok {
		return record.MessageID{}, 0, NewValidationError("recipient must be %d bytes, got %d", record.IdentitySize, len(req.Recipient))
	}
	sender, ok := record.IdentityFromBytes(req.Sender)
	if !ok {
		return record.MessageID{}, 0, NewValidationError("sender must be %d bytes, got %d", record.IdentitySize, len(req.Sender))
	}
	sig, ok := record.SignatureFromBytes(req.Signature)
	if !ok {
		return record.MessageID{}, 0, NewValidationError("signature must be %d bytes, got %d", record.SignatureSize, len(req.Signature))
	}
	if len(req.Ciphertext) > s.maxCiphertext {
		return record.MessageID{}, 0, NewValidationError("ciphertext exceeds %d bytes, got %d", s.maxCiphertext, len(req.Ciphertext))
	}

	if !s.verifier.Verify(sender, record.MessageSigningBytes(recipient, sender, req.Ciphertext), sig) {
		return record.MessageID{}, 0, NewUnauthorizedError("message signature verification failed")
	}

	id, ts, err := s.store.PutMessage(ctx, record.MessageRecord{
		Recipient:  recipient,
		Sender:     sender,
		Ciphertext: req.Ciphertext,
		Signature:  sig,
	})
	if err != nil {
		return record.MessageID{}, 0, NewStorageError(err)
	}
	return id, ts, nil
}

// Fetch returns the recipient's stored exchange keys and messages,
// optionally restricted to an allow-list of senders and a minimum
// creation time.
func (s *Service) Fetch(ctx context.Context, req FetchRequest) (FetchResult, error) {
	recipient, ok := record.IdentityFromBytes(req.Recipient)
	if !ok {
		return FetchResult{}, NewValidationError("recipient must be %d bytes, got %d", record.IdentitySize, len(req.Recipient))
	}

	senders := make([]record.Identity, 0, len(req.Senders))
	for i, raw := range req.Senders {
		sender, ok := record.IdentityFromBytes(raw)
		if !ok {
			return FetchResult{}, NewValidationError("senders[%d] must be %d bytes, got %d", i, record.IdentitySize, len(raw))
		}
		senders = append(senders, sender)
	}

	keys, err := s.store.QueryExchangeKeys(ctx, recipient, senders, req.Since)
	if err != nil {
		return FetchResult{}, NewStorageError(err)
	}
	msgs, err := s.store.QueryMessages(ctx, recipient, senders, req.Since)
	if err != nil {
		return FetchResult{}, NewStorageError(err)
	}
	return FetchResult{ExchangeKeys: keys, Messages: msgs}, nil
}
