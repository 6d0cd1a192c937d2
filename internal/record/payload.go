package record

// Signing bytes are the canonical payload a sender signs when posting a
// record. The layout is fixed and documented here; verifiers and clients
// must agree on it byte for byte:
//
//	recipient (32) || sender (32) || payload
//
// where payload is the exchange public key for an exchange-key post and the
// raw ciphertext for a message post. InResponseTo is not part of the signed
// payload; it is opaque pairing metadata the relay passes through unchanged.

// ExchangeKeySigningBytes returns the canonical signed payload for an
// exchange-key post.
func ExchangeKeySigningBytes(recipient, sender Identity, key ExchangeKey) []byte {
	buf := make([]byte, 0, IdentitySize*2+ExchangeKeySize)
	buf = append(buf, recipient[:]...)
	buf = append(buf, sender[:]...)
	buf = append(buf, key[:]...)
	return buf
}

// MessageSigningBytes returns the canonical signed payload for a message
// post.
func MessageSigningBytes(recipient, sender Identity, ciphertext []byte) []byte {
	buf := make([]byte, 0, IdentitySize*2+len(ciphertext))
	buf = append(buf, recipient[:]...)
	buf = append(buf, sender[:]...)
	buf = append(buf, ciphertext...)
	return buf
}
