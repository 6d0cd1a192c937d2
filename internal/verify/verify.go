package verify

import (
	"crypto/ed25519"
	"fmt"

	"deaddrop/internal/record"
)

// Verifier decides whether a posted record's signature is acceptable.
//
// Implementations must never panic or return an error: a malformed
// signature or key is simply a false result. Verification is a bounded,
// non-blocking computation.
type Verifier interface {
	Verify(signer record.Identity, message []byte, sig record.Signature) bool
}

// Mode names accepted by ForMode.
const (
	ModePermissive = "permissive"
	ModeStrict     = "strict"
)

// ForMode returns the verifier for a configured mode name.
func ForMode(mode string) (Verifier, error) {
	switch mode {
	case ModePermissive:
		return Permissive{}, nil
	case ModeStrict:
		return Strict{}, nil
	default:
		return nil, fmt.Errorf("unknown verify mode %q (want %q or %q)", mode, ModePermissive, ModeStrict)
	}
}

// Permissive accepts every signature without inspection.
//
// This is not a placeholder: the relay's documented contract is that posts
// are stored unverified by default, and anyone relying on stored signatures
// must verify them client-side.
type Permissive struct{}

// Verify always returns true.
func (Permissive) Verify(record.Identity, []byte, record.Signature) bool { return true }

// Strict verifies Ed25519 signatures against the claimed signer identity.
//
// Thread-safety: Strict is stateless and safe for concurrent use.
type Strict struct{}

// Verify reports whether sig is a valid Ed25519 signature by signer over
// message. An identity that is not a valid curve point simply fails
// verification; it never errors.
func (Strict) Verify(signer record.Identity, message []byte, sig record.Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(signer[:]), message, sig[:])
}
