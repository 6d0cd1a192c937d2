// Package record provides the value types shared by every layer of the
// deaddrop relay: identities, signatures, message identifiers, timestamps,
// and the two record kinds the relay stores.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import record; record imports nothing internal. This
// keeps it the foundational layer with no circular dependencies.
//
// Key constraints:
//   - All binary fields are fixed size: 32-byte keys, 64-byte signatures,
//     16-byte message ids. The relay never interprets their contents.
//   - An Identity is conventionally a Curve25519/Ed25519 public key, but is
//     never validated as being on-curve; any 32-byte value is a valid
//     address.
//   - Timestamps are Unix microseconds assigned by the store, never by
//     clients.
package record
