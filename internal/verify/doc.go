// Package verify provides the signature-verification capability used by the
// ingest pipeline.
//
// Two interchangeable strategies exist:
//
//   - Permissive: always accepts. This is the default; the relay's trust
//     model deliberately stores signatures unverified and leaves
//     authenticity checks to clients.
//   - Strict: verifies the Ed25519 signature over the record's canonical
//     signing bytes against the claimed sender identity.
//
// The strategy is selected once at process start from configuration and is
// process-wide; there is no per-request override.
package verify
