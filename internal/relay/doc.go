// Package relay implements the core relay service: accepting signed
// exchange keys and encrypted messages, gating them through signature
// verification, and serving filtered retrieval by recipient.
//
// The relay is zero-trust: it never sees plaintext and treats every
// payload as opaque bytes. Its only responsibilities are validation,
// verification, durable ordered storage, and filtered readback.
package relay
