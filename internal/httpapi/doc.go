// Package httpapi exposes the relay service over HTTP/JSON.
//
// All binary fields (keys, signatures, ciphertext, ids) travel as
// standard base64 strings, which encoding/json applies to []byte
// automatically. Every response shares one envelope shape:
//
//	{"status": "...", "message": "...", "data": {...}}
//
// with status "success" or "error".
package httpapi
