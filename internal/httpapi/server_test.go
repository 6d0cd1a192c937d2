package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deaddrop/internal/record"
	"deaddrop/internal/relay"
	"deaddrop/internal/store"
	"deaddrop/internal/verify"
)

func newTestHandler(t *testing.T, v verify.Verifier, opts Options) http.Handler {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := relay.New(st, v, relay.Options{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(svc, logger, opts).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (status, message string, data json.RawMessage) {
	t.Helper()
	var env struct {
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Status, env.Message, env.Data
}

func fillBytes(n int, b byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = b
	}
	return buf
}

func TestPostMessage(t *testing.T) {
	h := newTestHandler(t, verify.Permissive{}, Options{})

	rec := doJSON(t, h, http.MethodPost, "/v1/messages", postMessageRequest{
		Recipient:  fillBytes(record.IdentitySize, 0x01),
		Sender:     fillBytes(record.IdentitySize, 0x02),
		Ciphertext: []byte("hello"),
		Signature:  fillBytes(record.SignatureSize, 0xEE),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	status, message, raw := decodeEnvelope(t, rec)
	assert.Equal(t, "success", status)
	assert.Equal(t, "Message posted.", message)

	var data postMessageData
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Len(t, data.ID, record.MessageIDSize)
	assert.Greater(t, data.CreatedAt, int64(0))
}

func TestPostExchangeKey(t *testing.T) {
	h := newTestHandler(t, verify.Permissive{}, Options{})

	rec := doJSON(t, h, http.MethodPost, "/v1/keys", postExchangeKeyRequest{
		Recipient:   fillBytes(record.IdentitySize, 0x01),
		Sender:      fillBytes(record.IdentitySize, 0x02),
		ExchangeKey: fillBytes(record.ExchangeKeySize, 0x11),
		Signature:   fillBytes(record.SignatureSize, 0xEE),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	status, message, raw := decodeEnvelope(t, rec)
	assert.Equal(t, "success", status)
	assert.Equal(t, "Key posted.", message)

	var data postExchangeKeyData
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Greater(t, data.CreatedAt, int64(0))
}

func TestFetch(t *testing.T) {
	h := newTestHandler(t, verify.Permissive{}, Options{})

	recipient := fillBytes(record.IdentitySize, 0x01)
	sender := fillBytes(record.IdentitySize, 0x02)
	sig := fillBytes(record.SignatureSize, 0xEE)

	rec := doJSON(t, h, http.MethodPost, "/v1/keys", postExchangeKeyRequest{
		Recipient: recipient, Sender: sender,
		ExchangeKey: fillBytes(record.ExchangeKeySize, 0x11), Signature: sig,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/v1/messages", postMessageRequest{
		Recipient: recipient, Sender: sender,
		Ciphertext: []byte("hello"), Signature: sig,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/fetch", fetchRequest{Recipient: recipient})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	status, message, raw := decodeEnvelope(t, rec)
	assert.Equal(t, "success", status)
	assert.Equal(t, "1 keys and 1 messages retrieved.", message)

	var data fetchData
	require.NoError(t, json.Unmarshal(raw, &data))
	require.Len(t, data.ExchangeKeys, 1)
	require.Len(t, data.Messages, 1)
	assert.Equal(t, sender, data.Messages[0].Sender)
	assert.Equal(t, []byte("hello"), data.Messages[0].Ciphertext)
	assert.Empty(t, data.ExchangeKeys[0].InResponseTo)
}

func TestFetch_SendersAndSince(t *testing.T) {
	h := newTestHandler(t, verify.Permissive{}, Options{})

	recipient := fillBytes(record.IdentitySize, 0x01)
	alice := fillBytes(record.IdentitySize, 0xA1)
	bob := fillBytes(record.IdentitySize, 0xB1)
	sig := fillBytes(record.SignatureSize, 0xEE)

	for _, sender := range [][]byte{alice, bob} {
		rec := doJSON(t, h, http.MethodPost, "/v1/messages", postMessageRequest{
			Recipient: recipient, Sender: sender,
			Ciphertext: []byte("x"), Signature: sig,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, h, http.MethodPost, "/v1/fetch", fetchRequest{
		Recipient: recipient,
		Senders:   [][]byte{alice},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	_, _, raw := decodeEnvelope(t, rec)
	var data fetchData
	require.NoError(t, json.Unmarshal(raw, &data))
	require.Len(t, data.Messages, 1)
	assert.Equal(t, alice, data.Messages[0].Sender)

	// A since bound past every record matches nothing.
	future := data.Messages[0].CreatedAt + 60_000_000
	rec = doJSON(t, h, http.MethodPost, "/v1/fetch", fetchRequest{
		Recipient: recipient,
		Since:     &future,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	_, _, raw = decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Empty(t, data.Messages)
}

func TestPostMessage_ValidationRejected(t *testing.T) {
	h := newTestHandler(t, verify.Permissive{}, Options{})

	rec := doJSON(t, h, http.MethodPost, "/v1/messages", postMessageRequest{
		Recipient:  fillBytes(3, 0x01),
		Sender:     fillBytes(record.IdentitySize, 0x02),
		Ciphertext: []byte("hello"),
		Signature:  fillBytes(record.SignatureSize, 0xEE),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	status, message, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "error", status)
	assert.Contains(t, message, "recipient")
}

func TestPostMessage_UnauthorizedUnderStrict(t *testing.T) {
	h := newTestHandler(t, verify.Strict{}, Options{})

	rec := doJSON(t, h, http.MethodPost, "/v1/messages", postMessageRequest{
		Recipient:  fillBytes(record.IdentitySize, 0x01),
		Sender:     fillBytes(record.IdentitySize, 0x02),
		Ciphertext: []byte("hello"),
		Signature:  fillBytes(record.SignatureSize, 0xEE),
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	status, _, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "error", status)
}

func TestMalformedJSON(t *testing.T) {
	h := newTestHandler(t, verify.Permissive{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	status, message, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "error", status)
	assert.Contains(t, message, "invalid request body")
}

func TestRequestBodyTooLarge(t *testing.T) {
	h := newTestHandler(t, verify.Permissive{}, Options{MaxRequestBytes: 64})

	rec := doJSON(t, h, http.MethodPost, "/v1/messages", postMessageRequest{
		Recipient:  fillBytes(record.IdentitySize, 0x01),
		Sender:     fillBytes(record.IdentitySize, 0x02),
		Ciphertext: fillBytes(1024, 0xAA),
		Signature:  fillBytes(record.SignatureSize, 0xEE),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, verify.Permissive{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, verify.Permissive{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/v1/messages", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
