package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"deaddrop/internal/relay"
)

// DefaultMaxRequestBytes is the default cap on request body size. Request
// bodies carry base64-encoded records, so the cap sits comfortably above
// the largest valid post.
const DefaultMaxRequestBytes = 8192

// Server wires the relay service into HTTP handlers.
type Server struct {
	relay           *relay.Service
	logger          *slog.Logger
	maxRequestBytes int64
}

// Options configures optional Server behavior.
type Options struct {
	// MaxRequestBytes overrides the request body size cap.
	// Zero means DefaultMaxRequestBytes.
	MaxRequestBytes int64
}

// New creates an HTTP server around the relay service.
func New(svc *relay.Service, logger *slog.Logger, opts Options) *Server {
	maxRequestBytes := opts.MaxRequestBytes
	if maxRequestBytes <= 0 {
		maxRequestBytes = DefaultMaxRequestBytes
	}
	return &Server{
		relay:           svc,
		logger:          logger,
		maxRequestBytes: maxRequestBytes,
	}
}

// Handler returns the routed handler for all endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/messages", s.handlePostMessage)
	mux.HandleFunc("POST /v1/keys", s.handlePostExchangeKey)
	mux.HandleFunc("POST /v1/fetch", s.handleFetch)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return s.logRequests(mux)
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if !s.decode(w, r, &req) {
		return
	}
	id, ts, err := s.relay.PostMessage(r.Context(), relay.PostMessageRequest{
		Recipient:  req.Recipient,
		Sender:     req.Sender,
		Ciphertext: req.Ciphertext,
		Signature:  req.Signature,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusCreated, "Message posted.", postMessageData{
		ID:        id.Slice(),
		CreatedAt: int64(ts),
	})
}

func (s *Server) handlePostExchangeKey(w http.ResponseWriter, r *http.Request) {
	var req postExchangeKeyRequest
	if !s.decode(w, r, &req) {
		return
	}
	ts, err := s.relay.PostExchangeKey(r.Context(), relay.PostExchangeKeyRequest{
		Recipient:    req.Recipient,
		Sender:       req.Sender,
		ExchangeKey:  req.ExchangeKey,
		Signature:    req.Signature,
		InResponseTo: req.InResponseTo,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusCreated, "Key posted.", postExchangeKeyData{
		CreatedAt: int64(ts),
	})
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.relay.Fetch(r.Context(), relay.FetchRequest{
		Recipient: req.Recipient,
		Senders:   req.Senders,
		Since:     sinceTimestamp(req.Since),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	data := toFetchData(res)
	message := fmt.Sprintf("%d keys and %d messages retrieved.", len(data.ExchangeKeys), len(data.Messages))
	s.writeSuccess(w, http.StatusOK, message, data)
}

// handleHealthz reports process liveness. It deliberately avoids the
// store so a wedged database cannot fail the liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, envelope{Status: "ok"})
}

// decode reads and decodes the JSON request body, writing an error
// response and returning false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, envelope{
				Status:  "error",
				Message: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit),
			})
			return false
		}
		s.writeJSON(w, http.StatusBadRequest, envelope{
			Status:  "error",
			Message: fmt.Sprintf("invalid request body: %v", err),
		})
		return false
	}
	return true
}

func (s *Server) writeSuccess(w http.ResponseWriter, code int, message string, data any) {
	s.writeJSON(w, code, envelope{Status: "success", Message: message, Data: data})
}

// writeError maps relay error categories onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	message := "internal error"

	var relayErr *relay.Error
	if errors.As(err, &relayErr) {
		message = relayErr.Message
		switch relayErr.Code {
		case relay.CodeValidation:
			code = http.StatusBadRequest
		case relay.CodeUnauthorized:
			code = http.StatusUnauthorized
		case relay.CodeStorage:
			code = http.StatusInternalServerError
			// Storage details stay in the log, not the response.
			message = "storage failure"
			s.logger.Error("storage failure", "error", relayErr.Err)
		}
	} else {
		s.logger.Error("unexpected handler error", "error", err)
	}

	s.writeJSON(w, code, envelope{Status: "error", Message: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// statusRecorder captures the response status for access logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
