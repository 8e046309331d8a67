package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"

	pendingMarker = "processing"
)

// storedResponse is what a completed request leaves behind for replays.
type storedResponse struct {
	Body   json.RawMessage `json:"body"`
	Status int             `json:"status"`
}

// IdempotencyMiddleware replays the response of a mutating request that is
// retried with the same Idempotency-Key.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		key = scopedKey(r, key)

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed", "")
			return
		}

		if exists {
			if cached == nil || string(cached) == pendingMarker {
				writeJSONError(w, http.StatusConflict, "request already in progress", "")
				return
			}

			var stored storedResponse
			if err := json.Unmarshal(cached, &stored); err != nil || stored.Status == 0 {
				writeJSONError(w, http.StatusInternalServerError, "corrupt idempotency record", "")
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			w.WriteHeader(stored.Status)
			_, _ = w.Write(stored.Body)
			return
		}

		var body bytes.Buffer
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(&body)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		// Failed requests give the key back so the client can retry.
		if status < 200 || status >= 300 {
			_ = m.store.Release(r.Context(), key)
			return
		}

		payload := bytes.TrimSpace(body.Bytes())
		if len(payload) == 0 {
			payload = []byte("null")
		}

		record, err := json.Marshal(storedResponse{Status: status, Body: payload})
		if err != nil {
			_ = m.store.Release(r.Context(), key)
			return
		}
		_ = m.store.Update(r.Context(), key, record, m.ttl)
	})
}

// scopedKey binds a client key to the caller and route so two callers
// cannot collide on the same key.
func scopedKey(r *http.Request, key string) string {
	caller := ""
	if id, ok := domain.IdentityFromContext(r.Context()); ok {
		caller = id.ID
	}
	return caller + ":" + r.Method + ":" + r.URL.Path + ":" + key
}
