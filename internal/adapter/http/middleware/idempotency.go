package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/usecase"
)

const (
	// IdempotencyKeyHeader carries the client-chosen key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	maxKeyLength = 128
	storeTimeout = 2 * time.Second
)

// pendingRecord claims a key while its first request runs.
var pendingRecord = []byte(`{"pending":true}`)

// idempotentResponse is what the store holds for a key.
type idempotentResponse struct {
	Pending bool   `json:"pending,omitempty"`
	Status  int    `json:"status,omitempty"`
	Body    []byte `json:"body,omitempty"`
}

// IdempotencyMiddleware replays the stored response of a repeated POST or
// PUT carrying the same Idempotency-Key. Keys are scoped to the caller and path.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{
		store:  store,
		ttl:    ttl,
		logger: logger.With().Str("component", "idempotency").Logger(),
	}
}

// Wrap guards next with the idempotency store. Only 2xx responses are kept;
// any other outcome releases the key so the client can retry.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" || (r.Method != http.MethodPost && r.Method != http.MethodPut) {
			next.ServeHTTP(w, r)
			return
		}
		if len(key) > maxKeyLength {
			writeJSONError(w, http.StatusBadRequest, "idempotency key too long")
			return
		}

		scoped := scopeKey(r, key)
		log := m.logger.With().Str("idempotency_key", key).Logger()

		exists, stored, err := m.store.CheckAndSet(r.Context(), scoped, pendingRecord, m.ttl)
		if err != nil {
			log.Error().Err(err).Msg("idempotency check failed")
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}
		if exists {
			m.replay(w, stored)
			return
		}

		var body bytes.Buffer
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(&body)

		next.ServeHTTP(ww, r)

		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), storeTimeout)
		defer cancel()

		status := responseStatus(ww)
		if status < 200 || status >= 300 {
			if err := m.store.Release(ctx, scoped); err != nil {
				log.Warn().Err(err).Msg("release idempotency key")
			}
			return
		}

		record, err := json.Marshal(idempotentResponse{Status: status, Body: body.Bytes()})
		if err == nil {
			err = m.store.Update(ctx, scoped, record, m.ttl)
		}
		if err != nil {
			log.Warn().Err(err).Msg("store idempotent response")
		}
	})
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, stored []byte) {
	var resp idempotentResponse
	if err := json.Unmarshal(stored, &resp); err != nil || resp.Pending || resp.Status == 0 {
		writeJSONError(w, http.StatusConflict, "request with this idempotency key is in progress")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func scopeKey(r *http.Request, key string) string {
	owner := "anonymous"
	if user, ok := domain.UserFromContext(r.Context()); ok {
		owner = user.ID
	}
	return owner + ":" + r.URL.Path + ":" + key
}
