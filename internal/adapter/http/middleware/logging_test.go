package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/marathon-wallet/internal/domain"
)

func TestLoggingMiddleware_LevelFollowsStatus(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusNotFound, "warn"},
		{http.StatusBadGateway, "error"},
	}

	for _, tc := range cases {
		var buf bytes.Buffer
		mw := NewLoggingMiddleware(zerolog.New(&buf))

		h := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte("body"))
		}))

		req := httptest.NewRequest(http.MethodGet, "/payment/p-1", nil)
		req = req.WithContext(domain.ContextWithUser(req.Context(), &domain.User{ID: "user-1", Role: domain.RoleUser}))
		h.ServeHTTP(httptest.NewRecorder(), req)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, tc.level, line["level"])
		assert.Equal(t, float64(tc.status), line["status"])
		assert.Equal(t, float64(4), line["bytes"])
		assert.Equal(t, "user-1", line["user_id"])
		assert.Equal(t, "/payment/p-1", line["path"])
	}
}

func TestLoggingMiddleware_SilentHandlerIsOK(t *testing.T) {
	var buf bytes.Buffer
	h := NewLoggingMiddleware(zerolog.New(&buf)).Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(http.StatusOK), line["status"])
	assert.Equal(t, "http", line["component"])
}
