package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/iho/marathon-wallet/internal/infrastructure/metrics"
)

func TestHTTPMetrics_UnroutedRequestUsesNormalizedPath(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	var inFlight float64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlight = testutil.ToFloat64(m.HTTPInFlight)
		w.WriteHeader(http.StatusConflict)
	})

	HTTPMetrics(m)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/withdrawals/01HXABC", nil))

	assert.Equal(t, 1.0, inFlight)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/withdrawals/:id", "409")))
}

func TestHTTPMetrics_RoutedRequestUsesPattern(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(HTTPMetrics(m))
	r.Get("/payment/{id}", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/payment/pay-1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/payment/pay-2", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/payment/{id}", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPDuration))
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/payment/01HXPAY":               "/payment/:id",
		"/payment/topup":                 "/payment/topup",
		"/payment/marathon/m-42":         "/payment/marathon/:id",
		"/admin/withdrawals/wd-1/review": "/admin/withdrawals/:id/review",
		"/admin/wallets/user-7/freeze":   "/admin/wallets/:id/freeze",
		"/virtual-wallet/balance":        "/virtual-wallet/balance",
	}

	for in, want := range cases {
		assert.Equal(t, want, normalizePath(in), in)
	}
}
