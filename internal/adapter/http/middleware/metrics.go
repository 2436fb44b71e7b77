package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/marathon-wallet/internal/infrastructure/metrics"
)

// HTTPMetrics records request counts, latency and in-flight requests.
func HTTPMetrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// chi fills the route pattern while routing, so read it afterwards.
			route := routeLabel(r)
			m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(responseStatus(ww))).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return normalizePath(r.URL.Path)
}

var (
	// collections followed by an identifier segment
	idCollections = map[string]bool{
		"payment": true, "payments": true, "marathon": true,
		"withdrawals": true, "wallets": true, "accounts": true,
	}
	literalSegments = map[string]bool{
		"topup": true, "webhook": true, "marathon": true,
	}
)

// normalizePath keeps label cardinality bounded for unrouted requests:
// /withdrawals/01HX... becomes /withdrawals/:id.
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		if segments[i] == "" || literalSegments[segments[i]] {
			continue
		}
		if idCollections[segments[i-1]] {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
