package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the service exports.
type Metrics struct {
	// HTTP
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Ledger
	LedgerAdjustments *prometheus.CounterVec
	AdjustDuration    prometheus.Histogram
	AdjustAmount      *prometheus.HistogramVec

	// Payments
	PaymentsCreated    *prometheus.CounterVec
	PaymentsExpired    prometheus.Counter
	WebhooksReceived   *prometheus.CounterVec
	EnrollmentFailures *prometheus.CounterVec
	GatewayRequests    *prometheus.CounterVec

	// Withdrawals
	WithdrawalsCreated prometheus.Counter
	WithdrawalReviews  *prometheus.CounterVec

	OutboxPublished  *prometheus.CounterVec
	DBRetries        *prometheus.CounterVec
	AuditLogsCreated *prometheus.CounterVec
}

// New registers the collectors with the default Prometheus registry.
// Call it once per process.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return f.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
	}

	return &Metrics{
		HTTPRequests: counterVec("http_requests_total",
			"HTTP requests by method, route and status", "method", "path", "status"),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "path"}),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),

		LedgerAdjustments: counterVec("wallet_ledger_adjustments_total",
			"Wallet ledger adjustments by kind and outcome", "kind", "outcome"),
		AdjustDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_ledger_adjust_duration_seconds",
			Help:    "Duration of wallet adjustments",
			Buckets: prometheus.DefBuckets,
		}),
		AdjustAmount: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_ledger_adjust_amount",
			Help:    "Wallet adjustment amounts in USD",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000},
		}, []string{"kind"}),

		PaymentsCreated: counterVec("wallet_payments_created_total",
			"Payment requests by purpose and whether an open invoice was reused", "purpose", "result"),
		PaymentsExpired: f.NewCounter(prometheus.CounterOpts{
			Name: "wallet_payments_expired_total",
			Help: "Pending payments cancelled after their invoice expired",
		}),
		WebhooksReceived: counterVec("wallet_webhooks_total",
			"Gateway webhooks by outcome", "outcome"),
		EnrollmentFailures: counterVec("wallet_enrollment_failures_total",
			"Paid marathon enrollments that could not be fulfilled", "reason"),
		GatewayRequests: counterVec("wallet_gateway_requests_total",
			"Outbound payment gateway attempts", "operation", "outcome"),

		WithdrawalsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "wallet_withdrawals_created_total",
			Help: "Withdrawal requests created",
		}),
		WithdrawalReviews: counterVec("wallet_withdrawal_reviews_total",
			"Withdrawal review transitions by target status", "status"),

		OutboxPublished: counterVec("wallet_outbox_published_total",
			"Outbox events by publish outcome", "outcome"),
		DBRetries: counterVec("wallet_db_retries_total",
			"Transactions retried after deadlock or serialization failure", "code"),
		AuditLogsCreated: counterVec("wallet_audit_logs_total",
			"Audit logs written by action and status", "action", "status"),
	}
}
