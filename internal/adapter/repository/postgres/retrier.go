package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/marathon-wallet/internal/infrastructure/metrics"
)

// SQLSTATE codes worth running a transaction again for.
var retryableCodes = map[string]bool{
	"40P01": true, // deadlock_detected
	"40001": true, // serialization_failure
	"55P03": true, // lock_not_available
}

// RetryPolicy bounds how long Retrier keeps trying.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy allows three retries within ten seconds.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      3,
	InitialInterval: 50 * time.Millisecond,
	MaxInterval:     time.Second,
	MaxElapsedTime:  10 * time.Second,
}

// Retrier re-runs whole transactions that lost a lock or serialization
// race. The operation must open its own transaction.
type Retrier struct {
	policy  RetryPolicy
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewRetrier creates a Retrier with DefaultRetryPolicy. m may be nil.
func NewRetrier(m *metrics.Metrics, logger zerolog.Logger) *Retrier {
	return NewRetrierWithPolicy(DefaultRetryPolicy, m, logger)
}

// NewRetrierWithPolicy creates a Retrier with a custom policy.
func NewRetrierWithPolicy(policy RetryPolicy, m *metrics.Metrics, logger zerolog.Logger) *Retrier {
	return &Retrier{
		policy:  policy,
		metrics: m,
		logger:  logger.With().Str("component", "db_retrier").Logger(),
	}
}

// Retry runs operation until it succeeds, fails with a non-retryable error
// or the policy is exhausted. The last error is returned unwrapped.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = r.policy.InitialInterval
	eb.MaxInterval = r.policy.MaxInterval
	eb.MaxElapsedTime = r.policy.MaxElapsedTime

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, r.policy.MaxRetries), ctx)

	attempt := func() error {
		err := operation()
		if err != nil && sqlState(err) == "" {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		code := sqlState(err)
		if r.metrics != nil {
			r.metrics.DBRetries.WithLabelValues(code).Inc()
		}
		r.logger.Warn().Err(err).Str("sqlstate", code).Dur("backoff", wait).Msg("transaction conflict, retrying")
	}

	return backoff.RetryNotify(attempt, policy, notify)
}

// sqlState returns the SQLSTATE of a retryable error, or "".
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && retryableCodes[pgErr.Code] {
		return pgErr.Code
	}
	return ""
}
