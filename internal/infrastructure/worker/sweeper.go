package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PaymentExpirer cancels pending payments whose invoice has lapsed.
type PaymentExpirer interface {
	ExpirePending(ctx context.Context, now time.Time) (int, error)
}

// ExpirySweeper periodically cancels expired pending payments so that users
// are not stuck behind a dead invoice.
type ExpirySweeper struct {
	expirer  PaymentExpirer
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewExpirySweeper creates a sweeper. interval defaults to one minute.
func NewExpirySweeper(expirer PaymentExpirer, interval time.Duration, logger zerolog.Logger) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpirySweeper{
		expirer:  expirer,
		interval: interval,
		logger:   logger.With().Str("component", "expiry_sweeper").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start runs a sweep immediately and then on every tick until ctx is done.
func (s *ExpirySweeper) Start(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("expiry sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.SweepOnce(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("expiry sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// SweepOnce runs a single pass and returns how many payments were cancelled.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) int {
	n, err := s.expirer.ExpirePending(ctx, s.now())
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error().Err(err).Msg("expiry sweep failed")
		}
		return 0
	}
	return n
}
