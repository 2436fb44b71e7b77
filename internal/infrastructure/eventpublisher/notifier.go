package eventpublisher

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/marathon-wallet/internal/usecase"
)

// LogNotifier hands notifications to the log. Delivery to users lives in a
// separate service that tails these records.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

// Notify never blocks and never fails the caller.
func (n *LogNotifier) Notify(_ context.Context, notification usecase.Notification) error {
	n.logger.Info().
		Str("user_id", notification.UserID).
		Str("notification_type", notification.Type).
		Fields(notification.Data).
		Msg("notification queued")
	return nil
}

// LogAssigner stands in for the execution-account service until one is
// configured. Assignment requests are logged for manual follow-up.
type LogAssigner struct {
	logger zerolog.Logger
}

// NewLogAssigner creates a new LogAssigner.
func NewLogAssigner(logger zerolog.Logger) *LogAssigner {
	return &LogAssigner{logger: logger.With().Str("component", "assigner").Logger()}
}

// AssignToParticipant records the request and reports success.
func (a *LogAssigner) AssignToParticipant(_ context.Context, marathonID, userID string) error {
	a.logger.Info().
		Str("marathon_id", marathonID).
		Str("user_id", userID).
		Msg("execution account assignment requested")
	return nil
}
