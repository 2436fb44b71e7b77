package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultPaymentExpiry is how long a gateway invoice stays payable.
	DefaultPaymentExpiry = 30 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultBalanceCacheTTL bounds staleness of cached wallet balances.
	DefaultBalanceCacheTTL = 30 * time.Second

	// Entry list paging.
	DefaultEntriesLimit = 20
	MaxEntriesLimit     = 100

	expireBatchSize = 100
)

// Notification types
const (
	NotificationWalletToppedUp  = "wallet_topped_up"
	NotificationMarathonJoined  = "marathon_joined"
	NotificationWithdrawalState = "withdrawal_status"
)
