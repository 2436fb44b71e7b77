package domain

import "errors"

var (
	// Ledger errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountFrozen       = errors.New("wallet is frozen")
	ErrDuplicateReference  = errors.New("duplicate ledger reference")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidEntryKind    = errors.New("invalid ledger entry kind")
	ErrLedgerInconsistent  = errors.New("ledger inconsistency detected")

	// Payment errors
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrInvalidPayCurrency     = errors.New("invalid pay currency")
	ErrInvalidWebhookPayload  = errors.New("invalid webhook payload")
	ErrWebhookRejected        = errors.New("webhook rejected: signature mismatch")
	ErrGatewayUnavailable     = errors.New("payment gateway unavailable")
	ErrGatewayRejected        = errors.New("payment gateway rejected request")
	ErrPaymentNotPending      = errors.New("payment is not pending")
	ErrPendingPaymentExists   = errors.New("a pending payment already exists")
	ErrMissingMarathonForJoin = errors.New("marathon id is required for marathon join payments")

	// Marathon errors
	ErrMarathonNotFound  = errors.New("marathon not found")
	ErrMarathonNotActive = errors.New("marathon is not active")
	ErrCapacityExceeded  = errors.New("marathon capacity exceeded")
	ErrAlreadyEnrolled   = errors.New("user already enrolled in marathon")

	// Withdrawal errors
	ErrWithdrawalNotFound   = errors.New("withdrawal not found")
	ErrPayoutWalletNotFound = errors.New("payout wallet not found")
	ErrWalletNotOwned       = errors.New("payout wallet does not belong to user")
	ErrInvalidTransition    = errors.New("invalid status transition")
)
