package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus is the review state of a WithdrawalRequest.
type WithdrawalStatus string

const (
	WithdrawalStatusUnderReview WithdrawalStatus = "UNDER_REVIEW"
	WithdrawalStatusApproved    WithdrawalStatus = "APPROVED"
	WithdrawalStatusPaid        WithdrawalStatus = "PAID"
	WithdrawalStatusRejected    WithdrawalStatus = "REJECTED"
)

var withdrawalTransitions = map[WithdrawalStatus][]WithdrawalStatus{
	WithdrawalStatusUnderReview: {WithdrawalStatusApproved, WithdrawalStatusRejected},
	WithdrawalStatusApproved:    {WithdrawalStatusPaid, WithdrawalStatusRejected},
}

// IsValid reports whether s is a known withdrawal status.
func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalStatusUnderReview, WithdrawalStatusApproved, WithdrawalStatusPaid, WithdrawalStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether s allows no further transitions.
func (s WithdrawalStatus) IsTerminal() bool {
	return len(withdrawalTransitions[s]) == 0
}

// CanTransitionTo reports whether a review may move a withdrawal from s to next.
func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	for _, allowed := range withdrawalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// WithdrawalRequest is a user's request to move wallet funds to an external
// payout wallet. The funds are debited when the request is created.
type WithdrawalRequest struct {
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ProcessedAt         *time.Time
	ID                  string
	UserID              string
	AccountID           string
	DestinationAddress  string
	Network             string
	TransactionNumber   string
	LinkedLedgerEntryID string
	ReviewNote          string
	Status              WithdrawalStatus
	Amount              decimal.Decimal
}

// Transition moves the request to next, stamping ProcessedAt.
func (w *WithdrawalRequest) Transition(next WithdrawalStatus, note string, now time.Time) error {
	if !w.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, w.Status, next)
	}

	w.Status = next
	w.ReviewNote = note
	w.ProcessedAt = &now
	w.UpdatedAt = now

	return nil
}

// FormatTransactionNumber renders the human-readable withdrawal number
// WD-YYYYMMDD-NNNN for the seq-th request of the given UTC day.
func FormatTransactionNumber(day time.Time, seq int) string {
	return fmt.Sprintf("WD-%s-%04d", day.UTC().Format("20060102"), seq)
}
