package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	EntryKindCredit     EntryKind = "CREDIT"
	EntryKindDebit      EntryKind = "DEBIT"
	EntryKindRefund     EntryKind = "REFUND"
	EntryKindWithdrawal EntryKind = "WITHDRAWAL"
)

// Reference kinds used by the services in this module.
const (
	ReferenceKindPayment               = "payment"
	ReferenceKindWithdrawalRequest     = "withdrawal_request"
	ReferenceKindMarathonParticipation = "marathon_participation"
)

// IsValid reports whether k is one of the known entry kinds.
func (k EntryKind) IsValid() bool {
	switch k {
	case EntryKindCredit, EntryKindDebit, EntryKindRefund, EntryKindWithdrawal:
		return true
	}
	return false
}

// IsDebit reports whether entries of this kind decrease the balance.
func (k EntryKind) IsDebit() bool {
	return k == EntryKindDebit || k == EntryKindWithdrawal
}

// LedgerEntry is one immutable balance-changing record.
type LedgerEntry struct {
	CreatedAt     time.Time
	Metadata      map[string]any
	ReferenceKind *string
	ReferenceID   *string
	ID            string
	AccountID     string
	Kind          EntryKind
	Description   string
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
}

// SignedAmount returns the amount with the sign of its effect on the balance.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Kind.IsDebit() {
		return e.Amount.Neg()
	}
	return e.Amount
}

// IsBalanced reports whether BalanceAfter follows from BalanceBefore and Amount.
func (e *LedgerEntry) IsBalanced() bool {
	return e.BalanceBefore.Add(e.SignedAmount()).Equal(e.BalanceAfter)
}
