package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency every wallet account is denominated in.
const DefaultCurrency = "USD"

// Account is a user's virtual wallet. Its balance is only ever changed by
// appending a LedgerEntry.
type Account struct {
	ID        string
	UserID    string
	Currency  string
	Balance   decimal.Decimal
	Frozen    bool
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount returns an empty, unfrozen account for a user.
func NewAccount(id, userID string, now time.Time) *Account {
	return &Account{
		ID:        id,
		UserID:    userID,
		Currency:  DefaultCurrency,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CheckAdjust verifies that an entry of the given kind and amount may be applied.
func (a *Account) CheckAdjust(kind EntryKind, amount decimal.Decimal) error {
	if !kind.IsDebit() {
		return nil
	}

	if a.Frozen {
		return ErrAccountFrozen
	}

	if a.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientBalance
	}

	return nil
}

// Apply returns the balance after applying an entry of the given kind.
func (a *Account) Apply(kind EntryKind, amount decimal.Decimal) decimal.Decimal {
	if kind.IsDebit() {
		return RoundMoney(a.Balance.Sub(amount))
	}

	return RoundMoney(a.Balance.Add(amount))
}
