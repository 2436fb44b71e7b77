package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Marathon carries the fields of a competition that enrollment depends on.
type Marathon struct {
	ID             string
	Name           string
	IsActive       bool
	MaxPlayers     int
	CurrentPlayers int
	EntryFee       decimal.Decimal
}

// HasCapacity reports whether another participant fits.
func (m *Marathon) HasCapacity() bool {
	return m.CurrentPlayers < m.MaxPlayers
}

// CheckJoinable returns the reason a user cannot start paying for the marathon.
func (m *Marathon) CheckJoinable() error {
	if !m.IsActive {
		return ErrMarathonNotActive
	}

	if !m.HasCapacity() {
		return ErrCapacityExceeded
	}

	return nil
}

// Participant links a user to a marathon they paid for.
type Participant struct {
	CreatedAt  time.Time
	ID         string
	MarathonID string
	UserID     string
	PaymentID  string
}

// PayoutWallet is an external address a user registered for withdrawals.
type PayoutWallet struct {
	ID      string
	UserID  string
	Address string
	Network string
}
