package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the internal lifecycle state of a PaymentRequest.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are allowed.
func (s PaymentStatus) IsTerminal() bool {
	return s != PaymentStatusPending
}

// PaymentPurpose selects the completion action of a payment.
type PaymentPurpose string

const (
	PaymentPurposeWalletTopUp  PaymentPurpose = "WALLET_TOPUP"
	PaymentPurposeMarathonJoin PaymentPurpose = "MARATHON_JOIN"
)

// FulfillmentStatus records whether the completion action of a completed
// payment took effect.
type FulfillmentStatus string

const (
	FulfillmentNone      FulfillmentStatus = "NONE"
	FulfillmentFulfilled FulfillmentStatus = "FULFILLED"
	FulfillmentFailed    FulfillmentStatus = "FAILED"
)

// PaymentRequest tracks one gateway invoice from creation to a terminal state.
type PaymentRequest struct {
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ExpiresAt          time.Time
	LastWebhookPayload map[string]any
	MarathonID         *string
	ID                 string
	UserID             string
	ExternalID         string
	PayAddress         string
	PayCurrency        string
	Network            string
	FulfillmentError   string
	Status             PaymentStatus
	Purpose            PaymentPurpose
	Fulfillment        FulfillmentStatus
	Amount             decimal.Decimal
	PayAmount          decimal.Decimal
}

// IsExpired reports whether a pending payment has outlived its invoice.
func (p *PaymentRequest) IsExpired(now time.Time) bool {
	return p.Status == PaymentStatusPending && !now.Before(p.ExpiresAt)
}

// Validate checks the purpose-specific invariants of a payment.
func (p *PaymentRequest) Validate() error {
	if !RoundMoney(p.Amount).IsPositive() {
		return ErrInvalidAmount
	}

	if p.Purpose == PaymentPurposeMarathonJoin && (p.MarathonID == nil || *p.MarathonID == "") {
		return ErrMissingMarathonForJoin
	}

	return nil
}
