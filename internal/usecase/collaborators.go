package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
)

// InvoiceRequest asks the gateway for a crypto invoice denominated in USD.
type InvoiceRequest struct {
	AmountUSD   decimal.Decimal
	PayCurrency string
	OrderID     string
	Description string
	CallbackURL string
}

// GatewayQuote holds the payment instructions returned by the gateway.
type GatewayQuote struct {
	ExternalID  string
	PayAddress  string
	PayAmount   decimal.Decimal
	PayCurrency string
	Network     string
}

// GatewayStatus is the gateway's view of an invoice.
type GatewayStatus struct {
	ExternalID string
	Status     string
	Mapped     domain.PaymentStatus
}

// PaymentGateway is the external crypto payment processor.
type PaymentGateway interface {
	CreateInvoice(ctx context.Context, req InvoiceRequest) (*GatewayQuote, error)
	GetStatus(ctx context.Context, externalID string) (*GatewayStatus, error)
	VerifyCallbackSignature(payload map[string]any, signature string) bool
	MapStatus(raw string) domain.PaymentStatus
}

// PayoutWalletLookup resolves a user's registered payout wallets.
type PayoutWalletLookup interface {
	GetByID(ctx context.Context, id string) (*domain.PayoutWallet, error)
}

// MarathonRepository reads marathons and records participation.
type MarathonRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Marathon, error)
	IsParticipant(ctx context.Context, marathonID, userID string) (bool, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Marathon, error)
	IsParticipantTx(ctx context.Context, tx Transaction, marathonID, userID string) (bool, error)
	// AddParticipant inserts the participant and increments the marathon's
	// player counter.
	AddParticipant(ctx context.Context, tx Transaction, participant *domain.Participant) error
}

// ExecutionAccountAssigner provisions a trading account for a new participant.
type ExecutionAccountAssigner interface {
	AssignToParticipant(ctx context.Context, marathonID, userID string) error
}

// Notification is a user-facing message handed to the Notifier.
type Notification struct {
	UserID string
	Type   string
	Data   map[string]any
}

// Notifier delivers notifications without blocking the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
