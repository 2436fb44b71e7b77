package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
)

// TopUpRequest opens a wallet top-up invoice.
type TopUpRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PayCurrency string          `json:"pay_currency" validate:"omitempty,alphanum,max=16"`
}

// MarathonPaymentRequest opens an entry fee invoice. The body is optional.
type MarathonPaymentRequest struct {
	PayCurrency string `json:"pay_currency" validate:"omitempty,alphanum,max=16"`
}

// CreateWithdrawalRequest asks for funds to be sent to a registered payout wallet.
type CreateWithdrawalRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	WalletID string          `json:"wallet_id" validate:"required,max=64"`
}

// ReviewWithdrawalRequest moves a withdrawal forward in review.
type ReviewWithdrawalRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED PAID REJECTED"`
	Note   string `json:"note"   validate:"max=500"`
}

// TargetStatus returns the requested review status.
func (r *ReviewWithdrawalRequest) TargetStatus() domain.WithdrawalStatus {
	return domain.WithdrawalStatus(r.Status)
}
