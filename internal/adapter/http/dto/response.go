package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/usecase"
)

// WalletResponse represents a virtual wallet in API responses.
type WalletResponse struct {
	ID        string          `json:"id,omitempty"`
	UserID    string          `json:"user_id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Frozen    bool            `json:"frozen"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// WalletFromDomain converts a domain account to a response. Wallets that do
// not exist yet have no ID or timestamps.
func WalletFromDomain(a *domain.Account) *WalletResponse {
	resp := &WalletResponse{
		ID:       a.ID,
		UserID:   a.UserID,
		Currency: a.Currency,
		Balance:  a.Balance,
		Frozen:   a.Frozen,
	}

	if !a.CreatedAt.IsZero() {
		created, updated := a.CreatedAt, a.UpdatedAt
		resp.CreatedAt = &created
		resp.UpdatedAt = &updated
	}

	return resp
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ReferenceKind *string         `json:"reference_kind,omitempty"`
	ReferenceID   *string         `json:"reference_id,omitempty"`
	Description   string          `json:"description,omitempty"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		AccountID:     e.AccountID,
		Kind:          string(e.Kind),
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		ReferenceKind: e.ReferenceKind,
		ReferenceID:   e.ReferenceID,
		Description:   e.Description,
		Metadata:      e.Metadata,
		CreatedAt:     e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// PaymentResponse represents a payment request in API responses.
type PaymentResponse struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	ExternalID        string          `json:"external_id"`
	Purpose           string          `json:"purpose"`
	MarathonID        *string         `json:"marathon_id,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	PayAmount         decimal.Decimal `json:"pay_amount"`
	PayCurrency       string          `json:"pay_currency"`
	PayAddress        string          `json:"pay_address"`
	Network           string          `json:"network"`
	Status            string          `json:"status"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	FulfillmentError  string          `json:"fulfillment_error,omitempty"`
	Reused            bool            `json:"reused,omitempty"`
	ExpiresAt         time.Time       `json:"expires_at"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PaymentFromDomain converts a domain payment to response.
func PaymentFromDomain(p *domain.PaymentRequest) *PaymentResponse {
	return &PaymentResponse{
		ID:                p.ID,
		UserID:            p.UserID,
		ExternalID:        p.ExternalID,
		Purpose:           string(p.Purpose),
		MarathonID:        p.MarathonID,
		Amount:            p.Amount,
		PayAmount:         p.PayAmount,
		PayCurrency:       p.PayCurrency,
		PayAddress:        p.PayAddress,
		Network:           p.Network,
		Status:            string(p.Status),
		FulfillmentStatus: string(p.Fulfillment),
		FulfillmentError:  p.FulfillmentError,
		ExpiresAt:         p.ExpiresAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// PaymentFromResult converts a create result, flagging reused invoices.
func PaymentFromResult(r *usecase.PaymentResult) *PaymentResponse {
	resp := PaymentFromDomain(r.Payment)
	resp.Reused = r.Reused
	return resp
}

// WebhookResponse acknowledges a gateway delivery.
type WebhookResponse struct {
	PaymentID         string `json:"payment_id"`
	Status            string `json:"status"`
	FulfillmentStatus string `json:"fulfillment_status"`
	Duplicate         bool   `json:"duplicate,omitempty"`
}

// WebhookFromResult converts a webhook result to response.
func WebhookFromResult(r *usecase.WebhookResult) *WebhookResponse {
	return &WebhookResponse{
		PaymentID:         r.Payment.ID,
		Status:            string(r.Payment.Status),
		FulfillmentStatus: string(r.Payment.Fulfillment),
		Duplicate:         r.Duplicate,
	}
}

// WithdrawalResponse represents a withdrawal request in API responses.
type WithdrawalResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	TransactionNumber  string          `json:"transaction_number"`
	Amount             decimal.Decimal `json:"amount"`
	DestinationAddress string          `json:"destination_address"`
	Network            string          `json:"network"`
	Status             string          `json:"status"`
	ReviewNote         string          `json:"review_note,omitempty"`
	LedgerEntryID      string          `json:"ledger_entry_id,omitempty"`
	ProcessedAt        *time.Time      `json:"processed_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// WithdrawalFromDomain converts a domain withdrawal to response.
func WithdrawalFromDomain(w *domain.WithdrawalRequest) *WithdrawalResponse {
	return &WithdrawalResponse{
		ID:                 w.ID,
		UserID:             w.UserID,
		TransactionNumber:  w.TransactionNumber,
		Amount:             w.Amount,
		DestinationAddress: w.DestinationAddress,
		Network:            w.Network,
		Status:             string(w.Status),
		ReviewNote:         w.ReviewNote,
		LedgerEntryID:      w.LinkedLedgerEntryID,
		ProcessedAt:        w.ProcessedAt,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
	}
}

// ListWithdrawalsResponse represents a page of withdrawals.
type ListWithdrawalsResponse struct {
	Withdrawals []*WithdrawalResponse `json:"withdrawals"`
	Limit       int                   `json:"limit"`
	Offset      int                   `json:"offset"`
}

// WithdrawalsFromDomain converts domain withdrawals to responses.
func WithdrawalsFromDomain(ws []*domain.WithdrawalRequest) []*WithdrawalResponse {
	result := make([]*WithdrawalResponse, len(ws))
	for i, w := range ws {
		result[i] = WithdrawalFromDomain(w)
	}
	return result
}

// ReconciliationResponse is the outcome of reconciling one account.
type ReconciliationResponse struct {
	AccountID         string          `json:"account_id"`
	UserID            string          `json:"user_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	LastBalanceAfter  decimal.Decimal `json:"last_balance_after"`
	Difference        decimal.Decimal `json:"difference"`
	EntryCount        int64           `json:"entry_count"`
	Reconciled        bool            `json:"reconciled"`
	CheckedAt         time.Time       `json:"checked_at"`
}

// ReconciliationFromResult converts a reconciliation result to response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		UserID:            r.UserID,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		LastBalanceAfter:  r.LastBalanceAfter,
		Difference:        r.Difference,
		EntryCount:        r.EntryCount,
		Reconciled:        r.IsReconciled,
		CheckedAt:         r.LastChecked,
	}
}

// ReconciliationReportResponse summarizes a full reconciliation run.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	LedgerConsistent   bool                      `json:"ledger_consistent"`
	LedgerError        string                    `json:"ledger_error,omitempty"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ReportFromDomain converts a reconciliation report to response.
func ReportFromDomain(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationFromResult(d)
	}

	return &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      discrepancies,
		LedgerConsistent:   r.LedgerConsistent,
		LedgerError:        r.LedgerError,
		CheckedAt:          r.CheckedAt,
	}
}

// AuditLogResponse represents an audit record in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	IPAddress    string         `json:"ip_address,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts audit records to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			IPAddress:    l.IPAddress,
			RequestID:    l.RequestID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       l.Status,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
