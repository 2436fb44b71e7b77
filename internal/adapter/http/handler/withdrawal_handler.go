package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/adapter/http/dto"
	"github.com/iho/marathon-wallet/internal/domain"
)

// WithdrawalService defines the behavior needed by WithdrawalHandler.
type WithdrawalService interface {
	Create(ctx context.Context, userID string, amount decimal.Decimal, walletID string) (*domain.WithdrawalRequest, error)
	Get(ctx context.Context, userID, id string) (*domain.WithdrawalRequest, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*domain.WithdrawalRequest, error)
	Review(ctx context.Context, id string, to domain.WithdrawalStatus, note string) (*domain.WithdrawalRequest, error)
	Refund(ctx context.Context, id string) (*domain.LedgerEntry, error)
}

// WithdrawalHandler handles withdrawal-related HTTP requests.
type WithdrawalHandler struct {
	withdrawalUC WithdrawalService
	retrier      Retrier
}

// NewWithdrawalHandler creates a new WithdrawalHandler. retrier may be nil.
func NewWithdrawalHandler(withdrawalUC WithdrawalService, retrier Retrier) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalUC: withdrawalUC, retrier: retrierOrDefault(retrier)}
}

// Create debits the caller's wallet and files a withdrawal for review.
func (h *WithdrawalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateWithdrawalRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var withdrawal *domain.WithdrawalRequest
	err := h.retrier.Retry(r.Context(), func() error {
		var opErr error
		withdrawal, opErr = h.withdrawalUC.Create(r.Context(), user.ID, req.Amount, req.WalletID)
		return opErr
	})
	if err != nil {
		writeDomainError(w, "failed to create withdrawal", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.WithdrawalFromDomain(withdrawal))
}

// Get retrieves one of the caller's withdrawals.
func (h *WithdrawalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing withdrawal ID", "")
		return
	}

	withdrawal, err := h.withdrawalUC.Get(r.Context(), user.ID, id)
	if err != nil {
		writeDomainError(w, "failed to get withdrawal", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// List lists the caller's withdrawals.
func (h *WithdrawalHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit, offset := domain.ValidatePagination(parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))

	withdrawals, err := h.withdrawalUC.List(r.Context(), user.ID, limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list withdrawals", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListWithdrawalsResponse{
		Withdrawals: dto.WithdrawalsFromDomain(withdrawals),
		Limit:       limit,
		Offset:      offset,
	})
}

// Review moves a withdrawal to APPROVED, PAID or REJECTED.
func (h *WithdrawalHandler) Review(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing withdrawal ID", "")
		return
	}

	var req dto.ReviewWithdrawalRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var withdrawal *domain.WithdrawalRequest
	err := h.retrier.Retry(r.Context(), func() error {
		var opErr error
		withdrawal, opErr = h.withdrawalUC.Review(r.Context(), id, req.TargetStatus(), req.Note)
		return opErr
	})
	if err != nil {
		writeDomainError(w, "failed to review withdrawal", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// Refund credits a rejected withdrawal back to its wallet.
func (h *WithdrawalHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing withdrawal ID", "")
		return
	}

	var entry *domain.LedgerEntry
	err := h.retrier.Retry(r.Context(), func() error {
		var opErr error
		entry, opErr = h.withdrawalUC.Refund(r.Context(), id)
		return opErr
	})
	if err != nil {
		writeDomainError(w, "failed to refund withdrawal", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}
