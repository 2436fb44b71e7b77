package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/marathon-wallet/internal/adapter/http/dto"
	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/usecase"
)

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	GetWallet(ctx context.Context, userID string) (*domain.Account, error)
	GetBalance(ctx context.Context, userID string) (*usecase.WalletBalance, error)
	ListEntries(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error)
	SetFrozen(ctx context.Context, userID string, frozen bool) (*domain.Account, error)
}

// WalletHandler serves the caller's virtual wallet.
type WalletHandler struct {
	walletUC WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC WalletService) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// Get returns the caller's wallet summary.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	account, err := h.walletUC.GetWallet(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, "failed to get wallet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(account))
}

// Balance returns the caller's balance.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	balance, err := h.walletUC.GetBalance(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, balance)
}

// Transactions lists the caller's newest ledger entries.
func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", usecase.DefaultEntriesLimit)

	entries, err := h.walletUC.ListEntries(r.Context(), user.ID, limit)
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Freeze blocks debits on a user's wallet.
func (h *WalletHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	h.setFrozen(w, r, true)
}

// Unfreeze lifts a freeze.
func (h *WalletHandler) Unfreeze(w http.ResponseWriter, r *http.Request) {
	h.setFrozen(w, r, false)
}

func (h *WalletHandler) setFrozen(w http.ResponseWriter, r *http.Request, frozen bool) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	account, err := h.walletUC.SetFrozen(r.Context(), userID, frozen)
	if err != nil {
		writeDomainError(w, "failed to update wallet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(account))
}
