package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/marathon-wallet/internal/adapter/http/dto"
	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/usecase"
)

// ReconciliationService defines the behavior needed by LedgerHandler.
type ReconciliationService interface {
	CheckLedgerConsistency(ctx context.Context) error
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// AuditLister reads the audit trail.
type AuditLister interface {
	List(ctx context.Context, filter *domain.AuditFilter) ([]*domain.AuditLog, error)
}

// LedgerHandler handles ledger-wide operator endpoints.
type LedgerHandler struct {
	reconciliationUC ReconciliationService
	audit            AuditLister
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reconciliationUC ReconciliationService, audit AuditLister) *LedgerHandler {
	return &LedgerHandler{reconciliationUC: reconciliationUC, audit: audit}
}

// CheckConsistency checks that balances sum to the signed entry total.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	if err := h.reconciliationUC.CheckLedgerConsistency(r.Context()); err != nil {
		writeJSON(w, http.StatusConflict, map[string]any{
			"status":     "inconsistent",
			"consistent": false,
			"message":    err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "consistent",
		"consistent": true,
	})
}

// ReconcileAccount compares one account's balance with its entries.
func (h *LedgerHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	result, err := h.reconciliationUC.ReconcileAccount(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, "failed to reconcile account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))
}

// Report reconciles every account.
func (h *LedgerHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, "failed to generate report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromDomain(report))
}

// AuditLogs lists audit records filtered by query parameters.
func (h *LedgerHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := domain.ValidatePagination(parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))

	filter := &domain.AuditFilter{
		UserID:       q.Get("user_id"),
		Action:       q.Get("action"),
		ResourceType: q.Get("resource_type"),
		ResourceID:   q.Get("resource_id"),
		Limit:        limit,
		Offset:       offset,
	}

	for key, target := range map[string]**time.Time{"from": &filter.StartDate, "to": &filter.EndDate} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+key+" timestamp", err.Error())
			return
		}
		*target = &t
	}

	logs, err := h.audit.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, "failed to list audit logs", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}
