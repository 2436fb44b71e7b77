package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/adapter/http/dto"
	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/usecase"
)

// SignatureHeader carries the gateway's IPN signature.
const SignatureHeader = "x-nowpayments-sig"

// PaymentService defines the behavior needed by PaymentHandler.
type PaymentService interface {
	CreateTopUp(ctx context.Context, userID string, amount decimal.Decimal, payCurrency string) (*usecase.PaymentResult, error)
	CreateMarathonJoinPayment(ctx context.Context, userID, marathonID, payCurrency string) (*usecase.PaymentResult, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) (*usecase.WebhookResult, error)
	SyncStatus(ctx context.Context, paymentID string) (*usecase.WebhookResult, error)
	ExpirePending(ctx context.Context, now time.Time) (int, error)
	GetPayment(ctx context.Context, userID, id string) (*domain.PaymentRequest, error)
}

// PaymentHandler handles invoice creation and gateway callbacks.
type PaymentHandler struct {
	paymentUC PaymentService
	retrier   Retrier
	logger    zerolog.Logger
}

// NewPaymentHandler creates a new PaymentHandler. retrier may be nil.
func NewPaymentHandler(paymentUC PaymentService, retrier Retrier, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUC: paymentUC,
		retrier:   retrierOrDefault(retrier),
		logger:    logger,
	}
}

// TopUp opens a wallet top-up invoice for the caller.
func (h *PaymentHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.TopUpRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.paymentUC.CreateTopUp(r.Context(), user.ID, req.Amount, req.PayCurrency)
	if err != nil {
		writeDomainError(w, "failed to create top-up", err)
		return
	}

	writeJSON(w, createdOrOK(result), dto.PaymentFromResult(result))
}

// JoinMarathon opens an entry fee invoice for the marathon in the path.
func (h *PaymentHandler) JoinMarathon(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	marathonID := chi.URLParam(r, "marathonId")
	if marathonID == "" {
		writeError(w, http.StatusBadRequest, "missing marathon ID", "")
		return
	}

	var req dto.MarathonPaymentRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.paymentUC.CreateMarathonJoinPayment(r.Context(), user.ID, marathonID, req.PayCurrency)
	if err != nil {
		writeDomainError(w, "failed to create marathon payment", err)
		return
	}

	writeJSON(w, createdOrOK(result), dto.PaymentFromResult(result))
}

// Get returns one of the caller's payments.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	payment, err := h.paymentUC.GetPayment(r.Context(), user.ID, id)
	if err != nil {
		writeDomainError(w, "failed to get payment", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentFromDomain(payment))
}

// Webhook applies a gateway callback. The raw body is handed to the use case
// untouched because the signature covers it.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body", err.Error())
		return
	}

	signature := r.Header.Get(SignatureHeader)

	var result *usecase.WebhookResult
	err = h.retrier.Retry(r.Context(), func() error {
		var opErr error
		result, opErr = h.paymentUC.HandleWebhook(r.Context(), body, signature)
		return opErr
	})

	// A completed payment whose fulfillment failed is acknowledged so that the
	// gateway stops redelivering it; the failure is already escalated.
	if result != nil && result.Payment != nil {
		if err != nil {
			h.logger.Warn().Err(err).
				Str("payment_id", result.Payment.ID).
				Str("fulfillment_status", string(result.Payment.Fulfillment)).
				Msg("webhook applied with fulfillment failure")
		}
		writeJSON(w, http.StatusOK, dto.WebhookFromResult(result))
		return
	}

	if err != nil {
		status := mapDomainError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error().Err(err).Msg("webhook processing failed")
		}
		writeDomainError(w, "webhook not processed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
}

// Sync polls the gateway for a payment's status and applies it.
func (h *PaymentHandler) Sync(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	var result *usecase.WebhookResult
	err := h.retrier.Retry(r.Context(), func() error {
		var opErr error
		result, opErr = h.paymentUC.SyncStatus(r.Context(), id)
		return opErr
	})

	if result != nil && result.Payment != nil {
		if err != nil {
			h.logger.Warn().Err(err).Str("payment_id", id).Msg("status sync applied with fulfillment failure")
		}
		writeJSON(w, http.StatusOK, dto.WebhookFromResult(result))
		return
	}

	if err != nil {
		writeDomainError(w, "failed to sync payment", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "unchanged"})
}

// Expire cancels every pending payment whose invoice has already expired.
func (h *PaymentHandler) Expire(w http.ResponseWriter, r *http.Request) {
	expired, err := h.paymentUC.ExpirePending(r.Context(), time.Now().UTC())
	if err != nil {
		writeDomainError(w, "failed to expire payments", err)
		return
	}

	h.logger.Info().Int("expired", expired).Msg("expired pending payments on operator request")
	writeJSON(w, http.StatusOK, map[string]int{"expired": expired})
}

func createdOrOK(result *usecase.PaymentResult) int {
	if result.Reused {
		return http.StatusOK
	}
	return http.StatusCreated
}
