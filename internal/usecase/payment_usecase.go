package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/metrics"
)

// PaymentConfig tunes invoice creation.
type PaymentConfig struct {
	Expiry             time.Duration
	CallbackURL        string
	DefaultPayCurrency string
}

// PaymentUseCaseDeps groups the collaborators of PaymentUseCase.
// Assigner, Notifier, AuditRepo, OutboxRepo and Metrics are optional.
type PaymentUseCaseDeps struct {
	TxManager    TransactionManager
	PaymentRepo  PaymentRepository
	MarathonRepo MarathonRepository
	OutboxRepo   OutboxRepository
	AuditRepo    AuditRepository
	Wallet       *WalletUseCase
	Gateway      PaymentGateway
	Assigner     ExecutionAccountAssigner
	Notifier     Notifier
	IDGen        IDGenerator
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
}

// PaymentUseCase owns the PaymentRequest lifecycle and applies the side
// effect of each completed payment exactly once.
type PaymentUseCase struct {
	txManager    TransactionManager
	paymentRepo  PaymentRepository
	marathonRepo MarathonRepository
	outboxRepo   OutboxRepository
	auditRepo    AuditRepository
	wallet       *WalletUseCase
	gateway      PaymentGateway
	assigner     ExecutionAccountAssigner
	notifier     Notifier
	idGen        IDGenerator
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	cfg          PaymentConfig
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(deps PaymentUseCaseDeps, cfg PaymentConfig) *PaymentUseCase {
	if cfg.Expiry <= 0 {
		cfg.Expiry = DefaultPaymentExpiry
	}

	return &PaymentUseCase{
		txManager:    deps.TxManager,
		paymentRepo:  deps.PaymentRepo,
		marathonRepo: deps.MarathonRepo,
		outboxRepo:   deps.OutboxRepo,
		auditRepo:    deps.AuditRepo,
		wallet:       deps.Wallet,
		gateway:      deps.Gateway,
		assigner:     deps.Assigner,
		notifier:     deps.Notifier,
		idGen:        deps.IDGen,
		metrics:      deps.Metrics,
		logger:       deps.Logger.With().Str("component", "payment").Logger(),
		cfg:          cfg,
	}
}

// PaymentResult is a payment plus whether an open invoice was handed back.
type PaymentResult struct {
	Payment *domain.PaymentRequest
	Reused  bool
}

// WebhookResult describes what a webhook delivery did.
type WebhookResult struct {
	Payment *domain.PaymentRequest
	// Duplicate is set when the payment was already terminal.
	Duplicate bool
}

// CreateTopUp opens (or reuses) a wallet top-up invoice.
func (uc *PaymentUseCase) CreateTopUp(ctx context.Context, userID string, amount decimal.Decimal, payCurrency string) (*PaymentResult, error) {
	amount, err := domain.ValidateAmount(amount)
	if err != nil {
		return nil, err
	}

	payCurrency, err = uc.payCurrency(payCurrency)
	if err != nil {
		return nil, err
	}

	return uc.createOrReuse(ctx, &domain.PaymentRequest{
		UserID:      userID,
		Purpose:     domain.PaymentPurposeWalletTopUp,
		Amount:      amount,
		PayCurrency: payCurrency,
	}, "Wallet top-up")
}

// CreateMarathonJoinPayment opens (or reuses) an invoice for a marathon entry fee.
func (uc *PaymentUseCase) CreateMarathonJoinPayment(ctx context.Context, userID, marathonID, payCurrency string) (*PaymentResult, error) {
	marathon, err := uc.marathonRepo.GetByID(ctx, marathonID)
	if err != nil {
		return nil, err
	}

	if err := marathon.CheckJoinable(); err != nil {
		return nil, err
	}

	enrolled, err := uc.marathonRepo.IsParticipant(ctx, marathonID, userID)
	if err != nil {
		return nil, err
	}

	if enrolled {
		return nil, domain.ErrAlreadyEnrolled
	}

	amount, err := domain.ValidateAmount(marathon.EntryFee)
	if err != nil {
		return nil, err
	}

	payCurrency, err = uc.payCurrency(payCurrency)
	if err != nil {
		return nil, err
	}

	return uc.createOrReuse(ctx, &domain.PaymentRequest{
		UserID:      userID,
		Purpose:     domain.PaymentPurposeMarathonJoin,
		MarathonID:  strPtr(marathonID),
		Amount:      amount,
		PayCurrency: payCurrency,
	}, "Marathon entry: "+marathon.Name)
}

func (uc *PaymentUseCase) payCurrency(c string) (string, error) {
	if c == "" {
		c = uc.cfg.DefaultPayCurrency
	}
	return domain.NormalizePayCurrency(c)
}

func (uc *PaymentUseCase) createOrReuse(ctx context.Context, draft *domain.PaymentRequest, description string) (*PaymentResult, error) {
	// 1. Hand back a live invoice, cancelling a stale one
	existing, err := uc.reusablePending(ctx, draft)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		uc.recordCreated(draft.Purpose, "reused")
		return &PaymentResult{Payment: existing, Reused: true}, nil
	}

	// 2. Ask the gateway before any row is written
	draft.ID = uc.idGen.Generate()

	quote, err := uc.gateway.CreateInvoice(ctx, InvoiceRequest{
		AmountUSD:   draft.Amount,
		PayCurrency: draft.PayCurrency,
		OrderID:     draft.ID,
		Description: description,
		CallbackURL: uc.cfg.CallbackURL,
	})
	if err != nil {
		uc.logger.Error().Err(err).Str("user_id", draft.UserID).Str("purpose", string(draft.Purpose)).Msg("gateway invoice creation failed")
		return nil, err
	}

	now := time.Now().UTC()
	draft.ExternalID = quote.ExternalID
	draft.PayAddress = quote.PayAddress
	draft.PayAmount = quote.PayAmount
	draft.PayCurrency = quote.PayCurrency
	draft.Network = quote.Network
	draft.Status = domain.PaymentStatusPending
	draft.Fulfillment = domain.FulfillmentNone
	draft.ExpiresAt = now.Add(uc.cfg.Expiry)
	draft.CreatedAt = now
	draft.UpdatedAt = now

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	// 3. Persist; a concurrent request may have won the pending slot
	err = uc.insertPayment(ctx, draft)
	if errors.Is(err, domain.ErrPendingPaymentExists) {
		winner, findErr := uc.paymentRepo.FindPending(ctx, draft.UserID, draft.Purpose, draft.MarathonID)
		if findErr != nil {
			return nil, err
		}

		uc.logger.Info().Str("payment_id", winner.ID).Str("user_id", draft.UserID).Msg("concurrent payment creation, returning existing invoice")
		uc.recordCreated(draft.Purpose, "reused")
		return &PaymentResult{Payment: winner, Reused: true}, nil
	}
	if err != nil {
		return nil, err
	}

	uc.recordCreated(draft.Purpose, "created")
	uc.logger.Info().
		Str("payment_id", draft.ID).
		Str("user_id", draft.UserID).
		Str("external_id", draft.ExternalID).
		Str("purpose", string(draft.Purpose)).
		Msg("payment created")

	return &PaymentResult{Payment: draft}, nil
}

func (uc *PaymentUseCase) reusablePending(ctx context.Context, draft *domain.PaymentRequest) (*domain.PaymentRequest, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	existing, err := uc.paymentRepo.FindPendingForUpdate(txCtx, tx, draft.UserID, draft.Purpose, draft.MarathonID)
	if errors.Is(err, domain.ErrPaymentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !existing.IsExpired(now) {
		return existing, nil
	}

	existing.Status = domain.PaymentStatusCancelled
	existing.UpdatedAt = now

	if err := uc.paymentRepo.Update(txCtx, tx, existing); err != nil {
		return nil, err
	}

	if err := emitEvent(txCtx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypePayment, existing.ID,
		domain.EventTypePaymentStatusChanged, paymentEventPayload(existing)); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.logger.Info().Str("payment_id", existing.ID).Msg("expired pending payment cancelled")

	return nil, nil
}

func (uc *PaymentUseCase) insertPayment(ctx context.Context, p *domain.PaymentRequest) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.paymentRepo.Create(txCtx, tx, p); err != nil {
		return err
	}

	if err := emitEvent(txCtx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypePayment, p.ID,
		domain.EventTypePaymentCreated, paymentEventPayload(p)); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// HandleWebhook verifies and applies one gateway callback. When a paid
// enrollment cannot be fulfilled the payment still commits COMPLETED and both
// the result and an error wrapping the enrollment failure are returned.
func (uc *PaymentUseCase) HandleWebhook(ctx context.Context, body []byte, signature string) (*WebhookResult, error) {
	payload, err := decodeWebhookPayload(body)
	if err != nil {
		uc.recordWebhook("invalid")
		return nil, err
	}

	if !uc.gateway.VerifyCallbackSignature(payload, signature) {
		uc.recordWebhook("rejected")
		uc.auditRejectedWebhook(ctx, payload)
		uc.logger.Warn().Interface("payment_id", payload["payment_id"]).Msg("webhook signature mismatch")
		return nil, domain.ErrWebhookRejected
	}

	externalID := stringField(payload, "payment_id")
	rawStatus := stringField(payload, "payment_status")
	if externalID == "" || rawStatus == "" {
		uc.recordWebhook("invalid")
		return nil, fmt.Errorf("%w: payment_id and payment_status are required", domain.ErrInvalidWebhookPayload)
	}

	mapped := uc.gateway.MapStatus(rawStatus)

	uc.logger.Info().
		Str("external_id", externalID).
		Str("gateway_status", rawStatus).
		Str("status", string(mapped)).
		Msg("webhook received")

	return uc.applyStatus(ctx, func(ctx context.Context, tx Transaction) (*domain.PaymentRequest, error) {
		return uc.paymentRepo.GetByExternalIDForUpdate(ctx, tx, externalID)
	}, mapped, payload)
}

// SyncStatus polls the gateway for a payment and applies the answer as if it
// had arrived by webhook.
func (uc *PaymentUseCase) SyncStatus(ctx context.Context, paymentID string) (*WebhookResult, error) {
	payment, err := uc.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status.IsTerminal() {
		return &WebhookResult{Payment: payment, Duplicate: true}, nil
	}

	status, err := uc.gateway.GetStatus(ctx, payment.ExternalID)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"payment_id":     status.ExternalID,
		"payment_status": status.Status,
		"source":         "status_poll",
	}

	return uc.applyStatus(ctx, func(ctx context.Context, tx Transaction) (*domain.PaymentRequest, error) {
		return uc.paymentRepo.GetByIDForUpdate(ctx, tx, paymentID)
	}, status.Mapped, payload)
}

type paymentLoader func(ctx context.Context, tx Transaction) (*domain.PaymentRequest, error)

func (uc *PaymentUseCase) applyStatus(ctx context.Context, load paymentLoader, mapped domain.PaymentStatus, payload map[string]any) (*WebhookResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	payment, err := load(txCtx, tx)
	if err != nil {
		uc.recordWebhook("not_found")
		return nil, err
	}

	// Terminal payments absorb redeliveries and late callbacks
	if payment.Status.IsTerminal() {
		uc.recordWebhook("duplicate")
		uc.logger.Debug().Str("payment_id", payment.ID).Str("status", string(payment.Status)).Msg("payment already terminal, ignoring")
		return &WebhookResult{Payment: payment, Duplicate: true}, nil
	}

	now := time.Now().UTC()
	payment.LastWebhookPayload = payload
	payment.UpdatedAt = now

	if mapped != domain.PaymentStatusCompleted {
		payment.Status = mapped

		if err := uc.paymentRepo.Update(txCtx, tx, payment); err != nil {
			return nil, err
		}

		if mapped.IsTerminal() {
			if err := emitEvent(txCtx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypePayment, payment.ID,
				domain.EventTypePaymentStatusChanged, paymentEventPayload(payment)); err != nil {
				return nil, err
			}
		}

		if err := tx.Commit(txCtx); err != nil {
			return nil, err
		}

		uc.recordWebhook(string(mapped))
		return &WebhookResult{Payment: payment}, nil
	}

	payment.Status = domain.PaymentStatusCompleted

	fulfillErr := uc.fulfill(txCtx, tx, payment)
	switch {
	case fulfillErr == nil:
		payment.Fulfillment = domain.FulfillmentFulfilled

	case isEnrollmentRejection(fulfillErr):
		payment.Fulfillment = domain.FulfillmentFailed
		payment.FulfillmentError = fulfillErr.Error()

		if err := emitEvent(txCtx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypePayment, payment.ID,
			domain.EventTypeMarathonEnrollmentFailed, paymentEventPayload(payment)); err != nil {
			return nil, err
		}

	default:
		_ = tx.Rollback(txCtx)
		uc.markFulfillmentFailed(ctx, payment.ID, fulfillErr)
		uc.recordWebhook("fulfillment_error")
		return nil, fmt.Errorf("fulfilling payment %s: %w", payment.ID, fulfillErr)
	}

	if err := uc.paymentRepo.Update(txCtx, tx, payment); err != nil {
		return nil, err
	}

	if err := emitEvent(txCtx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypePayment, payment.ID,
		domain.EventTypePaymentCompleted, paymentEventPayload(payment)); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.recordWebhook(string(domain.PaymentStatusCompleted))
	uc.afterCompletion(ctx, payment)

	if payment.Fulfillment == domain.FulfillmentFailed {
		if uc.metrics != nil {
			uc.metrics.EnrollmentFailures.WithLabelValues(enrollmentFailureReason(fulfillErr)).Inc()
		}

		uc.logger.Error().
			Err(fulfillErr).
			Str("payment_id", payment.ID).
			Str("user_id", payment.UserID).
			Str("marathon_id", deref(payment.MarathonID)).
			Msg("payment completed but enrollment failed, escalated to operators")

		return &WebhookResult{Payment: payment}, fmt.Errorf("payment %s completed but enrollment failed: %w", payment.ID, fulfillErr)
	}

	return &WebhookResult{Payment: payment}, nil
}

// fulfill runs the completion action of a payment inside tx.
func (uc *PaymentUseCase) fulfill(ctx context.Context, tx Transaction, payment *domain.PaymentRequest) error {
	switch payment.Purpose {
	case domain.PaymentPurposeWalletTopUp:
		_, err := uc.wallet.AdjustTx(ctx, tx, AdjustInput{
			UserID:        payment.UserID,
			Amount:        payment.Amount,
			Kind:          domain.EntryKindCredit,
			ReferenceKind: strPtr(domain.ReferenceKindPayment),
			ReferenceID:   strPtr(payment.ID),
			Description:   "Wallet top-up",
			Metadata:      map[string]any{"external_id": payment.ExternalID},
		})
		if errors.Is(err, domain.ErrDuplicateReference) {
			uc.logger.Warn().Str("payment_id", payment.ID).Msg("top-up credit already applied")
			return nil
		}
		return err

	case domain.PaymentPurposeMarathonJoin:
		_, err := uc.EnrollTx(ctx, tx, deref(payment.MarathonID), payment.UserID, payment.ID)
		return err

	default:
		return fmt.Errorf("unknown payment purpose %q", payment.Purpose)
	}
}

// markFulfillmentFailed records a completion failure in a fresh transaction,
// leaving payments another delivery already finished untouched.
func (uc *PaymentUseCase) markFulfillmentFailed(ctx context.Context, paymentID string, cause error) {
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTransactionTimeout)
	defer cancel()

	logger := uc.logger.With().Str("payment_id", paymentID).Logger()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		logger.Error().Err(err).Msg("could not open transaction to mark payment failed")
		return
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	payment, err := uc.paymentRepo.GetByIDForUpdate(txCtx, tx, paymentID)
	if err != nil {
		logger.Error().Err(err).Msg("could not reload payment to mark it failed")
		return
	}

	if payment.Status != domain.PaymentStatusPending {
		return
	}

	payment.Status = domain.PaymentStatusFailed
	payment.Fulfillment = domain.FulfillmentFailed
	payment.FulfillmentError = cause.Error()
	payment.UpdatedAt = time.Now().UTC()

	if err := uc.paymentRepo.Update(txCtx, tx, payment); err != nil {
		logger.Error().Err(err).Msg("could not mark payment failed")
		return
	}

	if err := emitEvent(txCtx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypePayment, payment.ID,
		domain.EventTypePaymentFulfillmentFailed, paymentEventPayload(payment)); err != nil {
		logger.Error().Err(err).Msg("could not record fulfillment failure event")
		return
	}

	if err := tx.Commit(txCtx); err != nil {
		logger.Error().Err(err).Msg("could not commit payment failure")
		return
	}

	logger.Error().Err(cause).Msg("payment fulfillment failed, payment marked FAILED")
}

func (uc *PaymentUseCase) afterCompletion(ctx context.Context, payment *domain.PaymentRequest) {
	logger := uc.logger.With().Str("payment_id", payment.ID).Str("user_id", payment.UserID).Logger()

	switch payment.Purpose {
	case domain.PaymentPurposeWalletTopUp:
		if uc.wallet != nil {
			uc.wallet.InvalidateBalance(ctx, payment.UserID)
		}
		uc.notify(ctx, logger, Notification{
			UserID: payment.UserID,
			Type:   NotificationWalletToppedUp,
			Data:   map[string]any{"payment_id": payment.ID, "amount": payment.Amount.StringFixed(domain.MoneyScale)},
		})

	case domain.PaymentPurposeMarathonJoin:
		if payment.Fulfillment != domain.FulfillmentFulfilled {
			return
		}

		marathonID := deref(payment.MarathonID)
		if uc.assigner != nil {
			if err := uc.assigner.AssignToParticipant(ctx, marathonID, payment.UserID); err != nil {
				logger.Error().Err(err).Str("marathon_id", marathonID).Msg("execution account assignment failed")
			}
		}
		uc.notify(ctx, logger, Notification{
			UserID: payment.UserID,
			Type:   NotificationMarathonJoined,
			Data:   map[string]any{"payment_id": payment.ID, "marathon_id": marathonID},
		})
	}
}

func (uc *PaymentUseCase) notify(ctx context.Context, logger zerolog.Logger, n Notification) {
	if uc.notifier == nil {
		return
	}

	if err := uc.notifier.Notify(ctx, n); err != nil {
		logger.Warn().Err(err).Str("notification", n.Type).Msg("notification failed")
	}
}

// GetPayment returns one of the user's payments.
func (uc *PaymentUseCase) GetPayment(ctx context.Context, userID, id string) (*domain.PaymentRequest, error) {
	payment, err := uc.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payment.UserID != userID {
		return nil, domain.ErrPaymentNotFound
	}

	return payment, nil
}

// ExpirePending cancels pending payments whose invoice expired before now.
func (uc *PaymentUseCase) ExpirePending(ctx context.Context, now time.Time) (int, error) {
	candidates, err := uc.paymentRepo.ListExpiredPending(ctx, now, expireBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, candidate := range candidates {
		ok, err := uc.expireOne(ctx, candidate.ID, now)
		if err != nil {
			uc.logger.Error().Err(err).Str("payment_id", candidate.ID).Msg("failed to expire payment")
			continue
		}
		if ok {
			expired++
		}
	}

	if expired > 0 {
		if uc.metrics != nil {
			uc.metrics.PaymentsExpired.Add(float64(expired))
		}
		uc.logger.Info().Int("count", expired).Msg("expired pending payments")
	}

	return expired, nil
}

func (uc *PaymentUseCase) expireOne(ctx context.Context, id string, now time.Time) (bool, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	payment, err := uc.paymentRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return false, err
	}

	// A webhook may have landed since the candidate list was read
	if !payment.IsExpired(now) {
		return false, nil
	}

	payment.Status = domain.PaymentStatusCancelled
	payment.UpdatedAt = now.UTC()

	if err := uc.paymentRepo.Update(txCtx, tx, payment); err != nil {
		return false, err
	}

	if err := emitEvent(txCtx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypePayment, payment.ID,
		domain.EventTypePaymentStatusChanged, paymentEventPayload(payment)); err != nil {
		return false, err
	}

	return true, tx.Commit(txCtx)
}

func (uc *PaymentUseCase) auditRejectedWebhook(ctx context.Context, payload map[string]any) {
	if uc.auditRepo == nil {
		return
	}

	log := domain.NewAuditLog(
		uc.idGen.Generate(), "gateway", domain.AuditActionWebhookRejected,
		domain.AggregateTypePayment, stringField(payload, "payment_id"), time.Now().UTC(),
	).Failed(domain.ErrWebhookRejected)
	log.AfterState = domain.JSON(payload)

	if err := uc.auditRepo.Create(ctx, log); err != nil {
		uc.logger.Error().Err(err).Msg("failed to audit rejected webhook")
		return
	}

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(log.Action, log.Status).Inc()
	}
}

func (uc *PaymentUseCase) recordCreated(purpose domain.PaymentPurpose, result string) {
	if uc.metrics != nil {
		uc.metrics.PaymentsCreated.WithLabelValues(string(purpose), result).Inc()
	}
}

func (uc *PaymentUseCase) recordWebhook(outcome string) {
	if uc.metrics != nil {
		uc.metrics.WebhooksReceived.WithLabelValues(outcome).Inc()
	}
}

// decodeWebhookPayload parses a callback body keeping numbers in their
// literal form so the signature is computed over what the gateway sent.
func decodeWebhookPayload(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil || payload == nil {
		return nil, fmt.Errorf("%w: body is not a JSON object", domain.ErrInvalidWebhookPayload)
	}

	return payload, nil
}

func stringField(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
