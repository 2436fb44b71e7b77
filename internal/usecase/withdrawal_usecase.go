package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/metrics"
)

// WithdrawalUseCase debits wallets for payouts and tracks their review.
type WithdrawalUseCase struct {
	txManager      TransactionManager
	withdrawalRepo WithdrawalRepository
	payoutWallets  PayoutWalletLookup
	outboxRepo     OutboxRepository
	auditRepo      AuditRepository
	wallet         *WalletUseCase
	notifier       Notifier
	idGen          IDGenerator
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	now            func() time.Time
}

// NewWithdrawalUseCase creates a new WithdrawalUseCase.
func NewWithdrawalUseCase(
	txManager TransactionManager,
	withdrawalRepo WithdrawalRepository,
	payoutWallets PayoutWalletLookup,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	wallet *WalletUseCase,
	notifier Notifier,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		txManager:      txManager,
		withdrawalRepo: withdrawalRepo,
		payoutWallets:  payoutWallets,
		outboxRepo:     outboxRepo,
		auditRepo:      auditRepo,
		wallet:         wallet,
		notifier:       notifier,
		idGen:          idGen,
		metrics:        metrics,
		logger:         logger.With().Str("component", "withdrawal").Logger(),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the clock used for transaction numbers.
func (uc *WithdrawalUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Create debits the wallet and records a withdrawal awaiting review.
func (uc *WithdrawalUseCase) Create(ctx context.Context, userID string, amount decimal.Decimal, walletID string) (*domain.WithdrawalRequest, error) {
	amount, err := domain.ValidateAmount(amount)
	if err != nil {
		return nil, err
	}

	payout, err := uc.payoutWallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	if payout.UserID != userID {
		return nil, domain.ErrWalletNotOwned
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	withdrawalID := uc.idGen.Generate()

	// 1. Debit first: a frozen or short wallet aborts before numbering
	entry, err := uc.wallet.AdjustTx(txCtx, tx, AdjustInput{
		UserID:        userID,
		Amount:        amount,
		Kind:          domain.EntryKindWithdrawal,
		ReferenceKind: strPtr(domain.ReferenceKindWithdrawalRequest),
		Description:   "Withdrawal to " + payout.Address,
		Metadata:      map[string]any{"withdrawal_id": withdrawalID},
	})
	if err != nil {
		return nil, err
	}

	// 2. Number the request within its UTC day
	now := uc.now().UTC()

	seq, err := uc.withdrawalRepo.NextSequence(txCtx, tx, now)
	if err != nil {
		return nil, err
	}

	// 3. Record it for review
	withdrawal := &domain.WithdrawalRequest{
		ID:                  withdrawalID,
		UserID:              userID,
		AccountID:           entry.AccountID,
		Amount:              amount,
		Status:              domain.WithdrawalStatusUnderReview,
		DestinationAddress:  payout.Address,
		Network:             payout.Network,
		TransactionNumber:   domain.FormatTransactionNumber(now, seq),
		LinkedLedgerEntryID: entry.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := uc.withdrawalRepo.Create(txCtx, tx, withdrawal); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := domain.NewAuditLog(
			uc.idGen.Generate(), userID, domain.AuditActionWithdrawalCreate,
			domain.AggregateTypeWithdrawal, withdrawal.ID, now,
		).WithStates(nil, withdrawal)
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := emitEvent(txCtx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypeWithdrawal, withdrawal.ID,
		domain.EventTypeWithdrawalCreated, withdrawalEventPayload(withdrawal)); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.wallet.InvalidateBalance(ctx, userID)

	if uc.metrics != nil {
		uc.metrics.WithdrawalsCreated.Inc()
	}

	uc.logger.Info().
		Str("withdrawal_id", withdrawal.ID).
		Str("user_id", userID).
		Str("transaction_number", withdrawal.TransactionNumber).
		Str("amount", amount.StringFixed(domain.MoneyScale)).
		Msg("withdrawal requested")

	return withdrawal, nil
}

// Get returns one of the user's withdrawals.
func (uc *WithdrawalUseCase) Get(ctx context.Context, userID, id string) (*domain.WithdrawalRequest, error) {
	withdrawal, err := uc.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if withdrawal.UserID != userID {
		return nil, domain.ErrWithdrawalNotFound
	}

	return withdrawal, nil
}

// List returns the user's withdrawals, newest first.
func (uc *WithdrawalUseCase) List(ctx context.Context, userID string, limit, offset int) ([]*domain.WithdrawalRequest, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.withdrawalRepo.ListByUser(ctx, userID, limit, offset)
}

// Review moves a withdrawal through the operator workflow. Rejection does
// not return funds; a refund is a separate wallet adjustment.
func (uc *WithdrawalUseCase) Review(ctx context.Context, id string, to domain.WithdrawalStatus, note string) (*domain.WithdrawalRequest, error) {
	if !to.IsValid() {
		return nil, domain.ErrInvalidTransition
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	withdrawal, err := uc.withdrawalRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	before := *withdrawal

	if err := withdrawal.Transition(to, note, uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.withdrawalRepo.UpdateStatus(txCtx, tx, withdrawal); err != nil {
		return nil, err
	}

	if err := emitEvent(txCtx, tx, uc.outboxRepo, uc.idGen, domain.AggregateTypeWithdrawal, withdrawal.ID,
		domain.EventTypeWithdrawalStatusChanged, withdrawalEventPayload(withdrawal)); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := domain.NewAuditLog(
			uc.idGen.Generate(), domain.ActorFromContext(ctx), domain.AuditActionWithdrawalReview,
			domain.AggregateTypeWithdrawal, withdrawal.ID, withdrawal.UpdatedAt,
		).WithStates(before, withdrawal)
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalReviews.WithLabelValues(string(to)).Inc()
	}

	if uc.notifier != nil {
		n := Notification{
			UserID: withdrawal.UserID,
			Type:   NotificationWithdrawalState,
			Data:   map[string]any{"withdrawal_id": withdrawal.ID, "status": string(withdrawal.Status)},
		}
		if err := uc.notifier.Notify(ctx, n); err != nil {
			uc.logger.Warn().Err(err).Str("withdrawal_id", withdrawal.ID).Msg("notification failed")
		}
	}

	uc.logger.Info().
		Str("withdrawal_id", withdrawal.ID).
		Str("from", string(before.Status)).
		Str("to", string(to)).
		Msg("withdrawal reviewed")

	return withdrawal, nil
}

// Refund credits back a rejected withdrawal. It is keyed on the withdrawal
// so repeating it fails with ErrDuplicateReference.
func (uc *WithdrawalUseCase) Refund(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	withdrawal, err := uc.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if withdrawal.Status != domain.WithdrawalStatusRejected {
		return nil, domain.ErrInvalidTransition
	}

	return uc.wallet.Adjust(ctx, AdjustInput{
		AccountID:     withdrawal.AccountID,
		Amount:        withdrawal.Amount,
		Kind:          domain.EntryKindRefund,
		ReferenceKind: strPtr(domain.ReferenceKindWithdrawalRequest),
		ReferenceID:   strPtr(withdrawal.ID),
		Description:   "Refund of withdrawal " + withdrawal.TransactionNumber,
		Metadata:      map[string]any{"withdrawal_id": withdrawal.ID},
	})
}

func withdrawalEventPayload(w *domain.WithdrawalRequest) map[string]any {
	return map[string]any{
		"withdrawal_id":      w.ID,
		"user_id":            w.UserID,
		"status":             string(w.Status),
		"amount":             w.Amount.StringFixed(domain.MoneyScale),
		"transaction_number": w.TransactionNumber,
		"network":            w.Network,
	}
}
