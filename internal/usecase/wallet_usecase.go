package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/metrics"
)

// ErrCacheMiss is returned by Cache implementations for absent keys.
var ErrCacheMiss = errors.New("cache miss")

// WalletUseCase is the only component allowed to change wallet balances.
type WalletUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	auditRepo   AuditRepository
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	cacheTTL    time.Duration
}

// NewWalletUseCase creates a new WalletUseCase. cache, auditRepo and metrics may be nil.
func NewWalletUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *WalletUseCase {
	return &WalletUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		auditRepo:   auditRepo,
		cache:       cache,
		idGen:       idGen,
		metrics:     metrics,
		logger:      logger.With().Str("component", "wallet").Logger(),
		cacheTTL:    DefaultBalanceCacheTTL,
	}
}

// SetCacheTTL overrides how long balances stay cached.
func (uc *WalletUseCase) SetCacheTTL(ttl time.Duration) {
	uc.cacheTTL = ttl
}

// AdjustInput describes one balance change. Exactly one of AccountID and
// UserID addresses the account; addressing by UserID creates the wallet on
// first use.
type AdjustInput struct {
	Metadata      map[string]any
	ReferenceKind *string
	ReferenceID   *string
	AccountID     string
	UserID        string
	Description   string
	Kind          domain.EntryKind
	Amount        decimal.Decimal
}

// WalletBalance is the balance view returned to wallet owners.
type WalletBalance struct {
	UserID   string          `json:"user_id"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	Frozen   bool            `json:"frozen"`
}

// Adjust applies a balance change in its own transaction.
func (uc *WalletUseCase) Adjust(ctx context.Context, input AdjustInput) (*domain.LedgerEntry, error) {
	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, account, err := uc.adjust(txCtx, tx, input)
	if err != nil {
		uc.recordAdjust(input.Kind, err)
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.InvalidateBalance(ctx, account.UserID)
	uc.recordAdjust(input.Kind, nil)

	if uc.metrics != nil {
		uc.metrics.AdjustDuration.Observe(time.Since(start).Seconds())
		uc.metrics.AdjustAmount.WithLabelValues(string(entry.Kind)).Observe(entry.Amount.InexactFloat64())
	}

	return entry, nil
}

// AdjustTx applies a balance change inside a transaction owned by the caller.
// The caller commits and is responsible for InvalidateBalance afterwards.
func (uc *WalletUseCase) AdjustTx(ctx context.Context, tx Transaction, input AdjustInput) (*domain.LedgerEntry, error) {
	entry, _, err := uc.adjust(ctx, tx, input)
	uc.recordAdjust(input.Kind, err)
	return entry, err
}

func (uc *WalletUseCase) adjust(ctx context.Context, tx Transaction, input AdjustInput) (*domain.LedgerEntry, *domain.Account, error) {
	// 0. Validate before touching any row
	if !input.Kind.IsValid() {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrInvalidEntryKind, input.Kind)
	}

	amount, err := domain.ValidateAmount(input.Amount)
	if err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateMetadata(input.Metadata); err != nil {
		return nil, nil, err
	}

	// 1. Lock the account, creating the wallet on first use
	account, err := uc.lockAccount(ctx, tx, input)
	if err != nil {
		return nil, nil, err
	}

	// 2. Freeze guard
	if account.Frozen && input.Kind.IsDebit() {
		return nil, nil, domain.ErrAccountFrozen
	}

	// 3. Idempotency lookup under the same lock
	if input.ReferenceID != nil {
		exists, err := uc.entryRepo.ExistsByReference(ctx, tx, account.ID, input.Kind, deref(input.ReferenceKind), *input.ReferenceID)
		if err != nil {
			return nil, nil, err
		}

		if exists {
			return nil, nil, fmt.Errorf("%w: %s %s/%s", domain.ErrDuplicateReference, input.Kind, deref(input.ReferenceKind), *input.ReferenceID)
		}
	}

	// 4. Balance check
	if err := account.CheckAdjust(input.Kind, amount); err != nil {
		return nil, nil, err
	}

	// 5. Append entry and update the materialized balance
	now := time.Now().UTC()
	newBalance := account.Apply(input.Kind, amount)

	entry := &domain.LedgerEntry{
		ID:            uc.idGen.Generate(),
		AccountID:     account.ID,
		Kind:          input.Kind,
		Amount:        amount,
		BalanceBefore: account.Balance,
		BalanceAfter:  newBalance,
		ReferenceKind: input.ReferenceKind,
		ReferenceID:   input.ReferenceID,
		Description:   input.Description,
		Metadata:      input.Metadata,
		CreatedAt:     now,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, nil, err
	}

	account.Balance = newBalance
	account.Version++
	account.UpdatedAt = now

	return entry, account, nil
}

func (uc *WalletUseCase) lockAccount(ctx context.Context, tx Transaction, input AdjustInput) (*domain.Account, error) {
	if input.AccountID != "" {
		return uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	}

	if input.UserID == "" {
		return nil, domain.ErrAccountNotFound
	}

	candidate := domain.NewAccount(uc.idGen.Generate(), input.UserID, time.Now().UTC())
	return uc.accountRepo.GetOrCreateByUserIDForUpdate(ctx, tx, candidate)
}

// GetBalance returns the user's balance, zero when no wallet exists yet.
func (uc *WalletUseCase) GetBalance(ctx context.Context, userID string) (*WalletBalance, error) {
	if cached, ok := uc.cachedBalance(ctx, userID); ok {
		return cached, nil
	}

	balance, err := uc.loadBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	uc.storeBalance(ctx, balance)

	return balance, nil
}

// GetWallet returns the account summary, zero-valued for users without a wallet.
func (uc *WalletUseCase) GetWallet(ctx context.Context, userID string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return &domain.Account{UserID: userID, Currency: domain.DefaultCurrency, Balance: decimal.Zero}, nil
	}

	return account, err
}

// ListEntries returns the user's newest entries first.
func (uc *WalletUseCase) ListEntries(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error) {
	limit = domain.ClampLimit(limit, DefaultEntriesLimit, MaxEntriesLimit)

	account, err := uc.accountRepo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return []*domain.LedgerEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	return uc.entryRepo.ListByAccount(ctx, account.ID, limit, 0)
}

// SetFrozen freezes or unfreezes a user's wallet.
func (uc *WalletUseCase) SetFrozen(ctx context.Context, userID string, frozen bool) (*domain.Account, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	candidate := domain.NewAccount(uc.idGen.Generate(), userID, time.Now().UTC())

	account, err := uc.accountRepo.GetOrCreateByUserIDForUpdate(txCtx, tx, candidate)
	if err != nil {
		return nil, err
	}

	before := *account
	now := time.Now().UTC()

	if err := uc.accountRepo.SetFrozen(txCtx, tx, account.ID, frozen, now); err != nil {
		return nil, err
	}

	account.Frozen = frozen
	account.UpdatedAt = now

	if uc.auditRepo != nil {
		action := domain.AuditActionWalletUnfreeze
		if frozen {
			action = domain.AuditActionWalletFreeze
		}

		auditLog := domain.NewAuditLog(
			uc.idGen.Generate(), domain.ActorFromContext(ctx), action,
			domain.AggregateTypeAccount, account.ID, now,
		).WithStates(before, account)
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.InvalidateBalance(ctx, userID)
	uc.logger.Info().Str("user_id", userID).Bool("frozen", frozen).Msg("wallet freeze updated")

	return account, nil
}

// InvalidateBalance drops the cached balance of a user.
func (uc *WalletUseCase) InvalidateBalance(ctx context.Context, userID string) {
	if uc.cache == nil || userID == "" {
		return
	}

	if err := uc.cache.Delete(ctx, balanceCacheKey(userID)); err != nil {
		uc.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate balance cache")
	}
}

func (uc *WalletUseCase) loadBalance(ctx context.Context, userID string) (*WalletBalance, error) {
	account, err := uc.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &WalletBalance{
		UserID:   userID,
		Balance:  account.Balance,
		Currency: account.Currency,
		Frozen:   account.Frozen,
	}, nil
}

func (uc *WalletUseCase) cachedBalance(ctx context.Context, userID string) (*WalletBalance, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, balanceCacheKey(userID))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("user_id", userID).Msg("balance cache read failed")
		}
		return nil, false
	}

	balance, err := decodeBalance(data)
	if err != nil {
		return nil, false
	}

	return balance, true
}

func (uc *WalletUseCase) storeBalance(ctx context.Context, balance *WalletBalance) {
	if uc.cache == nil {
		return
	}

	data, err := encodeBalance(balance)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, balanceCacheKey(balance.UserID), data, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("user_id", balance.UserID).Msg("balance cache write failed")
	}
}

func (uc *WalletUseCase) recordAdjust(kind domain.EntryKind, err error) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.LedgerAdjustments.WithLabelValues(string(kind), adjustOutcome(err)).Inc()
}

func adjustOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrDuplicateReference):
		return "duplicate"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrAccountFrozen):
		return "frozen"
	case domain.IsValidationError(err):
		return "invalid"
	default:
		return "error"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
