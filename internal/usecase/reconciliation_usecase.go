package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
)

const reconcilePageSize = 100

// ReconciliationUseCase audits materialized balances against ledger entries.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	ledgerRepo  LedgerRepository
	now         func() time.Time
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(accountRepo AccountRepository, entryRepo EntryRepository, ledgerRepo LedgerRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		ledgerRepo:  ledgerRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ReconciliationResult compares an account's stored balance with its entries.
type ReconciliationResult struct {
	AccountID         string
	UserID            string
	RecordedBalance   decimal.Decimal
	LastBalanceAfter  decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	EntryCount        int64
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconciliationReport summarizes a pass over every account.
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	LedgerError        string
	CheckedAt          time.Time
}

// ReconcileAccount checks one account. It is reconciled when the stored
// balance equals both the newest entry's balance_after and the signed sum of
// all its entries, and is not negative.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return uc.check(ctx, account)
}

func (uc *ReconciliationUseCase) check(ctx context.Context, account *domain.Account) (*ReconciliationResult, error) {
	summary, err := uc.entryRepo.Summarize(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("summarize entries of %s: %w", account.ID, err)
	}

	diff := account.Balance.Sub(summary.SignedSum)

	return &ReconciliationResult{
		AccountID:         account.ID,
		UserID:            account.UserID,
		RecordedBalance:   account.Balance,
		LastBalanceAfter:  summary.LastBalanceAfter,
		CalculatedBalance: summary.SignedSum,
		Difference:        diff,
		EntryCount:        summary.Count,
		IsReconciled:      diff.IsZero() && account.Balance.Equal(summary.LastBalanceAfter) && !account.Balance.IsNegative(),
		LastChecked:       uc.now(),
	}, nil
}

// ReconcileAllAccounts checks every account, paging through them.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	var results []*ReconciliationResult
	err := uc.eachAccount(ctx, func(r *ReconciliationResult) {
		results = append(results, r)
	})
	return results, err
}

func (uc *ReconciliationUseCase) eachAccount(ctx context.Context, fn func(*ReconciliationResult)) error {
	for offset := 0; ; offset += reconcilePageSize {
		page, err := uc.accountRepo.List(ctx, reconcilePageSize, offset)
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}

		for _, account := range page {
			result, err := uc.check(ctx, account)
			if err != nil {
				return err
			}
			fn(result)
		}

		if len(page) < reconcilePageSize {
			return nil
		}
	}
}

// CheckLedgerConsistency verifies that account balances sum to the signed
// total of all entries. A mismatch wraps domain.ErrLedgerInconsistent.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) error {
	balances, entries, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return err
	}

	if !balances.Equal(entries) {
		return fmt.Errorf("%w: balances=%s entries=%s difference=%s",
			domain.ErrLedgerInconsistent, balances, entries, balances.Sub(entries))
	}
	return nil
}

// GenerateReconciliationReport reconciles every account and the ledger as a
// whole. Only unreconciled accounts are listed.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	report := &ReconciliationReport{Discrepancies: []*ReconciliationResult{}}

	err := uc.eachAccount(ctx, func(r *ReconciliationResult) {
		report.TotalAccounts++
		if r.IsReconciled {
			report.ReconciledAccounts++
			return
		}
		report.Discrepancies = append(report.Discrepancies, r)
	})
	if err != nil {
		return nil, err
	}

	report.LedgerConsistent = true
	if err := uc.CheckLedgerConsistency(ctx); err != nil {
		report.LedgerConsistent = false
		report.LedgerError = err.Error()
	}
	report.CheckedAt = uc.now()

	return report, nil
}
