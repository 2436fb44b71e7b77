package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency returns the sum of all account balances and the signed sum
// of all ledger entries. Both are equal on a healthy ledger.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (totalBalance, totalSigned decimal.Decimal, err error) {
	result, err := r.queries.CheckLedgerConsistency(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	totalBalance, err = toDecimal(result.TotalAccountBalance)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	totalSigned, err = toDecimal(result.TotalSignedAmount)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return totalBalance, totalSigned, nil
}
