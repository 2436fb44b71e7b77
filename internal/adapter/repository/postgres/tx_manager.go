package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/marathon-wallet/internal/usecase"
)

// Balance mutations rely on SELECT ... FOR UPDATE row locks, so read
// committed is enough; serialization failures are retried by Retrier.
var defaultTxOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxManager implements usecase.TransactionManager on a pgx pool.
type TxManager struct {
	db   txBeginner
	opts pgx.TxOptions
}

// NewTxManager creates a new TxManager.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManager(pool)
}

func newTxManager(db txBeginner) *TxManager {
	return &TxManager{db: db, opts: defaultTxOptions}
}

// Begin starts a read-committed transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.db.BeginTx(ctx, m.opts)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx transaction. Rollback after Commit returns nil so callers
// can defer it unconditionally.
type Tx struct {
	tx       pgx.Tx
	finished bool
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	if t.finished {
		return pgx.ErrTxClosed
	}
	t.finished = true
	return t.tx.Commit(ctx)
}

// Rollback aborts the transaction if it is still open.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.finished {
		return nil
	}
	t.finished = true

	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// PgxTx returns the underlying pgx.Tx.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
