package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/postgres/generated"
	"github.com/iho/marathon-wallet/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		return nil, accountErr(err)
	}

	return rowToAccount(row), nil
}

// GetByUserID retrieves the wallet account of a user.
func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByUserID(ctx, userID)
	if err != nil {
		return nil, accountErr(err)
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row, err := txQueries(tx).GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		return nil, accountErr(err)
	}

	return rowToAccount(row), nil
}

// GetOrCreateByUserIDForUpdate inserts candidate unless the user already has
// an account, then locks the user's row. Concurrent first credits for the same
// user converge on one account through the user_id unique constraint.
func (r *AccountRepository) GetOrCreateByUserIDForUpdate(ctx context.Context, tx usecase.Transaction, candidate *domain.Account) (*domain.Account, error) {
	queries := txQueries(tx)

	err := queries.InsertAccountIfAbsent(ctx, generated.InsertAccountIfAbsentParams{
		ID:        candidate.ID,
		UserID:    candidate.UserID,
		Currency:  candidate.Currency,
		CreatedAt: timeToPgTimestamptz(candidate.CreatedAt),
	})
	if err != nil {
		return nil, err
	}

	row, err := queries.GetAccountByUserIDForUpdate(ctx, candidate.UserID)
	if err != nil {
		return nil, accountErr(err)
	}

	return rowToAccount(row), nil
}

// UpdateBalance updates the balance of an account and bumps its version.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	return txQueries(tx).UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// SetFrozen toggles the frozen flag of an account.
func (r *AccountRepository) SetFrozen(ctx context.Context, tx usecase.Transaction, id string, frozen bool, updatedAt time.Time) error {
	return txQueries(tx).SetAccountFrozen(ctx, generated.SetAccountFrozenParams{
		ID:        id,
		Frozen:    frozen,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func accountErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrAccountNotFound
	}
	return err
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		UserID:    row.UserID,
		Currency:  row.Currency,
		Balance:   numericToDecimal(row.Balance),
		Frozen:    row.Frozen,
		Version:   row.Version,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

// txQueries binds the generated queries to the pgx transaction behind tx.
func txQueries(tx usecase.Transaction) *generated.Queries {
	return generated.New(tx.(*Tx).PgxTx())
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	d, _ := toDecimal(n)
	return d
}

func toDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(n.Int.String())
	if err != nil {
		return decimal.Zero, err
	}

	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d, nil
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgTimestamptz(*t)
}

func pgTimestamptzToPtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func stringPtrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textToStringPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
