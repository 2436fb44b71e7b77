package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/postgres/generated"
	"github.com/iho/marathon-wallet/internal/usecase"
)

// WithdrawalRepository implements usecase.WithdrawalRepository.
type WithdrawalRepository struct {
	queries *generated.Queries
}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository(db generated.DBTX) *WithdrawalRepository {
	return &WithdrawalRepository{queries: generated.New(db)}
}

// Create inserts a withdrawal request.
func (r *WithdrawalRepository) Create(ctx context.Context, tx usecase.Transaction, w *domain.WithdrawalRequest) error {
	return txQueries(tx).CreateWithdrawal(ctx, generated.CreateWithdrawalParams{
		ID:                  w.ID,
		UserID:              w.UserID,
		AccountID:           w.AccountID,
		Amount:              decimalToNumeric(w.Amount),
		Status:              string(w.Status),
		DestinationAddress:  w.DestinationAddress,
		Network:             w.Network,
		TransactionNumber:   w.TransactionNumber,
		LinkedLedgerEntryID: w.LinkedLedgerEntryID,
		ReviewNote:          w.ReviewNote,
		ProcessedAt:         timePtrToPgTimestamptz(w.ProcessedAt),
		CreatedAt:           timeToPgTimestamptz(w.CreatedAt),
		UpdatedAt:           timeToPgTimestamptz(w.UpdatedAt),
	})
}

// NextSequence takes a transaction-scoped advisory lock for the UTC day and
// counts the requests already numbered on it. The lock is held until commit,
// so concurrent requests on the same day get consecutive numbers.
func (r *WithdrawalRepository) NextSequence(ctx context.Context, tx usecase.Transaction, day time.Time) (int, error) {
	queries := txQueries(tx)

	start := time.Date(day.UTC().Year(), day.UTC().Month(), day.UTC().Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	if err := queries.LockWithdrawalDay(ctx, "withdrawal_requests:"+start.Format("20060102")); err != nil {
		return 0, err
	}

	count, err := queries.CountWithdrawalsBetween(ctx, generated.CountWithdrawalsBetweenParams{
		CreatedAt:   timeToPgTimestamptz(start),
		CreatedAt_2: timeToPgTimestamptz(end),
	})
	if err != nil {
		return 0, err
	}

	return int(count) + 1, nil
}

// GetByID retrieves a withdrawal by ID.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.WithdrawalRequest, error) {
	row, err := r.queries.GetWithdrawalByID(ctx, id)
	if err != nil {
		return nil, withdrawalErr(err)
	}

	return rowToWithdrawal(row), nil
}

// GetByIDForUpdate retrieves a withdrawal by ID with a FOR UPDATE lock.
func (r *WithdrawalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.WithdrawalRequest, error) {
	row, err := txQueries(tx).GetWithdrawalByIDForUpdate(ctx, id)
	if err != nil {
		return nil, withdrawalErr(err)
	}

	return rowToWithdrawal(row), nil
}

// ListByUser returns a user's withdrawals newest first.
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.WithdrawalRequest, error) {
	rows, err := r.queries.ListWithdrawalsByUser(ctx, generated.ListWithdrawalsByUserParams{
		UserID: userID,
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	withdrawals := make([]*domain.WithdrawalRequest, 0, len(rows))
	for _, row := range rows {
		withdrawals = append(withdrawals, rowToWithdrawal(row))
	}

	return withdrawals, nil
}

// UpdateStatus persists a review transition.
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, w *domain.WithdrawalRequest) error {
	return txQueries(tx).UpdateWithdrawalStatus(ctx, generated.UpdateWithdrawalStatusParams{
		ID:          w.ID,
		Status:      string(w.Status),
		ReviewNote:  w.ReviewNote,
		ProcessedAt: timePtrToPgTimestamptz(w.ProcessedAt),
		UpdatedAt:   timeToPgTimestamptz(w.UpdatedAt),
	})
}

func withdrawalErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrWithdrawalNotFound
	}
	return err
}

func rowToWithdrawal(row generated.WithdrawalRequest) *domain.WithdrawalRequest {
	return &domain.WithdrawalRequest{
		ID:                  row.ID,
		UserID:              row.UserID,
		AccountID:           row.AccountID,
		Amount:              numericToDecimal(row.Amount),
		Status:              domain.WithdrawalStatus(row.Status),
		DestinationAddress:  row.DestinationAddress,
		Network:             row.Network,
		TransactionNumber:   row.TransactionNumber,
		LinkedLedgerEntryID: row.LinkedLedgerEntryID,
		ReviewNote:          row.ReviewNote,
		ProcessedAt:         pgTimestamptzToPtr(row.ProcessedAt),
		CreatedAt:           row.CreatedAt.Time,
		UpdatedAt:           row.UpdatedAt.Time,
	}
}
