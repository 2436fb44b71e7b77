package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/postgres/generated"
	"github.com/iho/marathon-wallet/internal/usecase"
)

// MarathonRepository implements usecase.MarathonRepository.
type MarathonRepository struct {
	queries *generated.Queries
}

// NewMarathonRepository creates a new MarathonRepository.
func NewMarathonRepository(db generated.DBTX) *MarathonRepository {
	return &MarathonRepository{queries: generated.New(db)}
}

func (r *MarathonRepository) GetByID(ctx context.Context, id string) (*domain.Marathon, error) {
	row, err := r.queries.GetMarathonByID(ctx, id)
	if err != nil {
		return nil, marathonErr(err)
	}

	return rowToMarathon(row), nil
}

func (r *MarathonRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Marathon, error) {
	row, err := txQueries(tx).GetMarathonByIDForUpdate(ctx, id)
	if err != nil {
		return nil, marathonErr(err)
	}

	return rowToMarathon(row), nil
}

func (r *MarathonRepository) IsParticipant(ctx context.Context, marathonID, userID string) (bool, error) {
	return r.queries.IsParticipant(ctx, generated.IsParticipantParams{MarathonID: marathonID, UserID: userID})
}

func (r *MarathonRepository) IsParticipantTx(ctx context.Context, tx usecase.Transaction, marathonID, userID string) (bool, error) {
	return txQueries(tx).IsParticipant(ctx, generated.IsParticipantParams{MarathonID: marathonID, UserID: userID})
}

// errSeatLost is returned when the participant row was inserted but the
// marathon had no free seat. It does not wrap ErrCapacityExceeded, so the
// enrollment transaction rolls back rather than committing the participant.
var errSeatLost = errors.New("marathon seat could not be taken after participant insert")

// AddParticipant records the participant and takes a seat. A repeated
// enrollment inserts nothing and reports ErrAlreadyEnrolled. Capacity is
// checked by the caller under the marathon row lock, so a failed increment
// here is an internal error.
func (r *MarathonRepository) AddParticipant(ctx context.Context, tx usecase.Transaction, participant *domain.Participant) error {
	queries := txQueries(tx)

	var paymentID *string
	if participant.PaymentID != "" {
		paymentID = &participant.PaymentID
	}

	inserted, err := queries.InsertParticipant(ctx, generated.InsertParticipantParams{
		ID:         participant.ID,
		MarathonID: participant.MarathonID,
		UserID:     participant.UserID,
		PaymentID:  stringPtrToText(paymentID),
		CreatedAt:  timeToPgTimestamptz(participant.CreatedAt),
	})
	if err != nil {
		return err
	}
	if inserted == 0 {
		return domain.ErrAlreadyEnrolled
	}

	updated, err := queries.IncrementMarathonPlayers(ctx, participant.MarathonID)
	if err != nil {
		return err
	}
	if updated == 0 {
		return fmt.Errorf("%w: marathon %s", errSeatLost, participant.MarathonID)
	}

	return nil
}

func marathonErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrMarathonNotFound
	}
	return err
}

func rowToMarathon(row generated.Marathon) *domain.Marathon {
	return &domain.Marathon{
		ID:             row.ID,
		Name:           row.Name,
		IsActive:       row.IsActive,
		MaxPlayers:     int(row.MaxPlayers),
		CurrentPlayers: int(row.CurrentPlayers),
		EntryFee:       numericToDecimal(row.EntryFee),
	}
}

// PayoutWalletRepository implements usecase.PayoutWalletLookup.
type PayoutWalletRepository struct {
	queries *generated.Queries
}

// NewPayoutWalletRepository creates a new PayoutWalletRepository.
func NewPayoutWalletRepository(db generated.DBTX) *PayoutWalletRepository {
	return &PayoutWalletRepository{queries: generated.New(db)}
}

func (r *PayoutWalletRepository) GetByID(ctx context.Context, id string) (*domain.PayoutWallet, error) {
	row, err := r.queries.GetPayoutWalletByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPayoutWalletNotFound
		}
		return nil, err
	}

	return &domain.PayoutWallet{
		ID:      row.ID,
		UserID:  row.UserID,
		Address: row.Address,
		Network: row.Network,
	}, nil
}
