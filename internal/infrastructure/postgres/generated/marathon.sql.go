package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getMarathonByID = `-- name: GetMarathonByID :one
SELECT id, name, is_active, max_players, current_players, entry_fee, created_at FROM marathons WHERE id = $1
`

func (q *Queries) GetMarathonByID(ctx context.Context, id string) (Marathon, error) {
	row := q.db.QueryRow(ctx, getMarathonByID, id)
	var i Marathon
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.IsActive,
		&i.MaxPlayers,
		&i.CurrentPlayers,
		&i.EntryFee,
		&i.CreatedAt,
	)
	return i, err
}

const getMarathonByIDForUpdate = `-- name: GetMarathonByIDForUpdate :one
SELECT id, name, is_active, max_players, current_players, entry_fee, created_at FROM marathons WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetMarathonByIDForUpdate(ctx context.Context, id string) (Marathon, error) {
	row := q.db.QueryRow(ctx, getMarathonByIDForUpdate, id)
	var i Marathon
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.IsActive,
		&i.MaxPlayers,
		&i.CurrentPlayers,
		&i.EntryFee,
		&i.CreatedAt,
	)
	return i, err
}

const getPayoutWalletByID = `-- name: GetPayoutWalletByID :one
SELECT id, user_id, address, network, created_at FROM payout_wallets WHERE id = $1
`

func (q *Queries) GetPayoutWalletByID(ctx context.Context, id string) (PayoutWallet, error) {
	row := q.db.QueryRow(ctx, getPayoutWalletByID, id)
	var i PayoutWallet
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Address,
		&i.Network,
		&i.CreatedAt,
	)
	return i, err
}

const incrementMarathonPlayers = `-- name: IncrementMarathonPlayers :execrows
UPDATE marathons
SET current_players = current_players + 1
WHERE id = $1 AND current_players < max_players
`

func (q *Queries) IncrementMarathonPlayers(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, incrementMarathonPlayers, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const insertParticipant = `-- name: InsertParticipant :execrows
INSERT INTO marathon_participants (id, marathon_id, user_id, payment_id, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT ON CONSTRAINT marathon_participants_marathon_user_key DO NOTHING
`

type InsertParticipantParams struct {
	ID         string             `json:"id"`
	MarathonID string             `json:"marathon_id"`
	UserID     string             `json:"user_id"`
	PaymentID  pgtype.Text        `json:"payment_id"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) InsertParticipant(ctx context.Context, arg InsertParticipantParams) (int64, error) {
	result, err := q.db.Exec(ctx, insertParticipant,
		arg.ID,
		arg.MarathonID,
		arg.UserID,
		arg.PaymentID,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const isParticipant = `-- name: IsParticipant :one
SELECT EXISTS (SELECT 1 FROM marathon_participants WHERE marathon_id = $1 AND user_id = $2) AS exists
`

type IsParticipantParams struct {
	MarathonID string `json:"marathon_id"`
	UserID     string `json:"user_id"`
}

func (q *Queries) IsParticipant(ctx context.Context, arg IsParticipantParams) (bool, error) {
	row := q.db.QueryRow(ctx, isParticipant, arg.MarathonID, arg.UserID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
