package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countWithdrawalsBetween = `-- name: CountWithdrawalsBetween :one
SELECT COUNT(*) FROM withdrawal_requests WHERE created_at >= $1 AND created_at < $2
`

type CountWithdrawalsBetweenParams struct {
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	CreatedAt_2 pgtype.Timestamptz `json:"created_at_2"`
}

func (q *Queries) CountWithdrawalsBetween(ctx context.Context, arg CountWithdrawalsBetweenParams) (int64, error) {
	row := q.db.QueryRow(ctx, countWithdrawalsBetween, arg.CreatedAt, arg.CreatedAt_2)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createWithdrawal = `-- name: CreateWithdrawal :exec
INSERT INTO withdrawal_requests (
    id, user_id, account_id, amount, status, destination_address, network,
    transaction_number, linked_ledger_entry_id, review_note, processed_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

type CreateWithdrawalParams struct {
	ID                  string             `json:"id"`
	UserID              string             `json:"user_id"`
	AccountID           string             `json:"account_id"`
	Amount              pgtype.Numeric     `json:"amount"`
	Status              string             `json:"status"`
	DestinationAddress  string             `json:"destination_address"`
	Network             string             `json:"network"`
	TransactionNumber   string             `json:"transaction_number"`
	LinkedLedgerEntryID string             `json:"linked_ledger_entry_id"`
	ReviewNote          string             `json:"review_note"`
	ProcessedAt         pgtype.Timestamptz `json:"processed_at"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
	UpdatedAt           pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateWithdrawal(ctx context.Context, arg CreateWithdrawalParams) error {
	_, err := q.db.Exec(ctx, createWithdrawal,
		arg.ID,
		arg.UserID,
		arg.AccountID,
		arg.Amount,
		arg.Status,
		arg.DestinationAddress,
		arg.Network,
		arg.TransactionNumber,
		arg.LinkedLedgerEntryID,
		arg.ReviewNote,
		arg.ProcessedAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getWithdrawalByID = `-- name: GetWithdrawalByID :one
SELECT id, user_id, account_id, amount, status, destination_address, network, transaction_number, linked_ledger_entry_id, review_note, processed_at, created_at, updated_at
FROM withdrawal_requests WHERE id = $1
`

func (q *Queries) GetWithdrawalByID(ctx context.Context, id string) (WithdrawalRequest, error) {
	row := q.db.QueryRow(ctx, getWithdrawalByID, id)
	var i WithdrawalRequest
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AccountID,
		&i.Amount,
		&i.Status,
		&i.DestinationAddress,
		&i.Network,
		&i.TransactionNumber,
		&i.LinkedLedgerEntryID,
		&i.ReviewNote,
		&i.ProcessedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWithdrawalByIDForUpdate = `-- name: GetWithdrawalByIDForUpdate :one
SELECT id, user_id, account_id, amount, status, destination_address, network, transaction_number, linked_ledger_entry_id, review_note, processed_at, created_at, updated_at
FROM withdrawal_requests WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetWithdrawalByIDForUpdate(ctx context.Context, id string) (WithdrawalRequest, error) {
	row := q.db.QueryRow(ctx, getWithdrawalByIDForUpdate, id)
	var i WithdrawalRequest
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AccountID,
		&i.Amount,
		&i.Status,
		&i.DestinationAddress,
		&i.Network,
		&i.TransactionNumber,
		&i.LinkedLedgerEntryID,
		&i.ReviewNote,
		&i.ProcessedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listWithdrawalsByUser = `-- name: ListWithdrawalsByUser :many
SELECT id, user_id, account_id, amount, status, destination_address, network, transaction_number, linked_ledger_entry_id, review_note, processed_at, created_at, updated_at
FROM withdrawal_requests
WHERE user_id = $1
ORDER BY created_at DESC, transaction_number DESC
LIMIT $2 OFFSET $3
`

type ListWithdrawalsByUserParams struct {
	UserID string `json:"user_id"`
	Limit  int32  `json:"limit"`
	Offset int32  `json:"offset"`
}

func (q *Queries) ListWithdrawalsByUser(ctx context.Context, arg ListWithdrawalsByUserParams) ([]WithdrawalRequest, error) {
	rows, err := q.db.Query(ctx, listWithdrawalsByUser, arg.UserID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []WithdrawalRequest{}
	for rows.Next() {
		var i WithdrawalRequest
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.AccountID,
			&i.Amount,
			&i.Status,
			&i.DestinationAddress,
			&i.Network,
			&i.TransactionNumber,
			&i.LinkedLedgerEntryID,
			&i.ReviewNote,
			&i.ProcessedAt,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const lockWithdrawalDay = `-- name: LockWithdrawalDay :exec
SELECT pg_advisory_xact_lock(hashtext($1::TEXT))
`

func (q *Queries) LockWithdrawalDay(ctx context.Context, key string) error {
	_, err := q.db.Exec(ctx, lockWithdrawalDay, key)
	return err
}

const updateWithdrawalStatus = `-- name: UpdateWithdrawalStatus :exec
UPDATE withdrawal_requests
SET status = $2, review_note = $3, processed_at = $4, updated_at = $5
WHERE id = $1
`

type UpdateWithdrawalStatusParams struct {
	ID          string             `json:"id"`
	Status      string             `json:"status"`
	ReviewNote  string             `json:"review_note"`
	ProcessedAt pgtype.Timestamptz `json:"processed_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateWithdrawalStatus(ctx context.Context, arg UpdateWithdrawalStatusParams) error {
	_, err := q.db.Exec(ctx, updateWithdrawalStatus,
		arg.ID,
		arg.Status,
		arg.ReviewNote,
		arg.ProcessedAt,
		arg.UpdatedAt,
	)
	return err
}
