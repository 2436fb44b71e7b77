package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, user_id, currency, balance, frozen, version, created_at, updated_at FROM accounts WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Currency,
		&i.Balance,
		&i.Frozen,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByIDForUpdate = `-- name: GetAccountByIDForUpdate :one
SELECT id, user_id, currency, balance, frozen, version, created_at, updated_at FROM accounts WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetAccountByIDForUpdate(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByIDForUpdate, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Currency,
		&i.Balance,
		&i.Frozen,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByUserID = `-- name: GetAccountByUserID :one
SELECT id, user_id, currency, balance, frozen, version, created_at, updated_at FROM accounts WHERE user_id = $1
`

func (q *Queries) GetAccountByUserID(ctx context.Context, userID string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByUserID, userID)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Currency,
		&i.Balance,
		&i.Frozen,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByUserIDForUpdate = `-- name: GetAccountByUserIDForUpdate :one
SELECT id, user_id, currency, balance, frozen, version, created_at, updated_at FROM accounts WHERE user_id = $1 FOR UPDATE
`

func (q *Queries) GetAccountByUserIDForUpdate(ctx context.Context, userID string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByUserIDForUpdate, userID)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Currency,
		&i.Balance,
		&i.Frozen,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertAccountIfAbsent = `-- name: InsertAccountIfAbsent :exec
INSERT INTO accounts (id, user_id, currency, balance, frozen, version, created_at, updated_at)
VALUES ($1, $2, $3, 0, FALSE, 0, $4, $4)
ON CONFLICT (user_id) DO NOTHING
`

type InsertAccountIfAbsentParams struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Currency  string             `json:"currency"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) InsertAccountIfAbsent(ctx context.Context, arg InsertAccountIfAbsentParams) error {
	_, err := q.db.Exec(ctx, insertAccountIfAbsent,
		arg.ID,
		arg.UserID,
		arg.Currency,
		arg.CreatedAt,
	)
	return err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, user_id, currency, balance, frozen, version, created_at, updated_at FROM accounts ORDER BY id LIMIT $1 OFFSET $2
`

type ListAccountsParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListAccounts(ctx context.Context, arg ListAccountsParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccounts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Currency,
			&i.Balance,
			&i.Frozen,
			&i.Version,
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

const setAccountFrozen = `-- name: SetAccountFrozen :exec
UPDATE accounts
SET frozen = $2, updated_at = $3
WHERE id = $1
`

type SetAccountFrozenParams struct {
	ID        string             `json:"id"`
	Frozen    bool               `json:"frozen"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) SetAccountFrozen(ctx context.Context, arg SetAccountFrozenParams) error {
	_, err := q.db.Exec(ctx, setAccountFrozen, arg.ID, arg.Frozen, arg.UpdatedAt)
	return err
}

const updateAccountBalance = `-- name: UpdateAccountBalance :exec
UPDATE accounts
SET balance = $2, version = version + 1, updated_at = $3
WHERE id = $1
`

type UpdateAccountBalanceParams struct {
	ID        string             `json:"id"`
	Balance   pgtype.Numeric     `json:"balance"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAccountBalance(ctx context.Context, arg UpdateAccountBalanceParams) error {
	_, err := q.db.Exec(ctx, updateAccountBalance, arg.ID, arg.Balance, arg.UpdatedAt)
	return err
}
