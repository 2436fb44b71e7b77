package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const checkLedgerConsistency = `-- name: CheckLedgerConsistency :one
SELECT
    (SELECT COALESCE(SUM(balance), 0) FROM accounts)::NUMERIC AS total_account_balance,
    (SELECT COALESCE(SUM(CASE WHEN kind IN ('CREDIT', 'REFUND') THEN amount ELSE -amount END), 0) FROM ledger_entries)::NUMERIC AS total_signed_amount
`

type CheckLedgerConsistencyRow struct {
	TotalAccountBalance pgtype.Numeric `json:"total_account_balance"`
	TotalSignedAmount   pgtype.Numeric `json:"total_signed_amount"`
}

func (q *Queries) CheckLedgerConsistency(ctx context.Context) (CheckLedgerConsistencyRow, error) {
	row := q.db.QueryRow(ctx, checkLedgerConsistency)
	var i CheckLedgerConsistencyRow
	err := row.Scan(&i.TotalAccountBalance, &i.TotalSignedAmount)
	return i, err
}

const createEntry = `-- name: CreateEntry :execrows
INSERT INTO ledger_entries (id, account_id, kind, amount, balance_before, balance_after, reference_kind, reference_id, description, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (account_id, kind, COALESCE(reference_kind, ''), reference_id) WHERE reference_id IS NOT NULL DO NOTHING
`

type CreateEntryParams struct {
	ID            string             `json:"id"`
	AccountID     string             `json:"account_id"`
	Kind          string             `json:"kind"`
	Amount        pgtype.Numeric     `json:"amount"`
	BalanceBefore pgtype.Numeric     `json:"balance_before"`
	BalanceAfter  pgtype.Numeric     `json:"balance_after"`
	ReferenceKind pgtype.Text        `json:"reference_kind"`
	ReferenceID   pgtype.Text        `json:"reference_id"`
	Description   string             `json:"description"`
	Metadata      []byte             `json:"metadata"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) (int64, error) {
	result, err := q.db.Exec(ctx, createEntry,
		arg.ID,
		arg.AccountID,
		arg.Kind,
		arg.Amount,
		arg.BalanceBefore,
		arg.BalanceAfter,
		arg.ReferenceKind,
		arg.ReferenceID,
		arg.Description,
		arg.Metadata,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const entryReferenceExists = `-- name: EntryReferenceExists :one
SELECT EXISTS (
    SELECT 1 FROM ledger_entries
    WHERE account_id = $1 AND kind = $2 AND COALESCE(reference_kind, '') = $3 AND reference_id = $4
) AS exists
`

type EntryReferenceExistsParams struct {
	AccountID     string      `json:"account_id"`
	Kind          string      `json:"kind"`
	ReferenceKind string      `json:"reference_kind"`
	ReferenceID   pgtype.Text `json:"reference_id"`
}

func (q *Queries) EntryReferenceExists(ctx context.Context, arg EntryReferenceExistsParams) (bool, error) {
	row := q.db.QueryRow(ctx, entryReferenceExists,
		arg.AccountID,
		arg.Kind,
		arg.ReferenceKind,
		arg.ReferenceID,
	)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listEntriesByAccount = `-- name: ListEntriesByAccount :many
SELECT id, account_id, kind, amount, balance_before, balance_after, reference_kind, reference_id, description, metadata, created_at
FROM ledger_entries
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListEntriesByAccountParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) ListEntriesByAccount(ctx context.Context, arg ListEntriesByAccountParams) ([]LedgerEntry, error) {
	rows, err := q.db.Query(ctx, listEntriesByAccount, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []LedgerEntry{}
	for rows.Next() {
		var i LedgerEntry
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Kind,
			&i.Amount,
			&i.BalanceBefore,
			&i.BalanceAfter,
			&i.ReferenceKind,
			&i.ReferenceID,
			&i.Description,
			&i.Metadata,
			&i.CreatedAt,
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

const summarizeEntries = `-- name: SummarizeEntries :one
SELECT
    COUNT(*)::BIGINT AS entry_count,
    COALESCE(SUM(CASE WHEN kind IN ('CREDIT', 'REFUND') THEN amount ELSE -amount END), 0)::NUMERIC AS signed_sum,
    COALESCE((
        SELECT balance_after FROM ledger_entries last
        WHERE last.account_id = $1
        ORDER BY last.created_at DESC, last.id DESC LIMIT 1
    ), 0)::NUMERIC AS last_balance_after
FROM ledger_entries
WHERE account_id = $1
`

type SummarizeEntriesRow struct {
	EntryCount       int64          `json:"entry_count"`
	SignedSum        pgtype.Numeric `json:"signed_sum"`
	LastBalanceAfter pgtype.Numeric `json:"last_balance_after"`
}

func (q *Queries) SummarizeEntries(ctx context.Context, accountID string) (SummarizeEntriesRow, error) {
	row := q.db.QueryRow(ctx, summarizeEntries, accountID)
	var i SummarizeEntriesRow
	err := row.Scan(&i.EntryCount, &i.SignedSum, &i.LastBalanceAfter)
	return i, err
}
