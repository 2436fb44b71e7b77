package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/postgres/generated"
	"github.com/iho/marathon-wallet/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// Create appends an entry. A second entry with the same (account, kind,
// reference) is skipped by the insert and reported as ErrDuplicateReference,
// leaving the transaction usable. An entry whose balance_after does not
// follow from balance_before and amount wraps ErrLedgerInconsistent.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	metadata, err := marshalJSON(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal entry metadata: %w", err)
	}

	inserted, err := txQueries(tx).CreateEntry(ctx, generated.CreateEntryParams{
		ID:            entry.ID,
		AccountID:     entry.AccountID,
		Kind:          string(entry.Kind),
		Amount:        decimalToNumeric(entry.Amount),
		BalanceBefore: decimalToNumeric(entry.BalanceBefore),
		BalanceAfter:  decimalToNumeric(entry.BalanceAfter),
		ReferenceKind: stringPtrToText(entry.ReferenceKind),
		ReferenceID:   stringPtrToText(entry.ReferenceID),
		Description:   entry.Description,
		Metadata:      metadata,
		CreatedAt:     timeToPgTimestamptz(entry.CreatedAt),
	})
	if checkViolation(err, balanceFollowsConstraint) {
		return fmt.Errorf("%w: entry %s does not follow its balance", domain.ErrLedgerInconsistent, entry.ID)
	}
	if err != nil {
		return err
	}

	if inserted == 0 {
		return domain.ErrDuplicateReference
	}

	return nil
}

// ExistsByReference reports whether the account already has an entry of kind
// for the reference.
func (r *EntryRepository) ExistsByReference(ctx context.Context, tx usecase.Transaction, accountID string, kind domain.EntryKind, referenceKind, referenceID string) (bool, error) {
	return txQueries(tx).EntryReferenceExists(ctx, generated.EntryReferenceExistsParams{
		AccountID:     accountID,
		Kind:          string(kind),
		ReferenceKind: referenceKind,
		ReferenceID:   pgtype.Text{String: referenceID, Valid: true},
	})
}

// ListByAccount returns entries newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListEntriesByAccount(ctx, generated.ListEntriesByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// Summarize aggregates the entries of an account.
func (r *EntryRepository) Summarize(ctx context.Context, accountID string) (*usecase.EntrySummary, error) {
	row, err := r.queries.SummarizeEntries(ctx, accountID)
	if err != nil {
		return nil, err
	}

	signed, err := toDecimal(row.SignedSum)
	if err != nil {
		return nil, err
	}

	last, err := toDecimal(row.LastBalanceAfter)
	if err != nil {
		return nil, err
	}

	return &usecase.EntrySummary{
		Count:            row.EntryCount,
		SignedSum:        signed,
		LastBalanceAfter: last,
	}, nil
}

func rowToEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:            row.ID,
		AccountID:     row.AccountID,
		Kind:          domain.EntryKind(row.Kind),
		Amount:        numericToDecimal(row.Amount),
		BalanceBefore: numericToDecimal(row.BalanceBefore),
		BalanceAfter:  numericToDecimal(row.BalanceAfter),
		ReferenceKind: textToStringPtr(row.ReferenceKind),
		ReferenceID:   textToStringPtr(row.ReferenceID),
		Description:   row.Description,
		Metadata:      unmarshalJSON(row.Metadata),
		CreatedAt:     row.CreatedAt.Time,
	}
}
