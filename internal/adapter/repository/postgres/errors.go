package postgres

import (
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrUniqueViolation = "23505"
	pgErrCheckViolation  = "23514"

	balanceFollowsConstraint = "ledger_entries_balance_follows"
)

// uniqueViolation reports whether err is a unique violation of the named
// constraint or index.
func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == constraint
}

func checkViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgErrCheckViolation && pgErr.ConstraintName == constraint
}

func marshalJSON(v map[string]any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func unmarshalJSON(data []byte) map[string]any {
	if data == nil {
		return nil
	}

	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return v
}
