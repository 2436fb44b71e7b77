package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/postgres/generated"
	"github.com/iho/marathon-wallet/internal/usecase"
)

const auditColumns = "id, user_id, action, resource_type, resource_id, ip_address, request_id, " +
	"before_state, after_state, status, error_message, created_at"

// AuditRepository persists the operator audit trail.
type AuditRepository struct {
	db generated.DBTX
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db generated.DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create writes log on its own connection so that it outlives a rolled
// back operation.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return insertAudit(ctx, r.db, log)
}

// CreateTx writes log as part of tx.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return insertAudit(ctx, tx.(*Tx).PgxTx(), log)
}

func insertAudit(ctx context.Context, db generated.DBTX, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	before, err := marshalJSON(log.BeforeState)
	if err != nil {
		return fmt.Errorf("encode audit state: %w", err)
	}
	after, err := marshalJSON(log.AfterState)
	if err != nil {
		return fmt.Errorf("encode audit state: %w", err)
	}

	_, err = db.Exec(ctx,
		`INSERT INTO audit_logs (`+auditColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		log.ID, log.UserID, log.Action, log.ResourceType, log.ResourceID, log.IPAddress, log.RequestID,
		before, after, log.Status, log.ErrorMessage, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log %s: %w", log.Action, err)
	}
	return nil
}

// List returns audit logs matching filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter *domain.AuditFilter) ([]*domain.AuditLog, error) {
	query, args := buildAuditQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}

	logs, err := pgx.CollectRows(rows, scanAuditLog)
	if err != nil {
		return nil, fmt.Errorf("scan audit logs: %w", err)
	}
	return logs, nil
}

func buildAuditQuery(filter *domain.AuditFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.UserID != "" {
		where = append(where, "user_id = "+arg(filter.UserID))
	}
	if filter.Action != "" {
		where = append(where, "action = "+arg(filter.Action))
	}
	if filter.ResourceType != "" {
		where = append(where, "resource_type = "+arg(filter.ResourceType))
	}
	if filter.ResourceID != "" {
		where = append(where, "resource_id = "+arg(filter.ResourceID))
	}
	if filter.StartDate != nil {
		where = append(where, "created_at >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		where = append(where, "created_at < "+arg(*filter.EndDate))
	}

	var b strings.Builder
	b.WriteString("SELECT " + auditColumns + " FROM audit_logs")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		b.WriteString(" OFFSET " + arg(filter.Offset))
	}

	return b.String(), args
}

func scanAuditLog(row pgx.CollectableRow) (*domain.AuditLog, error) {
	var (
		log           domain.AuditLog
		before, after []byte
	)
	err := row.Scan(
		&log.ID, &log.UserID, &log.Action, &log.ResourceType, &log.ResourceID, &log.IPAddress, &log.RequestID,
		&before, &after, &log.Status, &log.ErrorMessage, &log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if before != nil {
		log.BeforeState = unmarshalJSON(before)
	}
	if after != nil {
		log.AfterState = unmarshalJSON(after)
	}
	return &log, nil
}
