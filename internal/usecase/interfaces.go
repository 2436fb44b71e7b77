package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/marathon-wallet/internal/domain"
)

// AccountRepository defines data access for wallet accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// GetOrCreateByUserIDForUpdate inserts candidate unless the user already
	// owns an account, then locks and returns the user's account.
	GetOrCreateByUserIDForUpdate(ctx context.Context, tx Transaction, candidate *domain.Account) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	SetFrozen(ctx context.Context, tx Transaction, id string, frozen bool, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	ExistsByReference(ctx context.Context, tx Transaction, accountID string, kind domain.EntryKind, referenceKind, referenceID string) (bool, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	Summarize(ctx context.Context, accountID string) (*EntrySummary, error)
}

// EntrySummary aggregates the entries of one account.
type EntrySummary struct {
	Count            int64
	SignedSum        decimal.Decimal
	LastBalanceAfter decimal.Decimal
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (totalBalance, totalSigned decimal.Decimal, err error)
}

// PaymentRepository defines data access for payment requests.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.PaymentRequest) error
	GetByID(ctx context.Context, id string) (*domain.PaymentRequest, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.PaymentRequest, error)
	GetByExternalIDForUpdate(ctx context.Context, tx Transaction, externalID string) (*domain.PaymentRequest, error)
	FindPending(ctx context.Context, userID string, purpose domain.PaymentPurpose, marathonID *string) (*domain.PaymentRequest, error)
	FindPendingForUpdate(ctx context.Context, tx Transaction, userID string, purpose domain.PaymentPurpose, marathonID *string) (*domain.PaymentRequest, error)
	Update(ctx context.Context, tx Transaction, payment *domain.PaymentRequest) error
	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]*domain.PaymentRequest, error)
}

// WithdrawalRepository defines data access for withdrawal requests.
type WithdrawalRepository interface {
	Create(ctx context.Context, tx Transaction, withdrawal *domain.WithdrawalRequest) error
	// NextSequence serializes numbering for a UTC day and returns the next
	// 1-based sequence number.
	NextSequence(ctx context.Context, tx Transaction, day time.Time) (int, error)
	GetByID(ctx context.Context, id string) (*domain.WithdrawalRequest, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.WithdrawalRequest, error)
	UpdateStatus(ctx context.Context, tx Transaction, withdrawal *domain.WithdrawalRequest) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore keeps the outcome of requests carrying an Idempotency-Key.
type IdempotencyStore interface {
	// CheckAndSet stores claim under key unless the key already exists, in
	// which case it reports true together with the stored value.
	CheckAndSet(ctx context.Context, key string, claim []byte, ttl time.Duration) (bool, []byte, error)
	// Update replaces the claim with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so that it may be retried.
	Release(ctx context.Context, key string) error
}
