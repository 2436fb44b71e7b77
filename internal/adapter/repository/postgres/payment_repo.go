package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/postgres/generated"
	"github.com/iho/marathon-wallet/internal/usecase"
)

const pendingPaymentIndex = "payment_requests_one_pending_idx"

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	queries *generated.Queries
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db generated.DBTX) *PaymentRepository {
	return &PaymentRepository{queries: generated.New(db)}
}

// Create inserts a payment. A second pending payment for the same user,
// purpose and marathon violates a partial unique index and is reported as
// ErrPendingPaymentExists.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.PaymentRequest) error {
	err := txQueries(tx).CreatePayment(ctx, generated.CreatePaymentParams{
		ID:                payment.ID,
		UserID:            payment.UserID,
		Purpose:           string(payment.Purpose),
		MarathonID:        stringPtrToText(payment.MarathonID),
		Amount:            decimalToNumeric(payment.Amount),
		PayAmount:         decimalToNumeric(payment.PayAmount),
		PayCurrency:       payment.PayCurrency,
		PayAddress:        payment.PayAddress,
		Network:           payment.Network,
		ExternalID:        payment.ExternalID,
		Status:            string(payment.Status),
		FulfillmentStatus: string(payment.Fulfillment),
		FulfillmentError:  payment.FulfillmentError,
		ExpiresAt:         timeToPgTimestamptz(payment.ExpiresAt),
		CreatedAt:         timeToPgTimestamptz(payment.CreatedAt),
		UpdatedAt:         timeToPgTimestamptz(payment.UpdatedAt),
	})
	if uniqueViolation(err, pendingPaymentIndex) {
		return domain.ErrPendingPaymentExists
	}

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.PaymentRequest, error) {
	row, err := r.queries.GetPaymentByID(ctx, id)
	if err != nil {
		return nil, paymentErr(err)
	}

	return rowToPayment(row), nil
}

// GetByIDForUpdate retrieves a payment by ID with a FOR UPDATE lock.
func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.PaymentRequest, error) {
	row, err := txQueries(tx).GetPaymentByIDForUpdate(ctx, id)
	if err != nil {
		return nil, paymentErr(err)
	}

	return rowToPayment(row), nil
}

// GetByExternalIDForUpdate locks the payment the gateway knows as externalID.
func (r *PaymentRepository) GetByExternalIDForUpdate(ctx context.Context, tx usecase.Transaction, externalID string) (*domain.PaymentRequest, error) {
	row, err := txQueries(tx).GetPaymentByExternalIDForUpdate(ctx, externalID)
	if err != nil {
		return nil, paymentErr(err)
	}

	return rowToPayment(row), nil
}

// FindPending returns the open payment for a user, purpose and marathon.
func (r *PaymentRepository) FindPending(ctx context.Context, userID string, purpose domain.PaymentPurpose, marathonID *string) (*domain.PaymentRequest, error) {
	row, err := r.queries.FindPendingPayment(ctx, generated.FindPendingPaymentParams{
		UserID:     userID,
		Purpose:    string(purpose),
		MarathonID: derefString(marathonID),
	})
	if err != nil {
		return nil, paymentErr(err)
	}

	return rowToPayment(row), nil
}

// FindPendingForUpdate is FindPending under a row lock.
func (r *PaymentRepository) FindPendingForUpdate(ctx context.Context, tx usecase.Transaction, userID string, purpose domain.PaymentPurpose, marathonID *string) (*domain.PaymentRequest, error) {
	row, err := txQueries(tx).FindPendingPaymentForUpdate(ctx, generated.FindPendingPaymentForUpdateParams{
		UserID:     userID,
		Purpose:    string(purpose),
		MarathonID: derefString(marathonID),
	})
	if err != nil {
		return nil, paymentErr(err)
	}

	return rowToPayment(row), nil
}

// Update persists the mutable fields of a payment.
func (r *PaymentRepository) Update(ctx context.Context, tx usecase.Transaction, payment *domain.PaymentRequest) error {
	payload, err := marshalJSON(payment.LastWebhookPayload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	return txQueries(tx).UpdatePayment(ctx, generated.UpdatePaymentParams{
		ID:                 payment.ID,
		Status:             string(payment.Status),
		FulfillmentStatus:  string(payment.Fulfillment),
		FulfillmentError:   payment.FulfillmentError,
		LastWebhookPayload: payload,
		UpdatedAt:          timeToPgTimestamptz(payment.UpdatedAt),
	})
}

// ListExpiredPending returns pending payments whose invoices expired at or
// before now, oldest first.
func (r *PaymentRepository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]*domain.PaymentRequest, error) {
	rows, err := r.queries.ListExpiredPendingPayments(ctx, generated.ListExpiredPendingPaymentsParams{
		ExpiresAt: timeToPgTimestamptz(now),
		Limit:     int32(limit),
	})
	if err != nil {
		return nil, err
	}

	payments := make([]*domain.PaymentRequest, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, rowToPayment(row))
	}

	return payments, nil
}

func paymentErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrPaymentNotFound
	}
	return err
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func rowToPayment(row generated.PaymentRequest) *domain.PaymentRequest {
	return &domain.PaymentRequest{
		ID:                 row.ID,
		UserID:             row.UserID,
		Purpose:            domain.PaymentPurpose(row.Purpose),
		MarathonID:         textToStringPtr(row.MarathonID),
		Amount:             numericToDecimal(row.Amount),
		PayAmount:          numericToDecimal(row.PayAmount),
		PayCurrency:        row.PayCurrency,
		PayAddress:         row.PayAddress,
		Network:            row.Network,
		ExternalID:         row.ExternalID,
		Status:             domain.PaymentStatus(row.Status),
		Fulfillment:        domain.FulfillmentStatus(row.FulfillmentStatus),
		FulfillmentError:   row.FulfillmentError,
		LastWebhookPayload: unmarshalJSON(row.LastWebhookPayload),
		ExpiresAt:          row.ExpiresAt.Time,
		CreatedAt:          row.CreatedAt.Time,
		UpdatedAt:          row.UpdatedAt.Time,
	}
}
