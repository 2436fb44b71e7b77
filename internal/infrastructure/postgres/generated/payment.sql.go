package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createPayment = `-- name: CreatePayment :exec
INSERT INTO payment_requests (
    id, user_id, purpose, marathon_id, amount, pay_amount, pay_currency, pay_address, network,
    external_id, status, fulfillment_status, fulfillment_error, expires_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`

type CreatePaymentParams struct {
	ID                string             `json:"id"`
	UserID            string             `json:"user_id"`
	Purpose           string             `json:"purpose"`
	MarathonID        pgtype.Text        `json:"marathon_id"`
	Amount            pgtype.Numeric     `json:"amount"`
	PayAmount         pgtype.Numeric     `json:"pay_amount"`
	PayCurrency       string             `json:"pay_currency"`
	PayAddress        string             `json:"pay_address"`
	Network           string             `json:"network"`
	ExternalID        string             `json:"external_id"`
	Status            string             `json:"status"`
	FulfillmentStatus string             `json:"fulfillment_status"`
	FulfillmentError  string             `json:"fulfillment_error"`
	ExpiresAt         pgtype.Timestamptz `json:"expires_at"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) error {
	_, err := q.db.Exec(ctx, createPayment,
		arg.ID,
		arg.UserID,
		arg.Purpose,
		arg.MarathonID,
		arg.Amount,
		arg.PayAmount,
		arg.PayCurrency,
		arg.PayAddress,
		arg.Network,
		arg.ExternalID,
		arg.Status,
		arg.FulfillmentStatus,
		arg.FulfillmentError,
		arg.ExpiresAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const findPendingPayment = `-- name: FindPendingPayment :one
SELECT id, user_id, purpose, marathon_id, amount, pay_amount, pay_currency, pay_address, network, external_id, status, fulfillment_status, fulfillment_error, last_webhook_payload, expires_at, created_at, updated_at
FROM payment_requests
WHERE user_id = $1 AND purpose = $2 AND COALESCE(marathon_id, '') = $3 AND status = 'PENDING'
`

type FindPendingPaymentParams struct {
	UserID     string `json:"user_id"`
	Purpose    string `json:"purpose"`
	MarathonID string `json:"marathon_id"`
}

func (q *Queries) FindPendingPayment(ctx context.Context, arg FindPendingPaymentParams) (PaymentRequest, error) {
	row := q.db.QueryRow(ctx, findPendingPayment, arg.UserID, arg.Purpose, arg.MarathonID)
	var i PaymentRequest
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Purpose,
		&i.MarathonID,
		&i.Amount,
		&i.PayAmount,
		&i.PayCurrency,
		&i.PayAddress,
		&i.Network,
		&i.ExternalID,
		&i.Status,
		&i.FulfillmentStatus,
		&i.FulfillmentError,
		&i.LastWebhookPayload,
		&i.ExpiresAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findPendingPaymentForUpdate = `-- name: FindPendingPaymentForUpdate :one
SELECT id, user_id, purpose, marathon_id, amount, pay_amount, pay_currency, pay_address, network, external_id, status, fulfillment_status, fulfillment_error, last_webhook_payload, expires_at, created_at, updated_at
FROM payment_requests
WHERE user_id = $1 AND purpose = $2 AND COALESCE(marathon_id, '') = $3 AND status = 'PENDING'
FOR UPDATE
`

type FindPendingPaymentForUpdateParams struct {
	UserID     string `json:"user_id"`
	Purpose    string `json:"purpose"`
	MarathonID string `json:"marathon_id"`
}

func (q *Queries) FindPendingPaymentForUpdate(ctx context.Context, arg FindPendingPaymentForUpdateParams) (PaymentRequest, error) {
	row := q.db.QueryRow(ctx, findPendingPaymentForUpdate, arg.UserID, arg.Purpose, arg.MarathonID)
	var i PaymentRequest
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Purpose,
		&i.MarathonID,
		&i.Amount,
		&i.PayAmount,
		&i.PayCurrency,
		&i.PayAddress,
		&i.Network,
		&i.ExternalID,
		&i.Status,
		&i.FulfillmentStatus,
		&i.FulfillmentError,
		&i.LastWebhookPayload,
		&i.ExpiresAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getPaymentByExternalIDForUpdate = `-- name: GetPaymentByExternalIDForUpdate :one
SELECT id, user_id, purpose, marathon_id, amount, pay_amount, pay_currency, pay_address, network, external_id, status, fulfillment_status, fulfillment_error, last_webhook_payload, expires_at, created_at, updated_at
FROM payment_requests WHERE external_id = $1 FOR UPDATE
`

func (q *Queries) GetPaymentByExternalIDForUpdate(ctx context.Context, externalID string) (PaymentRequest, error) {
	row := q.db.QueryRow(ctx, getPaymentByExternalIDForUpdate, externalID)
	var i PaymentRequest
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Purpose,
		&i.MarathonID,
		&i.Amount,
		&i.PayAmount,
		&i.PayCurrency,
		&i.PayAddress,
		&i.Network,
		&i.ExternalID,
		&i.Status,
		&i.FulfillmentStatus,
		&i.FulfillmentError,
		&i.LastWebhookPayload,
		&i.ExpiresAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getPaymentByID = `-- name: GetPaymentByID :one
SELECT id, user_id, purpose, marathon_id, amount, pay_amount, pay_currency, pay_address, network, external_id, status, fulfillment_status, fulfillment_error, last_webhook_payload, expires_at, created_at, updated_at
FROM payment_requests WHERE id = $1
`

func (q *Queries) GetPaymentByID(ctx context.Context, id string) (PaymentRequest, error) {
	row := q.db.QueryRow(ctx, getPaymentByID, id)
	var i PaymentRequest
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Purpose,
		&i.MarathonID,
		&i.Amount,
		&i.PayAmount,
		&i.PayCurrency,
		&i.PayAddress,
		&i.Network,
		&i.ExternalID,
		&i.Status,
		&i.FulfillmentStatus,
		&i.FulfillmentError,
		&i.LastWebhookPayload,
		&i.ExpiresAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getPaymentByIDForUpdate = `-- name: GetPaymentByIDForUpdate :one
SELECT id, user_id, purpose, marathon_id, amount, pay_amount, pay_currency, pay_address, network, external_id, status, fulfillment_status, fulfillment_error, last_webhook_payload, expires_at, created_at, updated_at
FROM payment_requests WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetPaymentByIDForUpdate(ctx context.Context, id string) (PaymentRequest, error) {
	row := q.db.QueryRow(ctx, getPaymentByIDForUpdate, id)
	var i PaymentRequest
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Purpose,
		&i.MarathonID,
		&i.Amount,
		&i.PayAmount,
		&i.PayCurrency,
		&i.PayAddress,
		&i.Network,
		&i.ExternalID,
		&i.Status,
		&i.FulfillmentStatus,
		&i.FulfillmentError,
		&i.LastWebhookPayload,
		&i.ExpiresAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listExpiredPendingPayments = `-- name: ListExpiredPendingPayments :many
SELECT id, user_id, purpose, marathon_id, amount, pay_amount, pay_currency, pay_address, network, external_id, status, fulfillment_status, fulfillment_error, last_webhook_payload, expires_at, created_at, updated_at
FROM payment_requests
WHERE status = 'PENDING' AND expires_at <= $1
ORDER BY expires_at
LIMIT $2
`

type ListExpiredPendingPaymentsParams struct {
	ExpiresAt pgtype.Timestamptz `json:"expires_at"`
	Limit     int32              `json:"limit"`
}

func (q *Queries) ListExpiredPendingPayments(ctx context.Context, arg ListExpiredPendingPaymentsParams) ([]PaymentRequest, error) {
	rows, err := q.db.Query(ctx, listExpiredPendingPayments, arg.ExpiresAt, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []PaymentRequest{}
	for rows.Next() {
		var i PaymentRequest
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Purpose,
			&i.MarathonID,
			&i.Amount,
			&i.PayAmount,
			&i.PayCurrency,
			&i.PayAddress,
			&i.Network,
			&i.ExternalID,
			&i.Status,
			&i.FulfillmentStatus,
			&i.FulfillmentError,
			&i.LastWebhookPayload,
			&i.ExpiresAt,
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

const updatePayment = `-- name: UpdatePayment :exec
UPDATE payment_requests
SET status = $2, fulfillment_status = $3, fulfillment_error = $4, last_webhook_payload = $5, updated_at = $6
WHERE id = $1
`

type UpdatePaymentParams struct {
	ID                 string             `json:"id"`
	Status             string             `json:"status"`
	FulfillmentStatus  string             `json:"fulfillment_status"`
	FulfillmentError   string             `json:"fulfillment_error"`
	LastWebhookPayload []byte             `json:"last_webhook_payload"`
	UpdatedAt          pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdatePayment(ctx context.Context, arg UpdatePaymentParams) error {
	_, err := q.db.Exec(ctx, updatePayment,
		arg.ID,
		arg.Status,
		arg.FulfillmentStatus,
		arg.FulfillmentError,
		arg.LastWebhookPayload,
		arg.UpdatedAt,
	)
	return err
}
