package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records who changed what in an operator-visible trail.
type AuditLog struct {
	CreatedAt    time.Time
	BeforeState  JSON
	AfterState   JSON
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	Status       string
	ErrorMessage string
}

// JSON is a free-form state snapshot.
type JSON map[string]any

// AuditAction names an audited operation.
type AuditAction string

const (
	AuditActionWalletFreeze     AuditAction = "wallet.freeze"
	AuditActionWalletUnfreeze   AuditAction = "wallet.unfreeze"
	AuditActionWebhookRejected  AuditAction = "payment.webhook_rejected"
	AuditActionWithdrawalCreate AuditAction = "withdrawal.create"
	AuditActionWithdrawalReview AuditAction = "withdrawal.review"
)

// AuditStatus is the outcome of an audited operation.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// NewAuditLog starts a successful audit record for a resource.
func NewAuditLog(id, actor string, action AuditAction, resourceType, resourceID string, at time.Time) *AuditLog {
	return &AuditLog{
		ID:           id,
		UserID:       actor,
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Status:       string(AuditStatusSuccess),
		CreatedAt:    at,
	}
}

// WithStates attaches before/after snapshots.
func (l *AuditLog) WithStates(before, after any) *AuditLog {
	l.BeforeState = MarshalState(before)
	l.AfterState = MarshalState(after)
	return l
}

// Failed marks the record as a failed attempt.
func (l *AuditLog) Failed(err error) *AuditLog {
	l.Status = string(AuditStatusFailure)
	if err != nil {
		l.ErrorMessage = err.Error()
	}
	return l
}

// MarshalState flattens v into a JSON object. Typed nil pointers yield nil.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "unserializable state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"value": string(data)}
	}

	return result
}

// AuditFilter narrows an audit log listing. Zero values match everything.
type AuditFilter struct {
	StartDate    *time.Time
	EndDate      *time.Time
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}
