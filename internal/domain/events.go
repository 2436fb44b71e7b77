package domain

import "time"

// Event types
const (
	EventTypeWalletAdjusted           = "wallet.adjusted"
	EventTypePaymentCreated           = "payment.created"
	EventTypePaymentCompleted         = "payment.completed"
	EventTypePaymentStatusChanged     = "payment.status_changed"
	EventTypePaymentFulfillmentFailed = "payment.fulfillment_failed"
	EventTypeMarathonEnrolled         = "marathon.enrolled"
	EventTypeMarathonEnrollmentFailed = "marathon.enrollment_failed"
	EventTypeWithdrawalCreated        = "withdrawal.created"
	EventTypeWithdrawalStatusChanged  = "withdrawal.status_changed"
)

// Aggregate types
const (
	AggregateTypeAccount    = "account"
	AggregateTypePayment    = "payment"
	AggregateTypeWithdrawal = "withdrawal"
)

// IsEscalation reports whether events of this type need an operator.
func IsEscalation(eventType string) bool {
	return eventType == EventTypeMarathonEnrollmentFailed || eventType == EventTypePaymentFulfillmentFailed
}

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
