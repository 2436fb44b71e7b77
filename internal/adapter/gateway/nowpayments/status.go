package nowpayments

import (
	"strings"

	"github.com/iho/marathon-wallet/internal/domain"
)

// Gateway payment statuses.
const (
	StatusWaiting       = "waiting"
	StatusConfirming    = "confirming"
	StatusConfirmed     = "confirmed"
	StatusSending       = "sending"
	StatusPartiallyPaid = "partially_paid"
	StatusFinished      = "finished"
	StatusFailed        = "failed"
	StatusRefunded      = "refunded"
	StatusExpired       = "expired"
)

var statusTable = map[string]domain.PaymentStatus{
	StatusWaiting:       domain.PaymentStatusPending,
	StatusConfirming:    domain.PaymentStatusPending,
	StatusConfirmed:     domain.PaymentStatusPending,
	StatusSending:       domain.PaymentStatusPending,
	StatusPartiallyPaid: domain.PaymentStatusPending,
	StatusFinished:      domain.PaymentStatusCompleted,
	StatusFailed:        domain.PaymentStatusFailed,
	StatusRefunded:      domain.PaymentStatusFailed,
	StatusExpired:       domain.PaymentStatusCancelled,
}

// MapStatus translates a gateway status into a PaymentStatus. Unknown
// statuses are treated as still pending.
func MapStatus(raw string) domain.PaymentStatus {
	if status, ok := statusTable[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return status
	}
	return domain.PaymentStatusPending
}
