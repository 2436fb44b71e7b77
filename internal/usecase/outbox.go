package usecase

import (
	"context"
	"time"

	"github.com/iho/marathon-wallet/internal/domain"
)

// emitEvent records a domain event in the outbox as part of tx.
func emitEvent(
	ctx context.Context,
	tx Transaction,
	repo OutboxRepository,
	idGen IDGenerator,
	aggregateType, aggregateID, eventType string,
	payload map[string]any,
) error {
	if repo == nil {
		return nil
	}

	return repo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	})
}

func paymentEventPayload(p *domain.PaymentRequest) map[string]any {
	payload := map[string]any{
		"payment_id":         p.ID,
		"user_id":            p.UserID,
		"external_id":        p.ExternalID,
		"purpose":            string(p.Purpose),
		"status":             string(p.Status),
		"fulfillment_status": string(p.Fulfillment),
		"amount":             p.Amount.StringFixed(domain.MoneyScale),
	}

	if p.MarathonID != nil {
		payload["marathon_id"] = *p.MarathonID
	}

	if p.FulfillmentError != "" {
		payload["fulfillment_error"] = p.FulfillmentError
	}

	return payload
}
