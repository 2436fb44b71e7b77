package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/postgres/generated"
	"github.com/iho/marathon-wallet/internal/usecase"
)

const maxOutboxBatch = 1000

// OutboxRepository stores domain events next to the state change that
// produced them; EventPublisher drains it.
type OutboxRepository struct {
	queries *generated.Queries
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(db generated.DBTX) *OutboxRepository {
	return &OutboxRepository{queries: generated.New(db)}
}

// Create records an event inside tx so it commits or rolls back with it.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	payload := event.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event.EventType, err)
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return txQueries(tx).CreateOutboxEvent(ctx, generated.CreateOutboxEventParams{
		ID:            event.ID,
		AggregateID:   event.AggregateID,
		AggregateType: event.AggregateType,
		EventType:     event.EventType,
		Payload:       raw,
		CreatedAt:     timeToPgTimestamptz(createdAt),
		Published:     false,
	})
}

// GetUnpublished returns pending events in commit order.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if limit <= 0 || limit > maxOutboxBatch {
		limit = maxOutboxBatch
	}

	rows, err := r.queries.GetUnpublishedEvents(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("load pending outbox events: %w", err)
	}

	events := make([]*domain.OutboxEvent, len(rows))
	for i, row := range rows {
		events[i] = &domain.OutboxEvent{
			ID:            row.ID,
			AggregateID:   row.AggregateID,
			AggregateType: row.AggregateType,
			EventType:     row.EventType,
			Payload:       unmarshalJSON(row.Payload),
			CreatedAt:     row.CreatedAt.Time,
			PublishedAt:   pgTimestamptzToPtr(row.PublishedAt),
			Published:     row.Published,
		}
	}

	return events, nil
}

// MarkPublished flags an event as delivered.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	err := r.queries.MarkEventPublished(ctx, generated.MarkEventPublishedParams{
		ID:          id,
		PublishedAt: timeToPgTimestamptz(publishedAt),
	})
	if err != nil {
		return fmt.Errorf("mark outbox event %s published: %w", id, err)
	}
	return nil
}
