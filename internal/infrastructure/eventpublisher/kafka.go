package eventpublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/iho/marathon-wallet/internal/domain"
)

// Message is the wire form of an outbox event on Kafka.
type Message struct {
	ID            string         `json:"id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"created_at"`
}

// KafkaPublisher sends outbox events to Kafka. Escalations go to a separate
// topic watched by operators.
type KafkaPublisher struct {
	producer        sarama.SyncProducer
	topic           string
	escalationTopic string
}

// NewKafkaProducerConfig returns the producer settings used for outbox delivery.
func NewKafkaProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	return config
}

// NewKafkaPublisher dials the brokers and creates a synchronous producer.
func NewKafkaPublisher(brokers []string, topic, escalationTopic string) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewKafkaProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic, escalationTopic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic, escalationTopic string) *KafkaPublisher {
	if escalationTopic == "" {
		escalationTopic = topic
	}
	return &KafkaPublisher{
		producer:        producer,
		topic:           topic,
		escalationTopic: escalationTopic,
	}
}

// TopicFor returns the topic an event type is routed to.
func (p *KafkaPublisher) TopicFor(eventType string) string {
	if domain.IsEscalation(eventType) {
		return p.escalationTopic
	}
	return p.topic
}

// Publish sends the event keyed by its aggregate so that events of one
// payment or withdrawal stay ordered within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(Message{
		ID:            event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		CreatedAt:     event.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.ID, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.TopicFor(event.EventType),
		Key:   sarama.StringEncoder(event.AggregateID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType)},
			{Key: []byte("event_id"), Value: []byte(event.ID)},
		},
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send event %s: %w", event.ID, err)
	}

	return nil
}

// Close closes the underlying producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
