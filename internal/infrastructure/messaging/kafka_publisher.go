package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clearline/submission-engine/internal/domain/event"
	"github.com/clearline/submission-engine/pkg/kafka"
)

// KafkaEventPublisher implements port.EventPublisher by writing events to a
// single submissions topic, keyed by aggregate id so the per-submission event
// stream stays ordered within a partition.
type KafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaEventPublisher creates a publisher targeting the given topic.
func NewKafkaEventPublisher(producer *kafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// Publish serialises and sends domain events.
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	messages := make([]kafka.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type": evt.EventType(),
				"event_id":   evt.EventID(),
				"tenant_id":  evt.TenantID(),
			},
		})
	}
	return p.producer.Publish(ctx, p.topic, messages...)
}
