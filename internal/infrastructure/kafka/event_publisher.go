package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andresv02/loan-management-system/internal/domain/event"
	"github.com/andresv02/loan-management-system/pkg/events"
	pkgkafka "github.com/andresv02/loan-management-system/pkg/kafka"
	"github.com/andresv02/loan-management-system/pkg/observability"
)

// Producer is the subset of pkg/kafka.Producer used by EventPublisher.
type Producer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// EventPublisher implements port.EventPublisher by writing event envelopes to
// a single Kafka topic keyed by aggregate ID.
type EventPublisher struct {
	producer Producer
	topic    string
	metrics  *observability.EventMetrics
	logger   *slog.Logger
}

// NewEventPublisher creates a publisher targeting topic. metrics may be nil.
func NewEventPublisher(producer Producer, topic string, metrics *observability.EventMetrics, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		topic:    topic,
		metrics:  metrics,
		logger:   logger,
	}
}

// Publish serialises and sends domain events to Kafka in one batch.
func (p *EventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(evts))
	for _, evt := range evts {
		env, err := events.NewEnvelope(evt)
		if err != nil {
			return err
		}
		payload, err := env.Marshal()
		if err != nil {
			return fmt.Errorf("marshal envelope %s: %w", evt.EventType(), err)
		}

		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"topic", p.topic,
			"payload_size", len(payload),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				HeaderEventType: evt.EventType(),
				HeaderEventID:   evt.EventID(),
			},
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		p.record(ctx, evts, false)
		return fmt.Errorf("publish events to topic %s: %w", p.topic, err)
	}
	p.record(ctx, evts, true)
	return nil
}

func (p *EventPublisher) record(ctx context.Context, evts []event.DomainEvent, ok bool) {
	if p.metrics == nil {
		return
	}
	for _, evt := range evts {
		if ok {
			p.metrics.Published(ctx, evt.EventType())
		} else {
			p.metrics.Failed(ctx, evt.EventType())
		}
	}
}

// Message headers set on every published event.
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)
