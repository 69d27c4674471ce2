package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/parcelco/backoffice/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
)

// Writer is the subset of kafka.Writer the publisher needs
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Message is the JSON value written to the topic
type Message struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// KafkaPublisher forwards shipment events to a Kafka topic keyed by
// shipment id, so one shipment's events stay ordered on a partition
type KafkaPublisher struct {
	writer  Writer
	timeout time.Duration
}

// NewKafkaPublisher creates a publisher writing to the configured topic
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           cfg.WriteTimeout,
	}
	return NewKafkaPublisherWithWriter(w, cfg.WriteTimeout)
}

// NewKafkaPublisherWithWriter allows injecting a writer
func NewKafkaPublisherWithWriter(w Writer, timeout time.Duration) *KafkaPublisher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &KafkaPublisher{writer: w, timeout: timeout}
}

// EventTypes implements shared.EventHandler
func (p *KafkaPublisher) EventTypes() []string {
	return []string{
		shipment.EventTypeShipmentCreated,
		shipment.EventTypeShipmentStatusChanged,
		shipment.EventTypeShipmentDeleted,
	}
}

// Handle implements shared.EventHandler
func (p *KafkaPublisher) Handle(ctx context.Context, event shared.DomainEvent) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", event.EventType(), err)
	}
	return nil
}

func encode(event shared.DomainEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s: %w", event.EventType(), err)
	}
	value, err := json.Marshal(Message{
		ID:            event.EventID().String(),
		Type:          event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID().String(),
		OccurredAt:    event.OccurredAt().UTC(),
		Payload:       payload,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal envelope: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.AggregateID().String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.EventType())},
		},
		Time: event.OccurredAt(),
	}, nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ shared.EventHandler = (*KafkaPublisher)(nil)
