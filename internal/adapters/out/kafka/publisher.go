// Package kafka publishes order lifecycle events to a Kafka topic.
//
// Events are emitted after the owning transaction commits and are a
// projection feed, not the system of record: a lost event never invalidates
// an order. Consumers that need exact state re-read the order store.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"

	"github.com/IBM/sarama"
)

// OrderStatusChangedEvent is the wire format of one status change.
// The delivery code is deliberately absent: the event stream has a wider
// audience than the customer.
type OrderStatusChangedEvent struct {
	OrderID    string    `json:"orderId"`
	Status     string    `json:"status"`
	RiderID    *string   `json:"riderId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewSyncProducer creates a sarama synchronous producer with acknowledged
// delivery enabled.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second
	return sarama.NewSyncProducer(brokers, config)
}

// OrderStatusChangedProducer publishes order status changes to one topic,
// keyed by order ID so all events of an order land on the same partition in
// order.
type OrderStatusChangedProducer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewOrderStatusChangedProducer creates a publisher on top of an existing
// sarama producer.
func NewOrderStatusChangedProducer(
	producer sarama.SyncProducer, topic string, logger *slog.Logger,
) *OrderStatusChangedProducer {
	return &OrderStatusChangedProducer{
		producer: producer,
		topic:    topic,
		logger:   logger.With("component", "order_status_changed_producer"),
	}
}

// PublishOrderStatusChanged sends the order's current status to the topic.
// Failures are logged here; callers treat publishing as best-effort.
func (p *OrderStatusChangedProducer) PublishOrderStatusChanged(
	ctx context.Context, aggregate *order.Order,
) error {
	event := OrderStatusChangedEvent{
		OrderID:    aggregate.ID().String(),
		Status:     aggregate.Status().String(),
		OccurredAt: time.Now().UTC(),
	}
	if rider := aggregate.Rider(); rider != nil {
		riderID := rider.String()
		event.RiderID = &riderID
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to encode order status event",
			"order_id", event.OrderID, "error", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish order status event",
			"order_id", event.OrderID, "status", event.Status, "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "published order status event",
		"order_id", event.OrderID, "status", event.Status,
		"partition", partition, "offset", offset)
	return nil
}

// Close shuts the underlying producer down.
func (p *OrderStatusChangedProducer) Close() error {
	return p.producer.Close()
}
