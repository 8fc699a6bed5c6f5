// Package kafka publishes order lifecycle events to the order-changed topic
// consumed by notifications, search indexing, and seller dashboards.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// orderChangedEvent is the wire format of an order lifecycle notification.
// Messages are keyed by order id so consumers see one order's events in order.
type orderChangedEvent struct {
	OrderID       string     `json:"orderId"`
	BuyerID       *string    `json:"buyerId,omitempty"`
	Status        string     `json:"status"`
	RouteID       *string    `json:"routeId,omitempty"`
	TotalPrice    float64    `json:"totalPrice"`
	ShippingPrice float64    `json:"shippingPrice"`
	DeliveredAt   *time.Time `json:"deliveredAt,omitempty"`
	OccurredAt    time.Time  `json:"occurredAt"`
}

// OrderChangedPublisher implements ports.OrderEventPublisher on a kafka topic.
type OrderChangedPublisher struct {
	writer *kafka.Writer
}

// NewOrderChangedPublisher creates a publisher writing to the given brokers
// and topic. Writes are acknowledged by all replicas before returning.
func NewOrderChangedPublisher(brokers []string, topic string) *OrderChangedPublisher {
	return &OrderChangedPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 20 * time.Millisecond,
		},
	}
}

// PublishOrderChanged emits the order's current state keyed by order id.
func (p *OrderChangedPublisher) PublishOrderChanged(
	ctx context.Context, aggregate *order.Order,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	event := orderChangedEvent{
		OrderID:       aggregate.ID().String(),
		Status:        aggregate.Status().String(),
		TotalPrice:    aggregate.TotalPrice(),
		ShippingPrice: aggregate.ShippingPrice(),
		DeliveredAt:   aggregate.DeliveredAt(),
		OccurredAt:    time.Now().UTC(),
	}
	if buyerID := aggregate.BuyerID(); buyerID != nil {
		s := buyerID.String()
		event.BuyerID = &s
	}
	if routeID := aggregate.RouteID(); routeID != nil {
		s := routeID.String()
		event.RouteID = &s
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(aggregate.ID().String()),
		Value: value,
		Time:  event.OccurredAt,
	})
}

// Close flushes and closes the underlying writer.
func (p *OrderChangedPublisher) Close() error {
	return p.writer.Close()
}
