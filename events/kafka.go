package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fruitika/storefront-api/models"
	"github.com/segmentio/kafka-go"
)

const EventOrderPlaced = "order.placed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderPlacedEvent is the payload published on the order topic.
type OrderPlacedEvent struct {
	OrderID    string             `json:"order_id"`
	TrackingID string             `json:"tracking_id"`
	UserID     string             `json:"user_id"`
	Items      []models.OrderItem `json:"items"`
	Total      float64            `json:"total"`
	Currency   string             `json:"currency"`
	PaymentRef string             `json:"payment_ref"`
	PlacedAt   time.Time          `json:"placed_at"`
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

// OrderPlaced publishes keyed by order id so every event for one order lands
// on the same partition.
func (p *KafkaPublisher) OrderPlaced(ctx context.Context, order *models.Order) error {
	payload, err := json.Marshal(OrderPlacedEvent{
		OrderID:    order.ID,
		TrackingID: order.TrackingID,
		UserID:     order.UserID,
		Items:      order.Items,
		Total:      order.Total,
		Currency:   order.Currency,
		PaymentRef: order.PaymentRef,
		PlacedAt:   order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
