// Package events publishes domain events about placed orders.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// TypeOrderPlaced identifies order placed events.
const TypeOrderPlaced = "order.placed"

// OrderPlaced describes a committed checkout.
type OrderPlaced struct {
	EventID             string          `json:"eventId"`
	Type                string          `json:"type"`
	OrderID             int64           `json:"orderId"`
	UserID              int64           `json:"userId"`
	OrderNumber         int             `json:"orderNumber"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	DiscountAmount      decimal.Decimal `json:"discountAmount"`
	FinalAmount         decimal.Decimal `json:"finalAmount"`
	DiscountCode        *string         `json:"discountCode,omitempty"`
	DiscountCodeCreated *string         `json:"discountCodeCreated,omitempty"`
	OccurredAt          time.Time       `json:"occurredAt"`
}

// Publisher delivers order events to downstream consumers.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by order id.
type KafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(writer messageWriter, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		logger: logger.With().Str("component", "kafka_publisher").Logger(),
	}
}

// PublishOrderPlaced streams the order placed event to Kafka.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.Type = TypeOrderPlaced
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(TypeOrderPlaced)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Debug().
		Str("event_id", event.EventID).
		Int64("order_id", event.OrderID).
		Msg("order event published")

	return nil
}

// Close flushes pending writes and releases the connection.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events. It is used when Kafka is disabled.
type NopPublisher struct{}

// PublishOrderPlaced does nothing.
func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }
