// Package events publishes storefront order events.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// EventType represents the type of order event.
type EventType string

const (
	EventTypeOrderPlaced      EventType = "order.placed"
	EventTypePaymentInitiated EventType = "payment.initiated"
)

// Publisher emits order lifecycle events.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order) error
	PublishPaymentInitiated(ctx context.Context, payment *models.ProcessPaymentResponse) error
	Close() error
}

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NoopPublisher{}
	_ Publisher = (*MockPublisher)(nil)
)

// OrderEvent is the envelope written to the orders topic.
type OrderEvent struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	OrderID       int64           `json:"order_id"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

type correlationKey struct{}

// WithCorrelationID tags ctx so published events carry the request id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// KafkaPublisher publishes order events to Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *logging.LoggerV2
}

// NewKafkaPublisher creates a publisher for the configured orders topic.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *logging.LoggerV2) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: logger,
	}
}

// PublishOrderPlaced publishes an order placed event.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	p.logger.Debug("Publishing order placed event", logging.Fields{
		"order_id": order.ID,
	})

	event, err := NewEvent(ctx, EventTypeOrderPlaced, order.ID, order)
	if err != nil {
		return err
	}
	return p.publish(ctx, event)
}

// PublishPaymentInitiated publishes a payment initiated event.
func (p *KafkaPublisher) PublishPaymentInitiated(ctx context.Context, payment *models.ProcessPaymentResponse) error {
	p.logger.Debug("Publishing payment initiated event", logging.Fields{
		"order_id":       payment.OrderID,
		"payment_method": payment.PaymentMethod,
	})

	event, err := NewEvent(ctx, EventTypePaymentInitiated, payment.OrderID, payment)
	if err != nil {
		return err
	}
	return p.publish(ctx, event)
}

// NewEvent builds an event envelope around payload.
func NewEvent(ctx context.Context, eventType EventType, orderID int64, payload interface{}) (*OrderEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	event := &OrderEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		OrderID:   orderID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		event.CorrelationID = id
	}
	return event, nil
}

func (p *KafkaPublisher) publish(ctx context.Context, event *OrderEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event", logging.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
			"order_id":   event.OrderID,
			"error":      err.Error(),
		})
		return err
	}

	p.logger.Info("Event published", logging.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"order_id":   event.OrderID,
	})

	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher")
	return p.writer.Close()
}

// NoopPublisher drops every event. It is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, *models.Order) error { return nil }

func (NoopPublisher) PublishPaymentInitiated(context.Context, *models.ProcessPaymentResponse) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }

// MockPublisher records events for tests. Err, when set, is returned from
// every publish call.
type MockPublisher struct {
	mu     sync.Mutex
	Events []*OrderEvent
	Err    error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Events: make([]*OrderEvent, 0)}
}

func (m *MockPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	return m.record(ctx, EventTypeOrderPlaced, order.ID, order)
}

func (m *MockPublisher) PublishPaymentInitiated(ctx context.Context, payment *models.ProcessPaymentResponse) error {
	return m.record(ctx, EventTypePaymentInitiated, payment.OrderID, payment)
}

func (m *MockPublisher) record(ctx context.Context, eventType EventType, orderID int64, payload interface{}) error {
	if m.Err != nil {
		return m.Err
	}
	event, err := NewEvent(ctx, eventType, orderID, payload)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

// Types returns the recorded event types in publish order.
func (m *MockPublisher) Types() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EventType, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.Type
	}
	return out
}

func (m *MockPublisher) Close() error { return nil }
