// Package publisher emits order lifecycle events to Kafka for downstream
// consumers (fulfillment dashboards, email notifications). Publishing is
// best-effort and sits behind a circuit breaker so a dead broker cannot
// slow the checkout path down.
package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/aetherstore/storefront/internal/domain"
)

const Topic = "order-events"

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// MessageWriter is the slice of kafka.Writer the publisher needs; tests
// inject a mock.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type OrderEvents struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
	timeout time.Duration
	logger  *zap.Logger
}

func NewOrderEvents(logger *zap.Logger, brokers ...string) *OrderEvents {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return newOrderEvents(w, logger)
}

func newOrderEvents(writer MessageWriter, logger *zap.Logger) *OrderEvents {
	if logger == nil {
		logger = zap.NewNop()
	}
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "order-events-kafka",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &OrderEvents{
		writer:  writer,
		breaker: breaker,
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

type orderCreatedPayload struct {
	OrderID       string             `json:"orderId"`
	UserID        string             `json:"userId,omitempty"`
	CustomerEmail string             `json:"customerEmail"`
	Items         []domain.OrderItem `json:"items"`
	Total         float64            `json:"total"`
	PointsUsed    int                `json:"pointsUsed"`
	PointsEarned  int                `json:"pointsEarned"`
	CreatedAt     time.Time          `json:"createdAt"`
}

type statusChangedPayload struct {
	OrderID   string    `json:"orderId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changedAt"`
}

func (p *OrderEvents) OrderCreated(ctx context.Context, order *domain.Order) {
	p.publish(ctx, EventOrderCreated, order.ID, orderCreatedPayload{
		OrderID:       order.ID,
		UserID:        order.UserID,
		CustomerEmail: order.CustomerEmail,
		Items:         order.Items,
		Total:         order.Total,
		PointsUsed:    order.PointsUsed,
		PointsEarned:  order.PointsEarned,
		CreatedAt:     order.CreatedAt,
	})
}

func (p *OrderEvents) OrderStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) {
	p.publish(ctx, EventOrderStatusChanged, order.ID, statusChangedPayload{
		OrderID:   order.ID,
		From:      previous.String(),
		To:        order.Status.String(),
		ChangedAt: order.UpdatedAt,
	})
}

// publish keys messages by order id so per-order event ordering survives
// partitioning.
func (p *OrderEvents) publish(ctx context.Context, eventType, key string, payload any) {
	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal event payload",
			zap.String("event_type", eventType), zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		p.logger.Warn("failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", key),
			zap.Error(err))
	}
}

func (p *OrderEvents) Close() error {
	if closer, ok := p.writer.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
