package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/septivank/fleet-admin-api/internal/metrics"
	"go.uber.org/zap"
)

// Resources and event types carried in AdminEvent
const (
	ResourceThreshold = "threshold"
	ResourceDevice    = "device"

	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// AdminEvent is the audit record published after every successful write
type AdminEvent struct {
	EventType  string `json:"event_type"`
	Resource   string `json:"resource"`
	ResourceID string `json:"resource_id"`
	Actor      string `json:"actor"`
	OccurredAt string `json:"occurred_at"`
}

// RoutingKey returns admin.<resource>.<event_type>
func (e AdminEvent) RoutingKey() string {
	return fmt.Sprintf("admin.%s.%s", e.Resource, e.EventType)
}

// Publisher handles admin event publishing to RabbitMQ
type Publisher struct {
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewPublisher opens a channel on conn and declares the topic exchange
func NewPublisher(conn *Connection, exchange string, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	// Declare exchange
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// PublishAdminEvent publishes event with its resource routing key.
// amqp channels are not safe for concurrent publishes, so calls are serialized.
func (p *Publisher) PublishAdminEvent(ctx context.Context, event AdminEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	routingKey := event.RoutingKey()

	p.mu.Lock()
	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	p.mu.Unlock()

	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(routingKey, "failed").Inc()
		return fmt.Errorf("failed to publish event: %w", err)
	}
	metrics.EventsPublishedTotal.WithLabelValues(routingKey, "ok").Inc()

	p.logger.Debug("published admin event",
		zap.String("routing_key", routingKey),
		zap.String("resource_id", event.ResourceID),
		zap.String("actor", event.Actor),
	)

	return nil
}

// Close closes the publisher channel
func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}

// NopPublisher drops events. Used when RABBITMQ_URL is empty.
type NopPublisher struct {
	logger *zap.Logger
}

// NewNopPublisher creates a publisher that only logs at debug level
func NewNopPublisher(logger *zap.Logger) *NopPublisher {
	return &NopPublisher{logger: logger}
}

func (p *NopPublisher) PublishAdminEvent(_ context.Context, event AdminEvent) error {
	p.logger.Debug("admin event not published, broker disabled",
		zap.String("routing_key", event.RoutingKey()),
		zap.String("resource_id", event.ResourceID),
	)
	return nil
}
