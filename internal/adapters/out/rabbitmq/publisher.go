package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/retry"

	"github.com/rabbitmq/amqp091-go"
)

const (
	WorkOrdersTopicExchange = "workorders_topic"

	statusChangedKeyPrefix = "workorder.status_changed."
	overdueKey             = "workorder.overdue"
	retryKeyPrefix         = "workorder.retry."
)

// Publisher implements ports.StatusChangePublisher, ports.OverdueAlertPublisher
// and retry.Notifier on one channel.
type Publisher struct {
	channel  Channel
	exchange string
	logger   *slog.Logger
	now      func() time.Time
}

// NewPublisher declares the durable topic exchange and returns a publisher on it.
func NewPublisher(channel Channel, logger *slog.Logger) (*Publisher, error) {
	err := channel.ExchangeDeclare(
		WorkOrdersTopicExchange, // name
		"topic",                 // type
		true,                    // durable
		false,                   // auto-deleted
		false,                   // internal
		false,                   // no-wait
		nil,                     // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare %s exchange: %w", WorkOrdersTopicExchange, err)
	}

	return &Publisher{
		channel:  channel,
		exchange: WorkOrdersTopicExchange,
		logger:   logger.With("component", "rabbitmq_publisher"),
		now:      time.Now,
	}, nil
}

// PublishStatusChanged routes event under "workorder.status_changed.<to>", e.g.
// "workorder.status_changed.waiting_parts".
func (p *Publisher) PublishStatusChanged(ctx context.Context, event ports.StatusChanged) error {
	return p.publish(ctx, statusChangedKeyPrefix+event.To.String(), event)
}

type overdueMessage struct {
	ScannedAt time.Time            `json:"scanned_at"`
	Count     int                  `json:"count"`
	Alerts    []ports.OverdueAlert `json:"alerts"`
}

// PublishOverdueAlerts sends all alerts of one scan as a single message. An
// empty scan sends nothing.
func (p *Publisher) PublishOverdueAlerts(ctx context.Context, alerts []ports.OverdueAlert, scannedAt time.Time) error {
	if len(alerts) == 0 {
		return nil
	}
	return p.publish(ctx, overdueKey, overdueMessage{
		ScannedAt: scannedAt.UTC(),
		Count:     len(alerts),
		Alerts:    alerts,
	})
}

type retryMessage struct {
	Operation  string `json:"operation"`
	Outcome    string `json:"outcome"`
	Attempt    int    `json:"attempt"`
	MaxRetries int    `json:"max_retries"`
	DelayMs    int64  `json:"delay_ms"`
	Error      string `json:"error,omitempty"`
}

// Notify forwards a retry signal. Calls that failed on their first attempt were
// never retried and are skipped. Publish errors are logged and dropped.
func (p *Publisher) Notify(ctx context.Context, event retry.Event) {
	if event.Outcome == retry.OutcomeFailed && event.Attempt <= 1 {
		return
	}

	msg := retryMessage{
		Operation:  event.Operation,
		Outcome:    event.Outcome.String(),
		Attempt:    event.Attempt,
		MaxRetries: event.MaxRetries,
		DelayMs:    event.Delay.Milliseconds(),
	}
	if event.Err != nil {
		msg.Error = event.Err.Error()
	}

	if err := p.publish(ctx, retryKeyPrefix+msg.Outcome, msg); err != nil {
		p.logger.WarnContext(ctx, "Failed to publish retry signal",
			"operation", event.Operation, "error", err)
	}
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", routingKey, err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    p.now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s message: %w", routingKey, err)
	}

	p.logger.DebugContext(ctx, "Message published", "routing_key", routingKey)
	return nil
}

var (
	_ ports.StatusChangePublisher = (*Publisher)(nil)
	_ ports.OverdueAlertPublisher = (*Publisher)(nil)
	_ retry.Notifier              = (*Publisher)(nil)
)
