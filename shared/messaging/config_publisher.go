package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cyoa-server/shared/interfaces"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	ConfigEventsExchange     = "story_config_updates"
	configEventsExchangeType = "fanout"
)

var (
	_ interfaces.ConfigEventPublisher = (*RabbitMQConfigEventPublisher)(nil)
	_ interfaces.ConfigEventPublisher = NoopPublisher{}
)

// RabbitMQConfigEventPublisher fans admin edits out to every running instance.
type RabbitMQConfigEventPublisher struct {
	mu     sync.Mutex // amqp channels are not safe for concurrent publishes
	ch     *amqp091.Channel
	logger *zap.Logger
}

func NewRabbitMQConfigEventPublisher(conn *amqp091.Connection, logger *zap.Logger) (*RabbitMQConfigEventPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("rabbitmq connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := declareConfigExchange(ch); err != nil {
		_ = ch.Close()
		return nil, err
	}

	logger.Info("Config events exchange declared", zap.String("exchange", ConfigEventsExchange))
	return &RabbitMQConfigEventPublisher{
		ch:     ch,
		logger: logger.Named("ConfigEventPublisher"),
	}, nil
}

func declareConfigExchange(ch *amqp091.Channel) error {
	err := ch.ExchangeDeclare(
		ConfigEventsExchange,
		configEventsExchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange '%s': %w", ConfigEventsExchange, err)
	}
	return nil
}

func (p *RabbitMQConfigEventPublisher) PublishConfigEvent(ctx context.Context, event interfaces.ConfigEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal config event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		ConfigEventsExchange,
		"", // routing key is ignored by fanout
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish config event", zap.Error(err), zap.Any("event", event))
		return fmt.Errorf("failed to publish config event: %w", err)
	}

	p.logger.Debug("Config event published", zap.Any("event", event))
	return nil
}

func (p *RabbitMQConfigEventPublisher) Close() error {
	if p.ch != nil {
		return p.ch.Close()
	}
	return nil
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishConfigEvent(context.Context, interfaces.ConfigEvent) error { return nil }
