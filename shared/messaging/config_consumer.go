package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cyoa-server/shared/interfaces"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ConfigEventHandler reacts to admin edits made on any instance.
type ConfigEventHandler interface {
	HandleConfigEvent(ctx context.Context, event interfaces.ConfigEvent)
}

// ConfigEventConsumer binds an exclusive, server-named queue to the config exchange,
// so every instance receives every event.
type ConfigEventConsumer struct {
	ch          *amqp091.Channel
	handler     ConfigEventHandler
	logger      *zap.Logger
	queueName   string
	consumerTag string
}

func NewConfigEventConsumer(conn *amqp091.Connection, handler ConfigEventHandler, logger *zap.Logger) (*ConfigEventConsumer, error) {
	if conn == nil {
		return nil, fmt.Errorf("rabbitmq connection is nil")
	}
	if handler == nil {
		return nil, fmt.Errorf("config event handler is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := declareConfigExchange(ch); err != nil {
		_ = ch.Close()
		return nil, err
	}

	q, err := ch.QueueDeclare(
		"",    // server-generated name
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", ConfigEventsExchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to bind queue '%s': %w", q.Name, err)
	}

	consumerTag := fmt.Sprintf("config_event_consumer_%d", time.Now().UnixNano())
	c := &ConfigEventConsumer{
		ch:          ch,
		handler:     handler,
		logger:      logger.Named("ConfigEventConsumer").With(zap.String("consumerTag", consumerTag)),
		queueName:   q.Name,
		consumerTag: consumerTag,
	}
	c.logger.Info("Config event consumer ready", zap.String("queue", q.Name))
	return c, nil
}

// Run consumes until ctx is cancelled or the channel closes.
func (c *ConfigEventConsumer) Run(ctx context.Context) error {
	deliveries, err := c.ch.Consume(c.queueName, c.consumerTag, false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = c.ch.Cancel(c.consumerTag, false)
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			c.handleDelivery(ctx, d)
		}
	}
}

func (c *ConfigEventConsumer) handleDelivery(ctx context.Context, d amqp091.Delivery) {
	var event interfaces.ConfigEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.logger.Error("Dropping undecodable config event", zap.Error(err))
		if nackErr := d.Nack(false, false); nackErr != nil {
			c.logger.Error("Failed to nack message", zap.Error(nackErr))
		}
		return
	}

	c.handler.HandleConfigEvent(ctx, event)

	if err := d.Ack(false); err != nil {
		c.logger.Error("Failed to acknowledge message", zap.Error(err))
	}
}

func (c *ConfigEventConsumer) Close() error {
	return c.ch.Close()
}
