package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// SessionEventPublisher publishes session lifecycle events for the external
// notification and analytics collaborators.
type SessionEventPublisher interface {
	PublishSessionEvent(ctx context.Context, payload SessionEventPayload) error
}

// rabbitMQPublisher implements SessionEventPublisher on a RabbitMQ channel.
type rabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQSessionEventPublisher opens a channel on the given connection
// and declares the durable event queue. Declaring here makes the service
// resilient to consumer start order.
func NewRabbitMQSessionEventPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (SessionEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("session event publisher: failed to open channel: %w", err)
	}
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("session event publisher: failed to declare queue '%s': %w", queueName, err)
	}
	return &rabbitMQPublisher{
		channel:   ch,
		queueName: queueName,
		logger:    logger.Named("SessionEventPublisher"),
	}, nil
}

func (p *rabbitMQPublisher) PublishSessionEvent(ctx context.Context, payload SessionEventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		"",          // exchange (default)
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish session event",
			zap.String("type", payload.Type),
			zap.String("sessionID", payload.SessionID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	p.logger.Debug("Session event published",
		zap.String("type", payload.Type),
		zap.String("sessionID", payload.SessionID.String()),
	)
	return nil
}

// nopPublisher discards events. Used when RabbitMQ is not configured.
type nopPublisher struct{}

// NewNopSessionEventPublisher returns a publisher that discards all events.
func NewNopSessionEventPublisher() SessionEventPublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishSessionEvent(context.Context, SessionEventPayload) error { return nil }
