package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"majicmall/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// amqpPublisher publishes events to a durable topic exchange, routed by event type.
type amqpPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

// NewAMQPPublisher dials the broker and declares the exchange.
func NewAMQPPublisher(amqpURL, exchange string, logger *slog.Logger) (service.EventPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to AMQP broker")
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()

		return nil, errors.Wrap(err, "failed to open AMQP channel")
	}

	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()

		return nil, errors.Wrapf(err, "failed to declare exchange %s", exchange)
	}

	return &amqpPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish sends the event with its type as routing key. amqp.Channel is not
// safe for concurrent publishes, hence the mutex.
func (p *amqpPublisher) Publish(ctx context.Context, event *service.DomainEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	headers := amqp.Table{}
	for k, v := range attributes(event) {
		headers[k] = v
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	err = p.channel.Publish(p.exchange, event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Headers:      headers,
		Body:         body,
	})
	if err != nil {
		return errors.Wrap(err, "failed to publish AMQP message")
	}

	p.logger.InfoContext(ctx, "[AMQP] Event published",
		slog.String("exchange", p.exchange),
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
	)

	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.channel != nil {
		err = p.channel.Close()
	}
	if p.conn != nil {
		if closeErr := p.conn.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	return errors.WithStack(err)
}
