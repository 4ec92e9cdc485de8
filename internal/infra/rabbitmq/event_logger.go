package rabbitmq

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// EventLogger subscribes to every topic on the event exchange and logs each
// delivery. It is purely observational: losing or dropping a delivery has no
// effect on orders, carts, or the catalog.
type EventLogger struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	exchange string
}

func NewEventLogger(amqpURL, exchange string) (*EventLogger, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %v", err)
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %v", err)
	}

	q, err := channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %v", err)
	}

	if err := channel.QueueBind(q.Name, "#", exchange, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %v", err)
	}

	return &EventLogger{
		conn:     conn,
		channel:  channel,
		queue:    q.Name,
		exchange: exchange,
	}, nil
}

// Run consumes until ctx is done or the channel closes.
func (l *EventLogger) Run(ctx context.Context) error {
	deliveries, err := l.channel.Consume(l.queue, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			logger.Info().
				Str("topic", d.RoutingKey).
				RawJSON("payload", d.Body).
				Msg("event received")
		}
	}
}

func (l *EventLogger) Close() {
	if l.channel != nil {
		l.channel.Close()
	}
	if l.conn != nil {
		l.conn.Close()
	}
}
