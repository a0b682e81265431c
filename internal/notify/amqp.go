package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// dialFunc opens a channel and returns a func that closes it together with
// its connection.
type dialFunc func(url string) (amqpChannel, func(), error)

// AMQPSender publishes notifications to a durable RabbitMQ queue. A
// connection is opened per message; deletes are rare.
type AMQPSender struct {
	url, queue string
	from, to   string
	dial       dialFunc
	now        func() time.Time
}

func NewAMQPSender(url, queue, from, to string) *AMQPSender {
	return &AMQPSender{url: url, queue: queue, from: from, to: to, dial: dialAMQP, now: time.Now}
}

func dialAMQP(url string) (amqpChannel, func(), error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, func() {
		_ = ch.Close()
		_ = conn.Close()
	}, nil
}

func (s *AMQPSender) Send(ctx context.Context, subject, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, closeFn, err := s.dial(s.url)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := ch.QueueDeclare(s.queue, true, false, false, false, nil); err != nil {
		return err
	}

	now := s.now().UTC()
	body, err := json.Marshal(Notification{From: s.from, To: s.to, Subject: subject, Message: message, SentAt: now})
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Body:         body,
	})
}

func (s *AMQPSender) Close() error { return nil }
