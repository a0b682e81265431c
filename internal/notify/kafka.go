package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSender publishes notifications as JSON events keyed by subject.
type KafkaSender struct {
	from, to string
	writer   messageWriter
	now      func() time.Time
}

func NewKafkaSender(brokers []string, topic, from, to string) *KafkaSender {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaSender{from: from, to: to, writer: w, now: time.Now}
}

func (s *KafkaSender) Send(ctx context.Context, subject, message string) error {
	body, err := json.Marshal(Notification{
		From:    s.from,
		To:      s.to,
		Subject: subject,
		Message: message,
		SentAt:  s.now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{Key: []byte(subject), Value: body})
}

func (s *KafkaSender) Close() error { return s.writer.Close() }
