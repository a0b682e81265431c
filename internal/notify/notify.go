// Package notify delivers operator notifications such as "a point of interest
// was deleted". A Sender is selected by configuration:
//
//   - log:   writes the mail to the structured logger (development default)
//   - smtp:  sends a plain-text mail through an SMTP relay (gomail)
//   - kafka: publishes a JSON event to a Kafka topic (kafka-go)
//   - amqp:  publishes a persistent JSON message to a RabbitMQ queue
//
// Every sender is wrapped by Instrument, which counts deliveries and
// failures per driver in Prometheus.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/tbourn/cityinfo-api/internal/config"
)

// Drivers accepted by New.
const (
	DriverLog   = "log"
	DriverSMTP  = "smtp"
	DriverKafka = "kafka"
	DriverAMQP  = "amqp"
)

// Sender delivers a notification. Close releases broker connections.
type Sender interface {
	Send(ctx context.Context, subject, message string) error
	Close() error
}

// Notification is the payload published to brokers.
type Notification struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sentAt"`
}

var sent = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Notifications handed to a sender, by driver and result.",
	},
	[]string{"driver", "result"},
)

func init() {
	prometheus.MustRegister(sent)
}

// New builds the Sender selected by cfg.Driver, instrumented.
func New(cfg config.MailConfig, log zerolog.Logger) (Sender, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverLog
	}
	var s Sender
	switch driver {
	case DriverLog:
		s = NewLogSender(log, cfg.From, cfg.To)
	case DriverSMTP:
		s = NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.From, cfg.To)
	case DriverKafka:
		if len(cfg.KafkaBrokers) == 0 || cfg.KafkaTopic == "" {
			return nil, errors.New("notify: kafka driver needs brokers and a topic")
		}
		s = NewKafkaSender(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.From, cfg.To)
	case DriverAMQP:
		if cfg.AMQPURL == "" || cfg.AMQPQueue == "" {
			return nil, errors.New("notify: amqp driver needs a url and a queue")
		}
		s = NewAMQPSender(cfg.AMQPURL, cfg.AMQPQueue, cfg.From, cfg.To)
	default:
		return nil, fmt.Errorf("notify: unknown driver %q", cfg.Driver)
	}
	return Instrument(driver, s), nil
}

type instrumented struct {
	driver string
	next   Sender
}

// Instrument wraps s so every Send is counted under the given driver label.
func Instrument(driver string, s Sender) Sender {
	return &instrumented{driver: driver, next: s}
}

func (i *instrumented) Send(ctx context.Context, subject, message string) error {
	if err := i.next.Send(ctx, subject, message); err != nil {
		sent.WithLabelValues(i.driver, "error").Inc()
		return err
	}
	sent.WithLabelValues(i.driver, "ok").Inc()
	return nil
}

func (i *instrumented) Close() error { return i.next.Close() }
