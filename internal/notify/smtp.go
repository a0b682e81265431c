package notify

import (
	"context"

	"github.com/go-gomail/gomail"
)

// SMTPSender mails notifications through an SMTP relay. gomail has no context
// support, so Send returns early on ctx expiry while the dial finishes in the
// background.
type SMTPSender struct {
	from, to string
	send     func(m ...*gomail.Message) error
}

func NewSMTPSender(host string, port int, user, pass, from, to string) *SMTPSender {
	d := gomail.NewDialer(host, port, user, pass)
	return &SMTPSender{from: from, to: to, send: d.DialAndSend}
}

func (s *SMTPSender) message(subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

func (s *SMTPSender) Send(ctx context.Context, subject, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := s.message(subject, message)
	done := make(chan error, 1)
	go func() { done <- s.send(m) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SMTPSender) Close() error { return nil }
