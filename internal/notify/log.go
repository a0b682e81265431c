package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes notifications to the logger instead of delivering them.
type LogSender struct {
	log      zerolog.Logger
	from, to string
}

func NewLogSender(log zerolog.Logger, from, to string) *LogSender {
	return &LogSender{log: log, from: from, to: to}
}

func (s *LogSender) Send(ctx context.Context, subject, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info().
		Str("mail_from", s.from).
		Str("mail_to", s.to).
		Str("subject", subject).
		Str("message", message).
		Msg("mail")
	return nil
}

func (s *LogSender) Close() error { return nil }
