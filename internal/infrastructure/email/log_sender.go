package email

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender records messages instead of delivering them. Default outside
// production so the reset flow works without an SMTP relay.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, to, subject, message string) error {
	s.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("message", message).
		Msg("email (log driver)")
	return nil
}
