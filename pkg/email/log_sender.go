package email

import (
	"context"
	"log/slog"
)

// LogSender implements Sender for local development: messages are written to
// the log instead of being delivered.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) Sender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "email (dev sender, not delivered)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("tag", msg.Tag),
	)
	return nil
}
