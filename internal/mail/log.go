package mail

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the log instead of delivering them. It is
// the sender used when no SMTP host is configured, so local development can
// follow confirmation links straight from the server output.
type LogSender struct {
	log *slog.Logger
}

// NewLogSender returns a LogSender writing to log.
func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs the message at info level. It never fails.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.log.InfoContext(ctx, "mail preview",
		"from", msg.From.String(),
		"to", msg.To,
		"subject", msg.Subject,
		"html", msg.HTML,
	)
	return nil
}
