package email

import (
	"context"

	"go.uber.org/zap"
)

// LogSender logs messages instead of sending them. Used when email is
// disabled.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("Email delivery disabled, message logged",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}

var _ Sender = (*LogSender)(nil)
