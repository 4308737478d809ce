package mail

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender writes messages to the log instead of delivering them. It is
// used when no mail provider is configured.
type LogSender struct {
	log logrus.FieldLogger
}

// NewLogSender creates a LogSender.
func NewLogSender(log logrus.FieldLogger) *LogSender {
	return &LogSender{log: log}
}

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Body)
	return nil
}
