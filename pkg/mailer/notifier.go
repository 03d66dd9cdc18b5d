package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Notifier delivers one email. It does not retry; callers decide what a
// failure means for them.
type Notifier interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// LogNotifier writes messages to the log instead of sending them.
// Used when MAIL_SEND_ENABLED=false.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) Send(_ context.Context, to, subject, text, _ string) error {
	n.Logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("email not sent (MAIL_SEND_ENABLED=false)\n" + text)
	return nil
}
