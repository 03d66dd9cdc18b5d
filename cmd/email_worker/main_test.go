package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/aeonark/aeonark-labs/pkg/helpers"
	mailtpl "github.com/aeonark/aeonark-labs/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type stubNotifier struct {
	err  error
	sent []sent
}

func (n *stubNotifier) Send(_ context.Context, to, subject, text, html string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sent{to, subject, text, html})
	return nil
}

func newWorker(n *stubNotifier) *worker {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &worker{Notifier: n, Logger: logger, Timeout: time.Second}
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestHandleRendersTemplateJob(t *testing.T) {
	n := &stubNotifier{}
	w := newWorker(n)
	job := helpers.NewTemplateJob("ops@aeonark.test", mailtpl.ContactMessage, map[string]any{
		"Name": "Sam", "Email": "sam@example.com", "Subject": "Pricing", "Message": "Hi there",
	})

	require.Equal(t, outcomeAck, w.handle(context.Background(), encode(t, job)))
	require.Len(t, n.sent, 1)
	require.Equal(t, "ops@aeonark.test", n.sent[0].to)
	require.Equal(t, "Contact Form: Pricing", n.sent[0].subject)
	require.Contains(t, n.sent[0].text, "Hi there")
}

func TestHandlePassesPrerenderedBody(t *testing.T) {
	n := &stubNotifier{}
	w := newWorker(n)
	body := encode(t, map[string]any{"to": "ops@aeonark.test", "subject": "s", "text": "plain"})

	require.Equal(t, outcomeAck, w.handle(context.Background(), body))
	require.Equal(t, sent{"ops@aeonark.test", "s", "plain", ""}, n.sent[0])
}

func TestHandleDropsBadJobs(t *testing.T) {
	w := newWorker(&stubNotifier{})
	ctx := context.Background()

	require.Equal(t, outcomeDrop, w.handle(ctx, []byte("{not json")))
	require.Equal(t, outcomeDrop, w.handle(ctx, encode(t, map[string]any{"subject": "no recipient", "text": "x"})))
	require.Equal(t, outcomeDrop, w.handle(ctx, encode(t, helpers.NewTemplateJob("ops@aeonark.test", "login_otp", nil))))
}

func TestHandleRetriesSendFailures(t *testing.T) {
	w := newWorker(&stubNotifier{err: errors.New("mailgun down")})
	job := helpers.NewTemplateJob("ops@aeonark.test", mailtpl.ContactMessage, map[string]any{"Subject": "x", "Message": "y"})
	require.Equal(t, outcomeRetry, w.handle(context.Background(), encode(t, job)))
}
