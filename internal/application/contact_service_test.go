package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aeonark/aeonark-labs/pkg/apperror"
)

func TestContactRelay(t *testing.T) {
	e := newEnv(t)
	svc := NewContactService(e.cfg, e.notifier, e.logger)

	err := svc.Send(context.Background(), ContactMessage{
		Name: "Eve", Email: "eve@x.com", Subject: "Quote", Message: "Hi,\nhow much for a site?",
	}, RequestMeta{})
	require.NoError(t, err)

	sent := e.notifier.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "ops@aeonark.test", sent[0].To)
	require.Equal(t, "Contact Form: Quote", sent[0].Subject)
	require.Contains(t, sent[0].HTML, "Hi,<br>how much for a site?")
}

func TestContactValidation(t *testing.T) {
	e := newEnv(t)
	svc := NewContactService(e.cfg, e.notifier, e.logger)

	err := svc.Send(context.Background(), ContactMessage{Name: "Eve", Email: "eve@x.com"}, RequestMeta{})
	require.ErrorIs(t, err, apperror.ErrValidation)

	err = svc.Send(context.Background(), ContactMessage{Name: "Eve", Email: "eve", Subject: "s", Message: "m"}, RequestMeta{})
	require.ErrorIs(t, err, apperror.ErrValidation)
	require.Empty(t, e.notifier.Sent())
}

func TestContactDeliveryFailure(t *testing.T) {
	e := newEnv(t)
	e.notifier.err = errBoom
	svc := NewContactService(e.cfg, e.notifier, e.logger)

	err := svc.Send(context.Background(), ContactMessage{Name: "Eve", Email: "eve@x.com", Subject: "s", Message: "m"}, RequestMeta{})
	require.ErrorIs(t, err, apperror.ErrDelivery)
}
