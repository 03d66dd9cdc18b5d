package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aeonark/aeonark-labs/pkg/apperror"
	"github.com/aeonark/aeonark-labs/pkg/helpers"
)

func TestIssueSessionCreatesUserOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := e.sessions.IssueSession(ctx, "new@x.com")
			if err == nil {
				ids[i] = s.User.ID
			}
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		require.NotEmpty(t, id)
		require.Equal(t, ids[0], id)
	}
}

func TestIssueSessionTokenAuthenticates(t *testing.T) {
	e := newEnv(t)
	s, err := e.sessions.IssueSession(context.Background(), "u@x.com")
	require.NoError(t, err)
	require.Equal(t, e.clock.Now().Add(7*24*time.Hour), s.ExpiresAt)

	p, err := e.sessions.Authenticate(s.Token)
	require.NoError(t, err)
	require.Equal(t, Principal{UserID: s.User.ID, Email: "u@x.com"}, p)
}

func TestAuthenticateRejects(t *testing.T) {
	e := newEnv(t)
	s, err := e.sessions.IssueSession(context.Background(), "u@x.com")
	require.NoError(t, err)

	_, err = e.sessions.Authenticate("")
	require.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = e.sessions.Authenticate("not.a.token")
	require.ErrorIs(t, err, apperror.ErrUnauthorized)

	e.clock.Advance(7*24*time.Hour + time.Second)
	_, err = e.sessions.Authenticate(s.Token)
	require.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestIssueSessionWithoutSecret(t *testing.T) {
	e := newEnv(t)
	svc := NewSessionService(e.store.Users(), nil, e.logger)
	_, err := svc.IssueSession(context.Background(), "u@x.com")
	require.ErrorIs(t, err, apperror.ErrConfiguration)

	svc = NewSessionService(e.store.Users(), &helpers.JWTManager{}, e.logger)
	_, err = svc.IssueSession(context.Background(), "u@x.com")
	require.ErrorIs(t, err, apperror.ErrConfiguration)
}
