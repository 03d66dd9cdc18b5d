package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
)

func TestCompleteOnboarding(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.signIn(t, "asha@x.com")

	u, err := e.users.CompleteOnboarding(ctx, s.User.ID, entity.Onboarding{
		FullName:    "  Asha Rao ",
		Company:     "Rao Bakes",
		PrimaryGoal: entity.GoalAIAgent,
		BuildGoal:   "An ordering assistant for WhatsApp",
	}, RequestMeta{IP: "203.0.113.5"})
	require.NoError(t, err)
	require.True(t, u.IsOnboarded)
	require.Equal(t, "Asha Rao", u.FullName)

	got, err := e.users.GetProfile(ctx, s.User.ID)
	require.NoError(t, err)
	require.Equal(t, entity.GoalAIAgent, got.PrimaryGoal)
	require.Equal(t, "asha@x.com", got.Email)

	var lead *sentMail
	for _, m := range e.notifier.Sent() {
		if m.To == "ops@aeonark.test" {
			m := m
			lead = &m
		}
	}
	require.NotNil(t, lead)
	require.Equal(t, "New lead: Asha Rao (Rao Bakes)", lead.Subject)
	require.Contains(t, lead.Text, "An ordering assistant for WhatsApp")
}

func TestCompleteOnboardingValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.signIn(t, "asha@x.com")

	cases := []entity.Onboarding{
		{FullName: "A", PrimaryGoal: entity.GoalWebsite, BuildGoal: "long enough goal"},
		{FullName: "Asha", PrimaryGoal: "Crypto", BuildGoal: "long enough goal"},
		{FullName: "Asha", PrimaryGoal: entity.GoalOther, BuildGoal: "short"},
	}
	for _, in := range cases {
		_, err := e.users.CompleteOnboarding(ctx, s.User.ID, in, RequestMeta{})
		require.ErrorIs(t, err, apperror.ErrValidation)
	}
	u, err := e.users.GetProfile(ctx, s.User.ID)
	require.NoError(t, err)
	require.False(t, u.IsOnboarded)
}

func TestGetProfileUnknownUser(t *testing.T) {
	e := newEnv(t)
	_, err := e.users.GetProfile(context.Background(), "missing")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestOnboardingSurvivesForwardingFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.signIn(t, "asha@x.com")
	e.notifier.err = errBoom

	u, err := e.users.CompleteOnboarding(ctx, s.User.ID, entity.Onboarding{
		FullName: "Asha", PrimaryGoal: entity.GoalWebsite, BuildGoal: "A site for my studio",
	}, RequestMeta{})
	require.NoError(t, err)
	require.True(t, u.IsOnboarded)
}
