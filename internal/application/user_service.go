package application

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	repo "github.com/aeonark/aeonark-labs/internal/domain/repository"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
)

type UserService struct {
	Repo   repo.UserRepository
	Leads  *LeadForwarder
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewUserService(users repo.UserRepository, leads *LeadForwarder, logger *logrus.Logger) *UserService {
	return &UserService{Repo: users, Leads: leads, Logger: logger, Now: time.Now}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.NotFound("user not found")
	}
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return u, nil
}

// CompleteOnboarding stores the questionnaire, marks the user onboarded and
// forwards the lead.
func (s *UserService) CompleteOnboarding(ctx context.Context, userID string, in entity.Onboarding, meta RequestMeta) (*entity.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Company = strings.TrimSpace(in.Company)
	in.BuildGoal = strings.TrimSpace(in.BuildGoal)
	if err := validateOnboarding(in); err != nil {
		return nil, err
	}

	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Apply(in, s.Now())
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Storage(err)
	}
	s.Logger.WithField("user_id", u.ID).Info("onboarding completed")

	s.Leads.Onboarded(ctx, u, meta)
	return u, nil
}

func validateOnboarding(in entity.Onboarding) error {
	if utf8.RuneCountInString(in.FullName) < 2 {
		return apperror.Validation("full name must be at least 2 characters")
	}
	if !in.PrimaryGoal.Valid() {
		return apperror.Validation("primary goal must be one of: Website, AI Agent, Analytics Platform, Other")
	}
	if utf8.RuneCountInString(in.BuildGoal) < 10 {
		return apperror.Validation("build goal must be at least 10 characters")
	}
	return nil
}

// SearchLeads proxies the operator lead search.
func (s *UserService) SearchLeads(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Leads == nil {
		return []map[string]any{}, nil
	}
	out, err := s.Leads.SearchLeads(ctx, strings.TrimSpace(q), size)
	if err != nil {
		s.Logger.WithError(err).Warn("lead search failed")
		return nil, apperror.Storage(err)
	}
	return out, nil
}
