package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	repo "github.com/aeonark/aeonark-labs/internal/domain/repository"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
	"github.com/aeonark/aeonark-labs/pkg/helpers"
)

// Principal is the caller identified by a session token.
type Principal struct {
	UserID string
	Email  string
}

// PublicUser is the part of a User returned on sign in.
type PublicUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	IsOnboarded bool   `json:"isOnboarded"`
}

func NewPublicUser(u *entity.User) PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, FullName: u.FullName, IsOnboarded: u.IsOnboarded}
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      PublicUser
}

type SessionService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewSessionService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *SessionService {
	return &SessionService{Users: users, JWT: jwt, Logger: logger}
}

// IssueSession is called after a successful VerifyCode. It is the only path
// that creates users.
func (s *SessionService) IssueSession(ctx context.Context, email string) (*Session, error) {
	if s.JWT == nil {
		return nil, apperror.Configuration("session signing secret is not configured")
	}
	u, err := s.Users.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	token, exp, err := s.JWT.Generate(u.ID, u.Email)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("sign session token failed")
		if errors.Is(err, helpers.ErrMissingSecret) {
			return nil, apperror.Configuration("session signing secret is not configured")
		}
		return nil, apperror.Wrap(apperror.KindConfiguration, "failed to sign session token", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: NewPublicUser(u)}, nil
}

// Authenticate verifies a bearer token and returns its principal.
func (s *SessionService) Authenticate(token string) (Principal, error) {
	if token == "" {
		return Principal{}, apperror.Unauthorized("missing bearer token")
	}
	if s.JWT == nil {
		return Principal{}, apperror.Configuration("session signing secret is not configured")
	}
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return Principal{}, apperror.Unauthorized("invalid or expired token")
	}
	return Principal{UserID: claims.UserID, Email: claims.Email}, nil
}
