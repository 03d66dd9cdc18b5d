package application

import (
	"context"
	"errors"
	"expvar"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/config"
	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	repo "github.com/aeonark/aeonark-labs/internal/domain/repository"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
	"github.com/aeonark/aeonark-labs/pkg/helpers"
	"github.com/aeonark/aeonark-labs/pkg/mailer"
	mailtpl "github.com/aeonark/aeonark-labs/pkg/mailer/templates"
)

// otpStats is published under /api/debug/vars when debug metrics are on.
var otpStats = expvar.NewMap("otp")

// OTPService issues and verifies one-time email codes.
type OTPService struct {
	Store         repo.Store
	Notifier      mailer.Notifier
	Cfg           *config.Config
	Logger        *logrus.Logger
	Now           func() time.Time
	GenCode       func() (string, error)
	TTL           time.Duration
	MaxAttempts   int
	HashCost      int
	NotifyTimeout time.Duration
}

func NewOTPService(store repo.Store, notifier mailer.Notifier, cfg *config.Config, logger *logrus.Logger) *OTPService {
	return &OTPService{
		Store:         store,
		Notifier:      notifier,
		Cfg:           cfg,
		Logger:        logger,
		Now:           time.Now,
		GenCode:       helpers.GenOTPCode,
		TTL:           cfg.OTPTTL,
		MaxAttempts:   cfg.OTPMaxAttempts,
		HashCost:      cfg.OTPHashCost,
		NotifyTimeout: cfg.NotifierTimeout,
	}
}

type CheckEmailResult struct {
	Exists      bool `json:"exists"`
	IsOnboarded bool `json:"isOnboarded"`
}

// CheckEmail reports whether email belongs to a known user. It never creates anything.
func (s *OTPService) CheckEmail(ctx context.Context, rawEmail string) (CheckEmailResult, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return CheckEmailResult{}, err
	}
	u, err := s.lookup(ctx, email)
	if err != nil {
		return CheckEmailResult{}, err
	}
	if u == nil {
		return CheckEmailResult{}, nil
	}
	return CheckEmailResult{Exists: true, IsOnboarded: u.IsOnboarded}, nil
}

type RequestCodeResult struct {
	Mode        entity.OTPMode
	IsOnboarded bool
}

// RequestCode supersedes any code for email with a fresh one and mails it.
// The new code stays stored when delivery fails; asking again supersedes it.
func (s *OTPService) RequestCode(ctx context.Context, rawEmail string, mode entity.OTPMode, meta RequestMeta) (RequestCodeResult, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return RequestCodeResult{}, err
	}
	u, err := s.lookup(ctx, email)
	if err != nil {
		return RequestCodeResult{}, err
	}
	res := RequestCodeResult{Mode: mode}
	switch mode {
	case entity.ModeSignup:
		if u != nil {
			return RequestCodeResult{}, apperror.Conflict("email already registered, use login instead")
		}
	case entity.ModeLogin:
		if u == nil {
			return RequestCodeResult{}, apperror.NotFound("no account found for this email, use signup instead")
		}
		res.IsOnboarded = u.IsOnboarded
	default:
		return RequestCodeResult{}, apperror.Validation("mode must be signup or login")
	}

	now := s.Now()
	if n, err := s.Store.OTPs().DeleteExpired(ctx, now); err != nil {
		s.Logger.WithError(err).Warn("otp sweep failed")
	} else if n > 0 {
		s.Logger.WithField("deleted", n).Debug("otp sweep")
	}

	code, err := s.GenCode()
	if err != nil {
		return RequestCodeResult{}, apperror.Wrap(apperror.KindConfiguration, "failed to generate code", err)
	}
	hash, err := helpers.HashCode(code, s.HashCost)
	if err != nil {
		return RequestCodeResult{}, apperror.Wrap(apperror.KindConfiguration, "failed to hash code", err)
	}
	otp := &entity.OTPCode{
		Email:     email,
		CodeHash:  hash,
		ExpiresAt: now.Add(s.TTL),
		CreatedAt: now,
	}
	if err := s.Store.OTPs().Supersede(ctx, otp); err != nil {
		return RequestCodeResult{}, apperror.Storage(err)
	}

	if err := s.deliver(ctx, email, code, otp.ExpiresAt, meta); err != nil {
		otpStats.Add("delivery_failed", 1)
		s.Logger.WithError(err).WithField("email", email).Error("otp delivery failed")
		return RequestCodeResult{}, apperror.Delivery(err)
	}
	otpStats.Add("issued", 1)
	s.Logger.WithFields(logrus.Fields{"email": email, "mode": mode}).Info("otp issued")
	return res, nil
}

func (s *OTPService) deliver(ctx context.Context, email, code string, expiresAt time.Time, meta RequestMeta) error {
	data := mailtpl.NewLoginOTPData(s.Cfg, email, code,
		mailtpl.WithExpiresAt(expiresAt),
		mailtpl.WithIP(meta.IP),
		mailtpl.WithUserAgent(meta.UserAgent),
	)
	subject, text, html, err := mailtpl.Render(mailtpl.LoginOTP, data)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, s.NotifyTimeout)
	defer cancel()
	return s.Notifier.Send(c, email, subject, text, html)
}

// VerifyCode checks code against the active code for email under the store's
// per-email lock. Success and lockout both delete the code; a wrong code is
// counted against the active code. Callers only ever see InvalidOrExpired or
// TooManyAttempts on failure.
func (s *OTPService) VerifyCode(ctx context.Context, rawEmail, code string) error {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return err
	}
	if !helpers.IsOTPCode(code) {
		return apperror.Validation("code must be 6 digits")
	}

	now := s.Now()
	var outcome error
	_, err = s.Store.OTPs().Resolve(ctx, email, func(c entity.OTPCode) entity.OTPAction {
		switch {
		case c.Expired(now):
			outcome = apperror.InvalidOrExpired()
			return entity.OTPDelete
		case c.Attempts >= s.MaxAttempts:
			outcome = apperror.TooManyAttempts()
			return entity.OTPDelete
		case helpers.CompareHashAndCode(c.CodeHash, code):
			outcome = nil
			return entity.OTPDelete
		case c.Attempts+1 >= s.MaxAttempts:
			outcome = apperror.TooManyAttempts()
			return entity.OTPDelete
		default:
			outcome = apperror.InvalidOrExpired()
			return entity.OTPIncrementAttempts
		}
	})
	if errors.Is(err, repo.ErrNotFound) {
		return apperror.InvalidOrExpired()
	}
	if err != nil {
		return apperror.Storage(err)
	}
	switch {
	case outcome == nil:
		otpStats.Add("verified", 1)
	case errors.Is(outcome, apperror.ErrTooManyAttempts):
		otpStats.Add("locked_out", 1)
		s.Logger.WithField("email", email).Warn("otp locked out")
	default:
		otpStats.Add("rejected", 1)
	}
	return outcome
}

func (s *OTPService) lookup(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Store.Users().GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return u, nil
}
