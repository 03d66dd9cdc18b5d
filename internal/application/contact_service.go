package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/config"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
	"github.com/aeonark/aeonark-labs/pkg/mailer"
	mailtpl "github.com/aeonark/aeonark-labs/pkg/mailer/templates"
	"github.com/aeonark/aeonark-labs/pkg/validation"
)

type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactService relays the public contact form to the operator.
type ContactService struct {
	Cfg      *config.Config
	Notifier mailer.Notifier
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewContactService(cfg *config.Config, notifier mailer.Notifier, logger *logrus.Logger) *ContactService {
	return &ContactService{Cfg: cfg, Notifier: notifier, Logger: logger, Now: time.Now}
}

func (s *ContactService) Send(ctx context.Context, m ContactMessage, meta RequestMeta) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)
	if m.Name == "" || m.Email == "" || m.Subject == "" || m.Message == "" {
		return apperror.Validation("please fill in all required fields")
	}
	if !validation.Email(m.Email) {
		return apperror.Validation("a valid email address is required")
	}
	if s.Cfg.OperatorEmail == "" {
		return apperror.Configuration("operator email is not configured")
	}

	data := mailtpl.NewLeadData(s.Cfg, mailtpl.ContactMessage, m.Name, m.Email,
		mailtpl.WithMessage(m.Subject, m.Message),
		mailtpl.WithTime(s.Now()),
		mailtpl.WithIP(meta.IP),
	)
	subject, text, html, err := mailtpl.Render(mailtpl.ContactMessage, data)
	if err != nil {
		return apperror.Delivery(err)
	}
	c, cancel := context.WithTimeout(ctx, s.Cfg.NotifierTimeout)
	defer cancel()
	if err := s.Notifier.Send(c, s.Cfg.OperatorEmail, subject, text, html); err != nil {
		s.Logger.WithError(err).Error("contact relay failed")
		return apperror.Delivery(err)
	}
	s.Logger.WithField("from", m.Email).Info("contact message relayed")
	return nil
}
