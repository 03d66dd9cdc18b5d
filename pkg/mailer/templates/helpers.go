package templates

import (
	"time"

	"github.com/aeonark/aeonark-labs/config"
)

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

// WithProfile attaches the onboarding answers of a lead.
func WithProfile(userID, company, goal, buildGoal string) Option {
	return func(d *EmailData) {
		d.UserID = userID
		d.Company = company
		d.PrimaryGoal = goal
		d.BuildGoal = buildGoal
	}
}

// WithCart attaches a plan selection and its total.
func WithCart(planName string, addOns []LineItem, total int) Option {
	return func(d *EmailData) {
		d.PlanName = planName
		d.AddOns = addOns
		d.Total = total
	}
}

func WithMessage(subject, message string) Option {
	return func(d *EmailData) {
		d.Subject = subject
		d.Message = message
	}
}

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:    cfg.LogoURL,
		SupportURL: cfg.SupportURL,
		PrivacyURL: cfg.PrivacyURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewLoginOTPData(cfg *config.Config, email, code string, opts ...Option) map[string]any {
	base := NewBaseEmailData(cfg, LoginOTP, "", email, email, opts...)
	base.Code = code
	return ToMap(base)
}

// NewLeadData builds data for mails addressed to the operator about a lead.
// typ is OnboardingLead, CartLead or ContactMessage.
func NewLeadData(cfg *config.Config, typ, name, email string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, typ, name, email, cfg.OperatorEmail, opts...)
	return ToMap(d)
}
