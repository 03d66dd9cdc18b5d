package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aeonark/aeonark-labs/pkg/apperror"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_NAME", "OTP_TTL", "OTP_MAX_ATTEMPTS", "SESSION_TTL", "MAIL_SEND_ENABLED"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	require.Equal(t, "aeonark-labs", cfg.AppName)
	require.Equal(t, 10*time.Minute, cfg.OTPTTL)
	require.Equal(t, 5, cfg.OTPMaxAttempts)
	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	require.True(t, cfg.MailSendEnabled)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("OTP_TTL", "ten minutes")
	t.Setenv("OTP_MAX_ATTEMPTS", "five")
	t.Setenv("MAIL_SEND_ENABLED", "maybe")
	cfg := Load()

	require.Equal(t, 10*time.Minute, cfg.OTPTTL)
	require.Equal(t, 5, cfg.OTPMaxAttempts)
	require.True(t, cfg.MailSendEnabled)
}

func validConfig() *Config {
	return &Config{
		Env:             "development",
		JWTSecret:       "secret",
		SessionTTL:      time.Hour,
		OTPTTL:          time.Minute,
		OTPMaxAttempts:  5,
		MailSendEnabled: false,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid dev config", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = " " }, wantErr: true},
		{name: "production without database", mutate: func(c *Config) { c.Env = "production" }, wantErr: true},
		{name: "production with database", mutate: func(c *Config) { c.Env = "production"; c.DatabaseURL = "postgres://x" }},
		{name: "mail enabled without mailgun", mutate: func(c *Config) { c.MailSendEnabled = true; c.OperatorEmail = "ops@x.com" }, wantErr: true},
		{name: "mail enabled without operator", mutate: func(c *Config) {
			c.MailSendEnabled = true
			c.MailgunDomain, c.MailgunAPIKey, c.MailgunSender = "d", "k", "s"
		}, wantErr: true},
		{name: "non-positive attempts", mutate: func(c *Config) { c.OTPMaxAttempts = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, apperror.ErrConfiguration)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSplitLists(t *testing.T) {
	c := &Config{CORSAllowedOrigins: "https://a.com, ,https://b.com", ElasticsearchAddrs: ""}
	require.Equal(t, []string{"https://a.com", "https://b.com"}, c.CORSOrigins())
	require.Empty(t, c.ESAddrs())
}
