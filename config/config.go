package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aeonark/aeonark-labs/pkg/apperror"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// LogLevel overrides the env-derived level (debug, info, warn, error).
	LogLevel string

	// Database. An empty DatabaseURL selects the in-memory store outside production.
	DatabaseURL   string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration
	MigrationsDir string

	// Redis (rate limiting). Empty address disables limiting.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Session tokens
	JWTSecret  string
	SessionTTL time.Duration

	// One-time codes
	OTPTTL          time.Duration
	OTPMaxAttempts  int
	OTPHashCost     int
	NotifierTimeout time.Duration

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Mailgun
	MailgunDomain  string
	MailgunAPIKey  string
	MailgunSender  string
	MailgunAPIBase string // empty for the US region

	// Email sending toggle. When false codes are logged instead of mailed.
	MailSendEnabled bool

	// Operator receiving leads and contact messages
	OperatorEmail  string
	OperatorAPIKey string

	// RabbitMQ (optional operator notification queue)
	RabbitMQURL        string
	RabbitMQEmailQueue string

	// Elasticsearch (optional lead index)
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESLeadsIndex       string

	// Google Cloud Storage (optional lead archive)
	GCSBucket              string
	GCSCredentialsJSONPath string

	// Company/Links for emails
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportURL     string
	PrivacyURL     string

	// Debug metrics (/api/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName:  getenv("APP_NAME", "aeonark-labs"),
		Env:      getenv("APP_ENV", "development"),
		Port:     getenv("PORT", "8080"),
		GinMode:  getenv("GIN_MODE", "release"),
		LogLevel: getenv("LOG_LEVEL", ""),

		DatabaseURL:   getenv("DATABASE_URL", ""),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),
		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		JWTSecret:  getenv("JWT_SECRET", ""),
		SessionTTL: getdur("SESSION_TTL", 7*24*time.Hour),

		OTPTTL:          getdur("OTP_TTL", 10*time.Minute),
		OTPMaxAttempts:  getint("OTP_MAX_ATTEMPTS", 5),
		OTPHashCost:     getint("OTP_HASH_COST", 10),
		NotifierTimeout: getdur("NOTIFIER_TIMEOUT", 10*time.Second),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		MailgunDomain:  getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:  getenv("MAILGUN_API_KEY", ""),
		MailgunSender:  getenv("MAILGUN_SENDER", ""),
		MailgunAPIBase: getenv("MAILGUN_API_BASE", ""),

		MailSendEnabled: getbool("MAIL_SEND_ENABLED", true),

		OperatorEmail:  getenv("OPERATOR_EMAIL", ""),
		OperatorAPIKey: getenv("OPERATOR_API_KEY", ""),

		RabbitMQURL:        getenv("RABBITMQ_URL", ""),
		RabbitMQEmailQueue: getenv("RABBITMQ_EMAIL_QUEUE", "operator-emails"),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESLeadsIndex:       getenv("ES_LEADS_INDEX", "leads"),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),

		CompanyName:    getenv("COMPANY_NAME", "Aeonark Labs"),
		CompanyAddress: getenv("COMPANY_ADDRESS", ""),
		LogoURL:        getenv("LOGO_URL", ""),
		SupportURL:     getenv("SUPPORT_URL", ""),
		PrivacyURL:     getenv("PRIVACY_URL", ""),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", false),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", true),
	}
}

// IsProduction reports whether the app runs with production guarantees.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate reports the first missing setting that would otherwise fail late
// or silently.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return apperror.Configuration("JWT_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return apperror.Configuration("SESSION_TTL must be positive")
	}
	if c.OTPTTL <= 0 || c.OTPMaxAttempts <= 0 {
		return apperror.Configuration("OTP_TTL and OTP_MAX_ATTEMPTS must be positive")
	}
	if c.IsProduction() && c.DatabaseURL == "" {
		return apperror.Configuration("DATABASE_URL is required in production")
	}
	if c.MailSendEnabled {
		if c.MailgunDomain == "" || c.MailgunAPIKey == "" || c.MailgunSender == "" {
			return apperror.Configuration("MAILGUN_DOMAIN, MAILGUN_API_KEY and MAILGUN_SENDER are required when MAIL_SEND_ENABLED=true")
		}
		if c.OperatorEmail == "" {
			return apperror.Configuration("OPERATOR_EMAIL is required when MAIL_SEND_ENABLED=true")
		}
	}
	return nil
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
