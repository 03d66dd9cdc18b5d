package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/aeonark/aeonark-labs/config"
	"github.com/aeonark/aeonark-labs/internal/application"
	"github.com/aeonark/aeonark-labs/internal/container"
	"github.com/aeonark/aeonark-labs/internal/infrastructure/memory"
	pginfra "github.com/aeonark/aeonark-labs/internal/infrastructure/postgres"
	"github.com/aeonark/aeonark-labs/internal/router"
	"github.com/aeonark/aeonark-labs/pkg/helpers"
	"github.com/aeonark/aeonark-labs/pkg/mailer"
	"github.com/aeonark/aeonark-labs/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	c := &container.Container{Cfg: cfg, Logger: logger}
	defer c.Close()

	// Store: postgres when configured, otherwise in-memory (never in production)
	if cfg.DatabaseURL != "" {
		pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
			DSN:             cfg.DatabaseURL,
			AppName:         cfg.AppName,
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLife,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			logger.WithError(err).Fatal("migration failed")
		}
		c.Store = pginfra.NewStore(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on restart")
		c.Store = memory.NewStore()
	}

	// Redis (rate limiting)
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).Warn("redis unreachable, rate limiting degraded")
		}
		c.Redis = rdb
	}

	// Mail
	if cfg.MailSendEnabled {
		c.Notifier = mailer.NewMailgun(mailgunConfig(cfg))
	} else {
		logger.Warn("MAIL_SEND_ENABLED=false, emails are logged instead of sent")
		c.Notifier = mailer.LogNotifier{Logger: logger}
	}

	// Optional lead sinks; a sink that fails to start is skipped.
	if cfg.RabbitMQURL != "" {
		q, err := helpers.DialRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, operator emails sent inline")
		} else {
			c.Rabbit = q
		}
	}
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch client init failed, lead indexing off")
		} else {
			ictx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := helpers.EnsureIndex(ictx, es, cfg.ESLeadsIndex, application.LeadIndexMapping); err != nil {
				logger.WithError(err).Warn("ensure leads index failed")
			}
			cancel()
			c.ES = es
		}
	}
	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs client init failed, lead archive off")
		} else {
			c.GCS = gcs
		}
	}

	// JWT
	jwtManager, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.AppName, cfg.SessionTTL)
	if err != nil {
		logger.WithError(err).Fatal("jwt setup failed")
	}
	c.JWT = jwtManager

	r := router.NewEngine(c.Build())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
		return
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}

func mailgunConfig(cfg *config.Config) mailer.MailgunConfig {
	return mailer.MailgunConfig{
		Domain:  cfg.MailgunDomain,
		APIKey:  cfg.MailgunAPIKey,
		Sender:  cfg.MailgunSender,
		APIBase: cfg.MailgunAPIBase,
		Timeout: cfg.NotifierTimeout,
	}
}
