package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/config"
	"github.com/aeonark/aeonark-labs/pkg/helpers"
	"github.com/aeonark/aeonark-labs/pkg/mailer"
	mailtpl "github.com/aeonark/aeonark-labs/pkg/mailer/templates"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	q, err := helpers.DialRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		logger.WithError(err).Fatal("amqp connect")
	}
	defer q.Close()

	// prefetch for fair dispatch between workers
	msgs, err := q.Consume(16)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	w := &worker{
		Notifier: mailer.NewMailgun(mailer.MailgunConfig{
			Domain:  cfg.MailgunDomain,
			APIKey:  cfg.MailgunAPIKey,
			Sender:  cfg.MailgunSender,
			APIBase: cfg.MailgunAPIBase,
			Timeout: cfg.NotifierTimeout,
		}),
		Resolver: mailtpl.NewCachedResolver(mailtpl.IPAPIResolver{}, time.Hour),
		Logger:   logger,
		Timeout:  15 * time.Second,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			switch w.handle(ctx, msg.Body) {
			case outcomeAck:
				_ = msg.Ack(false)
			case outcomeRetry:
				_ = msg.Nack(false, true)
			default:
				_ = msg.Nack(false, false)
			}
		}
		close(done)
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down...")
	q.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeDrop
	outcomeRetry
)

type worker struct {
	Notifier mailer.Notifier
	Resolver mailtpl.GeoResolver
	Logger   *logrus.Logger
	Timeout  time.Duration
}

// handle renders and sends one queued job. Malformed jobs are dropped;
// send failures are retried by the broker.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad message")
		return outcomeDrop
	}
	if err := helpers.PrepareJob(&job); err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("rejected job")
		return outcomeDrop
	}
	log := w.Logger.WithFields(logrus.Fields{
		"to":       helpers.MaskEmail(job.To),
		"template": job.Template,
		"age_ms":   job.Age(time.Now()).Milliseconds(),
	})

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		if w.Resolver != nil {
			helpers.LocalizeTimesIfPossible(ctx, w.Resolver, job.Data)
		}
		var err error
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			log.WithError(err).Warn("render failed")
			return outcomeDrop
		}
	}

	c, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	if err := w.Notifier.Send(c, job.To, subject, text, html); err != nil {
		log.WithError(err).Warn("send failed")
		return outcomeRetry
	}
	log.Info("email sent")
	return outcomeAck
}
