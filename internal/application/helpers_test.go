package application

import (
	"context"
	"errors"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/aeonark/aeonark-labs/config"
	"github.com/aeonark/aeonark-labs/internal/infrastructure/memory"
	"github.com/aeonark/aeonark-labs/pkg/helpers"
)

type sentMail struct {
	To, Subject, Text, HTML string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, to, subject, text, html string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMail{To: to, Subject: subject, Text: text, HTML: html})
	return nil
}

func (n *recordingNotifier) Sent() []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMail(nil), n.sent...)
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// lastCode returns the code mailed most recently to email.
func (n *recordingNotifier) lastCode(t *testing.T, email string) string {
	t.Helper()
	sent := n.Sent()
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].To == email {
			if c := codePattern.FindString(sent[i].Subject); c != "" {
				return c
			}
		}
	}
	t.Fatalf("no code mailed to %s", email)
	return ""
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type env struct {
	cfg      *config.Config
	store    *memory.Store
	notifier *recordingNotifier
	clock    *clock
	otp      *OTPService
	sessions *SessionService
	users    *UserService
	carts    *CartService
	leads    *LeadForwarder
	logger   *logrus.Logger
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cfg := &config.Config{
		AppName:         "aeonark-labs",
		CompanyName:     "Aeonark Labs",
		OTPTTL:          10 * time.Minute,
		OTPMaxAttempts:  5,
		OTPHashCost:     bcrypt.MinCost,
		NotifierTimeout: time.Second,
		OperatorEmail:   "ops@aeonark.test",
		ESLeadsIndex:    "leads",
	}
	logger := testLogger()
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	clk := &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

	otp := NewOTPService(store, notifier, cfg, logger)
	otp.Now = clk.Now

	jwtm, err := helpers.NewJWTManager("test-secret", cfg.AppName, 7*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	jwtm.WithClock(clk.Now)

	leads := NewLeadForwarder(cfg, notifier, logger)
	leads.Now = clk.Now

	users := NewUserService(store.Users(), leads, logger)
	users.Now = clk.Now

	return &env{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		clock:    clk,
		otp:      otp,
		sessions: NewSessionService(store.Users(), jwtm, logger),
		users:    users,
		carts:    NewCartService(store.Carts(), store.Users(), leads, logger),
		leads:    leads,
		logger:   logger,
	}
}

// signIn runs the whole signup flow and returns the session.
func (e *env) signIn(t *testing.T, email string) *Session {
	t.Helper()
	ctx := context.Background()
	if _, err := e.otp.RequestCode(ctx, email, "signup", RequestMeta{}); err != nil {
		t.Fatal(err)
	}
	if err := e.otp.VerifyCode(ctx, email, e.notifier.lastCode(t, email)); err != nil {
		t.Fatal(err)
	}
	s, err := e.sessions.IssueSession(ctx, email)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

var errBoom = errors.New("boom")
