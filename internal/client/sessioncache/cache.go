// Package sessioncache keeps the session issued by the API on the client.
// Records are written through to every slot and read back in slot order, so
// losing any one slot does not sign the user out.
package sessioncache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTTL is the client-side lifetime of a stored session.
const DefaultTTL = 7 * 24 * time.Hour

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	IsOnboarded bool   `json:"isOnboarded"`
}

// Session is the record kept on the client.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
	// ProviderSession is an opaque blob from an external identity provider.
	ProviderSession json.RawMessage `json:"providerSession,omitempty"`
	IssuedAt        time.Time       `json:"issuedAt"`
	ExpiresAt       time.Time       `json:"expiresAt"`
}

type Cache struct {
	// Slots are tried in order on Load.
	Slots []Slot
	// Legacy receives only the bearer token, for older consumers.
	Legacy Slot
	TTL    time.Duration
	Now    func() time.Time
	Logger *logrus.Logger
}

func New(logger *logrus.Logger, legacy Slot, slots ...Slot) *Cache {
	return &Cache{Slots: slots, Legacy: legacy, TTL: DefaultTTL, Now: time.Now, Logger: logger}
}

// DefaultSlots returns the file slots used by the CLI: the primary in the
// user config dir, the mirror in the user cache dir and the legacy token
// file next to the primary.
func DefaultSlots(app string) (primary, mirror, legacy Slot, err error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return nil, nil, nil, err
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, nil, nil, err
	}
	primary = FileSlot{Path: filepath.Join(cfgDir, app, "session.json")}
	mirror = FileSlot{Path: filepath.Join(cacheDir, app, "session.json")}
	legacy = FileSlot{Path: filepath.Join(cfgDir, app, "auth_token")}
	return primary, mirror, legacy, nil
}

// Store stamps s with a fresh expiry and writes it to every slot. It fails
// only when no slot accepted the write.
func (c *Cache) Store(s Session) (Session, error) {
	now := c.Now()
	s.IssuedAt = now
	s.ExpiresAt = now.Add(c.ttl())
	b, err := json.Marshal(s)
	if err != nil {
		return Session{}, err
	}

	var errs []error
	written := 0
	for _, slot := range c.Slots {
		if err := slot.Write(b); err != nil {
			c.Logger.WithError(err).WithField("slot", slot.Name()).Warn("session write failed")
			errs = append(errs, fmt.Errorf("%s: %w", slot.Name(), err))
			continue
		}
		written++
	}
	if c.Legacy != nil {
		if err := c.Legacy.Write([]byte(s.Token)); err != nil {
			c.Logger.WithError(err).WithField("slot", c.Legacy.Name()).Warn("legacy token write failed")
		}
	}
	if written == 0 {
		if len(errs) == 0 {
			return Session{}, errors.New("sessioncache: no slots configured")
		}
		return Session{}, errors.Join(errs...)
	}
	return s, nil
}

// Load returns the first readable record in slot order. An expired record,
// or nothing but unreadable ones, clears every slot and reports absent.
// Slots found empty before the hit are refilled.
func (c *Cache) Load() (*Session, bool) {
	var (
		found   *Session
		raw     []byte
		empty   []Slot
		corrupt bool
	)
	for _, slot := range c.Slots {
		b, err := slot.Read()
		if errors.Is(err, ErrEmpty) {
			empty = append(empty, slot)
			continue
		}
		if err != nil {
			c.Logger.WithError(err).WithField("slot", slot.Name()).Warn("session read failed")
			continue
		}
		var s Session
		if err := json.Unmarshal(b, &s); err != nil {
			c.Logger.WithError(err).WithField("slot", slot.Name()).Warn("session record unreadable")
			corrupt = true
			continue
		}
		found, raw = &s, b
		break
	}

	if found == nil {
		if corrupt {
			c.Clear()
		}
		return nil, false
	}
	if !c.Now().Before(found.ExpiresAt) {
		c.Logger.WithField("expired_at", found.ExpiresAt).Debug("session expired")
		c.Clear()
		return nil, false
	}
	for _, slot := range empty {
		if err := slot.Write(raw); err != nil {
			c.Logger.WithError(err).WithField("slot", slot.Name()).Debug("session refill failed")
		}
	}
	return found, true
}

// Clear removes the session from every slot. Failures are logged, never
// returned.
func (c *Cache) Clear() {
	slots := c.Slots
	if c.Legacy != nil {
		slots = append(append([]Slot(nil), slots...), c.Legacy)
	}
	for _, slot := range slots {
		if err := slot.Remove(); err != nil {
			c.Logger.WithError(err).WithField("slot", slot.Name()).Warn("session clear failed")
		}
	}
}

func (c *Cache) IsAuthenticated() bool {
	s, ok := c.Load()
	return ok && s.Token != ""
}

// Token returns the stored bearer token, or "" when signed out.
func (c *Cache) Token() string {
	if s, ok := c.Load(); ok {
		return s.Token
	}
	return ""
}

func (c *Cache) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultTTL
	}
	return c.TTL
}
