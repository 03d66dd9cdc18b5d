package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	"github.com/aeonark/aeonark-labs/internal/domain/repository"
)

// Store is a map-backed repository.Store for development and tests.
// A single mutex serializes every operation, which covers the per-email
// ordering the OTP repository needs.
type Store struct {
	mu     sync.Mutex
	now    func() time.Time
	users  map[string]*entity.User // by id
	emails map[string]string       // email -> id
	otps   map[string]*entity.OTPCode
	carts  map[string]*entity.CartItem
	nextID int64
}

func NewStore() *Store {
	return &Store{
		now:    time.Now,
		users:  make(map[string]*entity.User),
		emails: make(map[string]string),
		otps:   make(map[string]*entity.OTPCode),
		carts:  make(map[string]*entity.CartItem),
	}
}

func (s *Store) Users() repository.UserRepository { return userRepo{s} }
func (s *Store) OTPs() repository.OTPRepository   { return otpRepo{s} }
func (s *Store) Carts() repository.CartRepository { return cartRepo{s} }

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close()                     {}

var _ repository.Store = (*Store)(nil)

type userRepo struct{ s *Store }

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.emails[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r.s.users[id]
	return &cp, nil
}

func (r userRepo) GetOrCreateByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id, ok := r.s.emails[email]; ok {
		cp := *r.s.users[id]
		return &cp, nil
	}
	now := r.s.now()
	u := &entity.User{ID: uuid.NewString(), Email: email, CreatedAt: now, UpdatedAt: now}
	r.s.users[u.ID] = u
	r.s.emails[email] = u.ID
	cp := *u
	return &cp, nil
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	// email is the identity key and never changes after creation
	u.Email = cur.Email
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = r.s.now()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

type otpRepo struct{ s *Store }

func (r otpRepo) Supersede(_ context.Context, code *entity.OTPCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	code.ID = r.s.nextID
	if code.CreatedAt.IsZero() {
		code.CreatedAt = r.s.now()
	}
	cp := *code
	r.s.otps[code.Email] = &cp
	return nil
}

func (r otpRepo) Resolve(_ context.Context, email string, decide func(entity.OTPCode) entity.OTPAction) (*entity.OTPCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.otps[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	switch decide(*cur) {
	case entity.OTPDelete:
		delete(r.s.otps, email)
	case entity.OTPIncrementAttempts:
		cur.Attempts++
	}
	cp := *cur
	return &cp, nil
}

func (r otpRepo) GetByEmail(_ context.Context, email string) (*entity.OTPCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.otps[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *cur
	return &cp, nil
}

func (r otpRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for email, c := range r.s.otps {
		if c.Expired(now) {
			delete(r.s.otps, email)
			n++
		}
	}
	return n, nil
}

type cartRepo struct{ s *Store }

func (r cartRepo) GetByUserID(_ context.Context, userID string) (*entity.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneCart(c), nil
}

func (r cartRepo) Upsert(_ context.Context, item *entity.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[item.UserID]; !ok {
		return repository.ErrNotFound
	}
	now := r.s.now()
	if cur, ok := r.s.carts[item.UserID]; ok {
		item.ID = cur.ID
		item.CreatedAt = cur.CreatedAt
	} else {
		r.s.nextID++
		item.ID = r.s.nextID
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	r.s.carts[item.UserID] = cloneCart(item)
	return nil
}

func cloneCart(c *entity.CartItem) *entity.CartItem {
	cp := *c
	cp.AddOns = append([]entity.AddOn(nil), c.AddOns...)
	return &cp
}
