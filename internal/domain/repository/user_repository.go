package repository

import (
	"context"
	"errors"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
)

// ErrNotFound is returned by every repository when a keyed row is absent.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetOrCreateByEmail returns the user for email, creating an empty,
	// not-onboarded one when none exists. It is safe under concurrent calls
	// for the same email.
	GetOrCreateByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
