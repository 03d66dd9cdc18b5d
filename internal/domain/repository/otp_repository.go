package repository

import (
	"context"
	"time"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
)

// OTPRepository stores at most one active code per email.
type OTPRepository interface {
	// Supersede atomically removes any code for code.Email and inserts code.
	Supersede(ctx context.Context, code *entity.OTPCode) error
	// Resolve locks the active code for email, passes a copy to decide and
	// applies the returned action before releasing the lock. It returns the
	// code as it was after the action, or ErrNotFound when the email has no
	// active code (decide is not called).
	Resolve(ctx context.Context, email string, decide func(code entity.OTPCode) entity.OTPAction) (*entity.OTPCode, error)
	GetByEmail(ctx context.Context, email string) (*entity.OTPCode, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
