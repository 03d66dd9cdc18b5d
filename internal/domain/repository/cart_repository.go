package repository

import (
	"context"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
)

// CartRepository keeps the single cart row of a user.
type CartRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.CartItem, error)
	// Upsert creates the user's cart or overwrites the existing row in place.
	Upsert(ctx context.Context, item *entity.CartItem) error
}
