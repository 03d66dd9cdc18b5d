package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	"github.com/aeonark/aeonark-labs/internal/domain/repository"
)

// foreign_key_violation
const pgForeignKeyViolation = "23503"

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) GetByUserID(ctx context.Context, userID string) (*entity.CartItem, error) {
	c := &entity.CartItem{}
	var planType string
	var addOns []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, plan_type, plan_name, add_ons, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1
	`, userID).Scan(&c.ID, &c.UserID, &planType, &c.PlanName, &addOns, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	c.PlanType = entity.PlanType(planType)
	if err := json.Unmarshal(addOns, &c.AddOns); err != nil {
		return nil, err
	}
	return c, nil
}

// Upsert relies on the unique user_id index so a user never owns two rows.
func (r *CartRepository) Upsert(ctx context.Context, item *entity.CartItem) error {
	addOns := item.AddOns
	if addOns == nil {
		addOns = []entity.AddOn{}
	}
	b, err := json.Marshal(addOns)
	if err != nil {
		return err
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, plan_type, plan_name, add_ons)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET plan_type = EXCLUDED.plan_type, plan_name = EXCLUDED.plan_name,
			add_ons = EXCLUDED.add_ons, updated_at = now()
		RETURNING id, created_at, updated_at
	`, item.UserID, string(item.PlanType), item.PlanName, b).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

var _ repository.CartRepository = (*CartRepository)(nil)
