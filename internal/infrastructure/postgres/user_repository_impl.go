package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	"github.com/aeonark/aeonark-labs/internal/domain/repository"
)

const userColumns = `id, email, COALESCE(full_name, ''), COALESCE(company, ''), COALESCE(primary_goal, ''),
		COALESCE(build_goal, ''), is_onboarded, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var goal string
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Company, &goal, &u.BuildGoal,
		&u.IsOnboarded, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.PrimaryGoal = entity.PrimaryGoal(goal)
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

// GetOrCreateByEmail relies on the unique email index: a concurrent insert
// loses the conflict and both callers read the same row back.
func (r *UserRepository) GetOrCreateByEmail(ctx context.Context, email string) (*entity.User, error) {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO users (email)
		VALUES ($1)
		ON CONFLICT (email) DO NOTHING
	`, email); err != nil {
		return nil, err
	}
	return r.GetByEmail(ctx, email)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET full_name = NULLIF($1, ''), company = NULLIF($2, ''), primary_goal = NULLIF($3, ''),
			build_goal = NULLIF($4, ''), is_onboarded = $5, updated_at = now()
		WHERE id = $6
		RETURNING email, created_at, updated_at
	`, u.FullName, u.Company, string(u.PrimaryGoal), u.BuildGoal, u.IsOnboarded, u.ID)

	if err := row.Scan(&u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
