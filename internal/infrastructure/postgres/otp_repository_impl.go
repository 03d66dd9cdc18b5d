package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	"github.com/aeonark/aeonark-labs/internal/domain/repository"
)

type OTPRepository struct {
	pool *pgxpool.Pool
}

func NewOTPRepository(pool *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{pool: pool}
}

// Supersede serializes on a transaction-scoped advisory lock keyed by email,
// so two concurrent requests for one email run delete+insert one after the other.
func (r *OTPRepository) Supersede(ctx context.Context, code *entity.OTPCode) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, code.Email); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM otp_codes WHERE email = $1`, code.Email); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `
			INSERT INTO otp_codes (email, code_hash, expires_at, attempts)
			VALUES ($1, $2, $3, 0)
			RETURNING id, attempts, created_at
		`, code.Email, code.CodeHash, code.ExpiresAt).Scan(&code.ID, &code.Attempts, &code.CreatedAt)
	})
}

func (r *OTPRepository) Resolve(ctx context.Context, email string, decide func(entity.OTPCode) entity.OTPAction) (*entity.OTPCode, error) {
	var out *entity.OTPCode
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		cur, err := scanOTP(tx.QueryRow(ctx, `
			SELECT id, email, code_hash, expires_at, attempts, created_at
			FROM otp_codes
			WHERE email = $1
			FOR UPDATE
		`, email))
		if err != nil {
			return err
		}
		switch decide(*cur) {
		case entity.OTPDelete:
			if _, err := tx.Exec(ctx, `DELETE FROM otp_codes WHERE id = $1`, cur.ID); err != nil {
				return err
			}
		case entity.OTPIncrementAttempts:
			if err := tx.QueryRow(ctx, `
				UPDATE otp_codes SET attempts = attempts + 1
				WHERE id = $1
				RETURNING attempts
			`, cur.ID).Scan(&cur.Attempts); err != nil {
				return err
			}
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OTPRepository) GetByEmail(ctx context.Context, email string) (*entity.OTPCode, error) {
	return scanOTP(r.pool.QueryRow(ctx, `
		SELECT id, email, code_hash, expires_at, attempts, created_at
		FROM otp_codes
		WHERE email = $1
	`, email))
}

func (r *OTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM otp_codes WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func scanOTP(row pgx.Row) (*entity.OTPCode, error) {
	c := &entity.OTPCode{}
	if err := row.Scan(&c.ID, &c.Email, &c.CodeHash, &c.ExpiresAt, &c.Attempts, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

var _ repository.OTPRepository = (*OTPRepository)(nil)
