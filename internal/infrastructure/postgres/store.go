package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeonark/aeonark-labs/internal/domain/repository"
)

// Store is the relational repository.Store backed by a pgx pool.
type Store struct {
	pool  *pgxpool.Pool
	users *UserRepository
	otps  *OTPRepository
	carts *CartRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:  pool,
		users: NewUserRepository(pool),
		otps:  NewOTPRepository(pool),
		carts: NewCartRepository(pool),
	}
}

func (s *Store) Users() repository.UserRepository { return s.users }
func (s *Store) OTPs() repository.OTPRepository   { return s.otps }
func (s *Store) Carts() repository.CartRepository { return s.carts }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }
func (s *Store) Close()                         { s.pool.Close() }

var _ repository.Store = (*Store)(nil)

// withTx runs fn in a transaction, committing on nil and rolling back otherwise.
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) (err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()
	return fn(tx)
}
