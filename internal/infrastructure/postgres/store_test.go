package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	"github.com/aeonark/aeonark-labs/internal/domain/repository"
)

// newTestStore migrates TEST_DATABASE_URL and empties the tables. Tests are
// skipped when it is unset.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	require.NoError(t, err)
	m, err := migrate.NewWithDatabaseInstance("file://../../../db/migrations", "postgres", driver)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, PoolConfig{DSN: dsn, MaxConns: 8})
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `TRUNCATE cart_items, otp_codes, users`)
	require.NoError(t, err)

	s := NewStore(pool)
	t.Cleanup(s.Close)
	return s
}

func TestPGUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().GetByEmail(ctx, "a@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)

	var wg sync.WaitGroup
	ids := make(chan string, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if u, err := s.Users().GetOrCreateByEmail(ctx, "a@example.com"); err == nil {
				ids <- u.ID
			}
		}()
	}
	wg.Wait()
	close(ids)
	var first string
	n := 0
	for id := range ids {
		if first == "" {
			first = id
		}
		require.Equal(t, first, id)
		n++
	}
	require.Equal(t, 10, n)

	u, err := s.Users().GetByID(ctx, first)
	require.NoError(t, err)
	require.False(t, u.IsOnboarded)
	require.Empty(t, u.FullName)

	u.Apply(entity.Onboarding{FullName: "Asha", PrimaryGoal: entity.GoalWebsite, BuildGoal: "a storefront"}, time.Now())
	require.NoError(t, s.Users().Update(ctx, u))
	got, err := s.Users().GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.True(t, got.IsOnboarded)
	require.Equal(t, entity.GoalWebsite, got.PrimaryGoal)
	require.Empty(t, got.Company)
}

func TestPGConcurrentSupersedeLeavesOneRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.OTPs().Supersede(ctx, &entity.OTPCode{Email: "a@example.com", CodeHash: "h", ExpiresAt: time.Now().Add(time.Minute)})
		}()
	}
	wg.Wait()

	var count int
	require.NoError(t, s.pool.QueryRow(ctx, `SELECT count(*) FROM otp_codes WHERE email = $1`, "a@example.com").Scan(&count))
	require.Equal(t, 1, count)
}

func TestPGResolveIsSingleUse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.OTPs().Supersede(ctx, &entity.OTPCode{Email: "a@example.com", CodeHash: "h", ExpiresAt: time.Now().Add(time.Minute)}))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.OTPs().Resolve(ctx, "a@example.com", func(entity.OTPCode) entity.OTPAction { return entity.OTPDelete })
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}

func TestPGResolveIncrementsAndSweeps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.OTPs().Supersede(ctx, &entity.OTPCode{Email: "a@example.com", CodeHash: "h", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, s.OTPs().Supersede(ctx, &entity.OTPCode{Email: "old@example.com", CodeHash: "h", ExpiresAt: now.Add(-time.Minute)}))

	got, err := s.OTPs().Resolve(ctx, "a@example.com", func(entity.OTPCode) entity.OTPAction { return entity.OTPIncrementAttempts })
	require.NoError(t, err)
	require.Equal(t, 1, got.Attempts)

	n, err := s.OTPs().DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	_, err = s.OTPs().GetByEmail(ctx, "old@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPGCartUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Carts().Upsert(ctx, &entity.CartItem{UserID: "00000000-0000-0000-0000-000000000000", PlanType: entity.PlanStarter, PlanName: "Starter Site"})
	require.ErrorIs(t, err, repository.ErrNotFound)

	u, err := s.Users().GetOrCreateByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	_, err = s.Carts().GetByUserID(ctx, u.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	first := &entity.CartItem{UserID: u.ID, PlanType: entity.PlanStarter, PlanName: "Starter Site"}
	require.NoError(t, s.Carts().Upsert(ctx, first))
	addOns := entity.AddOnCatalog()
	addOns[1].Selected = true
	second := &entity.CartItem{UserID: u.ID, PlanType: entity.PlanScale, PlanName: "Scale Forge", AddOns: addOns}
	require.NoError(t, s.Carts().Upsert(ctx, second))
	require.Equal(t, first.ID, second.ID)

	got, err := s.Carts().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, entity.PlanScale, got.PlanType)
	require.Equal(t, 4999+499, got.Total())
}
