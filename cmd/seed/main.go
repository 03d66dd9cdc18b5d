package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/config"
	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	pginfra "github.com/aeonark/aeonark-labs/internal/infrastructure/postgres"
	"github.com/aeonark/aeonark-labs/pkg/helpers"
)

// seed creates one onboarded demo lead with a cart. Re-running updates the
// same rows.
func main() {
	email := flag.String("email", "demo@aeonark.dev", "email of the demo user")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.DatabaseURL, AppName: cfg.AppName + "-seed", MaxConns: 2})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	store := pginfra.NewStore(pool)
	defer store.Close()

	u, err := store.Users().GetOrCreateByEmail(ctx, *email)
	if err != nil {
		logger.WithError(err).Fatal("failed to seed user")
	}
	u.Apply(entity.Onboarding{
		FullName:    "Demo Lead",
		Company:     "Aeonark Demo Co",
		PrimaryGoal: entity.GoalAIAgent,
		BuildGoal:   "A support agent that answers product questions from our docs",
	}, time.Now())
	if err := store.Users().Update(ctx, u); err != nil {
		logger.WithError(err).Fatal("failed to onboard user")
	}

	plan, _ := entity.LookupPlan(entity.PlanGrowth)
	addOns := entity.AddOnCatalog()
	addOns[0].Selected = true
	cart := &entity.CartItem{UserID: u.ID, PlanType: plan.Type, PlanName: plan.Name, AddOns: addOns}
	if err := store.Carts().Upsert(ctx, cart); err != nil {
		logger.WithError(err).Fatal("failed to seed cart")
	}

	logger.WithFields(logrus.Fields{
		"user_id": u.ID,
		"email":   u.Email,
		"plan":    cart.PlanName,
		"total":   cart.Total(),
	}).Info("seeded demo lead")
}
