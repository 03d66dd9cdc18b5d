package router

import (
	"github.com/aeonark/aeonark-labs/internal/container"
	handlers "github.com/aeonark/aeonark-labs/internal/interface/http"
	"github.com/aeonark/aeonark-labs/internal/router/modules"
)

// InitModules builds the handlers from c and registers every feature module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	authHandler := handlers.NewAuthHandler(c.OTP, c.Sessions, c.Logger)
	userHandler := handlers.NewUserHandler(c.Users, c.Logger)
	cartHandler := handlers.NewCartHandler(c.Carts, c.Logger)
	contactHandler := handlers.NewContactHandler(c.Contact, c.Logger)

	r.Add(
		modules.NewHealthModule(&handlers.HealthHandler{Store: c.Store}),
		modules.NewAuthModule(authHandler, c.Redis),
		modules.NewUserModule(userHandler, c.Sessions, c.Redis),
		modules.NewCartModule(cartHandler, c.Sessions, c.Redis),
		modules.NewContactModule(contactHandler, c.Redis),
	)
	if c.Cfg.OperatorAPIKey != "" {
		r.Add(modules.NewLeadModule(userHandler, c.Cfg.OperatorAPIKey, c.Redis))
	}
	if c.Cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
