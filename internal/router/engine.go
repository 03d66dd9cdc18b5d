package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aeonark/aeonark-labs/internal/container"
	"github.com/aeonark/aeonark-labs/internal/interface/middleware"
)

// NewEngine builds the gin engine with global middleware and every module
// registered under /api.
func NewEngine(c *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())

	corsCfg := cors.Config{
		AllowOrigins:     c.Cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.OperatorKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		// development default; credentials cannot be combined with "*"
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if c.Cfg.HTTPLogEnabled {
		r.Use(middleware.RequestLogger(c.Logger))
	}

	reg := NewRegistry(r, "/api")
	// coarse per-IP ceiling across the API; modules add tighter limits
	reg.Use(middleware.RateLimit(c.Redis, 600, time.Minute, middleware.KeyByIP(),
		middleware.AnyOf(middleware.AllowPrivateIP(), middleware.AllowPaths("/api/health"))))
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}
