package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/aeonark/aeonark-labs/internal/application"
	handlers "github.com/aeonark/aeonark-labs/internal/interface/http"
	"github.com/aeonark/aeonark-labs/internal/interface/middleware"
)

// UserModule wires profile and onboarding routes.
// Protected: GET /api/user, POST /api/onboarding
type UserModule struct {
	Handler  *handlers.UserHandler
	Sessions *application.SessionService
	Redis    *redis.Client
}

func NewUserModule(h *handlers.UserHandler, sessions *application.SessionService, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Sessions: sessions, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Sessions))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/user", m.Handler.GetUser)
		auth.POST("/onboarding", m.Handler.CompleteOnboarding)
	}
}
