package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/aeonark/aeonark-labs/internal/application"
	handlers "github.com/aeonark/aeonark-labs/internal/interface/http"
	"github.com/aeonark/aeonark-labs/internal/interface/middleware"
)

// CartModule: GET/POST /api/cart, both protected.
type CartModule struct {
	Handler  *handlers.CartHandler
	Sessions *application.SessionService
	Redis    *redis.Client
}

func NewCartModule(h *handlers.CartHandler, sessions *application.SessionService, rdb *redis.Client) *CartModule {
	return &CartModule{Handler: h, Sessions: sessions, Redis: rdb}
}

func (m *CartModule) Register(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	cart.Use(middleware.Auth(m.Sessions))
	cart.Use(middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		cart.GET("", m.Handler.GetCart)
		cart.POST("", m.Handler.SaveCart)
	}
}
