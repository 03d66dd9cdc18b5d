package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/aeonark/aeonark-labs/internal/interface/http"
	"github.com/aeonark/aeonark-labs/internal/interface/middleware"
)

type ContactModule struct {
	Handler *handlers.ContactHandler
	Redis   *redis.Client
}

func NewContactModule(h *handlers.ContactHandler, rdb *redis.Client) *ContactModule {
	return &ContactModule{Handler: h, Redis: rdb}
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	rg.POST("/contact", middleware.RateLimit(m.Redis, 5, 10*time.Minute, middleware.KeyByIP(), nil), m.Handler.Send)
}
