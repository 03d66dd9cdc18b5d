package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/aeonark/aeonark-labs/internal/interface/http"
	"github.com/aeonark/aeonark-labs/internal/interface/middleware"
)

// LeadModule exposes operator search over indexed leads.
// Operator: GET /api/leads/search (X-Operator-Key)
type LeadModule struct {
	Handler *handlers.UserHandler
	Key     string
	Redis   *redis.Client
}

func NewLeadModule(h *handlers.UserHandler, key string, rdb *redis.Client) *LeadModule {
	return &LeadModule{Handler: h, Key: key, Redis: rdb}
}

func (m *LeadModule) Register(rg *gin.RouterGroup) {
	leads := rg.Group("/leads")
	leads.Use(middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIP(), nil))
	leads.Use(middleware.OperatorKey(m.Key))
	leads.GET("/search", m.Handler.SearchLeads)
}
