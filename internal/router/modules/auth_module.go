package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/aeonark/aeonark-labs/internal/interface/http"
	"github.com/aeonark/aeonark-labs/internal/interface/middleware"
)

// AuthModule wires the passwordless sign-in flow.
// Public: POST /api/auth/check-email, /signup, /login, /verify-otp
type AuthModule struct {
	Handler *handlers.AuthHandler
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	checkLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIP(), nil)
	// each request mails a code
	sendLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/check-email", checkLimiter, m.Handler.CheckEmail)
	auth.POST("/signup", sendLimiter, m.Handler.Signup)
	auth.POST("/login", sendLimiter, m.Handler.Login)
	auth.POST("/verify-otp", verifyLimiter, m.Handler.VerifyOTP)
}
