package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aeonark/aeonark-labs/internal/application"
	"github.com/aeonark/aeonark-labs/internal/interface/middleware"
)

func requestMeta(c *gin.Context) application.RequestMeta {
	return application.RequestMeta{IP: middleware.ClientIP(c), UserAgent: c.Request.UserAgent()}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

func normalizedEmail(s string) string {
	return strings.TrimSpace(s)
}
