package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aeonark/aeonark-labs/internal/application"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
	"github.com/aeonark/aeonark-labs/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// Auth validates the bearer token and sets userID and userEmail in the Gin
// context on success. The token's user id is the only authorization scope.
func Auth(sessions *application.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, apperror.KindUnauthorized, "missing bearer token")
			return
		}
		p, err := sessions.Authenticate(token)
		if err != nil {
			_ = c.Error(err)
			response.Abort(c, http.StatusUnauthorized, apperror.KindUnauthorized, apperror.MessageOf(err, "invalid or expired token"))
			return
		}
		c.Set(CtxUserIDKey, p.UserID)
		c.Set(CtxUserEmailKey, p.Email)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
