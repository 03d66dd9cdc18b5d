package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aeonark/aeonark-labs/pkg/apperror"
	"github.com/aeonark/aeonark-labs/pkg/response"
)

const OperatorKeyHeader = "X-Operator-Key"

// OperatorKey guards operator-only routes with a shared key.
// An empty key rejects every request.
func OperatorKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(OperatorKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			response.Abort(c, http.StatusUnauthorized, apperror.KindUnauthorized, "operator key required")
			return
		}
		c.Next()
	}
}
