package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aeonark/aeonark-labs/pkg/response"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags each request with an id that error envelopes and
// access logs carry. A caller-supplied X-Request-ID is kept only when it is a
// UUID so arbitrary text never reaches the logs.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(RequestIDHeader))
		if err != nil {
			id = uuid.New()
		}
		c.Set(response.CtxRequestIDKey, id.String())
		c.Header(RequestIDHeader, id.String())
		c.Next()
	}
}
