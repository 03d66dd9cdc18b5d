package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxClientIPKey holds the resolved client address for handlers and limiters.
const CtxClientIPKey = "real_ip"

// proxyIPHeaders are consulted in order. Only the first X-Forwarded-For hop
// is used since later hops are our own proxies.
var proxyIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP resolves the caller's address from proxy headers, falling back to
// gin's ClientIP, and stores it under CtxClientIPKey.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxClientIPKey, resolveIP(c))
		c.Next()
	}
}

func resolveIP(c *gin.Context) string {
	for _, h := range proxyIPHeaders {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		first, _, _ := strings.Cut(v, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}

// ClientIP returns the address stored by RealIP, or gin's own guess when the
// middleware did not run.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(CtxClientIPKey); ip != "" {
		return ip
	}
	return c.ClientIP()
}
