package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/aeonark/aeonark-labs/pkg/apperror"
	"github.com/aeonark/aeonark-labs/pkg/response"
)

// KindRateLimited marks requests refused by RateLimit. It is distinct from
// too_many_attempts, which is an OTP lockout.
const KindRateLimited apperror.Kind = "rate_limited"

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc names the counter a request is charged to.
type KeyFunc func(c *gin.Context) string

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "rl:ip:" + ClientIP(c) }
}

// KeyByIPAndPath gives each route its own budget per client.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string { return "rl:path:" + normalizePath(c) + ":ip:" + ClientIP(c) }
}

// KeyByUserID charges authenticated requests to the user and anonymous ones
// to the client address. It must run after Auth.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + ClientIP(c)
	}
}

// AllowFunc returns true for requests that skip the limit.
type AllowFunc func(*gin.Context) bool

// fixedWindow increments the counter, starts the window on the first hit and
// returns {count, remaining ttl in ms}.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RateLimit allows quota requests per window for each key. A nil client turns it
// into a no-op and a Redis error lets the request through. OPTIONS preflights
// are never counted.
func RateLimit(rdb *redis.Client, quota int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || quota <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := strconv.Itoa(quota)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		count, ttl, err := hit(c, rdb, keyFn(c), window)
		if err != nil {
			_ = c.Error(err)
			c.Next()
			return
		}

		reset := strconv.Itoa(int((ttl + time.Second - 1) / time.Second))
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, quota-count)))
		c.Header("X-RateLimit-Reset", reset)
		if count > quota {
			c.Header("Retry-After", reset)
			response.Abort(c, http.StatusTooManyRequests, KindRateLimited, "rate limit exceeded, please slow down")
			return
		}
		c.Next()
	}
}

var errUnexpectedReply = errors.New("rate limit: unexpected script reply")

func hit(c *gin.Context, rdb *redis.Client, key string, window time.Duration) (int, time.Duration, error) {
	vals, err := fixedWindow.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(vals) != 2 {
		return 0, 0, errUnexpectedReply
	}
	ttl := time.Duration(vals[1]) * time.Millisecond
	if ttl < 0 {
		ttl = 0
	}
	return int(vals[0]), ttl, nil
}
