package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/aeonark/aeonark-labs/internal/application"
	"github.com/aeonark/aeonark-labs/internal/infrastructure/memory"
	"github.com/aeonark/aeonark-labs/pkg/helpers"
	"github.com/aeonark/aeonark-labs/pkg/response"
)

func init() { gin.SetMode(gin.TestMode) }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newSessions(t *testing.T) *application.SessionService {
	t.Helper()
	jwtm, err := helpers.NewJWTManager("secret", "aeonark-labs", time.Hour)
	require.NoError(t, err)
	return application.NewSessionService(memory.NewStore().Users(), jwtm, quietLogger())
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc", bearerToken("Bearer abc"))
	require.Equal(t, "abc", bearerToken("bearer  abc "))
	require.Empty(t, bearerToken("Basic abc"))
	require.Empty(t, bearerToken("abc"))
	require.Empty(t, bearerToken(""))
}

func TestAuth(t *testing.T) {
	sessions := newSessions(t)
	s, err := sessions.IssueSession(context.Background(), "u@x.com")
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Auth(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString(CtxUserIDKey), "email": c.GetString(CtxUserEmailKey)})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "no header", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + s.Token, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tt.status, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.status == http.StatusOK {
				require.Equal(t, s.User.ID, body["uid"])
				require.Equal(t, "u@x.com", body["email"])
				return
			}
			require.Equal(t, "unauthorized", body["code"])
			require.NotEmpty(t, body["request_id"])
		})
	}
}

func TestOperatorKey(t *testing.T) {
	r := gin.New()
	r.GET("/ops", OperatorKey("k3y"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/closed", OperatorKey(""), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do := func(path, key string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if key != "" {
			req.Header.Set(OperatorKeyHeader, key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	require.Equal(t, http.StatusNoContent, do("/ops", "k3y"))
	require.Equal(t, http.StatusUnauthorized, do("/ops", "wrong"))
	require.Equal(t, http.StatusUnauthorized, do("/ops", ""))
	require.Equal(t, http.StatusUnauthorized, do("/closed", ""))
}

func TestRequestIDEcho(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(response.CtxRequestIDKey)) })

	const incoming = "2f1e8a3c-6a43-4c1e-9d41-3e7f2f0c9b11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, incoming, w.Body.String())
	require.Equal(t, incoming, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.NotEqual(t, "<script>", w.Body.String())
	require.Len(t, w.Body.String(), 36)
}

func TestRealIPPrefersProxyHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ClientIP(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "198.51.100.7", w.Body.String())

	req.Header.Set("CF-Connecting-IP", "203.0.113.1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "203.0.113.1", w.Body.String())
}

func TestRateLimitWithoutRedisIsNoop(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestAllowFuncs(t *testing.T) {
	allow := AnyOf(AllowPaths("/api/health"), AllowPrivateIP())
	r := gin.New()
	r.Use(RealIP())
	r.GET("/api/health", func(c *gin.Context) { c.JSON(http.StatusOK, allow(c)) })
	r.GET("/api/user", func(c *gin.Context) { c.JSON(http.StatusOK, allow(c)) })

	check := func(path, xff string) string {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}
	require.Equal(t, "true", check("/api/health", "198.51.100.7"))
	require.Equal(t, "true", check("/api/user", "10.1.2.3"))
	require.Equal(t, "false", check("/api/user", "198.51.100.7"))
}

func TestRealIPHeaderOrder(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ClientIP(c)) })

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "no headers", want: "192.0.2.1"},
		{name: "x-real-ip", headers: map[string]string{"X-Real-IP": "198.51.100.9"}, want: "198.51.100.9"},
		{name: "x-real-ip beats forwarded-for", headers: map[string]string{"X-Real-IP": "198.51.100.9", "X-Forwarded-For": "198.51.100.7"}, want: "198.51.100.9"},
		{name: "garbage is skipped", headers: map[string]string{"CF-Connecting-IP": "nope", "X-Forwarded-For": "198.51.100.7"}, want: "198.51.100.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestRateLimitFailsOpenWhenRedisIsDown(t *testing.T) {
	rdb := helpers.NewRedisClient("127.0.0.1:1", "", 0)
	defer func() { _ = rdb.Close() }()

	r := gin.New()
	r.GET("/", RateLimit(rdb, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}
