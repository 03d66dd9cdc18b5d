package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/aeonark/aeonark-labs/pkg/apperror"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(err error, opts ...Option) (*httptest.ResponseRecorder, ErrorBody, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(CtxRequestIDKey, "rid-1")
	FromError(c, err, opts...)
	var body ErrorBody
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body, c
}

func TestFromErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperror.Validation("bad"), http.StatusBadRequest, "validation_error"},
		{apperror.Conflict("use login"), http.StatusBadRequest, "conflict"},
		{apperror.InvalidOrExpired(), http.StatusBadRequest, "invalid_or_expired"},
		{apperror.NotFound("user not found"), http.StatusNotFound, "not_found"},
		{apperror.TooManyAttempts(), http.StatusTooManyRequests, "too_many_attempts"},
		{apperror.Unauthorized("no token"), http.StatusUnauthorized, "unauthorized"},
		{apperror.Delivery(errors.New("smtp")), http.StatusInternalServerError, "delivery_error"},
		{fmt.Errorf("wrapped: %w", apperror.Storage(errors.New("conn reset"))), http.StatusInternalServerError, "storage_error"},
		{errors.New("plain"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w, body, _ := serve(tt.err)
			require.Equal(t, tt.status, w.Code)
			require.Equal(t, tt.code, body.Code)
			require.False(t, body.Success)
			require.Equal(t, "rid-1", body.RequestID)
		})
	}
}

func TestFromErrorHidesInfrastructureCauses(t *testing.T) {
	_, body, c := serve(apperror.Storage(errors.New("dial tcp 10.0.0.3:5432: refused")))
	require.Equal(t, genericMessage, body.Error)
	require.Len(t, c.Errors, 1)

	_, body, _ = serve(apperror.Configuration("JWT_SECRET is required"))
	require.Equal(t, genericMessage, body.Error)

	_, body, _ = serve(errors.New("panic-ish detail"))
	require.Equal(t, genericMessage, body.Error)

	_, body, _ = serve(apperror.Conflict("email already registered, use login instead"))
	require.Equal(t, "email already registered, use login instead", body.Error)
}

func TestWithStatusOverride(t *testing.T) {
	w, body, _ := serve(apperror.NotFound("no account found for this email, use signup instead"),
		WithStatus(apperror.KindNotFound, http.StatusBadRequest))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "not_found", body.Code)

	// options only touch the kinds they name
	w, _, _ = serve(apperror.TooManyAttempts(), WithStatus(apperror.KindNotFound, http.StatusBadRequest))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAbortStopsChain(t *testing.T) {
	r := gin.New()
	reached := false
	r.GET("/", func(c *gin.Context) {
		Abort(c, http.StatusUnauthorized, apperror.KindUnauthorized, "missing bearer token")
	}, func(c *gin.Context) { reached = true })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, reached)
	require.JSONEq(t, `{"success":false,"error":"missing bearer token","code":"unauthorized"}`, w.Body.String())
}
