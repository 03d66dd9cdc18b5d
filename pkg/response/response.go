package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aeonark/aeonark-labs/pkg/apperror"
)

// CtxRequestIDKey is the gin context key the request id middleware sets.
const CtxRequestIDKey = "request_id"

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Success   bool        `json:"success"`
	Error     string      `json:"error"`
	Code      string      `json:"code"`
	RequestID string      `json:"request_id,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

// OK writes a 200 with body as-is.
func OK(ctx *gin.Context, body any) {
	ctx.JSON(http.StatusOK, body)
}

func Error(ctx *gin.Context, status int, code apperror.Kind, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, ErrorBody{
		Success:   false,
		Error:     message,
		Code:      string(code),
		RequestID: ctx.GetString(CtxRequestIDKey),
		Details:   details,
	})
}

// Abort is Error for middleware: the handler chain stops here.
func Abort(ctx *gin.Context, status int, code apperror.Kind, message string) {
	Error(ctx, status, code, message, nil)
	ctx.Abort()
}

// Option adjusts how FromError maps an error.
type Option func(map[apperror.Kind]int)

// WithStatus overrides the status used for kind.
func WithStatus(kind apperror.Kind, status int) Option {
	return func(m map[apperror.Kind]int) { m[kind] = status }
}

var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation:       http.StatusBadRequest,
	apperror.KindConflict:         http.StatusBadRequest,
	apperror.KindInvalidOrExpired: http.StatusBadRequest,
	apperror.KindNotFound:         http.StatusNotFound,
	apperror.KindTooManyAttempts:  http.StatusTooManyRequests,
	apperror.KindUnauthorized:     http.StatusUnauthorized,
	apperror.KindDelivery:         http.StatusInternalServerError,
	apperror.KindStorage:          http.StatusInternalServerError,
	apperror.KindConfiguration:    http.StatusInternalServerError,
}

const genericMessage = "something went wrong, please try again"

// FromError maps err onto a status and writes the error body. The error is
// also attached to the gin context so the request logger records the cause.
// Infrastructure failures never expose their cause to the caller.
func FromError(ctx *gin.Context, err error, opts ...Option) {
	_ = ctx.Error(err)

	kind := apperror.KindOf(err)
	status, ok := statusByKind[kind]
	if len(opts) > 0 {
		m := map[apperror.Kind]int{}
		for _, o := range opts {
			o(m)
		}
		if s, found := m[kind]; found {
			status, ok = s, true
		}
	}
	if !ok {
		Error(ctx, http.StatusInternalServerError, "internal_error", genericMessage, nil)
		return
	}
	msg := apperror.MessageOf(err, genericMessage)
	if kind == apperror.KindConfiguration || kind == apperror.KindStorage {
		msg = genericMessage
	}
	Error(ctx, status, kind, msg, nil)
}
