package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/internal/application"
	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
	"github.com/aeonark/aeonark-labs/pkg/response"
	"github.com/aeonark/aeonark-labs/pkg/validation"
)

type AuthHandler struct {
	OTP      *application.OTPService
	Sessions *application.SessionService
	Logger   *logrus.Logger
}

func NewAuthHandler(otp *application.OTPService, sessions *application.SessionService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{OTP: otp, Sessions: sessions, Logger: logger}
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

type verifyRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required,otpcode"`
}

// Mode mismatches are a client-correctable 400, unlike a missing resource.
var modeMismatch = response.WithStatus(apperror.KindNotFound, http.StatusBadRequest)

func (h *AuthHandler) CheckEmail(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.KindValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.OTP.CheckEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, res)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	h.requestCode(c, entity.ModeSignup)
}

func (h *AuthHandler) Login(c *gin.Context) {
	h.requestCode(c, entity.ModeLogin)
}

func (h *AuthHandler) requestCode(c *gin.Context, mode entity.OTPMode) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.KindValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.OTP.RequestCode(c.Request.Context(), req.Email, mode, requestMeta(c))
	if err != nil {
		response.FromError(c, err, modeMismatch)
		return
	}
	body := gin.H{"success": true, "mode": res.Mode}
	if mode == entity.ModeLogin {
		body["isOnboarded"] = res.IsOnboarded
	}
	response.OK(c, body)
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.KindValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	ctx := c.Request.Context()
	if err := h.OTP.VerifyCode(ctx, req.Email, req.Code); err != nil {
		response.FromError(c, err)
		return
	}
	s, err := h.Sessions.IssueSession(ctx, normalizedEmail(req.Email))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true, "token": s.Token, "user": s.User})
}
