package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/internal/application"
	"github.com/aeonark/aeonark-labs/internal/domain/repository"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
	"github.com/aeonark/aeonark-labs/pkg/response"
)

type ContactHandler struct {
	Svc    *application.ContactService
	Logger *logrus.Logger
}

func NewContactHandler(svc *application.ContactService, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{Svc: svc, Logger: logger}
}

// Fields are checked by the service so that every missing field yields the
// same message.
type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *ContactHandler) Send(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.KindValidation, "invalid payload", nil)
		return
	}
	err := h.Svc.Send(c.Request.Context(), application.ContactMessage{
		Name: req.Name, Email: req.Email, Subject: req.Subject, Message: req.Message,
	}, requestMeta(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{
		"success": true,
		"message": "Your message has been sent successfully! We will get back to you soon.",
	})
}

type HealthHandler struct {
	Store repository.Store
}

func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, apperror.KindStorage, "store unavailable", nil)
		return
	}
	response.OK(c, gin.H{"status": "ok", "message": "Aeonark Labs API is up and running!"})
}
