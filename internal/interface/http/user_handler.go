package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/internal/application"
	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
	"github.com/aeonark/aeonark-labs/pkg/response"
	"github.com/aeonark/aeonark-labs/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type userView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	Company     string    `json:"company"`
	PrimaryGoal string    `json:"primaryGoal"`
	BuildGoal   string    `json:"buildGoal"`
	IsOnboarded bool      `json:"isOnboarded"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newUserView(u *entity.User) userView {
	return userView{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Company:     u.Company,
		PrimaryGoal: string(u.PrimaryGoal),
		BuildGoal:   u.BuildGoal,
		IsOnboarded: u.IsOnboarded,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type onboardingRequest struct {
	FullName    string `json:"fullName" binding:"required,min=2"`
	Company     string `json:"company"`
	PrimaryGoal string `json:"primaryGoal" binding:"required,primarygoal"`
	BuildGoal   string `json:"buildGoal" binding:"required,min=10"`
}

func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"user": newUserView(u)})
}

func (h *UserHandler) CompleteOnboarding(c *gin.Context) {
	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.KindValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.CompleteOnboarding(c.Request.Context(), currentUserID(c), entity.Onboarding{
		FullName:    req.FullName,
		Company:     req.Company,
		PrimaryGoal: entity.PrimaryGoal(req.PrimaryGoal),
		BuildGoal:   req.BuildGoal,
	}, requestMeta(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"user": newUserView(u)})
}

// SearchLeads is the operator view over indexed leads: GET /leads/search?q=&size=
func (h *UserHandler) SearchLeads(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, apperror.KindValidation, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	leads, err := h.Svc.SearchLeads(c.Request.Context(), q, size)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"leads": leads, "count": len(leads)})
}
