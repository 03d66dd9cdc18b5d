package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/internal/application"
	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
	"github.com/aeonark/aeonark-labs/pkg/response"
	"github.com/aeonark/aeonark-labs/pkg/validation"
)

type CartHandler struct {
	Svc    *application.CartService
	Logger *logrus.Logger
}

func NewCartHandler(svc *application.CartService, logger *logrus.Logger) *CartHandler {
	return &CartHandler{Svc: svc, Logger: logger}
}

type cartView struct {
	ID        int64          `json:"id"`
	UserID    string         `json:"userId"`
	PlanType  string         `json:"planType"`
	PlanName  string         `json:"planName"`
	AddOns    []entity.AddOn `json:"addOns"`
	Total     int            `json:"total"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func newCartView(c *entity.CartItem) *cartView {
	if c == nil {
		return nil
	}
	addOns := c.AddOns
	if addOns == nil {
		addOns = []entity.AddOn{}
	}
	return &cartView{
		ID:        c.ID,
		UserID:    c.UserID,
		PlanType:  string(c.PlanType),
		PlanName:  c.PlanName,
		AddOns:    addOns,
		Total:     c.Total(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type addOnRequest struct {
	ID          string `json:"id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int    `json:"price" binding:"gte=0"`
	Selected    bool   `json:"selected"`
}

type cartRequest struct {
	PlanType string         `json:"planType" binding:"required,plantype"`
	PlanName string         `json:"planName"`
	AddOns   []addOnRequest `json:"addOns" binding:"omitempty,dive"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	item, err := h.Svc.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"cartItem": newCartView(item)})
}

func (h *CartHandler) SaveCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.KindValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	in := application.CartInput{PlanType: entity.PlanType(req.PlanType), PlanName: req.PlanName}
	for _, a := range req.AddOns {
		in.AddOns = append(in.AddOns, entity.AddOn{
			ID: a.ID, Name: a.Name, Description: a.Description, Price: a.Price, Selected: a.Selected,
		})
	}
	item, err := h.Svc.Save(c.Request.Context(), currentUserID(c), in, requestMeta(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"cartItem": newCartView(item)})
}
