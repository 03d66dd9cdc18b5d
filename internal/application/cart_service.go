package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	repo "github.com/aeonark/aeonark-labs/internal/domain/repository"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
)

type CartService struct {
	Carts  repo.CartRepository
	Users  repo.UserRepository
	Leads  *LeadForwarder
	Logger *logrus.Logger
}

func NewCartService(carts repo.CartRepository, users repo.UserRepository, leads *LeadForwarder, logger *logrus.Logger) *CartService {
	return &CartService{Carts: carts, Users: users, Leads: leads, Logger: logger}
}

type CartInput struct {
	PlanType entity.PlanType
	PlanName string
	AddOns   []entity.AddOn
}

// Get returns the user's cart, or nil when there is none yet.
func (s *CartService) Get(ctx context.Context, userID string) (*entity.CartItem, error) {
	c, err := s.Carts.GetByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return c, nil
}

// Save creates or overwrites the user's single cart row.
func (s *CartService) Save(ctx context.Context, userID string, in CartInput, meta RequestMeta) (*entity.CartItem, error) {
	item, err := buildCart(userID, in)
	if err != nil {
		return nil, err
	}
	if err := s.Carts.Upsert(ctx, item); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Storage(err)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "plan": item.PlanType}).Info("cart saved")

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("cart lead not forwarded")
		return item, nil
	}
	s.Leads.CartSaved(ctx, u, item, meta)
	return item, nil
}

func buildCart(userID string, in CartInput) (*entity.CartItem, error) {
	plan, ok := entity.LookupPlan(in.PlanType)
	if !ok {
		return nil, apperror.Validation("plan type must be one of: starter, growth, scale")
	}
	name := strings.TrimSpace(in.PlanName)
	if name == "" {
		name = plan.Name
	}
	seen := make(map[string]bool, len(in.AddOns))
	addOns := make([]entity.AddOn, 0, len(in.AddOns))
	for _, a := range in.AddOns {
		a.ID = strings.TrimSpace(a.ID)
		a.Name = strings.TrimSpace(a.Name)
		if a.ID == "" || a.Name == "" {
			return nil, apperror.Validation("every add-on needs an id and a name")
		}
		if a.Price < 0 {
			return nil, apperror.Validation("add-on price must not be negative")
		}
		if seen[a.ID] {
			return nil, apperror.Validation("duplicate add-on " + a.ID)
		}
		seen[a.ID] = true
		addOns = append(addOns, a)
	}
	return &entity.CartItem{UserID: userID, PlanType: plan.Type, PlanName: name, AddOns: addOns}, nil
}
