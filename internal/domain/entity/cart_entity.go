package entity

import "time"

// PlanType is one of the published pricing tiers.
type PlanType string

const (
	PlanStarter PlanType = "starter"
	PlanGrowth  PlanType = "growth"
	PlanScale   PlanType = "scale"
)

// Plan is a catalog entry.
type Plan struct {
	Type  PlanType
	Name  string
	Price int
}

var plans = map[PlanType]Plan{
	PlanStarter: {Type: PlanStarter, Name: "Starter Site", Price: 999},
	PlanGrowth:  {Type: PlanGrowth, Name: "Growth Bundle", Price: 2999},
	PlanScale:   {Type: PlanScale, Name: "Scale Forge", Price: 4999},
}

// LookupPlan returns the catalog entry for t.
func LookupPlan(t PlanType) (Plan, bool) {
	p, ok := plans[t]
	return p, ok
}

// AddOn is an optional extra attached to a plan selection.
type AddOn struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Selected    bool   `json:"selected"`
}

// AddOnCatalog lists the add-ons offered on the pricing page.
func AddOnCatalog() []AddOn {
	return []AddOn{
		{ID: "ai-chatbot", Name: "AI Chatbot Integration", Description: "Smart AI assistant for customer support", Price: 299},
		{ID: "mobile-app", Name: "Mobile App Wrapper", Description: "iOS and Android app versions", Price: 499},
		{ID: "maintenance", Name: "Premium Maintenance", Description: "Monthly updates and security patches", Price: 199},
	}
}

// CartItem is the one cart row a user may own.
type CartItem struct {
	ID        int64
	UserID    string
	PlanType  PlanType
	PlanName  string
	AddOns    []AddOn
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Total is the plan price plus every selected add-on.
func (c *CartItem) Total() int {
	total := 0
	if p, ok := LookupPlan(c.PlanType); ok {
		total = p.Price
	}
	for _, a := range c.AddOns {
		if a.Selected {
			total += a.Price
		}
	}
	return total
}
