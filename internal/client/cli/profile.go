package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aeonark/aeonark-labs/internal/client/api"
	"github.com/aeonark/aeonark-labs/internal/domain/entity"
)

func (a *App) Onboard(ctx context.Context) error {
	c, err := a.authed()
	if err != nil {
		return err
	}
	var in api.Onboarding
	if in.FullName, err = a.prompt("Full name"); err != nil {
		return err
	}
	if in.Company, err = a.prompt("Company (optional)"); err != nil {
		return err
	}

	var choices strings.Builder
	for i, g := range entity.PrimaryGoals {
		fmt.Fprintf(&choices, "\n  %d) %s", i+1, g)
	}
	answer, err := a.prompt("What do you want to build first?" + choices.String())
	if err != nil {
		return err
	}
	in.PrimaryGoal = answer
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(entity.PrimaryGoals) {
		in.PrimaryGoal = string(entity.PrimaryGoals[n-1])
	}

	if in.BuildGoal, err = a.prompt("Describe it in a sentence or two"); err != nil {
		return err
	}

	u, err := c.Onboard(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Thanks %s, you're all set.\n", u.FullName)
	return nil
}

func (a *App) ShowCart(ctx context.Context) error {
	c, err := a.authed()
	if err != nil {
		return err
	}
	cart, err := c.Cart(ctx)
	if err != nil {
		return err
	}
	if cart == nil {
		fmt.Fprintln(a.Out, "No plan selected yet.")
		return nil
	}
	a.printCart(cart)
	return nil
}

// SetCart saves plan with the catalog add-ons named by addOnIDs selected.
func (a *App) SetCart(ctx context.Context, plan string, addOnIDs []string) error {
	c, err := a.authed()
	if err != nil {
		return err
	}
	want := make(map[string]bool, len(addOnIDs))
	for _, id := range addOnIDs {
		want[id] = true
	}
	addOns := entity.AddOnCatalog()
	for i := range addOns {
		if want[addOns[i].ID] {
			addOns[i].Selected = true
			delete(want, addOns[i].ID)
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for id := range want {
			unknown = append(unknown, id)
		}
		sort.Strings(unknown)
		return fmt.Errorf("unknown add-on %s", strings.Join(unknown, ", "))
	}

	cart, err := c.SaveCart(ctx, api.Cart{PlanType: plan, AddOns: addOns})
	if err != nil {
		return err
	}
	a.printCart(cart)
	return nil
}

func (a *App) printCart(cart *api.Cart) {
	fmt.Fprintf(a.Out, "Plan: %s (%s)\n", cart.PlanName, cart.PlanType)
	for _, ad := range cart.AddOns {
		if ad.Selected {
			fmt.Fprintf(a.Out, "  + %s ₹%d\n", ad.Name, ad.Price)
		}
	}
	fmt.Fprintf(a.Out, "Total: ₹%d\n", cart.Total)
}
