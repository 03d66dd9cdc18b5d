package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aeonark/aeonark-labs/internal/client/sessioncache"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
)

// SignIn runs the emailed-code flow for mode ("signup" or "login") and stores
// the issued session.
func (a *App) SignIn(ctx context.Context, mode string) error {
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}

	check, err := a.API.CheckEmail(ctx, email)
	if err != nil {
		return err
	}
	switch {
	case mode == "signup" && check.Exists:
		return errors.New("that email already has an account, run login instead")
	case mode == "login" && !check.Exists:
		return errors.New("no account for that email, run signup instead")
	}

	if _, err := a.API.RequestCode(ctx, mode, email); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "We sent a code to %s.\n", email)

	code, err := a.ReadCode()
	if err != nil {
		return err
	}
	res, err := a.API.VerifyCode(ctx, email, code)
	if errors.Is(err, apperror.ErrTooManyAttempts) {
		return errors.New("too many attempts, run the command again for a new code")
	}
	if err != nil {
		return err
	}

	_, err = a.Cache.Store(sessioncache.Session{
		Token: res.Token,
		User: sessioncache.User{
			ID:          res.User.ID,
			Email:       res.User.Email,
			FullName:    res.User.FullName,
			IsOnboarded: res.User.IsOnboarded,
		},
	})
	if err != nil {
		return fmt.Errorf("signed in but could not save the session: %w", err)
	}

	fmt.Fprintf(a.Out, "Signed in as %s.\n", res.User.Email)
	if !res.User.IsOnboarded {
		fmt.Fprintln(a.Out, "Next: run onboard to tell us what you want to build.")
	}
	return nil
}

// WhoAmI prints the signed-in user. A rejected token clears the stored
// session.
func (a *App) WhoAmI(ctx context.Context) error {
	c, err := a.authed()
	if err != nil {
		return err
	}
	u, err := c.Me(ctx)
	if errors.Is(err, apperror.ErrUnauthorized) {
		a.Cache.Clear()
		return errors.New("session expired, please log in again")
	}
	if err != nil {
		return err
	}
	name := u.FullName
	if name == "" {
		name = "(no name yet)"
	}
	fmt.Fprintf(a.Out, "%s <%s>\nonboarded: %t\n", name, u.Email, u.IsOnboarded)
	return nil
}
