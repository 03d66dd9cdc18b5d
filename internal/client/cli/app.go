// Package cli is the terminal client for the lead funnel: sign in with an
// emailed code, complete onboarding and pick a plan.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/aeonark/aeonark-labs/internal/client/api"
	"github.com/aeonark/aeonark-labs/internal/client/sessioncache"
)

// readSecret is a seam for term.ReadPassword.
var readSecret = term.ReadPassword

// ErrNotSignedIn is returned by commands that need a stored session.
var ErrNotSignedIn = errors.New("not signed in, run login or signup first")

type App struct {
	API    *api.Client
	Cache  *sessioncache.Cache
	In     *bufio.Reader
	Out    io.Writer
	Logger *logrus.Logger

	// ReadCode reads the emailed code. Defaults to a no-echo terminal read,
	// or a plain line when stdin is not a terminal.
	ReadCode func() (string, error)
}

func NewApp(client *api.Client, cache *sessioncache.Cache, logger *logrus.Logger) *App {
	a := &App{
		API:    client,
		Cache:  cache,
		In:     bufio.NewReader(os.Stdin),
		Out:    os.Stdout,
		Logger: logger,
	}
	a.ReadCode = a.readCodeFromStdin
	return a
}

const usage = `usage: aeonark <command>

commands:
  signup          create an account with an emailed code
  login           sign in with an emailed code
  whoami          show the signed-in user
  onboard         answer the onboarding questions
  cart            show the saved plan
  cart set PLAN [ADDON...]
                  save a plan (starter, growth, scale) with optional add-on ids
  logout          forget the stored session
`

// Run executes one command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.Out, usage)
		return nil
	}
	switch args[0] {
	case "signup":
		return a.SignIn(ctx, "signup")
	case "login":
		return a.SignIn(ctx, "login")
	case "whoami":
		return a.WhoAmI(ctx)
	case "onboard":
		return a.Onboard(ctx)
	case "cart":
		if len(args) > 2 && args[1] == "set" {
			return a.SetCart(ctx, args[2], args[3:])
		}
		if len(args) > 1 {
			return fmt.Errorf("unknown cart command %q", strings.Join(args[1:], " "))
		}
		return a.ShowCart(ctx)
	case "logout":
		a.Cache.Clear()
		fmt.Fprintln(a.Out, "Signed out.")
		return nil
	case "help", "-h", "--help":
		fmt.Fprint(a.Out, usage)
		return nil
	default:
		fmt.Fprint(a.Out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// prompt prints label and reads one trimmed line.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprintf(a.Out, "%s\n> ", label)
	line, err := a.In.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) readCodeFromStdin() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return a.prompt("Enter the 6-digit code from your email")
	}
	fmt.Fprint(a.Out, "Enter the 6-digit code from your email: ")
	b, err := readSecret(fd)
	fmt.Fprintln(a.Out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// authed returns the API client carrying the stored token.
func (a *App) authed() (*api.Client, error) {
	token := a.Cache.Token()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	c := *a.API
	c.Token = token
	return &c, nil
}
