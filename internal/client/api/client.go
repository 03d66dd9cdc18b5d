// Package api is a small client for the lead funnel HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
)

// Error is a non-2xx response. It unwraps to an *apperror.Error carrying the
// server's code, so errors.Is(err, apperror.ErrConflict) works on the client.
type Error struct {
	Status    int
	RequestID string
	Err       *apperror.Error
}

func (e *Error) Error() string {
	return fmt.Sprintf("api %d: %s", e.Status, e.Err.Message)
}

func (e *Error) Unwrap() error { return e.Err }

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Company     string `json:"company,omitempty"`
	PrimaryGoal string `json:"primaryGoal,omitempty"`
	BuildGoal   string `json:"buildGoal,omitempty"`
	IsOnboarded bool   `json:"isOnboarded"`
}

type CheckEmailResult struct {
	Exists      bool `json:"exists"`
	IsOnboarded bool `json:"isOnboarded"`
}

type CodeRequestResult struct {
	Success     bool   `json:"success"`
	Mode        string `json:"mode"`
	IsOnboarded bool   `json:"isOnboarded"`
}

type VerifyResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type Onboarding struct {
	FullName    string `json:"fullName"`
	Company     string `json:"company,omitempty"`
	PrimaryGoal string `json:"primaryGoal"`
	BuildGoal   string `json:"buildGoal"`
}

type Cart struct {
	PlanType string         `json:"planType"`
	PlanName string         `json:"planName,omitempty"`
	AddOns   []entity.AddOn `json:"addOns"`
	Total    int            `json:"total,omitempty"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Token is sent as a bearer credential when set.
	Token string
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *Client) CheckEmail(ctx context.Context, email string) (CheckEmailResult, error) {
	var out CheckEmailResult
	err := c.do(ctx, http.MethodPost, "/api/auth/check-email", map[string]string{"email": email}, &out)
	return out, err
}

// RequestCode asks for a code in mode "signup" or "login".
func (c *Client) RequestCode(ctx context.Context, mode, email string) (CodeRequestResult, error) {
	var out CodeRequestResult
	err := c.do(ctx, http.MethodPost, "/api/auth/"+mode, map[string]string{"email": email}, &out)
	return out, err
}

func (c *Client) VerifyCode(ctx context.Context, email, code string) (VerifyResult, error) {
	var out VerifyResult
	err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": email, "code": code}, &out)
	return out, err
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/api/user", nil, &out)
	return out.User, err
}

func (c *Client) Onboard(ctx context.Context, in Onboarding) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/onboarding", in, &out)
	return out.User, err
}

// Cart returns the saved cart, or nil when there is none.
func (c *Client) Cart(ctx context.Context) (*Cart, error) {
	var out struct {
		CartItem *Cart `json:"cartItem"`
	}
	err := c.do(ctx, http.MethodGet, "/api/cart", nil, &out)
	return out.CartItem, err
}

func (c *Client) SaveCart(ctx context.Context, in Cart) (*Cart, error) {
	var out struct {
		CartItem *Cart `json:"cartItem"`
	}
	err := c.do(ctx, http.MethodPost, "/api/cart", in, &out)
	return out.CartItem, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= 300 {
		return decodeError(res)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(res *http.Response) error {
	var body struct {
		Error     string `json:"error"`
		Code      string `json:"code"`
		RequestID string `json:"request_id"`
	}
	_ = json.NewDecoder(io.LimitReader(res.Body, 1<<16)).Decode(&body)
	if body.Error == "" {
		body.Error = http.StatusText(res.StatusCode)
	}
	return &Error{
		Status:    res.StatusCode,
		RequestID: body.RequestID,
		Err:       apperror.New(apperror.Kind(body.Code), body.Error),
	}
}
