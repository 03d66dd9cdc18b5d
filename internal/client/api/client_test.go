package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	"github.com/aeonark/aeonark-labs/pkg/apperror"
)

func TestVerifyCodeSendsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/verify-otp" || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["email"] != "a@example.com" || in["code"] != "123456" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"token":"tok","user":{"id":"u1","email":"a@example.com","fullName":"","isOnboarded":false}}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL+"/").VerifyCode(context.Background(), "a@example.com", "123456")
	require.NoError(t, err)
	require.Equal(t, "tok", res.Token)
	require.Equal(t, "u1", res.User.ID)
}

func TestErrorsCarryServerKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"error":"email already registered, use login instead","code":"conflict","request_id":"rid"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).RequestCode(context.Background(), "signup", "a@example.com")
	require.ErrorIs(t, err, apperror.ErrConflict)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "rid", apiErr.RequestID)
	require.Equal(t, "email already registered, use login instead", apperror.MessageOf(err, ""))
}

func TestNonJSONErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream gone", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Me(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Bad Gateway", apiErr.Err.Message)
}

func TestBearerAndCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"missing bearer token","code":"unauthorized"}`))
			return
		}
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"cartItem":null}`))
			return
		}
		var in Cart
		_ = json.NewDecoder(r.Body).Decode(&in)
		in.PlanName, in.Total = "Starter Site", 999
		_ = json.NewEncoder(w).Encode(map[string]any{"cartItem": in})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Cart(context.Background())
	require.ErrorIs(t, err, apperror.ErrUnauthorized)

	c.Token = "tok"
	cart, err := c.Cart(context.Background())
	require.NoError(t, err)
	require.Nil(t, cart)

	cart, err = c.SaveCart(context.Background(), Cart{PlanType: "starter", AddOns: []entity.AddOn{}})
	require.NoError(t, err)
	require.Equal(t, 999, cart.Total)
}
