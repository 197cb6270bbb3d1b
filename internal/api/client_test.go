// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/riskportal-tui/internal/credstore"
	"github.com/jeranaias/riskportal-tui/internal/rbac"
)

func testUser() *User {
	return &User{ID: 1, Email: "a@b.com", Name: "A", Role: rbac.RoleClient}
}

// newTestClient wires a client against an httptest server with an in-memory
// token store.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *credstore.MemoryTokenStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := credstore.NewMemoryTokenStore()
	client := NewClient(srv.URL, store).WithHTTPClient(srv.Client()).WithMaxRetries(1)
	return client, store
}

// TestClient_BearerHeaderFromStoreAtCallTime is the request-authentication
// contract: the header tracks the store on every call, so clearing the store
// immediately stops authenticated requests.
func TestClient_BearerHeaderFromStoreAtCallTime(t *testing.T) {
	var lastAuth atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastAuth.Store(r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]Policy{})
	})
	client, store := newTestClient(t, handler)

	require.NoError(t, store.Set("t1"))
	_, err := client.Policies(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer t1", lastAuth.Load())

	require.NoError(t, store.Clear())
	_, err = client.Policies(context.Background())
	require.NoError(t, err)
	require.Equal(t, "", lastAuth.Load())
}

func TestClient_RequestIDHeaderPresent(t *testing.T) {
	var requestID atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID.Store(r.Header.Get("X-Request-Id"))
		_ = json.NewEncoder(w).Encode([]Claim{})
	})
	client, _ := newTestClient(t, handler)

	_, err := client.Claims(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, requestID.Load())
}

func TestClient_Verify_NoCredentialSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	client, _ := newTestClient(t, handler)

	_, err := client.Verify(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)
	require.Zero(t, calls.Load())
}

func TestClient_Verify_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, verifyPath, r.URL.Path)
		require.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(verifyResponse{User: testUser()})
	})
	client, store := newTestClient(t, handler)
	require.NoError(t, store.Set("t1"))

	user, err := client.Verify(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a@b.com", user.Email)
	require.Equal(t, rbac.RoleClient, user.Role)
}

func TestClient_Verify_RejectedToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Token verlopen"})
	})
	client, store := newTestClient(t, handler)
	require.NoError(t, store.Set("stale"))

	_, err := client.Verify(context.Background())
	require.ErrorIs(t, err, ErrVerificationRejected)
}

// TestClient_Verify_MalformedUser verifies a 2xx response with a hollow user
// payload is still a rejection, per the identity contract.
func TestClient_Verify_MalformedUser(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing user field", body: `{}`},
		{name: "empty user", body: `{"user":{}}`},
		{name: "invalid role", body: `{"user":{"id":1,"email":"a@b.com","role":"root"}}`},
		{name: "missing email", body: `{"user":{"id":1,"role":"client"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})
			client, store := newTestClient(t, handler)
			require.NoError(t, store.Set("t1"))

			_, err := client.Verify(context.Background())
			require.ErrorIs(t, err, ErrVerificationRejected)
		})
	}
}

func TestClient_Verify_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // Portal is down.

	store := credstore.NewMemoryTokenStore()
	require.NoError(t, store.Set("t1"))
	client := NewClient(url, store).WithMaxRetries(1)

	_, err := client.Verify(context.Background())
	require.ErrorIs(t, err, ErrTransportFailure)
}

func TestClient_Login_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, loginPath, r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		// Login must never carry a stale bearer header requirement; decode body.
		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@b.com", req.Email)
		require.Equal(t, "x", req.Password)
		_ = json.NewEncoder(w).Encode(loginResponse{Token: "t1", User: testUser()})
	})
	client, _ := newTestClient(t, handler)

	result, err := client.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	require.True(t, result.OK)
	require.Equal(t, "t1", result.Token)
	require.Equal(t, 1, result.User.ID)
}

func TestClient_Login_RejectedCredentials(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Ongeldige inloggegevens"})
	})
	client, _ := newTestClient(t, handler)

	result, err := client.Login(context.Background(), "a@b.com", "wrong")
	require.NoError(t, err) // Expected rejection is not an error.
	require.False(t, result.OK)
	require.Equal(t, "Ongeldige inloggegevens", result.Message)
}

func TestClient_Login_TransportFailureHasFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, credstore.NewMemoryTokenStore()).WithMaxRetries(1)

	result, err := client.Login(context.Background(), "a@b.com", "x")
	require.Error(t, err)
	require.False(t, result.OK)
	require.NotEmpty(t, result.Message)
}

func TestClient_GetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode([]Policy{{ID: 7, Coverage: "Auto"}})
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, credstore.NewMemoryTokenStore()).
		WithHTTPClient(srv.Client()).
		WithMaxRetries(3)

	policies, err := client.Policies(context.Background())
	require.NoError(t, err)
	require.Len(t, policies, 1)
	require.Equal(t, int32(2), calls.Load())
}

func TestClient_MutationsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	client, _ := newTestClient(t, handler)

	err := client.SendContactMessage(context.Background(), ContactMessage{
		Name: "A", Email: "a@b.com", Message: "hallo",
	})
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestClient_TokenFingerprintNeverRevealsToken(t *testing.T) {
	store := credstore.NewMemoryTokenStore()
	client := NewClient(DefaultBaseURL, store)

	require.Equal(t, "none", client.TokenFingerprint())

	require.NoError(t, store.Set("super-secret-token"))
	fp := client.TokenFingerprint()
	require.Len(t, fp, 8)
	require.NotContains(t, "super-secret-token", fp)
}
