// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/riskportal-tui/internal/api"
	"github.com/jeranaias/riskportal-tui/internal/credstore"
	"github.com/jeranaias/riskportal-tui/internal/rbac"
)

// stubPortal is a scriptable Authenticator.
type stubPortal struct {
	verifyFn    func(ctx context.Context) (*api.User, error)
	loginFn     func(ctx context.Context, email, password string) (api.LoginResult, error)
	verifyCalls atomic.Int32
}

func (s *stubPortal) Verify(ctx context.Context) (*api.User, error) {
	s.verifyCalls.Add(1)
	return s.verifyFn(ctx)
}

func (s *stubPortal) Login(ctx context.Context, email, password string) (api.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func clientUser() *api.User {
	return &api.User{ID: 1, Email: "a@b.com", Name: "A", Role: rbac.RoleClient}
}

func TestStart_AcceptedCredential(t *testing.T) {
	tokens := credstore.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("t1"))

	portal := &stubPortal{
		verifyFn: func(ctx context.Context) (*api.User, error) {
			return clientUser(), nil
		},
	}
	m := NewManager(portal, tokens)

	snap := m.Start(context.Background())

	require.False(t, snap.Loading)
	require.True(t, snap.Authenticated())
	require.Equal(t, rbac.RoleClient, snap.User.Role)
	require.Equal(t, StateAuthenticated, m.State())
}

func TestStart_RejectedCredentialClearsStore(t *testing.T) {
	tokens := credstore.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("stale"))

	portal := &stubPortal{
		verifyFn: func(ctx context.Context) (*api.User, error) {
			return nil, api.ErrVerificationRejected
		},
	}
	m := NewManager(portal, tokens)

	snap := m.Start(context.Background())

	require.False(t, snap.Loading)
	require.False(t, snap.Authenticated())
	_, ok := tokens.Get()
	require.False(t, ok, "rejected token must be removed from the store")
}

// TestStart_TransportFailureSameAsRejected: during startup the transport /
// rejection distinction is not surfaced - both collapse to a clean
// unauthenticated state.
func TestStart_TransportFailureSameAsRejected(t *testing.T) {
	tokens := credstore.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("t1"))

	portal := &stubPortal{
		verifyFn: func(ctx context.Context) (*api.User, error) {
			return nil, api.ErrTransportFailure
		},
	}
	m := NewManager(portal, tokens)

	snap := m.Start(context.Background())

	require.False(t, snap.Authenticated())
	require.False(t, snap.Loading)
	_, ok := tokens.Get()
	require.False(t, ok)
}

func TestStart_NoCredentialSkipsVerification(t *testing.T) {
	portal := &stubPortal{
		verifyFn: func(ctx context.Context) (*api.User, error) {
			return clientUser(), nil
		},
	}
	m := NewManager(portal, credstore.NewMemoryTokenStore())

	snap := m.Start(context.Background())

	require.False(t, snap.Loading)
	require.False(t, snap.Authenticated())
	require.Zero(t, portal.verifyCalls.Load(), "no network call without a credential")
}

// TestStart_VerifiesExactlyOnce: one verification attempt per process
// lifetime, repeat Starts are no-ops.
func TestStart_VerifiesExactlyOnce(t *testing.T) {
	tokens := credstore.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("t1"))

	portal := &stubPortal{
		verifyFn: func(ctx context.Context) (*api.User, error) {
			return clientUser(), nil
		},
	}
	m := NewManager(portal, tokens)

	m.Start(context.Background())
	m.Start(context.Background())
	m.Start(context.Background())

	require.Equal(t, int32(1), portal.verifyCalls.Load())
}

// TestLogoutDuringVerification is the ordering property: a verification
// response arriving after a logout must not resurrect the user, even when it
// indicates success.
func TestLogoutDuringVerification(t *testing.T) {
	tokens := credstore.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("t1"))

	verifyStarted := make(chan struct{})
	releaseVerify := make(chan struct{})
	portal := &stubPortal{
		verifyFn: func(ctx context.Context) (*api.User, error) {
			close(verifyStarted)
			<-releaseVerify
			return clientUser(), nil // Success - but it must be dropped.
		},
	}
	m := NewManager(portal, tokens)

	done := make(chan Snapshot, 1)
	go func() {
		done <- m.Start(context.Background())
	}()

	<-verifyStarted
	require.True(t, m.Snapshot().Loading)

	m.Logout()
	close(releaseVerify)

	snap := <-done
	require.False(t, snap.Authenticated(), "stale verification must not win over logout")
	require.Equal(t, StateUnauthenticated, m.State())
	_, ok := tokens.Get()
	require.False(t, ok)
}

func TestLogin_SuccessPersistsToken(t *testing.T) {
	tokens := credstore.NewMemoryTokenStore()
	portal := &stubPortal{
		loginFn: func(ctx context.Context, email, password string) (api.LoginResult, error) {
			require.Equal(t, "a@b.com", email)
			require.Equal(t, "x", password)
			return api.LoginResult{OK: true, Token: "t1", User: clientUser()}, nil
		},
	}
	m := NewManager(portal, tokens)
	m.Start(context.Background()) // No credential: settles Unauthenticated.

	result := m.Login(context.Background(), "a@b.com", "x")

	require.True(t, result.OK)
	require.Equal(t, StateAuthenticated, m.State())
	token, ok := tokens.Get()
	require.True(t, ok)
	require.Equal(t, "t1", token)
}

func TestLogin_RejectedLeavesNoSession(t *testing.T) {
	tokens := credstore.NewMemoryTokenStore()
	portal := &stubPortal{
		loginFn: func(ctx context.Context, email, password string) (api.LoginResult, error) {
			return api.LoginResult{OK: false, Message: "Ongeldige inloggegevens"}, nil
		},
	}
	m := NewManager(portal, tokens)
	m.Start(context.Background())

	result := m.Login(context.Background(), "a@b.com", "wrong")

	require.False(t, result.OK)
	require.Equal(t, "Ongeldige inloggegevens", result.Message)
	require.Equal(t, StateUnauthenticated, m.State())
	_, ok := tokens.Get()
	require.False(t, ok, "no credential may be persisted on rejection")
}

func TestLogin_WhileVerifyingIsRefused(t *testing.T) {
	tokens := credstore.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("t1"))

	verifyStarted := make(chan struct{})
	releaseVerify := make(chan struct{})
	portal := &stubPortal{
		verifyFn: func(ctx context.Context) (*api.User, error) {
			close(verifyStarted)
			<-releaseVerify
			return clientUser(), nil
		},
		loginFn: func(ctx context.Context, email, password string) (api.LoginResult, error) {
			t.Fatal("login must not reach the portal while verifying")
			return api.LoginResult{}, nil
		},
	}
	m := NewManager(portal, tokens)

	go m.Start(context.Background())
	<-verifyStarted

	result := m.Login(context.Background(), "a@b.com", "x")
	require.False(t, result.OK)

	close(releaseVerify)
}

func TestLogout_IdempotentFromAnyState(t *testing.T) {
	tokens := credstore.NewMemoryTokenStore()
	portal := &stubPortal{
		verifyFn: func(ctx context.Context) (*api.User, error) {
			return clientUser(), nil
		},
	}
	m := NewManager(portal, tokens)

	// Before Start.
	m.Logout()
	require.Equal(t, StateUnauthenticated, m.State())

	// Again, with nothing to clear.
	m.Logout()
	m.Logout()
	require.Equal(t, StateUnauthenticated, m.State())
	_, ok := tokens.Get()
	require.False(t, ok)
}

func TestLogout_AfterAuthentication(t *testing.T) {
	tokens := credstore.NewMemoryTokenStore()
	require.NoError(t, tokens.Set("t1"))
	portal := &stubPortal{
		verifyFn: func(ctx context.Context) (*api.User, error) {
			return clientUser(), nil
		},
	}
	m := NewManager(portal, tokens)
	m.Start(context.Background())
	require.Equal(t, StateAuthenticated, m.State())

	m.Logout()

	require.Equal(t, StateUnauthenticated, m.State())
	require.Nil(t, m.Snapshot().User)
	_, ok := tokens.Get()
	require.False(t, ok)
}

// TestSnapshot_ConcurrentAccess exercises snapshot reads against state
// transitions. Run with: go test -race ./internal/session/
func TestSnapshot_ConcurrentAccess(t *testing.T) {
	tokens := credstore.NewMemoryTokenStore()
	portal := &stubPortal{
		verifyFn: func(ctx context.Context) (*api.User, error) {
			return clientUser(), nil
		},
		loginFn: func(ctx context.Context, email, password string) (api.LoginResult, error) {
			return api.LoginResult{OK: true, Token: "t1", User: clientUser()}, nil
		},
	}
	m := NewManager(portal, tokens)
	m.Start(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.Snapshot()
			_ = m.State()
		}()
		go func() {
			defer wg.Done()
			m.Login(context.Background(), "a@b.com", "x")
			m.Logout()
		}()
	}
	wg.Wait()
}

// TestEndToEnd_LoginThenAuthenticatedRequest runs the full loop against a
// fake portal: login persists "t1" and the next resource fetch carries
// "Authorization: Bearer t1".
func TestEndToEnd_LoginThenAuthenticatedRequest(t *testing.T) {
	var lastAuth atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email != "a@b.com" || req.Password != "x" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Ongeldige inloggegevens"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "t1",
			"user":  map[string]any{"id": 1, "email": "a@b.com", "name": "A", "role": "client"},
		})
	})
	mux.HandleFunc("/api/policies", func(w http.ResponseWriter, r *http.Request) {
		lastAuth.Store(r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]api.Policy{})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	tokens := credstore.NewMemoryTokenStore()
	client := api.NewClient(srv.URL, tokens).WithHTTPClient(srv.Client())
	m := NewManager(client, tokens)

	m.Start(context.Background())
	result := m.Login(context.Background(), "a@b.com", "x")
	require.True(t, result.OK)

	_, err := client.Policies(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer t1", lastAuth.Load())

	// Logout stops authenticated calls immediately.
	m.Logout()
	_, err = client.Policies(context.Background())
	require.NoError(t, err)
	require.Equal(t, "", lastAuth.Load())
}
