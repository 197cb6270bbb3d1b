// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the portal authentication state machine.
//
// States: Initializing -> Verifying -> Authenticated | Unauthenticated.
// Exactly one verification attempt happens per process lifetime, on Start.
// All failure paths resolve to a defined state transition plus a result the
// caller can render - the manager never panics and never leaks an exception
// to the UI loop.
//
// The manager is the single writer of the token store. Readers (the API
// client) consult the store directly and never mutate it.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jeranaias/riskportal-tui/internal/api"
	"github.com/jeranaias/riskportal-tui/internal/credstore"
)

// =============================================================================
// STATE
// =============================================================================

// State represents the session manager's lifecycle state.
type State int

const (
	// StateInitializing is the pre-Start state: nothing is known yet.
	StateInitializing State = iota
	// StateVerifying means a stored token is being checked with the portal.
	StateVerifying
	// StateAuthenticated means the portal confirmed the identity.
	StateAuthenticated
	// StateUnauthenticated means there is no usable session.
	StateUnauthenticated
)

// String returns a string representation of the State.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateVerifying:
		return "VERIFYING"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateUnauthenticated:
		return "UNAUTHENTICATED"
	default:
		return "UNKNOWN"
	}
}

// Snapshot is a read-only projection of the session state, handed to
// consumers (route guard, views) instead of the manager itself.
//
// Loading is true only between credential discovery and verification
// resolution. No consumer may treat User as authoritative while Loading is
// true.
type Snapshot struct {
	User    *api.User
	Loading bool
}

// Authenticated reports whether a verified user is present.
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

// =============================================================================
// AUTHENTICATOR INTERFACE
// =============================================================================

// Authenticator is the portal surface the manager needs. *api.Client
// satisfies it; tests substitute fakes.
type Authenticator interface {
	Verify(ctx context.Context) (*api.User, error)
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager is the owning instance of the session state. One per running
// application; consumers receive Snapshots, not the Manager.
type Manager struct {
	portal Authenticator
	tokens credstore.TokenStore

	mu      sync.RWMutex
	state   State
	user    *api.User
	started bool

	// generation invalidates in-flight async results. Any verification
	// outcome is applied only if its generation still matches, so a logout
	// issued while a verify is pending wins: the stale success is dropped.
	generation uint64
}

// NewManager creates a session manager over the given portal client and
// token store.
func NewManager(portal Authenticator, tokens credstore.TokenStore) *Manager {
	return &Manager{
		portal: portal,
		tokens: tokens,
		state:  StateInitializing,
	}
}

// Snapshot returns the current read-only session projection.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// =============================================================================
// STARTUP VERIFICATION
// =============================================================================

// Start runs the startup credential verification. Called exactly once per
// process; repeat calls are a no-op returning the settled snapshot.
//
// With no stored token the manager goes straight to Unauthenticated without
// a network call. With a token it transitions to Verifying, asks the portal,
// and settles on the answer. Every verification failure - rejected token,
// unreachable portal, malformed payload - collapses to the same safe
// default: token cleared, Unauthenticated, no automatic retry before the
// next process start or an explicit login. The rejection/transport
// distinction is logged but deliberately not surfaced.
//
// Known limitation: no client-side deadline is imposed beyond the HTTP
// client's own timeout. A hung verify call keeps Loading true; callers pass
// a ctx if they need tighter control.
func (m *Manager) Start(ctx context.Context) Snapshot {
	m.mu.Lock()
	if m.started {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap
	}
	m.started = true

	if _, ok := m.tokens.Get(); !ok {
		// NoCredential is the normal unauthenticated state, not a failure.
		m.state = StateUnauthenticated
		snap := m.snapshotLocked()
		m.mu.Unlock()
		logSessionEvent("SESSION_START", "state=unauthenticated reason=no_credential")
		return snap
	}

	m.state = StateVerifying
	generation := m.generation
	m.mu.Unlock()

	logSessionEvent("SESSION_VERIFY_START", "")
	user, err := m.portal.Verify(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Causal-order check: a logout that bumped the generation while the
	// verify was in flight makes this result stale, success or not.
	if m.generation != generation {
		logSessionEvent("SESSION_VERIFY_STALE", "result dropped")
		return m.snapshotLocked()
	}

	if err != nil {
		// Rejected and unreachable collapse to the same transition.
		m.clearLocked()
		logSessionEvent("SESSION_VERIFY_FAILED", fmt.Sprintf("error=%v", err))
		return m.snapshotLocked()
	}

	m.user = user
	m.state = StateAuthenticated
	logSessionEvent("SESSION_VERIFIED", fmt.Sprintf("user_id=%d role=%s", user.ID, user.Role))
	return m.snapshotLocked()
}

// =============================================================================
// LOGIN / LOGOUT
// =============================================================================

// Login submits credentials and, on success, persists the token and installs
// the verified user.
//
// Expected rejections are signalled through LoginResult.OK with the portal's
// message for inline display; they are not errors and nothing is thrown at
// the caller. Transport failures also come back as a failed result with a
// generic message, the cause logged for diagnostics.
func (m *Manager) Login(ctx context.Context, email, password string) api.LoginResult {
	m.mu.RLock()
	state := m.state
	generation := m.generation
	m.mu.RUnlock()
	if state == StateInitializing || state == StateVerifying {
		return api.LoginResult{OK: false, Message: "Een ogenblik geduld..."}
	}

	result, err := m.portal.Login(ctx, email, password)
	if err != nil {
		logSessionEvent("LOGIN_FAILED", fmt.Sprintf("transport error=%v", err))
		return result
	}
	if !result.OK {
		logSessionEvent("LOGIN_REJECTED", "")
		return result
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// A logout racing this login invalidates the result.
	if m.generation != generation {
		logSessionEvent("LOGIN_STALE", "result dropped")
		return api.LoginResult{OK: false, Message: "Sessie is afgebroken, probeer opnieuw."}
	}

	if err := m.tokens.Set(result.Token); err != nil {
		// Without a persisted token the session would split-brain on the
		// next restart; fail the login instead.
		logSessionEvent("LOGIN_FAILED", fmt.Sprintf("token persist error=%v", err))
		return api.LoginResult{OK: false, Message: "Er is een fout opgetreden bij het inloggen."}
	}

	m.user = result.User
	m.state = StateAuthenticated
	logSessionEvent("LOGIN_OK", fmt.Sprintf("user_id=%d role=%s", result.User.ID, result.User.Role))
	return result
}

// Logout clears the session. Synchronous, idempotent, always succeeds:
// logging out without a session is a no-op transition to Unauthenticated.
//
// Bumping the generation here is what makes "later event wins" hold - a
// verification or login response still in flight is dropped when it lands.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	logSessionEvent("LOGOUT", "")
}

// =============================================================================
// INTERNALS
// =============================================================================

// clearLocked resets to Unauthenticated and clears the stored token.
// Callers must hold mu.
func (m *Manager) clearLocked() {
	m.generation++
	m.user = nil
	m.state = StateUnauthenticated
	if err := m.tokens.Clear(); err != nil {
		log.Printf("failed to clear token store: %v", err)
	}
}

// snapshotLocked builds a Snapshot. Callers must hold mu (read or write).
func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		User:    m.user,
		Loading: m.state == StateInitializing || m.state == StateVerifying,
	}
}

// logSessionEvent logs a session event in a grep-friendly single line.
// SECURITY: Never logs credentials or tokens.
func logSessionEvent(eventType, details string) {
	timestamp := time.Now().UTC().Format("2006-01-02 15:04:05 UTC")
	if details == "" {
		log.Printf("%s | %s", timestamp, eventType)
		return
	}
	log.Printf("%s | %s | %s", timestamp, eventType, details)
}
