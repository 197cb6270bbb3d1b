// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package route

import (
	"github.com/jeranaias/riskportal-tui/internal/session"
)

// =============================================================================
// GUARD DECISIONS
// =============================================================================

// Decision is the guard's verdict for a navigation attempt. Exactly one of
// these applies to every (requirement, session) pair.
type Decision int

const (
	// Render draws the requested view.
	Render Decision = iota
	// RedirectLogin sends the user to the login view.
	RedirectLogin
	// RedirectDefault sends an authenticated but under-privileged user to
	// the default view. A routing outcome, not an error.
	RedirectDefault
	// Suspend renders neither the view nor a redirect: verification is
	// still in flight and a neutral waiting indicator is shown instead.
	// Prevents both the flash of an unauthorized view and a spurious
	// redirect during the verification window.
	Suspend
)

// String returns a string representation of the Decision.
func (d Decision) String() string {
	switch d {
	case Render:
		return "RENDER"
	case RedirectLogin:
		return "REDIRECT_LOGIN"
	case RedirectDefault:
		return "REDIRECT_DEFAULT"
	case Suspend:
		return "SUSPEND"
	default:
		return "UNKNOWN"
	}
}

// =============================================================================
// GUARD
// =============================================================================

// Decide gates one navigation attempt.
//
// Rules, in order:
//  1. Open routes always render.
//  2. While the session is loading, suspend - the user state is not
//     authoritative yet.
//  3. Unauthenticated users are redirected to login. This check runs before
//     the role check: an unauthenticated user aiming at an admin view goes
//     to login, not to the default view.
//  4. Authenticated users missing a required role are redirected to the
//     default view.
func Decide(req Requirement, snap session.Snapshot) Decision {
	if req.Kind == RequireNone {
		return Render
	}

	if snap.Loading {
		return Suspend
	}

	if !snap.Authenticated() {
		return RedirectLogin
	}

	if req.Kind == RequireRoles && !req.Roles.Contains(snap.User.Role) {
		return RedirectDefault
	}

	return Render
}
