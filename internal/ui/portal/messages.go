// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package portal

import (
	"time"

	"github.com/jeranaias/riskportal-tui/internal/api"
	"github.com/jeranaias/riskportal-tui/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// sessionSettledMsg reports that the startup verification resolved, one way
// or the other. Carries the settled snapshot.
type sessionSettledMsg struct {
	snap session.Snapshot
}

// loginResultMsg reports the outcome of a login attempt.
type loginResultMsg struct {
	result api.LoginResult
}

// resourceLoadedMsg carries a fetched (or cache-recovered) view payload.
//
// cached is true when the payload came from the offline cache after a
// transport failure; fetchedAt then holds the cache entry's age marker.
type resourceLoadedMsg struct {
	path      string
	data      any
	cached    bool
	fetchedAt time.Time
}

// resourceErrMsg reports a fetch that failed with no cache fallback.
type resourceErrMsg struct {
	path string
	err  error
}

// actionDoneMsg reports the outcome of a form submission (claim filing,
// contact message).
type actionDoneMsg struct {
	path    string
	ok      bool
	message string
}
