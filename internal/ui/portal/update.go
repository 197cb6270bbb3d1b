// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package portal

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/riskportal-tui/internal/api"
	"github.com/jeranaias/riskportal-tui/internal/rbac"
	"github.com/jeranaias/riskportal-tui/internal/route"
)

// Update is the Bubbletea event loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.snap.Loading && !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionSettledMsg:
		return m.onSessionSettled(msg)

	case loginResultMsg:
		return m.onLoginResult(msg)

	case resourceLoadedMsg:
		return m.onResourceLoaded(msg)

	case resourceErrMsg:
		if msg.path != m.route.Path {
			return m, nil
		}
		m.loading = false
		m.errText = userFacingError(msg.err)
		return m, nil

	case actionDoneMsg:
		return m.onActionDone(msg)

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) onSessionSettled(msg sessionSettledMsg) (tea.Model, tea.Cmd) {
	m.snap = msg.snap

	// A navigation parked during verification replays now; otherwise land on
	// the default view or the login view depending on the outcome.
	target := m.pendingPath
	m.pendingPath = ""
	if target == "" {
		if m.snap.Authenticated() {
			target = route.DefaultPath
		} else {
			target = route.PathLogin
		}
	}
	return m, m.navigate(target)
}

func (m Model) onLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.login.busy = false
	if !msg.result.OK {
		m.login.errText = msg.result.Message
		return m, nil
	}
	m.snap = m.session.Snapshot()
	return m, m.navigate(route.DefaultPath)
}

func (m Model) onResourceLoaded(msg resourceLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.path != m.route.Path {
		// A stale load for a view the user already left.
		return m, nil
	}
	m.loading = false
	m.errText = ""
	m.cached = msg.cached
	m.cachedAt = msg.fetchedAt

	switch data := msg.data.(type) {
	case []api.Policy:
		m.policies = data
	case []api.Claim:
		m.claims = data
	case []api.Appointment:
		m.appointments = data
	case *api.Statistics:
		m.stats = data
	case []api.Invoice:
		m.invoices = data
	case string:
		m.aboutText = data
	}
	return m, nil
}

func (m Model) onActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	switch msg.path {
	case route.PathClaims:
		m.claim.busy = false
		if !msg.ok {
			m.claim.errText = msg.message
			return m, nil
		}
		m.formOpen = false
		m.flash = msg.message
		m.loading = true
		return m, tea.Batch(m.spinner.Tick(), m.loadCmd(route.PathClaims))
	case route.PathContact:
		m.contact.busy = false
		if !msg.ok {
			m.contact.errText = msg.message
			return m, nil
		}
		m.contact.reset()
		if m.snap.Authenticated() {
			m.contact.prefill(m.snap.User.Name, m.snap.User.Email)
		}
		m.flash = msg.message
		return m, nil
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c quits from anywhere, including inside forms.
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Logout) && m.snap.Authenticated() {
		return m.logout()
	}

	if m.inputActive() {
		return m.onFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		return m, m.cycle(1)
	case key.Matches(msg, m.keys.PrevTab):
		return m, m.cycle(-1)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.navigate(m.route.Path)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.New):
		if m.route.Path == route.PathClaims && m.canFileClaim() {
			m.formOpen = true
			m.claim.reset()
			return m, m.claim.policyID.Focus()
		}
		return m, nil
	}
	return m, nil
}

// inputActive reports whether the active view routes keys into a form.
func (m Model) inputActive() bool {
	switch m.route.Path {
	case route.PathLogin, route.PathContact:
		return true
	case route.PathClaims:
		return m.formOpen
	}
	return false
}

func (m Model) onFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.route.Path {
	case route.PathLogin:
		email, password, submit, cmd := m.login.update(msg)
		if submit {
			return m, m.loginCmd(email, password)
		}
		return m, cmd

	case route.PathClaims:
		if msg.String() == "esc" {
			m.formOpen = false
			return m, nil
		}
		req, submit, cmd := m.claim.update(msg)
		if submit {
			return m, m.submitClaimCmd(req)
		}
		return m, cmd

	case route.PathContact:
		if msg.String() == "esc" {
			return m, m.navigate(route.DefaultPath)
		}
		out, submit, cmd := m.contact.update(msg)
		if submit {
			return m, m.sendContactCmd(out)
		}
		return m, cmd
	}
	return m, nil
}

// cycle moves to the next or previous menu route.
func (m *Model) cycle(delta int) tea.Cmd {
	menu := m.menuRoutes()
	if len(menu) == 0 {
		return nil
	}
	current := 0
	for i, r := range menu {
		if r.Path == m.route.Path {
			current = i
			break
		}
	}
	next := (current + delta + len(menu)) % len(menu)
	return m.navigate(menu[next].Path)
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	var purge tea.Cmd
	if m.cache != nil && m.snap.Authenticated() {
		store, userID := m.cache, m.snap.User.ID
		purge = func() tea.Msg {
			_ = store.PurgeUser(context.Background(), userID)
			return nil
		}
	}

	m.session.Logout()
	m.snap = m.session.Snapshot()
	m.policies = nil
	m.claims = nil
	m.appointments = nil
	m.invoices = nil
	m.stats = nil
	return m, tea.Batch(purge, m.navigate(route.PathLogin))
}

// rowCount returns the row count of the active list view, for cursor bounds.
func (m Model) rowCount() int {
	switch m.route.Path {
	case route.PathPolicies:
		return len(m.policies)
	case route.PathClaims:
		return len(m.claims)
	case route.PathAgenda:
		return len(m.appointments)
	case route.PathAccounting:
		return len(m.invoices)
	}
	return 0
}

// canFileClaim consults the feature matrix for the claim-filing action.
func (m Model) canFileClaim() bool {
	return m.snap.Authenticated() && rbac.HasFeature(m.snap.User.Role, rbac.FeatureFileClaim)
}
