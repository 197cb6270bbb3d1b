// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package portal implements the riskportal TUI: a Bubbletea model that
// navigates the portal views, gated on every navigation by the route guard
// and filtered per role by the feature matrix.
package portal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/riskportal-tui/internal/api"
	"github.com/jeranaias/riskportal-tui/internal/cache"
	"github.com/jeranaias/riskportal-tui/internal/rbac"
	"github.com/jeranaias/riskportal-tui/internal/route"
	"github.com/jeranaias/riskportal-tui/internal/session"
	"github.com/jeranaias/riskportal-tui/internal/ui/components"
	"github.com/jeranaias/riskportal-tui/internal/ui/styles"
)

// fetchTimeout bounds a single view data load.
const fetchTimeout = 30 * time.Second

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubbletea model for the portal.
type Model struct {
	theme   *styles.Theme
	keys    keyMap
	session *session.Manager
	portal  *api.Client
	cache   *cache.Store // nil when the offline cache is disabled

	width  int
	height int

	// Session and navigation state. snap is re-read from the manager after
	// every event that can change it; views render from snap, never from
	// stale copies.
	snap        session.Snapshot
	route       route.Route
	pendingPath string // navigation parked while verification is in flight

	spinner components.Spinner
	loading bool // current view is fetching data

	// View payloads. Only the payload for the active route is rendered, but
	// they are kept so switching back does not always refetch.
	policies     []api.Policy
	claims       []api.Claim
	appointments []api.Appointment
	invoices     []api.Invoice
	stats        *api.Statistics
	aboutText    string

	// cached marks the active payload as an offline-cache fallback.
	cached   bool
	cachedAt time.Time

	errText string
	flash   string
	cursor  int

	login   loginForm
	claim   claimForm
	contact contactForm

	// formOpen is true while the claim form overlays the claims view.
	formOpen bool

	quitting bool
}

// NewModel wires the portal model. cacheStore may be nil.
func NewModel(mgr *session.Manager, client *api.Client, cacheStore *cache.Store, themeMode string) Model {
	theme := styles.NewTheme(themeMode)
	return Model{
		theme:   theme,
		keys:    defaultKeyMap(),
		session: mgr,
		portal:  client,
		cache:   cacheStore,
		snap:    session.Snapshot{Loading: true},
		route:   route.Resolve(route.PathLogin),
		spinner: components.NewSpinner("Sessie controleren..."),
		login:   newLoginForm(theme),
		claim:   newClaimForm(theme),
		contact: newContactForm(theme),
	}
}

// Init starts the spinner and kicks off the startup verification.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick(), m.startSessionCmd())
}

// =============================================================================
// NAVIGATION
// =============================================================================

// menuRoutes returns the navigable routes visible to the current user, in
// table order. Derived from the feature matrix on every call so a role
// change is reflected immediately.
func (m *Model) menuRoutes() []route.Route {
	if !m.snap.Authenticated() {
		return nil
	}
	visible := rbac.VisibleFeatures(m.snap.User.Role)
	features := make(map[rbac.Feature]struct{}, len(visible))
	for _, f := range visible {
		features[f] = struct{}{}
	}

	var out []route.Route
	for _, r := range route.Table() {
		if r.Feature == "" {
			continue
		}
		if _, ok := features[r.Feature]; ok {
			out = append(out, r)
		}
	}
	return out
}

// navigate applies the route guard to a navigation attempt and returns the
// command (if any) to load the destination's data.
func (m *Model) navigate(path string) tea.Cmd {
	r := route.Resolve(path)
	m.snap = m.session.Snapshot()

	switch route.Decide(r.Requirement, m.snap) {
	case route.Render:
		return m.enter(r)
	case route.RedirectLogin:
		m.pendingPath = ""
		return m.enter(route.Resolve(route.PathLogin))
	case route.RedirectDefault:
		m.pendingPath = ""
		return m.enter(route.Resolve(route.DefaultPath))
	case route.Suspend:
		// Park the destination; sessionSettledMsg replays it.
		m.pendingPath = r.Path
		return nil
	}
	return nil
}

// enter switches the active view and starts its data load.
func (m *Model) enter(r route.Route) tea.Cmd {
	m.route = r
	m.errText = ""
	m.flash = ""
	m.cached = false
	m.cursor = 0
	m.formOpen = false

	switch r.Path {
	case route.PathLogin:
		m.login.reset()
		return m.login.focusCmd()
	case route.PathContact:
		m.contact.reset()
		if m.snap.Authenticated() {
			m.contact.prefill(m.snap.User.Name, m.snap.User.Email)
		}
		return m.contact.focusCmd()
	case route.PathAbout:
		return m.loadAboutCmd()
	case route.PathDashboard, route.PathPolicies:
		m.loading = true
		return tea.Batch(m.spinner.Tick(), m.loadCmd(r.Path))
	case route.PathClaims, route.PathAgenda, route.PathStatistics, route.PathAccounting:
		m.loading = true
		return tea.Batch(m.spinner.Tick(), m.loadCmd(r.Path))
	}
	return nil
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) startSessionCmd() tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		return sessionSettledMsg{snap: mgr.Start(context.Background())}
	}
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return loginResultMsg{result: mgr.Login(ctx, email, password)}
	}
}

// loadCmd fetches the payload for a data view. On a transport failure it
// falls back to the offline cache, marking the result so the view can show
// the age. Authorization errors never fall back: a 403 is a 403.
func (m Model) loadCmd(path string) tea.Cmd {
	client := m.portal
	store := m.cache
	var userID int
	if m.snap.Authenticated() {
		userID = m.snap.User.ID
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		data, err := fetchResource(ctx, client, path)
		if err == nil {
			if store != nil {
				if payload, merr := json.Marshal(data); merr == nil {
					_ = store.Put(ctx, userID, path, payload)
				}
			}
			return resourceLoadedMsg{path: path, data: data}
		}

		if store != nil && errors.Is(err, api.ErrTransportFailure) {
			if entry, cerr := store.GetStale(ctx, userID, path); cerr == nil {
				if data, derr := decodeResource(path, entry.Payload); derr == nil {
					return resourceLoadedMsg{
						path:      path,
						data:      data,
						cached:    true,
						fetchedAt: entry.FetchedAt,
					}
				}
			}
		}

		return resourceErrMsg{path: path, err: err}
	}
}

// fetchResource dispatches the fetch for a route path. The dashboard reuses
// the policies payload for its summary.
func fetchResource(ctx context.Context, client *api.Client, path string) (any, error) {
	switch path {
	case route.PathDashboard, route.PathPolicies:
		return client.Policies(ctx)
	case route.PathClaims:
		return client.Claims(ctx)
	case route.PathAgenda:
		return client.Appointments(ctx)
	case route.PathStatistics:
		return client.Statistics(ctx)
	case route.PathAccounting:
		return client.Accounting(ctx)
	}
	return nil, nil
}

// decodeResource unmarshals a cached payload back into the view's type.
func decodeResource(path string, payload []byte) (any, error) {
	switch path {
	case route.PathDashboard, route.PathPolicies:
		var out []api.Policy
		err := json.Unmarshal(payload, &out)
		return out, err
	case route.PathClaims:
		var out []api.Claim
		err := json.Unmarshal(payload, &out)
		return out, err
	case route.PathAgenda:
		var out []api.Appointment
		err := json.Unmarshal(payload, &out)
		return out, err
	case route.PathStatistics:
		var out api.Statistics
		err := json.Unmarshal(payload, &out)
		return &out, err
	case route.PathAccounting:
		var out []api.Invoice
		err := json.Unmarshal(payload, &out)
		return out, err
	}
	return nil, errors.New("unknown resource")
}

func (m Model) submitClaimCmd(req api.ClaimRequest) tea.Cmd {
	client := m.portal
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if _, err := client.SubmitClaim(ctx, req); err != nil {
			return actionDoneMsg{path: route.PathClaims, ok: false, message: userFacingError(err)}
		}
		return actionDoneMsg{path: route.PathClaims, ok: true, message: "Claim ingediend."}
	}
}

func (m Model) sendContactCmd(msg api.ContactMessage) tea.Cmd {
	client := m.portal
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if err := client.SendContactMessage(ctx, msg); err != nil {
			return actionDoneMsg{path: route.PathContact, ok: false, message: userFacingError(err)}
		}
		return actionDoneMsg{path: route.PathContact, ok: true, message: "Bericht verzonden."}
	}
}

// userFacingError maps a client error to a displayable Dutch message.
// SECURITY: Raw transport errors are not shown; they can leak local paths
// and proxy details.
func userFacingError(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, api.ErrTransportFailure) {
		return "De portal is niet bereikbaar. Controleer de verbinding."
	}
	return "Er is een fout opgetreden."
}
