// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package route defines the portal navigation surface and the guard that
// gates every navigation against the current session state.
package route

import (
	"github.com/jeranaias/riskportal-tui/internal/rbac"
)

// =============================================================================
// REQUIREMENTS
// =============================================================================

// RequirementKind classifies what a route demands of the session.
type RequirementKind int

const (
	// RequireNone renders for anyone, authenticated or not.
	RequireNone RequirementKind = iota
	// RequireAuth renders for any authenticated user.
	RequireAuth
	// RequireRoles renders only for authenticated users whose role is in
	// the requirement's set.
	RequireRoles
)

// Requirement is the access metadata attached to a route. Static: defined at
// route-table construction and never mutated afterwards.
type Requirement struct {
	Kind  RequirementKind
	Roles rbac.RoleSet // Only consulted when Kind == RequireRoles.
}

// None returns the open requirement.
func None() Requirement {
	return Requirement{Kind: RequireNone}
}

// Authenticated returns the any-authenticated-user requirement.
func Authenticated() Requirement {
	return Requirement{Kind: RequireAuth}
}

// RoleIn returns a requirement restricted to the given roles.
func RoleIn(roles ...rbac.Role) Requirement {
	return Requirement{Kind: RequireRoles, Roles: rbac.NewRoleSet(roles...)}
}

// =============================================================================
// ROUTE TABLE
// =============================================================================

// Canonical route paths.
const (
	PathLogin      = "/login"
	PathDashboard  = "/dashboard"
	PathPolicies   = "/policies"
	PathClaims     = "/claims"
	PathStatistics = "/statistics"
	PathAccounting = "/accounting"
	PathAgenda     = "/agenda"
	PathContact    = "/contact"
	PathAbout      = "/about"
)

// DefaultPath is where unknown paths and role-denied navigations land.
const DefaultPath = PathDashboard

// Route is a navigable portal view.
type Route struct {
	Path        string
	Title       string
	Requirement Requirement
	Feature     rbac.Feature // Menu entry gated by the view filter.
}

// Table returns the static route table.
//
// Every non-login route requires authentication; the admin views are
// additionally role-restricted. The table is rebuilt per call so callers can
// never mutate shared state through it.
func Table() []Route {
	return []Route{
		{Path: PathLogin, Title: "Inloggen", Requirement: None()},
		{Path: PathDashboard, Title: "Dashboard", Requirement: Authenticated(), Feature: rbac.FeatureDashboard},
		{Path: PathPolicies, Title: "Verzekeringen", Requirement: Authenticated(), Feature: rbac.FeaturePolicies},
		{Path: PathClaims, Title: "Claims", Requirement: Authenticated(), Feature: rbac.FeatureClaims},
		{Path: PathAgenda, Title: "Agenda", Requirement: Authenticated(), Feature: rbac.FeatureAgenda},
		{Path: PathContact, Title: "Contact", Requirement: Authenticated(), Feature: rbac.FeatureContact},
		{Path: PathAbout, Title: "Over ons", Requirement: Authenticated(), Feature: rbac.FeatureAbout},
		{Path: PathStatistics, Title: "Statistieken", Requirement: RoleIn(rbac.RoleAdmin), Feature: rbac.FeatureStatistics},
		{Path: PathAccounting, Title: "Boekhouding", Requirement: RoleIn(rbac.RoleAdmin), Feature: rbac.FeatureAccounting},
	}
}

// Resolve maps a requested path to a route. Unknown paths resolve to the
// default authenticated view rather than a not-found page.
func Resolve(path string) Route {
	for _, r := range Table() {
		if r.Path == path {
			return r
		}
	}
	return Resolve(DefaultPath)
}
