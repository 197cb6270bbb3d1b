// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rbac defines the closed set of portal roles and the role-gated
// feature matrix.
//
// Role visibility here is a usability layer only: it decides which menu
// entries and panels are drawn for a user. Enforcement is the route guard on
// the client plus the portal server's own authorization on every protected
// endpoint. Hiding a feature never substitutes for either.
package rbac

import (
	"fmt"
	"strings"
)

// =============================================================================
// ROLES
// =============================================================================

// Role is a portal user role. The set is closed: anything the server sends
// outside of it is rejected at parse time rather than carried around as a
// free-form string.
type Role string

const (
	// RoleClient is a brokerage customer: views own policies, files claims.
	RoleClient Role = "client"

	// RoleAdvisor is a brokerage employee: client features plus the agenda.
	RoleAdvisor Role = "advisor"

	// RoleAdmin has full access including statistics and accounting.
	RoleAdmin Role = "admin"
)

// ParseRole validates a role string received from the portal server.
// Matching is case-insensitive; unknown values are an error.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleClient:
		return RoleClient, nil
	case RoleAdvisor:
		return RoleAdvisor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// String returns the wire representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleAdvisor, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleSet is a set of roles, used by role-restricted routes.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether the set contains the role.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// =============================================================================
// FEATURES
// =============================================================================

// Feature is a UI affordance that can be shown or hidden per role: a menu
// entry, an admin panel, an action button.
type Feature string

const (
	// Navigation entries
	FeatureDashboard  Feature = "nav:dashboard"
	FeaturePolicies   Feature = "nav:policies"
	FeatureClaims     Feature = "nav:claims"
	FeatureAgenda     Feature = "nav:agenda"
	FeatureContact    Feature = "nav:contact"
	FeatureAbout      Feature = "nav:about"
	FeatureStatistics Feature = "nav:statistics"
	FeatureAccounting Feature = "nav:accounting"

	// Actions
	FeatureFileClaim   Feature = "action:file_claim"
	FeatureSendMessage Feature = "action:send_message"

	// Panels
	FeatureAdminPanel Feature = "panel:admin"
)

// roleFeatures is the role -> visible features matrix. Single source of
// truth: views ask this matrix instead of re-checking roles ad hoc.
var roleFeatures = map[Role][]Feature{
	RoleClient: {
		FeatureDashboard,
		FeaturePolicies,
		FeatureClaims,
		FeatureContact,
		FeatureAbout,
		FeatureAgenda,
		FeatureFileClaim,
		FeatureSendMessage,
	},
	RoleAdvisor: {
		FeatureDashboard,
		FeaturePolicies,
		FeatureClaims,
		FeatureContact,
		FeatureAbout,
		FeatureAgenda,
		FeatureFileClaim,
		FeatureSendMessage,
	},
	RoleAdmin: {
		FeatureDashboard,
		FeaturePolicies,
		FeatureClaims,
		FeatureContact,
		FeatureAbout,
		FeatureAgenda,
		FeatureFileClaim,
		FeatureSendMessage,
		FeatureStatistics,
		FeatureAccounting,
		FeatureAdminPanel,
	},
}

// VisibleFeatures returns the features visible to the given role.
//
// Pure function of the role: callers must re-derive on every render from the
// current session snapshot and must not cache the result across a role
// change. The returned slice is a copy.
func VisibleFeatures(role Role) []Feature {
	features, ok := roleFeatures[role]
	if !ok {
		return nil
	}
	out := make([]Feature, len(features))
	copy(out, features)
	return out
}

// HasFeature reports whether the role can see the given feature.
func HasFeature(role Role, feature Feature) bool {
	for _, f := range roleFeatures[role] {
		if f == feature {
			return true
		}
	}
	return false
}
