// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{name: "client", input: "client", want: RoleClient},
		{name: "advisor", input: "advisor", want: RoleAdvisor},
		{name: "admin", input: "admin", want: RoleAdmin},
		{name: "case insensitive", input: "Admin", want: RoleAdmin},
		{name: "surrounding whitespace", input: " client ", want: RoleClient},
		{name: "unknown role", input: "superuser", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRole_Valid(t *testing.T) {
	require.True(t, RoleClient.Valid())
	require.True(t, RoleAdvisor.Valid())
	require.True(t, RoleAdmin.Valid())
	require.False(t, Role("root").Valid())
	require.False(t, Role("").Valid())
}

func TestRoleSet_Contains(t *testing.T) {
	set := NewRoleSet(RoleAdmin, RoleAdvisor)

	require.True(t, set.Contains(RoleAdmin))
	require.True(t, set.Contains(RoleAdvisor))
	require.False(t, set.Contains(RoleClient))
}

func TestVisibleFeatures_AdminSeesEverything(t *testing.T) {
	features := VisibleFeatures(RoleAdmin)

	require.Contains(t, features, FeatureStatistics)
	require.Contains(t, features, FeatureAccounting)
	require.Contains(t, features, FeatureAdminPanel)
	require.Contains(t, features, FeatureDashboard)
}

func TestVisibleFeatures_ClientHasNoAdminFeatures(t *testing.T) {
	features := VisibleFeatures(RoleClient)

	require.NotContains(t, features, FeatureStatistics)
	require.NotContains(t, features, FeatureAccounting)
	require.NotContains(t, features, FeatureAdminPanel)
	require.Contains(t, features, FeaturePolicies)
	require.Contains(t, features, FeatureFileClaim)
}

func TestVisibleFeatures_UnknownRoleSeesNothing(t *testing.T) {
	require.Empty(t, VisibleFeatures(Role("ghost")))
}

// TestVisibleFeatures_ReturnsCopy guards against callers mutating the matrix
// through the returned slice.
func TestVisibleFeatures_ReturnsCopy(t *testing.T) {
	first := VisibleFeatures(RoleClient)
	first[0] = Feature("tampered")

	second := VisibleFeatures(RoleClient)
	require.NotEqual(t, Feature("tampered"), second[0])
}

func TestHasFeature(t *testing.T) {
	require.True(t, HasFeature(RoleAdmin, FeatureAccounting))
	require.False(t, HasFeature(RoleClient, FeatureAccounting))
	require.True(t, HasFeature(RoleAdvisor, FeatureAgenda))
	require.False(t, HasFeature(Role("ghost"), FeatureDashboard))
}
