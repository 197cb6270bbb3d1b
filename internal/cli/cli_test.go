// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_DefaultIsTUI(t *testing.T) {
	cmd, args := Parse(nil)
	require.Equal(t, CmdTUI, cmd)
	require.False(t, args.JSON)
}

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{argv: []string{"login"}, want: CmdLogin},
		{argv: []string{"logout"}, want: CmdLogout},
		{argv: []string{"whoami"}, want: CmdWhoami},
		{argv: []string{"status"}, want: CmdStatus},
		{argv: []string{"s"}, want: CmdStatus},
		{argv: []string{"version"}, want: CmdVersion},
		{argv: []string{"v"}, want: CmdVersion},
		{argv: []string{"help"}, want: CmdHelp},
		{argv: []string{"--help"}, want: CmdHelp},
		{argv: []string{"--version"}, want: CmdVersion},
		{argv: []string{"frobnicate"}, want: CmdHelp},
	}

	for _, tt := range tests {
		cmd, _ := Parse(tt.argv)
		require.Equal(t, tt.want, cmd, "argv %v", tt.argv)
	}
}

func TestParse_Flags(t *testing.T) {
	cmd, args := Parse([]string{"status", "--json", "--quiet"})
	require.Equal(t, CmdStatus, cmd)
	require.True(t, args.JSON)
	require.True(t, args.Quiet)
}

func TestParse_EmailFlag(t *testing.T) {
	_, args := Parse([]string{"login", "--email", "a@b.nl"})
	require.Equal(t, "a@b.nl", args.Email)

	_, args = Parse([]string{"login", "--email=c@d.nl"})
	require.Equal(t, "c@d.nl", args.Email)
}
