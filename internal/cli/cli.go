// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for riskportal.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdWhoami
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON    bool // Output in JSON format
	Quiet   bool
	Verbose bool

	// Command-specific
	Email string // login: skip the email prompt

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `riskportal - terminal client for the Risk Pro Actief portal

Riskportal is a terminal client for the Risk Pro Actief insurance portal.

It provides:
  - Policy, claim and agenda views in the terminal
  - Claim filing and contact messaging
  - Admin statistics and accounting views
  - Offline read cache for flaky connections

Usage:
  riskportal                   Start TUI (default)
  riskportal login             Authenticate against the portal
  riskportal logout            End the session and clear credentials
  riskportal whoami            Show the authenticated identity
  riskportal status, s         Show client and session status
  riskportal version, v        Show version information
  riskportal help, h           Show this help

Login Command:
  riskportal login                    Prompt for email and password
  riskportal login --email a@b.nl     Prompt for the password only

Status Command:
  riskportal status                   Human-readable status
  riskportal status --json            Status in JSON format

Global Flags:
  --json              Output in JSON format (where supported)
  --quiet, -q         Suppress non-essential output
  --verbose, -v       Verbose output

Configuration:
  ~/.riskportal/config.toml           Client configuration
  RISKPORTAL_URL                      Override the portal base URL
  RISKPORTAL_THEME                    Override the UI theme (auto|dark|light)

Examples:
  riskportal                          Open the portal TUI
  riskportal login --email a@b.nl     Log in, then open the TUI
  riskportal status --json | jq .     Scriptable status check
`

// Parse parses os.Args[1:] into a command and its arguments.
func Parse(argv []string) (Command, Args) {
	args := Args{}
	var positional []string

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "--json":
			args.JSON = true
		case "--quiet", "-q":
			args.Quiet = true
		case "--verbose":
			args.Verbose = true
		case "--email":
			if i+1 < len(argv) {
				i++
				args.Email = argv[i]
			}
		case "--help", "-h":
			return CmdHelp, args
		case "--version":
			return CmdVersion, args
		default:
			if strings.HasPrefix(arg, "--email=") {
				args.Email = strings.TrimPrefix(arg, "--email=")
				continue
			}
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return CmdTUI, args
	}

	cmd := positional[0]
	args.Raw = positional[1:]

	switch cmd {
	case "login":
		return CmdLogin, args
	case "logout":
		return CmdLogout, args
	case "whoami":
		return CmdWhoami, args
	case "status", "s":
		return CmdStatus, args
	case "version", "v":
		return CmdVersion, args
	case "help", "h":
		return CmdHelp, args
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		return CmdHelp, args
	}
}

// PrintUsage prints the CLI usage text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("riskportal %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
