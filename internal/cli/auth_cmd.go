// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - CLI commands for portal authentication in riskportal.
//
// Command: login / logout / whoami
// Short:   Portal session management
//
// Subcommands:
//   login               Authenticate with email and password
//   logout              End the session and clear stored credentials
//   whoami              Show the verified identity
//
// Examples:
//   riskportal login                   Prompt for email and password
//   riskportal login --email a@b.nl    Prompt for the password only
//   riskportal whoami                  Show identity
//   riskportal whoami --json           Identity in JSON format
//   riskportal logout                  Clear the stored session
//
// Flags:
//   --json              Output in JSON format (whoami)
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/jeranaias/riskportal-tui/internal/cache"
	"github.com/jeranaias/riskportal-tui/internal/ui/styles"
)

// =============================================================================
// AUTH COMMAND STYLES
// =============================================================================

var (
	authTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(styles.ColorBrand)).
			MarginBottom(1)

	authLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(14)

	authSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")). // Green
				Bold(true)

	authErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	authDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")) // Dim
)

// commandTimeout bounds each portal call made from a CLI command.
const commandTimeout = 30 * time.Second

// =============================================================================
// LOGIN
// =============================================================================

// RunLogin authenticates against the portal and persists the token.
func RunLogin(args Args) int {
	stack, err := BuildStack()
	if err != nil {
		fmt.Println(authErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	// Verify an existing token first: logging in over a live session is a
	// common mistake, not an error.
	snap := stack.Session.Start(ctx)
	if snap.Authenticated() {
		fmt.Printf("Already logged in as %s (%s). Run 'riskportal logout' first to switch accounts.\n",
			snap.User.Email, snap.User.Role)
		return 0
	}

	email := strings.TrimSpace(args.Email)
	if email == "" {
		email, err = promptEmail()
		if err != nil {
			fmt.Println(authErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
			return 1
		}
	}

	password, err := promptPassword()
	if err != nil {
		fmt.Println(authErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		return 1
	}

	result := stack.Session.Login(ctx, email, password)
	if !result.OK {
		fmt.Println(authErrorStyle.Render(result.Message))
		return 1
	}

	fmt.Println(authSuccessStyle.Render(fmt.Sprintf("Ingelogd als %s (%s)",
		result.User.Email, result.User.Role)))
	return 0
}

// promptEmail reads the email address interactively.
func promptEmail() (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	email, err := line.Prompt("E-mailadres: ")
	if err != nil {
		return "", fmt.Errorf("aborted")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("e-mailadres is verplicht")
	}
	return email, nil
}

// promptPassword reads the password without echo.
// SECURITY: The password never touches the liner history buffer.
func promptPassword() (string, error) {
	fmt.Print("Wachtwoord: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("wachtwoord is verplicht")
	}
	return string(raw), nil
}

// =============================================================================
// LOGOUT
// =============================================================================

// RunLogout clears the stored session and the offline cache.
func RunLogout(args Args) int {
	stack, err := BuildStack()
	if err != nil {
		fmt.Println(authErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		return 1
	}

	stack.Session.Logout()

	// Best effort: a cache purge failure should not block the logout.
	if stack.Config.Cache.Enabled {
		if store, cerr := cache.Open(stack.Config.Cache.Path,
			time.Duration(stack.Config.Cache.TTLSecs)*time.Second); cerr == nil {
			_ = store.Purge(context.Background())
			_ = store.Close()
		}
	}

	if !args.Quiet {
		fmt.Println("Uitgelogd.")
	}
	return 0
}

// =============================================================================
// WHOAMI
// =============================================================================

// RunWhoami verifies the stored session and prints the identity.
func RunWhoami(args Args) int {
	stack, err := BuildStack()
	if err != nil {
		fmt.Println(authErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	snap := stack.Session.Start(ctx)

	if args.JSON {
		out := map[string]any{"authenticated": snap.Authenticated()}
		if snap.Authenticated() {
			out["user"] = snap.User
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		if !snap.Authenticated() {
			return 1
		}
		return 0
	}

	if !snap.Authenticated() {
		fmt.Fprintln(os.Stderr, "Niet ingelogd. Gebruik 'riskportal login'.")
		return 1
	}

	fmt.Println(authTitleStyle.Render("Risk Pro Actief"))
	fmt.Println(authLabelStyle.Render("Naam:") + snap.User.Name)
	fmt.Println(authLabelStyle.Render("E-mailadres:") + snap.User.Email)
	fmt.Println(authLabelStyle.Render("Rol:") + string(snap.User.Role))
	fmt.Println(authDimStyle.Render(fmt.Sprintf("token %s", stack.Client.TokenFingerprint())))
	return 0
}
