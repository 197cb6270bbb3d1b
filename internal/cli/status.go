// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - CLI status command for riskportal.
//
// Command: status
// Short:   Show client and session status
// Aliases: s
//
// Examples:
//   riskportal status                  Human-readable status
//   riskportal status --json           Status in JSON format for scripting
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// statusReport is the JSON shape of the status command output.
type statusReport struct {
	Version       string `json:"version"`
	PortalURL     string `json:"portal_url"`
	HasCredential bool   `json:"has_credential"`
	TokenDigest   string `json:"token_digest"`
	Authenticated bool   `json:"authenticated"`
	UserEmail     string `json:"user_email,omitempty"`
	UserRole      string `json:"user_role,omitempty"`
	CacheEnabled  bool   `json:"cache_enabled"`
	CachePath     string `json:"cache_path,omitempty"`
}

// RunStatus reports the client configuration and session state.
func RunStatus(args Args) int {
	stack, err := BuildStack()
	if err != nil {
		fmt.Println(authErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	// Read before Start: a failing verification clears the stored token, and
	// "had a credential that did not verify" is the interesting distinction.
	hasCredential := stack.Client.HasCredential()
	tokenDigest := stack.Client.TokenFingerprint()

	snap := stack.Session.Start(ctx)

	report := statusReport{
		Version:       Version,
		PortalURL:     stack.Config.Portal.BaseURL,
		HasCredential: hasCredential,
		TokenDigest:   tokenDigest,
		Authenticated: snap.Authenticated(),
		CacheEnabled:  stack.Config.Cache.Enabled,
		CachePath:     stack.Config.Cache.Path,
	}
	if snap.Authenticated() {
		report.UserEmail = snap.User.Email
		report.UserRole = string(snap.User.Role)
	}

	if args.JSON {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return 0
	}

	fmt.Println(authTitleStyle.Render("riskportal status"))
	fmt.Println(authLabelStyle.Render("Versie:") + report.Version)
	fmt.Println(authLabelStyle.Render("Portal:") + report.PortalURL)

	if report.Authenticated {
		fmt.Println(authLabelStyle.Render("Sessie:") +
			authSuccessStyle.Render(fmt.Sprintf("ingelogd als %s (%s)", report.UserEmail, report.UserRole)))
	} else if report.HasCredential {
		// A credential that did not verify was just cleared by Start.
		fmt.Println(authLabelStyle.Render("Sessie:") + authErrorStyle.Render("verlopen of ongeldig"))
	} else {
		fmt.Println(authLabelStyle.Render("Sessie:") + "niet ingelogd")
	}

	cacheLine := "uitgeschakeld"
	if report.CacheEnabled {
		cacheLine = report.CachePath
	}
	fmt.Println(authLabelStyle.Render("Cache:") + cacheLine)
	fmt.Println(authDimStyle.Render(fmt.Sprintf("token %s · %s",
		report.TokenDigest, time.Now().Format("2006-01-02 15:04"))))
	return 0
}
