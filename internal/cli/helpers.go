// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - shared wiring for the CLI command handlers.
package cli

import (
	"fmt"

	"github.com/jeranaias/riskportal-tui/internal/api"
	"github.com/jeranaias/riskportal-tui/internal/config"
	"github.com/jeranaias/riskportal-tui/internal/credstore"
	"github.com/jeranaias/riskportal-tui/internal/session"
)

// Stack is the wired client stack the command handlers operate on.
type Stack struct {
	Config  *config.Config
	Tokens  credstore.TokenStore
	Client  *api.Client
	Session *session.Manager
}

// BuildStack loads configuration and wires the token store, API client and
// session manager. Shared by the CLI commands and the TUI entry point.
func BuildStack() (*Stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	config.SetGlobal(cfg)

	tokens := credstore.NewFileTokenStore(credstore.DefaultTokenPath())
	client := api.NewClient(cfg.Portal.BaseURL, tokens).
		WithMaxRetries(cfg.Portal.MaxRetries)

	return &Stack{
		Config:  cfg,
		Tokens:  tokens,
		Client:  client,
		Session: session.NewManager(client, tokens),
	}, nil
}
