// riskportal TUI - a terminal client for the Risk Pro Actief insurance portal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/riskportal-tui/internal/cache"
	"github.com/jeranaias/riskportal-tui/internal/cli"
	"github.com/jeranaias/riskportal-tui/internal/config"
	"github.com/jeranaias/riskportal-tui/internal/ui/portal"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	switch cmd {
	case cli.CmdTUI:
		runTUI()
	case cli.CmdLogin:
		os.Exit(cli.RunLogin(args))
	case cli.CmdLogout:
		os.Exit(cli.RunLogout(args))
	case cli.CmdWhoami:
		os.Exit(cli.RunWhoami(args))
	case cli.CmdStatus:
		os.Exit(cli.RunStatus(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI()
	}
}

// runTUI wires the client stack and starts the portal TUI.
func runTUI() {
	stack, err := cli.BuildStack()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg := stack.Config

	// The event loop owns the terminal; session and HTTP logs go to a file
	// so they cannot corrupt the display.
	if f, lerr := tea.LogToFile(logPath(), "riskportal"); lerr == nil {
		defer f.Close()
	} else {
		log.SetOutput(os.Stderr)
	}

	var store *cache.Store
	if cfg.Cache.Enabled {
		store, err = cache.Open(cfg.Cache.Path, time.Duration(cfg.Cache.TTLSecs)*time.Second)
		if err != nil {
			// The cache is an enhancement; the portal works without it.
			log.Printf("offline cache disabled: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	// Hot-reload the config file while the TUI runs. Theme changes apply on
	// the next start; URL changes apply to new stacks only.
	if watcher, werr := config.NewWatcher(nil); werr == nil {
		if werr = watcher.Watch(); werr == nil {
			defer watcher.Close()
		} else {
			watcher.Close()
		}
	}

	m := portal.NewModel(stack.Session, stack.Client, store, cfg.UI.Theme)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running riskportal: %v\n", err)
		os.Exit(1)
	}
}

// logPath returns the diagnostic log location next to the config file.
func logPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return "riskportal.log"
	}
	return filepath.Join(dir, "riskportal.log")
}
