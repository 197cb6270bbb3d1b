// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the riskportal TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Brand palette. The pink is the Risk Pro Actief house color.
const (
	ColorBrand     = "#FF0066"
	ColorBrandDark = "#CC0052"
	ColorAccent    = "#CCCC00"
	ColorError     = "#F44336"
	ColorWarning   = "#FF9800"
	ColorSuccess   = "#4CAF50"
	ColorMuted     = "#666666"
	ColorText      = "#DDDDDD"
	ColorTextDark  = "#333333"
)

// Theme holds all the styled components for the application. It detects the
// terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout
	App       lipgloss.Style
	Container lipgloss.Style

	// Header
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// Menu
	MenuItem       lipgloss.Style
	MenuItemActive lipgloss.Style

	// Content
	SectionTitle lipgloss.Style
	TableHeader  lipgloss.Style
	TableRow     lipgloss.Style
	TableRowAlt  lipgloss.Style
	Muted        lipgloss.Style
	ErrorText    lipgloss.Style
	SuccessText  lipgloss.Style
	WarningText  lipgloss.Style

	// Forms
	InputLabel   lipgloss.Style
	InputFocused lipgloss.Style
	InputBlurred lipgloss.Style
	Button       lipgloss.Style

	// Status bar
	StatusBar     lipgloss.Style
	StatusSegment lipgloss.Style
}

// NewTheme creates a theme for the current terminal. mode is "auto", "dark"
// or "light" from the UI config.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	isDark := true
	switch mode {
	case "light":
		isDark = false
	case "dark":
		isDark = true
	default:
		isDark = termenv.HasDarkBackground()
	}

	text := ColorText
	if !isDark {
		text = ColorTextDark
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
	}

	brand := lipgloss.Color(ColorBrand)
	muted := lipgloss.Color(ColorMuted)

	t.App = lipgloss.NewStyle().Foreground(lipgloss.Color(text))
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	t.Header = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(brand)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(brand)
	t.HeaderSubtitle = lipgloss.NewStyle().Foreground(muted)

	t.MenuItem = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(text))
	t.MenuItemActive = lipgloss.NewStyle().Padding(0, 1).Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).Background(brand)

	t.SectionTitle = lipgloss.NewStyle().Bold(true).Foreground(brand).MarginBottom(1)
	t.TableHeader = lipgloss.NewStyle().Bold(true).Underline(true)
	t.TableRow = lipgloss.NewStyle()
	t.TableRowAlt = lipgloss.NewStyle().Foreground(muted)
	t.Muted = lipgloss.NewStyle().Foreground(muted)
	t.ErrorText = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	t.SuccessText = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	t.WarningText = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))

	t.InputLabel = lipgloss.NewStyle().Foreground(muted)
	t.InputFocused = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).BorderForeground(brand).Padding(0, 1)
	t.InputBlurred = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
	t.Button = lipgloss.NewStyle().Padding(0, 2).Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).Background(brand)

	t.StatusBar = lipgloss.NewStyle().Foreground(muted).
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(muted)
	t.StatusSegment = lipgloss.NewStyle().Padding(0, 1)

	return t
}
