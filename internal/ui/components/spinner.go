// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the riskportal TUI.
package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/riskportal-tui/internal/ui/styles"
)

// Spinner is the neutral waiting indicator shown while the session is being
// verified or a view is loading data.
type Spinner struct {
	spinner spinner.Model
	message string
}

// NewSpinner creates a spinner with ASCII-compatible frames.
func NewSpinner(message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.ColorBrand))

	return Spinner{spinner: s, message: message}
}

// SetMessage updates the text displayed next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.message = message
}

// Tick starts the spinner animation.
func (s Spinner) Tick() tea.Cmd {
	return s.spinner.Tick
}

// Update advances the animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner with its message.
func (s Spinner) View() string {
	if s.message == "" {
		return s.spinner.View()
	}
	return s.spinner.View() + " " + s.message
}
