// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package portal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/riskportal-tui/internal/route"
)

// aboutMarkdown is the static "Over ons" page content.
const aboutMarkdown = `# Risk Pro Actief

Risk Pro Actief is een onafhankelijk assurantiekantoor. Wij bemiddelen in
verzekeringen voor particulieren en ondernemers en staan onze klanten bij
van offerte tot schadeafhandeling.

## Wat wij doen

- **Verzekeringen** — advies en bemiddeling voor schade- en levensverzekeringen
- **Claims** — begeleiding bij het indienen en afhandelen van schadeclaims
- **Risicobeheer** — periodieke doorlichting van uw verzekeringsportefeuille

## Contact

Gebruik het contactformulier in dit portaal of bel ons kantoor tijdens
kantooruren.
`

// loadAboutCmd renders the About markdown once, off the event loop. Glamour
// rendering allocates; doing it per frame would be wasteful.
func (m Model) loadAboutCmd() tea.Cmd {
	if m.aboutText != "" {
		return nil
	}
	width := m.width
	dark := m.theme.IsDark
	return func() tea.Msg {
		style := "light"
		if dark {
			style = "dark"
		}
		wrap := width - 4
		if wrap < 40 || wrap > 100 {
			wrap = 76
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return resourceLoadedMsg{path: route.PathAbout, data: aboutMarkdown}
		}
		out, err := renderer.Render(aboutMarkdown)
		if err != nil {
			out = aboutMarkdown
		}
		return resourceLoadedMsg{path: route.PathAbout, data: out}
	}
}
