// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package portal

import (
	"fmt"
	"strings"

	"github.com/jeranaias/riskportal-tui/internal/api"
	"github.com/jeranaias/riskportal-tui/internal/route"
)

// View renders the full screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.headerView() + "\n")

	if menu := m.menuView(); menu != "" {
		b.WriteString(menu + "\n\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(m.contentView())
	b.WriteString("\n\n" + m.statusView())

	return m.theme.App.Render(b.String())
}

// =============================================================================
// CHROME
// =============================================================================

func (m Model) headerView() string {
	title := m.theme.HeaderTitle.Render("Risk Pro Actief")
	subtitle := m.theme.HeaderSubtitle.Render("  verzekeringsportaal")
	return m.theme.Header.Render(title + subtitle)
}

func (m Model) menuView() string {
	menu := m.menuRoutes()
	if len(menu) == 0 {
		return ""
	}
	items := make([]string, 0, len(menu))
	for _, r := range menu {
		if r.Path == m.route.Path {
			items = append(items, m.theme.MenuItemActive.Render(r.Title))
		} else {
			items = append(items, m.theme.MenuItem.Render(r.Title))
		}
	}
	return strings.Join(items, "")
}

func (m Model) statusView() string {
	var left string
	if m.snap.Loading {
		left = "sessie wordt gecontroleerd"
	} else if m.snap.Authenticated() {
		left = fmt.Sprintf("%s (%s)", m.snap.User.Email, m.snap.User.Role)
	} else {
		left = "niet ingelogd"
	}

	hints := "q afsluiten"
	if m.snap.Authenticated() {
		hints = "tab wisselen · r verversen · ctrl+l uitloggen · q afsluiten"
	}

	return m.theme.StatusBar.Render(
		m.theme.StatusSegment.Render(left) + m.theme.StatusSegment.Render(hints))
}

// =============================================================================
// CONTENT
// =============================================================================

func (m Model) contentView() string {
	// Verification in flight: a parked navigation means the guard suspended.
	if m.snap.Loading {
		return m.spinner.View()
	}

	switch m.route.Path {
	case route.PathLogin:
		return m.login.view()
	case route.PathDashboard:
		return m.dashboardView()
	case route.PathPolicies:
		return m.policiesView()
	case route.PathClaims:
		return m.claimsView()
	case route.PathAgenda:
		return m.agendaView()
	case route.PathStatistics:
		return m.statisticsView()
	case route.PathAccounting:
		return m.accountingView()
	case route.PathContact:
		return m.contactView()
	case route.PathAbout:
		return m.aboutView()
	}
	return ""
}

// banner renders the loading/error/cached preamble shared by data views.
// Returns ok=false when the view should show only the banner.
func (m Model) banner() (string, bool) {
	if m.loading {
		return m.spinner.View(), false
	}
	if m.errText != "" {
		return m.theme.ErrorText.Render(m.errText), false
	}
	var b strings.Builder
	if m.cached {
		b.WriteString(m.theme.WarningText.Render(formatCacheAge(m.cachedAt)) + "\n\n")
	}
	if m.flash != "" {
		b.WriteString(m.theme.SuccessText.Render(m.flash) + "\n\n")
	}
	return b.String(), true
}

func (m Model) dashboardView() string {
	head, ok := m.banner()
	if !ok {
		return head
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString(m.theme.SectionTitle.Render("Dashboard") + "\n")
	b.WriteString(fmt.Sprintf("Welkom, %s\n\n", m.snap.User.Name))

	var total float64
	for _, p := range m.policies {
		total += p.Premium
	}
	b.WriteString(fmt.Sprintf("Lopende verzekeringen: %d\n", len(m.policies)))
	b.WriteString(fmt.Sprintf("Totale premie per maand: %s\n", formatEUR(total)))

	if m.isAdminPanelVisible() {
		b.WriteString("\n" + m.theme.Muted.Render(
			"Beheer: Statistieken en Boekhouding zijn beschikbaar in het menu."))
	}
	return b.String()
}

func (m Model) policiesView() string {
	head, ok := m.banner()
	if !ok {
		return head
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString(m.theme.SectionTitle.Render("Verzekeringen") + "\n")
	if len(m.policies) == 0 {
		return b.String() + m.theme.Muted.Render("Geen verzekeringen gevonden.")
	}

	b.WriteString(m.theme.TableHeader.Render(
		pad("Polis", 8)+pad("Dekking", 30)+pad("Premie", 14)+pad("Vervaldatum", 12)) + "\n")
	for i, p := range m.policies {
		row := pad(fmt.Sprintf("#%d", p.ID), 8) +
			pad(p.Coverage, 30) +
			pad(formatEUR(p.Premium), 14) +
			pad(p.Expiry, 12)
		b.WriteString(m.rowStyle(i).Render(row) + "\n")
	}
	return b.String()
}

func (m Model) claimsView() string {
	if m.formOpen {
		return m.claim.view()
	}

	head, ok := m.banner()
	if !ok {
		return head
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString(m.theme.SectionTitle.Render("Claims") + "\n")
	if len(m.claims) == 0 {
		b.WriteString(m.theme.Muted.Render("Geen claims gevonden.") + "\n")
	} else {
		b.WriteString(m.theme.TableHeader.Render(
			pad("Claim", 8)+pad("Polis", 8)+pad("Status", 16)+pad("Document", 30)) + "\n")
		for i, c := range m.claims {
			doc := c.DocumentURL
			if doc == "" {
				doc = "-"
			}
			row := pad(fmt.Sprintf("#%d", c.ID), 8) +
				pad(fmt.Sprintf("#%d", c.PolicyID), 8) +
				pad(c.Status, 16) +
				pad(doc, 30)
			b.WriteString(m.rowStyle(i).Render(row) + "\n")
		}
	}
	if m.canFileClaim() {
		b.WriteString("\n" + m.theme.Muted.Render("n nieuwe claim indienen"))
	}
	return b.String()
}

func (m Model) agendaView() string {
	head, ok := m.banner()
	if !ok {
		return head
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString(m.theme.SectionTitle.Render("Agenda") + "\n")
	if len(m.appointments) == 0 {
		return b.String() + m.theme.Muted.Render("Geen afspraken gepland.")
	}

	b.WriteString(m.theme.TableHeader.Render(
		pad("Datum", 14)+pad("Afspraak", 36)+pad("Locatie", 24)) + "\n")
	for i, a := range m.appointments {
		row := pad(a.Date, 14) + pad(a.Title, 36) + pad(a.Location, 24)
		b.WriteString(m.rowStyle(i).Render(row) + "\n")
	}
	return b.String()
}

func (m Model) statisticsView() string {
	head, ok := m.banner()
	if !ok {
		return head
	}
	if m.stats == nil {
		return head + m.theme.Muted.Render("Geen statistieken beschikbaar.")
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString(m.theme.SectionTitle.Render("Statistieken") + "\n")

	s := m.stats.Summary
	b.WriteString(fmt.Sprintf("Actieve polissen:  %d\n", s.ActivePolicies))
	b.WriteString(fmt.Sprintf("Open claims:       %d\n", s.OpenClaims))
	b.WriteString(fmt.Sprintf("Totaal klanten:    %d\n", s.TotalCustomers))
	b.WriteString(fmt.Sprintf("Totale premie:     %s\n\n", formatEUR(s.TotalPremium)))

	b.WriteString(m.seriesView("Premie per maand", m.stats.MonthlyPremiums))
	b.WriteString(m.seriesView("Claims per type", m.stats.ClaimsByType))
	b.WriteString(m.seriesView("Klantgroei", m.stats.CustomerGrowth))
	return b.String()
}

// seriesView renders a labelled series as horizontal bars scaled to the
// series maximum. Terminal-friendly replacement for the portal's charts.
func (m Model) seriesView(title string, s api.Series) string {
	if len(s.Labels) == 0 || len(s.Labels) != len(s.Data) {
		return ""
	}

	var max float64
	for _, v := range s.Data {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return ""
	}

	const barWidth = 30
	var b strings.Builder
	b.WriteString(m.theme.TableHeader.Render(title) + "\n")
	for i, label := range s.Labels {
		n := int(s.Data[i] / max * barWidth)
		bar := strings.Repeat("█", n)
		b.WriteString(pad(label, 14) + m.theme.SuccessText.Render(bar) +
			fmt.Sprintf(" %.0f", s.Data[i]) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) accountingView() string {
	head, ok := m.banner()
	if !ok {
		return head
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString(m.theme.SectionTitle.Render("Boekhouding") + "\n")
	if len(m.invoices) == 0 {
		return b.String() + m.theme.Muted.Render("Geen facturen gevonden.")
	}

	b.WriteString(m.theme.TableHeader.Render(
		pad("Factuur", 14)+pad("Datum", 14)+pad("Bedrag", 14)+pad("Status", 12)) + "\n")
	var total float64
	for i, inv := range m.invoices {
		total += inv.Amount
		row := pad(inv.Number, 14) + pad(inv.Date, 14) +
			pad(formatEUR(inv.Amount), 14) + pad(inv.Status, 12)
		b.WriteString(m.rowStyle(i).Render(row) + "\n")
	}
	b.WriteString("\n" + fmt.Sprintf("Totaal: %s", formatEUR(total)))
	return b.String()
}

func (m Model) contactView() string {
	var b strings.Builder
	if m.flash != "" {
		b.WriteString(m.theme.SuccessText.Render(m.flash) + "\n\n")
	}
	b.WriteString(m.contact.view())
	return b.String()
}

func (m Model) aboutView() string {
	if m.aboutText == "" {
		return m.theme.Muted.Render("Laden...")
	}
	return m.aboutText
}

// =============================================================================
// HELPERS
// =============================================================================

func (m Model) rowStyle(index int) interface{ Render(...string) string } {
	if index == m.cursor {
		return m.theme.MenuItemActive
	}
	if index%2 == 1 {
		return m.theme.TableRowAlt
	}
	return m.theme.TableRow
}

func (m Model) isAdminPanelVisible() bool {
	if !m.snap.Authenticated() {
		return false
	}
	for _, r := range m.menuRoutes() {
		if r.Path == route.PathStatistics {
			return true
		}
	}
	return false
}
