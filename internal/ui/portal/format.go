// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package portal

import (
	"fmt"
	"time"

	runewidth "github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// dutch formats numbers the Dutch way: dot thousands separator, comma
// decimals.
var dutch = message.NewPrinter(language.Dutch)

// formatEUR renders an amount as a Dutch euro string, e.g. "€ 1.234,56".
func formatEUR(amount float64) string {
	return dutch.Sprintf("€ %.2f", amount)
}

// pad fits a cell to the given display width, truncating with an ellipsis
// when too long. Width is measured in terminal cells, not bytes.
func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// formatCacheAge renders the offline-fallback marker for a cached payload.
func formatCacheAge(fetchedAt time.Time) string {
	age := time.Since(fetchedAt)
	switch {
	case age < time.Minute:
		return "opgeslagen kopie (zojuist opgehaald)"
	case age < time.Hour:
		return fmt.Sprintf("opgeslagen kopie (%d min geleden)", int(age.Minutes()))
	case age < 48*time.Hour:
		return fmt.Sprintf("opgeslagen kopie (%d uur geleden)", int(age.Hours()))
	default:
		return fmt.Sprintf("opgeslagen kopie van %s", fetchedAt.Format("02-01-2006"))
	}
}
