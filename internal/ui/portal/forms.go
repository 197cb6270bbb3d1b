// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package portal

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/riskportal-tui/internal/api"
	"github.com/jeranaias/riskportal-tui/internal/ui/styles"
)

// =============================================================================
// LOGIN FORM
// =============================================================================

// loginForm is the two-field credential form on the login view.
type loginForm struct {
	theme    *styles.Theme
	email    textinput.Model
	password textinput.Model
	focus    int
	errText  string
	busy     bool
}

func newLoginForm(theme *styles.Theme) loginForm {
	email := textinput.New()
	email.Placeholder = "naam@voorbeeld.nl"
	email.CharLimit = 254
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "wachtwoord"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Width = 40

	return loginForm{theme: theme, email: email, password: password}
}

func (f *loginForm) reset() {
	f.email.SetValue("")
	f.password.SetValue("")
	f.focus = 0
	f.errText = ""
	f.busy = false
	f.email.Focus()
	f.password.Blur()
}

func (f *loginForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

// update handles a key event. It returns the credentials when the form is
// submitted, and ok=true only then.
func (f *loginForm) update(msg tea.KeyMsg) (email, password string, ok bool, cmd tea.Cmd) {
	if f.busy {
		return "", "", false, nil
	}

	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		f.focus = (f.focus + 1) % 2
		if f.focus == 0 {
			f.email.Focus()
			f.password.Blur()
		} else {
			f.password.Focus()
			f.email.Blur()
		}
		return "", "", false, textinput.Blink
	case "enter":
		if f.focus == 0 {
			f.focus = 1
			f.email.Blur()
			f.password.Focus()
			return "", "", false, textinput.Blink
		}
		email := strings.TrimSpace(f.email.Value())
		password := f.password.Value()
		if email == "" || password == "" {
			f.errText = "Vul e-mailadres en wachtwoord in."
			return "", "", false, nil
		}
		f.errText = ""
		f.busy = true
		return email, password, true, nil
	}

	var c tea.Cmd
	if f.focus == 0 {
		f.email, c = f.email.Update(msg)
	} else {
		f.password, c = f.password.Update(msg)
	}
	return "", "", false, c
}

func (f *loginForm) view() string {
	var b strings.Builder
	b.WriteString(f.theme.SectionTitle.Render("Inloggen") + "\n\n")
	b.WriteString(f.theme.InputLabel.Render("E-mailadres") + "\n")
	b.WriteString(f.inputStyle(0).Render(f.email.View()) + "\n")
	b.WriteString(f.theme.InputLabel.Render("Wachtwoord") + "\n")
	b.WriteString(f.inputStyle(1).Render(f.password.View()) + "\n\n")
	if f.busy {
		b.WriteString(f.theme.Muted.Render("Bezig met inloggen..."))
	} else {
		b.WriteString(f.theme.Button.Render("Inloggen (enter)"))
	}
	if f.errText != "" {
		b.WriteString("\n\n" + f.theme.ErrorText.Render(f.errText))
	}
	return b.String()
}

func (f *loginForm) inputStyle(index int) interface{ Render(...string) string } {
	if f.focus == index {
		return f.theme.InputFocused
	}
	return f.theme.InputBlurred
}

// =============================================================================
// CLAIM FORM
// =============================================================================

// claimForm files a new claim against one of the user's policies.
type claimForm struct {
	theme       *styles.Theme
	policyID    textinput.Model
	description textinput.Model
	focus       int
	errText     string
	busy        bool
}

func newClaimForm(theme *styles.Theme) claimForm {
	policyID := textinput.New()
	policyID.Placeholder = "polisnummer"
	policyID.CharLimit = 10
	policyID.Width = 20

	description := textinput.New()
	description.Placeholder = "omschrijving van de schade"
	description.CharLimit = 500
	description.Width = 60

	return claimForm{theme: theme, policyID: policyID, description: description}
}

func (f *claimForm) reset() {
	f.policyID.SetValue("")
	f.description.SetValue("")
	f.focus = 0
	f.errText = ""
	f.busy = false
	f.policyID.Focus()
	f.description.Blur()
}

func (f *claimForm) update(msg tea.KeyMsg) (req api.ClaimRequest, ok bool, cmd tea.Cmd) {
	if f.busy {
		return api.ClaimRequest{}, false, nil
	}

	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		f.focus = (f.focus + 1) % 2
		if f.focus == 0 {
			f.policyID.Focus()
			f.description.Blur()
		} else {
			f.description.Focus()
			f.policyID.Blur()
		}
		return api.ClaimRequest{}, false, textinput.Blink
	case "enter":
		if f.focus == 0 {
			f.focus = 1
			f.policyID.Blur()
			f.description.Focus()
			return api.ClaimRequest{}, false, textinput.Blink
		}
		id, err := strconv.Atoi(strings.TrimSpace(f.policyID.Value()))
		if err != nil || id <= 0 {
			f.errText = "Voer een geldig polisnummer in."
			return api.ClaimRequest{}, false, nil
		}
		description := strings.TrimSpace(f.description.Value())
		if description == "" {
			f.errText = "Omschrijving is verplicht."
			return api.ClaimRequest{}, false, nil
		}
		f.errText = ""
		f.busy = true
		return api.ClaimRequest{PolicyID: id, Description: description}, true, nil
	}

	var c tea.Cmd
	if f.focus == 0 {
		f.policyID, c = f.policyID.Update(msg)
	} else {
		f.description, c = f.description.Update(msg)
	}
	return api.ClaimRequest{}, false, c
}

func (f *claimForm) view() string {
	var b strings.Builder
	b.WriteString(f.theme.SectionTitle.Render("Nieuwe claim") + "\n\n")
	b.WriteString(f.theme.InputLabel.Render("Polisnummer") + "\n")
	b.WriteString(f.inputStyle(0).Render(f.policyID.View()) + "\n")
	b.WriteString(f.theme.InputLabel.Render("Omschrijving") + "\n")
	b.WriteString(f.inputStyle(1).Render(f.description.View()) + "\n\n")
	if f.busy {
		b.WriteString(f.theme.Muted.Render("Bezig met indienen..."))
	} else {
		b.WriteString(f.theme.Button.Render("Indienen (enter)") + "  " + f.theme.Muted.Render("esc annuleren"))
	}
	if f.errText != "" {
		b.WriteString("\n\n" + f.theme.ErrorText.Render(f.errText))
	}
	return b.String()
}

func (f *claimForm) inputStyle(index int) interface{ Render(...string) string } {
	if f.focus == index {
		return f.theme.InputFocused
	}
	return f.theme.InputBlurred
}

// =============================================================================
// CONTACT FORM
// =============================================================================

// contactForm sends a message to the brokerage. Name and email are prefilled
// from the session.
type contactForm struct {
	theme   *styles.Theme
	name    textinput.Model
	email   textinput.Model
	message textinput.Model
	focus   int
	errText string
	busy    bool
}

func newContactForm(theme *styles.Theme) contactForm {
	name := textinput.New()
	name.Placeholder = "naam"
	name.CharLimit = 100
	name.Width = 40

	email := textinput.New()
	email.Placeholder = "naam@voorbeeld.nl"
	email.CharLimit = 254
	email.Width = 40

	message := textinput.New()
	message.Placeholder = "uw bericht"
	message.CharLimit = 1000
	message.Width = 60

	return contactForm{theme: theme, name: name, email: email, message: message}
}

func (f *contactForm) reset() {
	f.name.SetValue("")
	f.email.SetValue("")
	f.message.SetValue("")
	f.focus = 0
	f.errText = ""
	f.busy = false
	f.name.Focus()
	f.email.Blur()
	f.message.Blur()
}

func (f *contactForm) prefill(name, email string) {
	f.name.SetValue(name)
	f.email.SetValue(email)
	f.focus = 2
	f.name.Blur()
	f.email.Blur()
	f.message.Focus()
}

func (f *contactForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (f *contactForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.name, &f.email, &f.message}
}

func (f *contactForm) setFocus(index int) {
	f.focus = index
	for i, in := range f.inputs() {
		if i == index {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (f *contactForm) update(msg tea.KeyMsg) (out api.ContactMessage, ok bool, cmd tea.Cmd) {
	if f.busy {
		return api.ContactMessage{}, false, nil
	}

	switch msg.String() {
	case "tab", "down":
		f.setFocus((f.focus + 1) % 3)
		return api.ContactMessage{}, false, textinput.Blink
	case "shift+tab", "up":
		f.setFocus((f.focus + 2) % 3)
		return api.ContactMessage{}, false, textinput.Blink
	case "enter":
		if f.focus < 2 {
			f.setFocus(f.focus + 1)
			return api.ContactMessage{}, false, textinput.Blink
		}
		name := strings.TrimSpace(f.name.Value())
		email := strings.TrimSpace(f.email.Value())
		message := strings.TrimSpace(f.message.Value())
		if name == "" || email == "" || message == "" {
			f.errText = "Alle velden zijn verplicht."
			return api.ContactMessage{}, false, nil
		}
		f.errText = ""
		f.busy = true
		return api.ContactMessage{Name: name, Email: email, Message: message}, true, nil
	}

	var c tea.Cmd
	in := f.inputs()[f.focus]
	*in, c = in.Update(msg)
	return api.ContactMessage{}, false, c
}

func (f *contactForm) view() string {
	var b strings.Builder
	b.WriteString(f.theme.SectionTitle.Render("Contact") + "\n\n")
	labels := []string{"Naam", "E-mailadres", "Bericht"}
	for i, in := range f.inputs() {
		b.WriteString(f.theme.InputLabel.Render(labels[i]) + "\n")
		style := f.theme.InputBlurred
		if f.focus == i {
			style = f.theme.InputFocused
		}
		b.WriteString(style.Render(in.View()) + "\n")
	}
	b.WriteString("\n")
	if f.busy {
		b.WriteString(f.theme.Muted.Render("Bezig met verzenden..."))
	} else {
		b.WriteString(f.theme.Button.Render("Verzenden (enter)"))
	}
	if f.errText != "" {
		b.WriteString("\n\n" + f.theme.ErrorText.Render(f.errText))
	}
	return b.String()
}
