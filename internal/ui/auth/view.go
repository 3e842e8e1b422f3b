// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the sign-in and registration form for the TUI.
package auth

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.FormTitle.Render("knowdesk"))
	b.WriteString("\n\n")
	b.WriteString(m.renderModeTabs())
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("email"))
	b.WriteString("\n")
	b.WriteString(m.email.View())
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n")

	if m.inFlight {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.FormHint.Render(" signing in..."))
	} else if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.FormError.Render(m.errText))
	}

	b.WriteString("\n\n")
	b.WriteString(m.theme.FormHint.Render("Enter submit · Tab next field · C-r switch mode · C-c quit"))

	form := m.theme.FormBox.Render(b.String())

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
	}
	return form
}

// renderModeTabs shows which of the two modes is active.
func (m Model) renderModeTabs() string {
	login := m.theme.FormModeIdle.Render("Sign in")
	register := m.theme.FormModeIdle.Render("Register")
	if m.mode == ModeLogin {
		login = m.theme.FormModeActive.Render("Sign in")
	} else {
		register = m.theme.FormModeActive.Render("Register")
	}
	return login + " " + register
}
