// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the sign-in and registration form for the TUI.
package auth

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/knowdesk-tui/internal/api"
	"github.com/morganforge/knowdesk-tui/internal/ui/styles"
)

// =============================================================================
// AUTH MODE
// =============================================================================

// Mode selects between signing in and creating an account. Both modes
// share the same two-field form and the same submit path.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// =============================================================================
// FORM FIELDS
// =============================================================================

const (
	fieldEmail = iota
	fieldPassword
	fieldCount
)

// =============================================================================
// AUTH MODEL
// =============================================================================

// Model is the Bubble Tea model for the auth form.
//
// One request can be in flight at a time; further submits are ignored
// until the outcome arrives. A failed attempt shows the server's
// message inline and keeps both fields as typed.
type Model struct {
	theme  *styles.Theme
	client *api.Client

	mode     Mode
	email    textinput.Model
	password textinput.Model
	focus    int

	inFlight bool
	seq      int

	// Inline feedback from the last attempt
	errText string

	spinner spinner.Model

	width  int
	height int
}

// New creates the auth form.
func New(theme *styles.Theme, client *api.Client) Model {
	email := textinput.New()
	email.Prompt = ""
	email.Placeholder = "you@company.com"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		theme:    theme,
		client:   client,
		mode:     ModeLogin,
		email:    email,
		password: password,
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetTheme swaps the theme, used when ui.theme is hot-reloaded.
func (m *Model) SetTheme(theme *styles.Theme) {
	m.theme = theme
	m.spinner.Style = theme.Spinner
}

// Mode returns the current form mode.
func (m Model) Mode() Mode {
	return m.mode
}

// InFlight reports whether a request is outstanding.
func (m Model) InFlight() bool {
	return m.inFlight
}

// ErrText returns the inline error from the last failed attempt.
func (m Model) ErrText() string {
	return m.errText
}

// SetSize updates the layout for a new terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	fieldWidth := width - 16
	if fieldWidth > 48 {
		fieldWidth = 48
	}
	if fieldWidth < 16 {
		fieldWidth = 16
	}
	m.email.Width = fieldWidth
	m.password.Width = fieldWidth
}
