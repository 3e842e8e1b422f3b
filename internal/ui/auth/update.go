// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the sign-in and registration form for the TUI.
package auth

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/knowdesk-tui/internal/api"
	"github.com/morganforge/knowdesk-tui/internal/credstore"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.inFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case succeededInternalMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.inFlight = false
		m.errText = ""
		return m, func() tea.Msg { return SucceededMsg{Cred: msg.Cred} }

	case failedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.inFlight = false
		// Fields keep what the user typed so a typo fix is one edit,
		// not a full re-entry.
		m.errText = msg.Err.Detail
		return m, nil
	}

	return m, m.updateFocused(msg)
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, func() tea.Msg { return QuitRequestMsg{} }

	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil

	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil

	case "ctrl+r":
		if m.mode == ModeLogin {
			m.mode = ModeRegister
		} else {
			m.mode = ModeLogin
		}
		m.errText = ""
		return m, nil

	case "enter":
		return m.submit()
	}

	return m, m.updateFocused(msg)
}

// setFocus moves keyboard focus to the given field.
func (m *Model) setFocus(field int) {
	m.focus = field
	if field == fieldEmail {
		m.email.Focus()
		m.password.Blur()
	} else {
		m.password.Focus()
		m.email.Blur()
	}
}

// updateFocused forwards a message to whichever field has focus.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == fieldEmail {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return cmd
}

// submit validates locally and dispatches the request. Empty fields
// never leave the client; an in-flight request makes submit a no-op.
func (m Model) submit() (Model, tea.Cmd) {
	if m.inFlight {
		return m, nil
	}

	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" {
		m.errText = "email and password are required"
		return m, nil
	}

	m.seq++
	m.inFlight = true
	m.errText = ""

	return m, tea.Batch(m.spinner.Tick, authCmd(m.client, m.mode, email, password, m.seq))
}

// authCmd performs the login or register call in the background.
func authCmd(client *api.Client, mode Mode, email, password string, seq int) tea.Cmd {
	return func() tea.Msg {
		var cred credstore.Credential
		var err error
		if mode == ModeRegister {
			cred, err = client.Register(context.Background(), email, password)
		} else {
			cred, err = client.Login(context.Background(), email, password)
		}
		if err != nil {
			authErr, ok := err.(*api.AuthError)
			if !ok {
				authErr = &api.AuthError{Detail: err.Error()}
			}
			return failedMsg{Seq: seq, Err: authErr}
		}
		return succeededInternalMsg{Seq: seq, Cred: cred}
	}
}
