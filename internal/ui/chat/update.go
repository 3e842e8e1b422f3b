// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/knowdesk-tui/internal/model"
	"github.com/morganforge/knowdesk-tui/internal/util"
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
		if m.state != StateWaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case QueryResultMsg:
		return m.handleQueryResult(msg)

	case QueryErrorMsg:
		return m.handleQueryError(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, func() tea.Msg { return QuitRequestMsg{} }

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles Enter. Blank input and an in-flight query are both
// no-ops that leave the composed text in place.
func (m Model) submit() (Model, tea.Cmd) {
	raw := m.input.Value()
	if util.IsBlank(raw) {
		return m, nil
	}
	if m.state == StateWaiting {
		return m, nil
	}

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "/") {
		return m.runSlashCommand(trimmed)
	}

	// Optimistic echo: the user's message joins the transcript before
	// the backend answers.
	m.conversation.Append(model.NewUserMessage(trimmed))
	m.input.Reset()

	m.seq++
	m.state = StateWaiting
	m.pendingQuery = trimmed
	m.refreshViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.spinner.Tick,
		sendQueryCmd(m.client, trimmed, m.conversation.ID, m.seq),
	)
}

// runSlashCommand dispatches /-prefixed input. Unknown commands are
// reported in the transcript rather than sent to the backend.
func (m Model) runSlashCommand(input string) (Model, tea.Cmd) {
	cmd := strings.Fields(input)[0]
	switch cmd {
	case "/logout":
		return m, func() tea.Msg { return LogoutRequestMsg{} }
	case "/quit":
		return m, func() tea.Msg { return QuitRequestMsg{} }
	case "/help":
		m.input.Reset()
		m.showHelp = !m.showHelp
		return m, nil
	default:
		m.input.Reset()
		m.conversation.Append(model.NewErrorMessage("unknown command " + cmd + " (try /help)"))
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil
	}
}

// handleQueryResult appends the assistant's answer. Results from a
// superseded submission, or from a conversation this model never
// started, are dropped.
func (m Model) handleQueryResult(msg QueryResultMsg) (Model, tea.Cmd) {
	if msg.ConversationID != m.conversation.ID || msg.Seq != m.seq {
		return m, nil
	}
	m.state = StateReady
	m.pendingQuery = ""

	am := model.NewAssistantMessage(msg.Response.Answer, msg.Response.Sources, msg.Response.ToolsUsed)
	m.conversation.Append(am)
	m.lastStats = formatStats(msg.Response.ModelUsed, msg.Response.ProcessingTimeMs)

	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// handleQueryError appends an error entry. The preceding user message
// stays in the transcript; there is no rollback.
func (m Model) handleQueryError(msg QueryErrorMsg) (Model, tea.Cmd) {
	if msg.ConversationID != m.conversation.ID || msg.Seq != m.seq {
		return m, nil
	}
	m.state = StateReady
	m.pendingQuery = ""

	m.conversation.Append(model.NewErrorMessage(msg.Err.Detail))
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}
