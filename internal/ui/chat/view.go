// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/knowdesk-tui/internal/model"
	"github.com/morganforge/knowdesk-tui/internal/ui/styles"
	"github.com/morganforge/knowdesk-tui/internal/util"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.state == StateWaiting {
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.ThinkingText.Render(
			" answering " + util.TruncateRunes(m.pendingQuery, 40) + "..."))
		b.WriteString("\n")
	}

	b.WriteString(m.theme.InputContainer.Width(m.width).Render(m.input.View()))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.renderHelp())
	} else {
		b.WriteString(m.renderStatusBar())
	}

	return b.String()
}

// renderHeader shows the product name and the signed-in identity.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("knowdesk")
	identity := m.theme.HeaderIdentity.Render(m.identity.Email)
	role := m.theme.HeaderRole.Render(string(m.identity.Role))

	line := title + "  " + identity + " " + role
	return m.theme.Header.Width(m.width).Render(line)
}

// renderStatusBar shows the short help line.
func (m Model) renderStatusBar() string {
	var parts []string
	for _, binding := range m.keyMap.ShortHelp() {
		h := binding.Help()
		parts = append(parts,
			m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	parts = append(parts, m.theme.ShortcutDesc.Render("/logout sign out"))
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

// renderHelp shows the full key binding list.
func (m Model) renderHelp() string {
	var b strings.Builder
	for _, group := range m.keyMap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(m.theme.ShortcutKey.Render(fmt.Sprintf("%-12s", h.Key)))
			b.WriteString(m.theme.ShortcutDesc.Render(h.Desc))
			b.WriteString("\n")
		}
	}
	b.WriteString(m.theme.ShortcutDesc.Render("slash commands: /logout /help /quit"))
	return b.String()
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderTranscript())
}

// renderTranscript renders every message in arrival order.
func (m Model) renderTranscript() string {
	msgs := m.conversation.Messages()
	if len(msgs) == 0 {
		return m.theme.InputPlaceholder.Render("Ask anything about your documents, database, GitHub, or Jira.")
	}

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg, i == len(msgs)-1))
		b.WriteString("\n")
	}
	return b.String()
}

// renderMessage renders a single transcript entry. In compact mode the
// role label line is omitted.
func (m Model) renderMessage(msg model.Message, isLast bool) string {
	var label string
	if !m.compact {
		label = m.theme.RoleLabel.Render(roleLabel(msg.Role)+" "+msg.Timestamp.Format("15:04")) + "\n"
	}

	switch msg.Role {
	case model.RoleUser:
		body := m.theme.UserBubble.Width(contentWidth(m.width)).Render(msg.Content)
		return label + body

	case model.RoleError:
		body := m.theme.ErrorEntry.Width(contentWidth(m.width)).Render(
			styles.StatusIndicators.Error + " " + msg.Content)
		return label + body

	default:
		var b strings.Builder
		b.WriteString(label)
		b.WriteString(m.theme.AssistantBubble.Width(contentWidth(m.width)).Render(
			strings.TrimRight(m.renderMarkdown(msg.Content), "\n")))

		if len(msg.Sources) > 0 {
			b.WriteString("\n")
			b.WriteString(m.renderSources(msg.Sources))
		}
		if len(msg.Tools) > 0 {
			b.WriteString("\n")
			b.WriteString(m.renderToolBadges(msg.Tools))
		}
		if isLast && m.showStats && m.lastStats != "" {
			b.WriteString("\n")
			b.WriteString(m.theme.StatsLine.Render(m.lastStats))
		}
		return b.String()
	}
}

// renderToolBadges renders one badge per tool the backend consulted,
// in the order the backend reported them.
func (m Model) renderToolBadges(tools []string) string {
	badges := make([]string, 0, len(tools))
	for _, id := range tools {
		badges = append(badges, m.theme.ToolBadge.Render(DescribeTool(id).Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, badges...)
}

// renderSources renders the citation list under an answer.
func (m Model) renderSources(sources []string) string {
	var b strings.Builder
	b.WriteString(m.theme.SourceList.Render("sources:"))
	for _, src := range sources {
		b.WriteString("\n")
		b.WriteString(m.theme.SourceList.Render("- " + m.theme.SourceItem.Render(src)))
	}
	return b.String()
}

// roleLabel maps a message role to its transcript label.
func roleLabel(r model.Role) string {
	switch r {
	case model.RoleUser:
		return "you"
	case model.RoleAssistant:
		return "assistant"
	case model.RoleError:
		return "error"
	default:
		return string(r)
	}
}

// formatStats builds the optional stats line under the latest answer.
// Either field may be missing; both missing yields an empty string.
func formatStats(modelUsed string, processingMs float64) string {
	var parts []string
	if modelUsed != "" {
		parts = append(parts, modelUsed)
	}
	if processingMs > 0 {
		parts = append(parts, fmt.Sprintf("%.0fms", processingMs))
	}
	return strings.Join(parts, " · ")
}
