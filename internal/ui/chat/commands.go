// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea commands that perform network I/O
// off the update loop.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/knowdesk-tui/internal/api"
)

// sendQueryCmd submits a chat query in the background and delivers the
// outcome tagged with the conversation it belongs to and the submission
// sequence number. No retries: one submission produces exactly one
// result message.
func sendQueryCmd(client *api.Client, query, conversationID string, seq int) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.SendChatQuery(context.Background(), query, conversationID)
		if err != nil {
			chatErr, ok := err.(*api.ChatError)
			if !ok {
				chatErr = &api.ChatError{Detail: err.Error()}
			}
			return QueryErrorMsg{ConversationID: conversationID, Seq: seq, Err: chatErr}
		}
		return QueryResultMsg{ConversationID: conversationID, Seq: seq, Response: resp}
	}
}
