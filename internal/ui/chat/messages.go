// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat
// interface. Messages are organized into the following categories:
//   - Query: submission results delivered back into the update loop
//   - Session: logout and quit requests bubbled up to the root model
//   - Loading: spinner ticks while a query is in flight
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"github.com/morganforge/knowdesk-tui/internal/api"
)

// =============================================================================
// QUERY MESSAGES
// =============================================================================

// QueryResultMsg delivers a successful chat response.
// ConversationID names the conversation the submission belonged to and
// Seq the submission within it; an outcome matching neither the live
// conversation nor its newest submission is dropped. The conversation
// check matters across sessions: a request abandoned by logout can
// resolve after a later login, when a fresh model is already counting
// seq from one again.
type QueryResultMsg struct {
	ConversationID string
	Seq            int
	Response       *api.ChatResponse
}

// QueryErrorMsg delivers a failed chat query. The detail inside Err is
// rendered as an error entry in the transcript. Guarded the same way
// as QueryResultMsg.
type QueryErrorMsg struct {
	ConversationID string
	Seq            int
	Err            *api.ChatError
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// LogoutRequestMsg asks the root model to end the session. The chat
// view emits it for the /logout command; the root model owns the
// credential store and the state transition.
type LogoutRequestMsg struct{}

// QuitRequestMsg asks the root model to exit the program.
type QuitRequestMsg struct{}
