// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the in-memory chat transcript types.
//
// A conversation lives only for the duration of the session: nothing
// here is persisted, and messages are never mutated after they are
// appended.
package model

import (
	"time"
)

// Role identifies who produced a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

// Message is a single transcript entry. Messages are immutable once
// created; Sources and Tools must not be modified by holders.
type Message struct {
	Role      Role
	Content   string
	Sources   []string
	Tools     []string
	Timestamp time.Time
}

// NewUserMessage creates a user message stamped with the current time.
func NewUserMessage(content string) Message {
	return Message{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message with its supporting
// sources and the tools the backend consulted. Slices are copied so
// the message stays immutable even if the caller reuses its buffers.
func NewAssistantMessage(content string, sources, tools []string) Message {
	return Message{
		Role:      RoleAssistant,
		Content:   content,
		Sources:   cloneStrings(sources),
		Tools:     cloneStrings(tools),
		Timestamp: time.Now(),
	}
}

// NewErrorMessage creates an error entry for display in the transcript.
func NewErrorMessage(content string) Message {
	return Message{
		Role:      RoleError,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
