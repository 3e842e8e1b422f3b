// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
)

func TestNewAssistantMessageCopiesSlices(t *testing.T) {
	sources := []string{"a.pdf"}
	tools := []string{"search_documents"}
	msg := NewAssistantMessage("answer", sources, tools)

	sources[0] = "mutated"
	tools[0] = "mutated"

	if msg.Sources[0] != "a.pdf" {
		t.Errorf("Sources[0] = %q, want a.pdf", msg.Sources[0])
	}
	if msg.Tools[0] != "search_documents" {
		t.Errorf("Tools[0] = %q, want search_documents", msg.Tools[0])
	}
}

func TestNewAssistantMessageEmptySlices(t *testing.T) {
	msg := NewAssistantMessage("answer", nil, []string{})
	if msg.Sources != nil {
		t.Errorf("Sources = %v, want nil", msg.Sources)
	}
	if msg.Tools != nil {
		t.Errorf("Tools = %v, want nil", msg.Tools)
	}
}

func TestMessageConstructorRoles(t *testing.T) {
	if got := NewUserMessage("hi").Role; got != RoleUser {
		t.Errorf("user role = %q", got)
	}
	if got := NewAssistantMessage("hi", nil, nil).Role; got != RoleAssistant {
		t.Errorf("assistant role = %q", got)
	}
	if got := NewErrorMessage("boom").Role; got != RoleError {
		t.Errorf("error role = %q", got)
	}
}

func TestConversationAppendOrder(t *testing.T) {
	conv := NewConversation()
	if conv.ID == "" {
		t.Fatal("conversation ID is empty")
	}
	if conv.Len() != 0 {
		t.Fatalf("new conversation Len() = %d", conv.Len())
	}

	conv.Append(NewUserMessage("one"))
	conv.Append(NewErrorMessage("two"))
	conv.Append(NewAssistantMessage("three", nil, nil))

	msgs := conv.Messages()
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	for i, want := range []string{"one", "two", "three"} {
		if msgs[i].Content != want {
			t.Errorf("messages[%d] = %q, want %q", i, msgs[i].Content, want)
		}
	}

	last, ok := conv.Last()
	if !ok || last.Content != "three" {
		t.Errorf("Last() = %q, %v", last.Content, ok)
	}
}

func TestConversationIDsAreUnique(t *testing.T) {
	a, b := NewConversation(), NewConversation()
	if a.ID == b.ID {
		t.Errorf("two conversations share ID %q", a.ID)
	}
}

func TestConversationLastEmpty(t *testing.T) {
	conv := NewConversation()
	if _, ok := conv.Last(); ok {
		t.Error("Last() on empty conversation returned ok")
	}
}
