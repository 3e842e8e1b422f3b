// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/knowdesk-tui/internal/api"
	"github.com/morganforge/knowdesk-tui/internal/config"
	"github.com/morganforge/knowdesk-tui/internal/credstore"
	"github.com/morganforge/knowdesk-tui/internal/ui/auth"
	"github.com/morganforge/knowdesk-tui/internal/ui/chat"
)

func testCredential() credstore.Credential {
	return credstore.Credential{
		Token: "tok-123",
		User:  credstore.User{Email: "dev@example.com", Role: credstore.RoleEmployee},
	}
}

func newTestApp(t *testing.T, signedIn bool) (Model, *credstore.Store) {
	t.Helper()
	store := credstore.NewAt(t.TempDir())
	if signedIn {
		if err := store.Set(testCredential()); err != nil {
			t.Fatalf("seed credential: %v", err)
		}
	}
	return NewModel(config.Default(), store), store
}

func TestStartsAnonymousWithoutCredential(t *testing.T) {
	m, _ := newTestApp(t, false)
	if m.state != StateAuth {
		t.Errorf("state = %v, want StateAuth", m.state)
	}
}

func TestStartsAuthenticatedWithStoredCredential(t *testing.T) {
	m, _ := newTestApp(t, true)
	if m.state != StateChat {
		t.Errorf("state = %v, want StateChat", m.state)
	}
}

func TestLoginSuccessPersistsAndSwitches(t *testing.T) {
	m, store := newTestApp(t, false)

	next, _ := m.Update(auth.SucceededMsg{Cred: testCredential()})
	got := next.(Model)

	if got.state != StateChat {
		t.Errorf("state = %v, want StateChat", got.state)
	}
	cred, ok := store.Get()
	if !ok {
		t.Fatal("credential not persisted")
	}
	if cred.Token != "tok-123" || cred.User.Email != "dev@example.com" {
		t.Errorf("stored credential = %+v", cred)
	}
}

func TestLogoutClearsAndSwitches(t *testing.T) {
	m, store := newTestApp(t, true)

	next, _ := m.Update(chat.LogoutRequestMsg{})
	got := next.(Model)

	if got.state != StateAuth {
		t.Errorf("state = %v, want StateAuth", got.state)
	}
	if _, ok := store.Get(); ok {
		t.Error("credential survived logout")
	}
}

func TestLogoutThenLoginStartsFreshTranscript(t *testing.T) {
	m, _ := newTestApp(t, true)

	next, _ := m.Update(chat.LogoutRequestMsg{})
	next, _ = next.(Model).Update(auth.SucceededMsg{Cred: testCredential()})
	got := next.(Model)

	if got.state != StateChat {
		t.Fatalf("state = %v, want StateChat", got.state)
	}
	if got.chatModel.Conversation().Len() != 0 {
		t.Error("transcript carried across sessions")
	}
}

// A query left in flight at logout may resolve minutes later, after a
// new login. Its result is addressed to the old conversation and must
// not surface in the new one.
func TestAbandonedQueryResultSkipsNewSession(t *testing.T) {
	m, _ := newTestApp(t, true)
	oldConversationID := m.chatModel.Conversation().ID

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("old question")})
	next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})

	next, _ = next.(Model).Update(chat.LogoutRequestMsg{})
	next, _ = next.(Model).Update(auth.SucceededMsg{Cred: testCredential()})
	got := next.(Model)

	next, _ = got.Update(chat.QueryResultMsg{
		ConversationID: oldConversationID,
		Seq:            1,
		Response:       &api.ChatResponse{Answer: "answer from the previous session"},
	})
	got = next.(Model)

	if got.chatModel.Conversation().Len() != 0 {
		last, _ := got.chatModel.Conversation().Last()
		t.Errorf("abandoned session's result reached the fresh transcript: %+v", last)
	}
}

func TestQuitRequests(t *testing.T) {
	m, _ := newTestApp(t, true)
	_, cmd := m.Update(chat.QuitRequestMsg{})
	if cmd == nil {
		t.Fatal("no command for quit request")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("command produced %T, want tea.QuitMsg", cmd())
	}

	m2, _ := newTestApp(t, false)
	_, cmd = m2.Update(auth.QuitRequestMsg{})
	if cmd == nil {
		t.Fatal("no command for auth quit request")
	}
}

func TestOpenLogFileRedirectsStandardLogger(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	dir := filepath.Join(t.TempDir(), "knowdesk")
	f, err := openLogFile(dir)
	if err != nil {
		t.Fatalf("openLogFile: %v", err)
	}
	defer f.Close()

	log.Print("get /chat 200")
	data, err := os.ReadFile(filepath.Join(dir, "knowdesk.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "get /chat 200") {
		t.Errorf("log entry missing from file: %q", data)
	}

	info, err := os.Stat(filepath.Join(dir, "knowdesk.log"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("log file mode = %v, want 0600", info.Mode().Perm())
	}
}
