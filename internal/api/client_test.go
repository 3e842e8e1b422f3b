// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/morganforge/knowdesk-tui/internal/credstore"
)

// fakeCreds is a CredentialSource with a fixed answer.
type fakeCreds struct {
	cred credstore.Credential
	ok   bool
}

func (f fakeCreds) Get() (credstore.Credential, bool) {
	return f.cred, f.ok
}

func authed(token string) fakeCreds {
	return fakeCreds{
		cred: credstore.Credential{
			Token: token,
			User:  credstore.User{Email: "dev@example.com", Role: credstore.RoleEmployee},
		},
		ok: true,
	}
}

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %q, want /auth/login", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("unexpected Authorization header on login: %q", auth)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["email"] != "dev@example.com" || req["password"] != "hunter2" {
			t.Errorf("unexpected request body: %v", req)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"user":         map[string]string{"email": "dev@example.com", "role": "manager"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, fakeCreds{})
	cred, err := client.Login(context.Background(), "dev@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if cred.Token != "tok-123" {
		t.Errorf("Token = %q, want tok-123", cred.Token)
	}
	if cred.User.Email != "dev@example.com" {
		t.Errorf("Email = %q", cred.User.Email)
	}
	if cred.User.Role != credstore.RoleManager {
		t.Errorf("Role = %q, want manager", cred.User.Role)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, fakeCreds{})
	_, err := client.Login(context.Background(), "dev@example.com", "wrong")
	authErr, ok := err.(*AuthError)
	if !ok {
		t.Fatalf("error = %T (%v), want *AuthError", err, err)
	}
	if authErr.Detail != "Incorrect email or password" {
		t.Errorf("Detail = %q", authErr.Detail)
	}
	if authErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", authErr.Status)
	}
}

func TestLoginMalformedFailureBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, fakeCreds{})
	_, err := client.Login(context.Background(), "a@b.c", "x")
	authErr, ok := err.(*AuthError)
	if !ok {
		t.Fatalf("error = %T, want *AuthError", err)
	}
	if authErr.Detail != genericErrorDetail {
		t.Errorf("Detail = %q, want generic fallback", authErr.Detail)
	}
}

func TestLoginTransportFailure(t *testing.T) {
	// Server that is already gone.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, fakeCreds{})
	_, err := client.Login(context.Background(), "a@b.c", "x")
	if _, ok := err.(*AuthError); !ok {
		t.Fatalf("error = %T, want *AuthError for transport failure", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("path = %q, want /auth/register", r.URL.Path)
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Email already registered"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, fakeCreds{})
	_, err := client.Register(context.Background(), "dev@example.com", "hunter2")
	authErr, ok := err.(*AuthError)
	if !ok {
		t.Fatalf("error = %T, want *AuthError", err)
	}
	if authErr.Detail != "Email already registered" {
		t.Errorf("Detail = %q", authErr.Detail)
	}
}

func TestChatAttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want Bearer tok-123", auth)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"answer":     "42",
			"sources":    []string{"handbook.pdf"},
			"tools_used": []string{"search_documents"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, authed("tok-123"))
	resp, err := client.SendChatQuery(context.Background(), "what is the answer?", "")
	if err != nil {
		t.Fatalf("SendChatQuery() error = %v", err)
	}
	if resp.Answer != "42" {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if len(resp.Sources) != 1 || resp.Sources[0] != "handbook.pdf" {
		t.Errorf("Sources = %v", resp.Sources)
	}
	if len(resp.ToolsUsed) != 1 || resp.ToolsUsed[0] != "search_documents" {
		t.Errorf("ToolsUsed = %v", resp.ToolsUsed)
	}
}

func TestChatSendsConversationID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["conversation_id"] != "conv-9" {
			t.Errorf("conversation_id = %q, want conv-9", req["conversation_id"])
		}
		json.NewEncoder(w).Encode(map[string]any{"answer": "ok"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, authed("tok"))
	if _, err := client.SendChatQuery(context.Background(), "hi", "conv-9"); err != nil {
		t.Fatalf("SendChatQuery() error = %v", err)
	}
}

func TestChatExpiredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, authed("stale"))
	_, err := client.SendChatQuery(context.Background(), "hi", "")
	chatErr, ok := err.(*ChatError)
	if !ok {
		t.Fatalf("error = %T, want *ChatError", err)
	}
	if chatErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", chatErr.Status)
	}
	if chatErr.Detail != "Could not validate credentials" {
		t.Errorf("Detail = %q", chatErr.Detail)
	}
}

func TestChatEmptyQueryRejectedLocally(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(srv.URL, authed("tok"))
	_, err := client.SendChatQuery(context.Background(), "   ", "")
	if _, ok := err.(*ChatError); !ok {
		t.Fatalf("error = %T, want *ChatError", err)
	}
	if called {
		t.Error("empty query should not reach the server")
	}
}

func TestChatContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(srv.URL, authed("tok"))
	_, err := client.SendChatQuery(ctx, "hi", "")
	if _, ok := err.(*ChatError); !ok {
		t.Fatalf("error = %T, want *ChatError", err)
	}
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"valid detail", `{"detail":"nope"}`, "nope"},
		{"empty detail", `{"detail":""}`, genericErrorDetail},
		{"not json", "<html>", genericErrorDetail},
		{"wrong shape", `{"error":"nope"}`, genericErrorDetail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractDetail([]byte(tt.body)); got != tt.want {
				t.Errorf("extractDetail(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}
