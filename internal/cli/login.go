// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// login.go - Interactive sign-in for the one-shot CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/morganforge/knowdesk-tui/internal/api"
	"github.com/morganforge/knowdesk-tui/internal/config"
	"github.com/morganforge/knowdesk-tui/internal/credstore"
)

// newClient builds the backend client from the loaded configuration,
// reading the bearer token from the given store.
func newClient(cfg *config.Config, store *credstore.Store) *api.Client {
	return api.NewClient(cfg.API.BaseURL, store).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second)
}

// promptEmail reads the email address with line editing.
func promptEmail(preset string) (string, error) {
	if preset != "" {
		return preset, nil
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	email, err := line.Prompt("email: ")
	if err != nil {
		return "", fmt.Errorf("read email: %w", err)
	}
	return strings.TrimSpace(email), nil
}

// promptPassword reads the password without echo.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "password: ")
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(passBytes), nil
}

// interactiveLogin prompts for credentials, authenticates, and stores
// the resulting session.
func interactiveLogin(client *api.Client, store *credstore.Store, presetEmail string) (credstore.Credential, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return credstore.Credential{}, fmt.Errorf("not signed in and stdin is not a terminal; run 'knowdesk login' first")
	}

	email, err := promptEmail(presetEmail)
	if err != nil {
		return credstore.Credential{}, err
	}
	password, err := promptPassword()
	if err != nil {
		return credstore.Credential{}, err
	}
	if email == "" || password == "" {
		return credstore.Credential{}, fmt.Errorf("email and password are required")
	}

	cred, err := client.Login(context.Background(), email, password)
	if err != nil {
		return credstore.Credential{}, err
	}
	if err := store.Set(cred); err != nil {
		// The session works for this invocation even if it could not
		// be persisted.
		fmt.Fprintf(os.Stderr, "warning: could not store session: %v\n", err)
	}
	return cred, nil
}

// HandleLogin implements `knowdesk login`.
func HandleLogin(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store := credstore.New()

	cred, err := interactiveLogin(newClient(cfg, store), store, args.Email)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", cred.User.Email, cred.User.Role)
	return nil
}

// HandleLogout implements `knowdesk logout`.
func HandleLogout(args Args) error {
	store := credstore.New()
	if _, ok := store.Get(); !ok {
		fmt.Println("not signed in")
		return nil
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("signed out")
	return nil
}
