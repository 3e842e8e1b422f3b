// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command handler for the knowdesk CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/morganforge/knowdesk-tui/internal/config"
	"github.com/morganforge/knowdesk-tui/internal/credstore"
)

// statusReport is the JSON shape for `knowdesk status --json`.
type statusReport struct {
	BackendURL string `json:"backend_url"`
	ConfigPath string `json:"config_path"`
	SignedIn   bool   `json:"signed_in"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
}

// HandleStatus implements `knowdesk status`.
func HandleStatus(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store := credstore.New()

	configPath, err := config.Path()
	if err != nil {
		configPath = "(unavailable)"
	}

	report := statusReport{
		BackendURL: cfg.API.BaseURL,
		ConfigPath: configPath,
	}
	if cred, ok := store.Get(); ok {
		report.SignedIn = true
		report.Email = cred.User.Email
		report.Role = string(cred.User.Role)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("backend:  %s\n", report.BackendURL)
	fmt.Printf("config:   %s\n", report.ConfigPath)
	if report.SignedIn {
		fmt.Printf("session:  %s (%s)\n", report.Email, report.Role)
	} else {
		fmt.Println("session:  not signed in")
	}
	return nil
}
