// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the sign-in and registration form for the TUI.
//
// This file defines the Bubble Tea message types the form produces.
package auth

import (
	"github.com/morganforge/knowdesk-tui/internal/api"
	"github.com/morganforge/knowdesk-tui/internal/credstore"
)

// SucceededMsg signals a completed login or registration. The root
// model persists the credential and switches to the chat view.
type SucceededMsg struct {
	Cred credstore.Credential
}

// failedMsg is internal to the form: the attempt was rejected or the
// request failed. Seq ties it to the submission that produced it.
type failedMsg struct {
	Seq int
	Err *api.AuthError
}

// succeededInternalMsg carries a successful outcome back into the form
// before it is re-emitted as SucceededMsg, so the seq guard applies to
// successes the same way it does to failures.
type succeededInternalMsg struct {
	Seq  int
	Cred credstore.Credential
}

// QuitRequestMsg asks the root model to exit the program.
type QuitRequestMsg struct{}
