// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credstore persists the current session credential.
//
// The store keeps exactly two entries under the knowdesk config
// directory: the opaque bearer token and the JSON-serialized user
// profile. Both files are written atomically with 0600 permissions.
// The pair is all-or-nothing: Get reports a credential only when both
// entries are present and well-formed, so a half-written or externally
// mangled store degrades to "absent" instead of producing a broken
// session.
package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/morganforge/knowdesk-tui/internal/config"
	"github.com/morganforge/knowdesk-tui/internal/util"
)

const (
	tokenFile   = "token"
	profileFile = "profile.json"
)

// =============================================================================
// CREDENTIAL TYPES
// =============================================================================

// Role is the user's backend-assigned role.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// User is the profile half of a credential.
type User struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Credential is a bearer token paired with the user it belongs to.
// The pair is set and cleared atomically; a token without a profile
// is treated as no credential at all.
type Credential struct {
	Token string
	User  User
}

// wellFormed reports whether the credential is usable for a session.
// Unknown roles are accepted: the backend owns the role vocabulary and
// the client only displays it.
func (c Credential) wellFormed() bool {
	return strings.TrimSpace(c.Token) != "" && strings.TrimSpace(c.User.Email) != ""
}

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes the credential pair in a directory.
// It performs no network calls.
type Store struct {
	dir string
}

// New returns a store rooted at the knowdesk config directory.
// When the home directory cannot be determined the store still works,
// rooted at a path that will simply never resolve - Get degrades to
// absent rather than failing.
func New() *Store {
	dir, err := config.Dir()
	if err != nil {
		dir = filepath.Join(".", ".knowdesk")
	}
	return NewAt(dir)
}

// NewAt returns a store rooted at an explicit directory. Used by tests.
func NewAt(dir string) *Store {
	return &Store{dir: dir}
}

// Get returns the stored credential. The second return value is false
// when no well-formed credential pair exists, including when the
// underlying medium is unavailable or holds only half the pair.
func (s *Store) Get() (Credential, bool) {
	token, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return Credential{}, false
	}

	data, err := os.ReadFile(filepath.Join(s.dir, profileFile))
	if err != nil {
		return Credential{}, false
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return Credential{}, false
	}

	cred := Credential{Token: strings.TrimSpace(string(token)), User: user}
	if !cred.wellFormed() {
		return Credential{}, false
	}
	return cred, true
}

// Set persists the credential pair. The profile is written before the
// token, so a crash between the two writes leaves a store that Get
// reports as absent - never a token without an owner.
func (s *Store) Set(cred Credential) error {
	if !cred.wellFormed() {
		return fmt.Errorf("refusing to store incomplete credential")
	}

	data, err := json.Marshal(cred.User)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(filepath.Join(s.dir, profileFile), data, 0o600, 0o700); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(filepath.Join(s.dir, tokenFile), []byte(cred.Token), 0o600, 0o700); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Clear removes both entries. The token goes first, so a crash between
// the two removes leaves a profile-only store that Get reports as
// absent. Removing entries that do not exist is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(filepath.Join(s.dir, tokenFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	if err := os.Remove(filepath.Join(s.dir, profileFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}
	return nil
}
