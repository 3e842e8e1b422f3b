// knowdesk TUI - terminal client for the company knowledge assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/morganforge/knowdesk-tui/internal/api"
	"github.com/morganforge/knowdesk-tui/internal/cli"
	"github.com/morganforge/knowdesk-tui/internal/config"
	"github.com/morganforge/knowdesk-tui/internal/credstore"
	"github.com/morganforge/knowdesk-tui/internal/ui/auth"
	"github.com/morganforge/knowdesk-tui/internal/ui/chat"
	"github.com/morganforge/knowdesk-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async config reload notifications
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	switch cmd {
	case cli.CmdTUI:
		runTUI()
	case cli.CmdAsk:
		if err := cli.HandleAsk(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdLogin:
		if err := cli.HandleLogin(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdLogout:
		if err := cli.HandleLogout(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdStatus:
		if err := cli.HandleStatus(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		runTUI()
	}
}

// runTUI starts the full-screen interface.
func runTUI() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: not a terminal; use 'knowdesk ask \"question\"' for scripted use")
		os.Exit(1)
	}

	cfg := config.Global()

	// Request logging must not write to the terminal once the program
	// owns the alternate screen.
	if dir, err := config.Dir(); err == nil {
		if f, err := openLogFile(dir); err == nil {
			defer f.Close()
		}
	}

	store := credstore.New()

	m := NewModel(cfg, store)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	// Hot-reload config edits into the running program.
	stopWatch, err := config.Watch(func(updated *config.Config) {
		programMu.Lock()
		ref := programRef
		programMu.Unlock()
		if ref != nil {
			ref.Send(configReloadedMsg{cfg: updated})
		}
	})
	if err == nil {
		defer stopWatch()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running knowdesk: %v\n", err)
		os.Exit(1)
	}
}

// openLogFile points the standard logger at knowdesk.log under dir.
func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "knowdesk.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return f, nil
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// State represents the current application state.
type State int

const (
	StateAuth State = iota // Sign-in / registration form
	StateChat              // Authenticated chat view
)

// configReloadedMsg delivers a hot-reloaded configuration.
type configReloadedMsg struct {
	cfg *config.Config
}

// Model is the root Bubble Tea model. It owns the session: which view
// is active, the credential store, and the transitions between the
// anonymous and authenticated states.
type Model struct {
	state State

	theme  *styles.Theme
	config *config.Config
	store  *credstore.Store
	client *api.Client

	authModel auth.Model
	chatModel chat.Model

	width  int
	height int
}

// NewModel builds the root model. A stored credential skips the auth
// form; its validity is proven by the first backend call, not checked
// up front.
func NewModel(cfg *config.Config, store *credstore.Store) Model {
	theme := styles.NewTheme(cfg.UI.Theme)
	client := api.NewClient(cfg.API.BaseURL, store).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second)

	m := Model{
		state:  StateAuth,
		theme:  theme,
		config: cfg,
		store:  store,
		client: client,
	}

	if cred, ok := store.Get(); ok {
		m.state = StateChat
		m.chatModel = chat.New(theme, client, cred.User, cfg.UI.ShowStats, cfg.UI.CompactMode)
	} else {
		m.authModel = auth.New(theme, client)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.state == StateChat {
		return m.chatModel.Init()
	}
	return m.authModel.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Remember the size so the next view transition starts laid
		// out correctly, then resize the active view.
		m.width = msg.Width
		m.height = msg.Height
		if m.state == StateChat {
			m.chatModel.SetSize(msg.Width, msg.Height)
		} else {
			m.authModel.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case configReloadedMsg:
		return m.applyConfig(msg.cfg)

	case auth.SucceededMsg:
		return m.beginSession(msg.Cred)

	case auth.QuitRequestMsg, chat.QuitRequestMsg:
		return m, tea.Quit

	case chat.LogoutRequestMsg:
		return m.endSession()
	}

	return m.routeToActive(msg)
}

// routeToActive forwards a message to whichever view is active.
func (m Model) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.state == StateChat {
		m.chatModel, cmd = m.chatModel.Update(msg)
	} else {
		m.authModel, cmd = m.authModel.Update(msg)
	}
	return m, cmd
}

// beginSession persists the credential and switches to a fresh chat
// view.
func (m Model) beginSession(cred credstore.Credential) (tea.Model, tea.Cmd) {
	if err := m.store.Set(cred); err != nil {
		// The in-memory session still works; it just will not survive
		// a restart.
		fmt.Fprintf(os.Stderr, "warning: could not store session: %v\n", err)
	}

	m.state = StateChat
	m.chatModel = chat.New(m.theme, m.client, cred.User, m.config.UI.ShowStats, m.config.UI.CompactMode)
	m.chatModel.SetSize(m.width, m.height)
	return m, m.chatModel.Init()
}

// endSession discards the credential and returns to a blank auth form.
// The transcript is dropped with the chat model.
func (m Model) endSession() (tea.Model, tea.Cmd) {
	if err := m.store.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not clear session: %v\n", err)
	}

	m.state = StateAuth
	m.authModel = auth.New(m.theme, m.client)
	m.authModel.SetSize(m.width, m.height)
	m.chatModel = chat.Model{}
	return m, m.authModel.Init()
}

// applyConfig swaps in a hot-reloaded configuration. The next request
// uses the new backend URL and timeout; anything already in flight
// finishes against the old client. Theme and display settings take
// effect in the active view immediately.
func (m Model) applyConfig(cfg *config.Config) (tea.Model, tea.Cmd) {
	m.config = cfg
	m.theme = styles.NewTheme(cfg.UI.Theme)
	m.client = api.NewClient(cfg.API.BaseURL, m.store).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second)
	if m.state == StateChat {
		m.chatModel.SetClient(m.client)
		m.chatModel.SetTheme(m.theme)
		m.chatModel.SetDisplayOptions(cfg.UI.ShowStats, cfg.UI.CompactMode)
	} else {
		m.authModel.SetTheme(m.theme)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.state == StateChat {
		return m.chatModel.View()
	}
	return m.authModel.View()
}
