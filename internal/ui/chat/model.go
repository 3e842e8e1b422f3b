// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/morganforge/knowdesk-tui/internal/api"
	"github.com/morganforge/knowdesk-tui/internal/credstore"
	"github.com/morganforge/knowdesk-tui/internal/model"
	"github.com/morganforge/knowdesk-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady   State = iota // Ready for input
	StateWaiting              // A query is in flight
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
//
// One query can be in flight at a time. Each submission increments seq;
// a result carrying an older seq belongs to a superseded submission and
// is dropped. Results are additionally matched against the conversation
// ID, so a request left behind by a previous session cannot land in a
// later model that happens to be on the same seq.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation
	conversation *model.Conversation

	// Backend access
	client *api.Client

	// Who is signed in, for the header line
	identity credstore.User

	// Submission generation counter
	seq int

	// What the user submitted, kept for the waiting indicator
	pendingQuery string

	// Display options
	showStats bool
	compact   bool

	// Stats line for the most recent answer, empty when none
	lastStats string

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	// Key bindings
	keyMap KeyMap

	// Help overlay
	showHelp bool
}

// New creates a new chat model bound to the given backend client.
// compact drops the role labels between transcript entries.
func New(theme *styles.Theme, client *api.Client, identity credstore.User, showStats, compact bool) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question..."
	ti.CharLimit = 4096
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	vp := viewport.New(80, 20)

	return Model{
		state:        StateReady,
		theme:        theme,
		conversation: model.NewConversation(),
		client:       client,
		identity:     identity,
		showStats:    showStats,
		compact:      compact,
		viewport:     vp,
		input:        ti,
		spinner:      sp,
		keyMap:       DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetClient swaps the backend client, used when configuration is
// hot-reloaded mid-session. In-flight requests finish on the old
// client.
func (m *Model) SetClient(client *api.Client) {
	m.client = client
}

// SetTheme swaps the theme and re-renders the transcript, used when
// ui.theme is hot-reloaded mid-session.
func (m *Model) SetTheme(theme *styles.Theme) {
	m.theme = theme
	m.spinner.Style = theme.Spinner
	m.refreshViewport()
}

// SetDisplayOptions applies hot-reloaded ui.show_stats and
// ui.compact_mode values.
func (m *Model) SetDisplayOptions(showStats, compact bool) {
	m.showStats = showStats
	m.compact = compact
	m.refreshViewport()
}

// Conversation exposes the transcript, mainly for tests.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// Waiting reports whether a query is currently in flight.
func (m Model) Waiting() bool {
	return m.state == StateWaiting
}

// SetSize updates the layout for a new terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	// Header, input border, status bar.
	const chromeHeight = 5
	vpHeight := height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.input.Width = width - 4

	// Re-create the markdown renderer at the new wrap width. Glamour
	// renderers are cheap to build and not resizable in place.
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(contentWidth(width)),
	)
	if err == nil {
		m.renderer = renderer
	}

	m.refreshViewport()
}

// contentWidth returns the wrap width for message content, leaving
// room for the bubble border and padding.
func contentWidth(totalWidth int) int {
	w := totalWidth - 6
	if w < 20 {
		w = 20
	}
	return w
}

// renderMarkdown renders assistant content through glamour, falling
// back to the raw text when rendering fails.
func (m Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
