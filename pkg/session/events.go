// Package session implements the interactive terminal session: a renderer
// that owns the viewport and an input reader that owns the query buffer.
package session

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/cheatfind/pkg/match"
)

// PromptPrefix is drawn in front of the query on the prompt row.
const PromptPrefix = "Search: > "

// Event is sent from the input reader to the renderer.
type Event interface {
	event()
}

// QueryChanged carries the complete query buffer after an edit.
type QueryChanged struct {
	Text string
}

// SelectionMoved moves the selection cursor by Delta rows.
type SelectionMoved struct {
	Delta int
}

// Stop ends the session. Accept selects the highlighted row.
type Stop struct {
	Accept bool
}

func (QueryChanged) event()   {}
func (SelectionMoved) event() {}
func (Stop) event()           {}

// Viewport is the fixed screen region owned by the renderer. Rows and
// Anchor never change after initialisation.
type Viewport struct {
	// Rows is the number of result rows below the prompt.
	Rows int

	// Anchor is the terminal row of the prompt.
	Anchor int

	// Query is the text currently shown on the prompt.
	Query string
}

// Outcome describes how a session ended.
type Outcome struct {
	// Accepted is true when the user confirmed a selection.
	Accepted bool

	// Selected holds the chosen results; empty unless Accepted.
	Selected []match.Result

	// Query is the final query text.
	Query string
}

// Styles controls how rows are drawn.
type Styles struct {
	Prompt    lipgloss.Style
	Highlight lipgloss.Style
	Selected  lipgloss.Style
}

// PlainStyles draws everything without decoration.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Prompt: plain, Highlight: plain, Selected: plain}
}
