package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/yaklabco/cheatfind/pkg/match"
	"github.com/yaklabco/cheatfind/pkg/search"
	"github.com/yaklabco/cheatfind/pkg/terminal"
)

// ErrViewportTooTall is returned when the terminal has fewer rows than the
// viewport needs.
var ErrViewportTooTall = errors.New("viewport does not fit in the terminal")

const (
	selectedGutter = "> "
	plainGutter    = "  "
	ellipsis       = "…"
)

// State is the renderer lifecycle state.
type State int

const (
	StateInitializing State = iota
	StateReady
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Renderer is the only writer to the terminal.
type Renderer struct {
	term   terminal.Terminal
	styles Styles
	logger *log.Logger

	state    State
	viewport Viewport
	width    int
	results  search.ResultSet
	selected int
}

// NewRenderer creates a renderer for a viewport of rows result rows.
func NewRenderer(term terminal.Terminal, rows int, styles Styles, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Renderer{
		term:     term,
		styles:   styles,
		logger:   logger,
		viewport: Viewport{Rows: max(rows, 1)},
	}
}

// State returns the current lifecycle state.
func (r *Renderer) State() State {
	return r.state
}

// Viewport returns the viewport geometry and prompt text.
func (r *Renderer) Viewport() Viewport {
	return r.viewport
}

// Init reserves Rows+1 lines below the cursor, captures the anchor row
// and draws an empty prompt. The terminal must already be in raw mode.
func (r *Renderer) Init() error {
	if r.state != StateInitializing {
		return fmt.Errorf("init renderer: already %s", r.state)
	}

	if err := r.term.Write(strings.Repeat("\r\n", r.viewport.Rows+1)); err != nil {
		return err
	}
	_, row, err := r.term.CursorPosition()
	if err != nil {
		return fmt.Errorf("query cursor position: %w", err)
	}

	anchor := row - r.viewport.Rows - 1
	if anchor < 1 {
		return fmt.Errorf("%w: %d rows requested, cursor at row %d", ErrViewportTooTall, r.viewport.Rows, row)
	}
	r.viewport.Anchor = anchor
	r.width = r.term.Width()

	r.logger.Debug("viewport ready", "rows", r.viewport.Rows, "anchor", anchor, "width", r.width)

	if err := r.drawPrompt(); err != nil {
		return err
	}
	r.state = StateReady
	return r.term.Flush()
}

// Run draws result sets and prompt edits until a Stop event arrives.
// Query edits are forwarded to queries. When events is closed the session
// stops without a selection.
func (r *Renderer) Run(
	ctx context.Context,
	results <-chan search.ResultSet,
	events <-chan Event,
	queries chan<- search.Command,
) (Outcome, error) {
	if r.state != StateReady {
		return Outcome{}, fmt.Errorf("run renderer: state is %s", r.state)
	}

	for {
		select {
		case <-ctx.Done():
			return r.stop(false)

		case rs := <-results:
			if err := r.showResults(rs); err != nil {
				return Outcome{}, err
			}

		case ev, ok := <-events:
			if !ok {
				return r.stop(false)
			}

			switch msg := ev.(type) {
			case QueryChanged:
				if err := r.editQuery(ctx, msg.Text, results, queries); err != nil {
					return Outcome{}, err
				}
			case SelectionMoved:
				if err := r.moveSelection(msg.Delta); err != nil {
					return Outcome{}, err
				}
			case Stop:
				return r.stop(msg.Accept)
			}
		}
	}
}

// editQuery redraws the prompt and hands the query to the coordinator.
// While the hand-off is blocked, newly published results are still drawn
// so the two loops cannot wait on each other.
func (r *Renderer) editQuery(
	ctx context.Context,
	text string,
	results <-chan search.ResultSet,
	queries chan<- search.Command,
) error {
	r.viewport.Query = text
	if err := r.drawPrompt(); err != nil {
		return err
	}
	if err := r.term.Flush(); err != nil {
		return err
	}

	cmd := search.QueryChanged{Query: match.QueryOf(text)}
	for {
		select {
		case queries <- cmd:
			return nil
		case rs := <-results:
			if err := r.showResults(rs); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (r *Renderer) showResults(rs search.ResultSet) error {
	r.results = rs
	r.selected = min(r.selected, max(len(rs.Results)-1, 0))
	return r.drawResults()
}

func (r *Renderer) moveSelection(delta int) error {
	last := min(len(r.results.Results), r.viewport.Rows) - 1
	if last < 0 {
		return nil
	}
	r.selected = min(max(r.selected+delta, 0), last)
	return r.drawResults()
}

// stop clears the viewport, leaves the cursor on the blank prompt row and
// reports the outcome.
func (r *Renderer) stop(accept bool) (Outcome, error) {
	outcome := Outcome{Query: r.viewport.Query}
	if accept && r.selected < len(r.results.Results) {
		outcome.Accepted = true
		outcome.Selected = []match.Result{r.results.Results[r.selected]}
	}

	for i := 0; i <= r.viewport.Rows; i++ {
		if err := r.term.MoveCursor(1, r.viewport.Anchor+i); err != nil {
			return outcome, err
		}
		if err := r.term.ClearLine(); err != nil {
			return outcome, err
		}
	}
	if err := r.term.MoveCursor(1, r.viewport.Anchor); err != nil {
		return outcome, err
	}

	r.state = StateStopped
	return outcome, r.term.Flush()
}

func (r *Renderer) drawPrompt() error {
	if err := r.term.MoveCursor(1, r.viewport.Anchor); err != nil {
		return err
	}
	if err := r.term.ClearLine(); err != nil {
		return err
	}
	return r.term.Write(r.styles.Prompt.Render(PromptPrefix) + r.viewport.Query)
}

// drawResults repaints every result row, keeping the prompt cursor in place.
func (r *Renderer) drawResults() error {
	if err := r.term.SaveCursor(); err != nil {
		return err
	}

	for i := 1; i <= r.viewport.Rows; i++ {
		if err := r.term.MoveCursor(1, r.viewport.Anchor+i); err != nil {
			return err
		}
		if err := r.term.ClearLine(); err != nil {
			return err
		}
		if i-1 < len(r.results.Results) {
			if err := r.term.Write(r.formatRow(r.results.Results[i-1], i-1 == r.selected)); err != nil {
				return err
			}
		}
	}

	if err := r.term.RestoreCursor(); err != nil {
		return err
	}
	return r.term.Flush()
}

func (r *Renderer) formatRow(res match.Result, selected bool) string {
	text := string(res.Text)

	var b strings.Builder
	if selected {
		b.WriteString(r.styles.Selected.Render(selectedGutter))
	} else {
		b.WriteString(plainGutter)
	}

	pos := 0
	for _, span := range res.Highlights {
		start := min(max(span.Start, pos), len(text))
		end := min(max(span.End, start), len(text))
		b.WriteString(text[pos:start])
		if end > start {
			b.WriteString(r.styles.Highlight.Render(text[start:end]))
		}
		pos = end
	}
	b.WriteString(text[pos:])

	if r.width > 0 {
		return ansi.Truncate(b.String(), r.width, ellipsis)
	}
	return b.String()
}
