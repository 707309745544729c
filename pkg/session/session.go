package session

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/cheatfind/pkg/search"
	"github.com/yaklabco/cheatfind/pkg/terminal"
)

// eventBuffer keeps the input reader from stalling on a busy renderer.
const eventBuffer = 64

// Options configures a Session.
type Options struct {
	// Rows is the viewport height in result rows.
	Rows int

	// InitialQuery seeds the query buffer.
	InitialQuery string

	Styles Styles
	Logger *log.Logger
}

// Session couples a Renderer and an InputReader over one terminal.
type Session struct {
	term     terminal.Terminal
	renderer *Renderer
	input    *InputReader
	logger   *log.Logger
}

// New creates a Session on term.
func New(term terminal.Terminal, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		term:     term,
		renderer: NewRenderer(term, opts.Rows, opts.Styles, logger),
		input:    NewInputReader(term, opts.InitialQuery),
		logger:   logger,
	}
}

// Renderer exposes the session renderer.
func (s *Session) Renderer() *Renderer {
	return s.renderer
}

// Run puts the terminal in raw mode, draws the viewport and serves events
// until the user stops the session. Raw mode is released exactly once on
// every return path, including errors and panics in the renderer.
//
// The input reader runs in its own goroutine and is not joined: it may be
// blocked on a key read that only the next key press ends.
func (s *Session) Run(
	ctx context.Context,
	results <-chan search.ResultSet,
	queries chan<- search.Command,
) (outcome Outcome, err error) {
	if err := s.term.EnterRaw(); err != nil {
		return Outcome{}, err
	}
	defer func() {
		err = errors.Join(err, s.term.ExitRaw())
	}()

	if err := s.renderer.Init(); err != nil {
		return Outcome{}, err
	}

	events := make(chan Event, eventBuffer)
	go func() {
		if err := s.input.Run(ctx, events); err != nil {
			s.logger.Debug("input reader stopped", "error", err)
		}
	}()

	return s.renderer.Run(ctx, results, events, queries)
}
