package session_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cheatfind/pkg/corpus"
	"github.com/yaklabco/cheatfind/pkg/match"
	"github.com/yaklabco/cheatfind/pkg/search"
	"github.com/yaklabco/cheatfind/pkg/session"
	"github.com/yaklabco/cheatfind/pkg/terminal"
	"github.com/yaklabco/cheatfind/pkg/terminal/terminaltest"
)

const waitFor = 2 * time.Second

// pipeline runs a real coordinator behind the session channels.
type pipeline struct {
	commands chan search.Command
	results  chan search.ResultSet
}

func startPipeline(t *testing.T, ctx context.Context, lines ...string) *pipeline {
	t.Helper()

	p := &pipeline{
		commands: make(chan search.Command, 4),
		results:  make(chan search.ResultSet),
	}
	coord := search.NewCoordinator(match.New(10), nil)
	go func() { _ = coord.Run(ctx, p.commands, p.results) }()

	records := make([]corpus.Record, len(lines))
	for i, line := range lines {
		records[i] = corpus.Record(line)
	}
	p.commands <- search.Refresh{Snapshot: corpus.NewSnapshot(records)}
	return p
}

type runResult struct {
	outcome session.Outcome
	err     error
}

func runSession(ctx context.Context, sess *session.Session, p *pipeline) <-chan runResult {
	done := make(chan runResult, 1)
	go func() {
		outcome, err := sess.Run(ctx, p.results, p.commands)
		done <- runResult{outcome, err}
	}()
	return done
}

func waitResult(t *testing.T, done <-chan runResult) runResult {
	t.Helper()

	select {
	case res := <-done:
		return res
	case <-time.After(waitFor):
		t.Fatal("session did not stop")
		return runResult{}
	}
}

func assertViewportCleared(t *testing.T, term *terminaltest.Fake, anchor, rows int) {
	t.Helper()

	for row := anchor; row <= anchor+rows; row++ {
		assert.Empty(t, term.Line(row), "row %d must be blank", row)
	}
	col, row := term.Cursor()
	assert.Equal(t, 1, col)
	assert.Equal(t, anchor, row)
	assert.Equal(t, 1, term.RawExits(), "raw mode must be released exactly once")
}

func TestSession_TypeAndAccept(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	term := terminaltest.New(40, 5)
	p := startPipeline(t, ctx, "tar ## archive files", "top ## show processes", "cat ## print file")
	sess := session.New(term, session.Options{Rows: 3, Styles: session.PlainStyles()})
	done := runSession(ctx, sess, p)

	// Anchor: cursor moved from row 5 to row 9, so 9-3-1.
	const anchor = 5
	require.Eventually(t, func() bool {
		return term.Line(anchor+1) == "> tar ## archive files"
	}, waitFor, 5*time.Millisecond)
	assert.Equal(t, "  top ## show processes", term.Line(anchor+2))
	assert.Equal(t, "  cat ## print file", term.Line(anchor+3))

	term.Type("ta")
	require.Eventually(t, func() bool {
		return term.Line(anchor) == "Search: > ta" && term.Line(anchor+2) == ""
	}, waitFor, 5*time.Millisecond)
	assert.Equal(t, "> tar ## archive files", term.Line(anchor+1))

	term.Press(terminal.KeyEnter)
	res := waitResult(t, done)
	require.NoError(t, res.err)

	assert.True(t, res.outcome.Accepted)
	assert.Equal(t, "ta", res.outcome.Query)
	require.Len(t, res.outcome.Selected, 1)
	assert.Equal(t, corpus.Record("tar ## archive files"), res.outcome.Selected[0].Text)

	assert.Equal(t, session.StateStopped, sess.Renderer().State())
	assertViewportCleared(t, term, anchor, 3)
}

func TestSession_InterruptSelectsNothing(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	term := terminaltest.New(24, 24)
	p := startPipeline(t, ctx, "ls ## list")
	sess := session.New(term, session.Options{Rows: 4, InitialQuery: "l", Styles: session.PlainStyles()})
	done := runSession(ctx, sess, p)

	// At the bottom the reserved lines scroll, so the cursor stays on row 24.
	const anchor = 24 - 4 - 1
	require.Eventually(t, func() bool {
		return term.Line(anchor) == "Search: > l"
	}, waitFor, 5*time.Millisecond)

	term.Press(terminal.KeyInterrupt)
	res := waitResult(t, done)
	require.NoError(t, res.err)

	assert.False(t, res.outcome.Accepted)
	assert.Empty(t, res.outcome.Selected)
	assert.Equal(t, "l", res.outcome.Query)
	assert.Equal(t, session.Viewport{Rows: 4, Anchor: anchor, Query: "l"}, sess.Renderer().Viewport())
	assertViewportCleared(t, term, anchor, 4)
}

func TestSession_SelectionMovesAndClamps(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	term := terminaltest.New(40, 1)
	p := startPipeline(t, ctx, "one", "two", "three")
	sess := session.New(term, session.Options{Rows: 5, Styles: session.PlainStyles()})
	done := runSession(ctx, sess, p)

	const anchor = 1
	require.Eventually(t, func() bool {
		return term.Line(anchor+3) == "  three"
	}, waitFor, 5*time.Millisecond)

	for range 5 {
		term.Press(terminal.KeyDown)
	}
	require.Eventually(t, func() bool {
		return term.Line(anchor+3) == "> three"
	}, waitFor, 5*time.Millisecond)

	term.Press(terminal.KeyUp)
	require.Eventually(t, func() bool {
		return term.Line(anchor+2) == "> two"
	}, waitFor, 5*time.Millisecond)

	term.Press(terminal.KeyEnter)
	res := waitResult(t, done)
	require.NoError(t, res.err)
	require.Len(t, res.outcome.Selected, 1)
	assert.Equal(t, corpus.Record("two"), res.outcome.Selected[0].Text)
	assert.Equal(t, 1, res.outcome.Selected[0].Index)
}

func TestSession_BackspaceAndHighlight(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	styles := session.PlainStyles()
	styles.Highlight = lipgloss.NewStyle().Transform(strings.ToUpper)

	term := terminaltest.New(40, 1)
	p := startPipeline(t, ctx, "git log ## show history", "xabcx")
	sess := session.New(term, session.Options{Rows: 2, Styles: styles})
	done := runSession(ctx, sess, p)

	term.Type("abd")
	term.Press(terminal.KeyBackspace)
	term.Type("c")

	const anchor = 1
	require.Eventually(t, func() bool {
		return term.Line(anchor) == "Search: > abc" && term.Line(anchor+1) == "> xABCX"
	}, waitFor, 5*time.Millisecond)
	assert.Empty(t, term.Line(anchor+2))

	term.Press(terminal.KeyInterrupt)
	res := waitResult(t, done)
	require.NoError(t, res.err)
}

func TestSession_MalformedCursorReportReleasesRawMode(t *testing.T) {
	t.Parallel()

	term := terminaltest.New(40, 1)
	term.FailCursorPosition(terminal.ErrMalformedCursorReport)

	sess := session.New(term, session.Options{Rows: 3, Styles: session.PlainStyles()})
	_, err := sess.Run(context.Background(), nil, nil)

	require.ErrorIs(t, err, terminal.ErrMalformedCursorReport)
	assert.Equal(t, 1, term.RawExits())
	assert.Equal(t, session.StateInitializing, sess.Renderer().State())
}

func TestSession_ViewportTooTall(t *testing.T) {
	t.Parallel()

	term := terminaltest.New(5, 1)
	sess := session.New(term, session.Options{Rows: 10, Styles: session.PlainStyles()})
	_, err := sess.Run(context.Background(), nil, nil)

	require.ErrorIs(t, err, session.ErrViewportTooTall)
	assert.Equal(t, 1, term.RawExits())
}

func TestSession_ClosedKeySourceStops(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	term := terminaltest.New(40, 1)
	p := startPipeline(t, ctx, "a")
	sess := session.New(term, session.Options{Rows: 2, Styles: session.PlainStyles()})
	done := runSession(ctx, sess, p)

	term.CloseKeys()
	res := waitResult(t, done)
	require.NoError(t, res.err)
	assert.False(t, res.outcome.Accepted)
	assertViewportCleared(t, term, 1, 2)
}

func TestRenderer_RunRequiresInit(t *testing.T) {
	t.Parallel()

	r := session.NewRenderer(terminaltest.New(10, 1), 3, session.PlainStyles(), nil)
	_, err := r.Run(context.Background(), nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, "initializing", r.State().String())
}
