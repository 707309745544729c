package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cheatfind/pkg/corpus"
	"github.com/yaklabco/cheatfind/pkg/runner"
	"github.com/yaklabco/cheatfind/pkg/session"
	"github.com/yaklabco/cheatfind/pkg/terminal"
	"github.com/yaklabco/cheatfind/pkg/terminal/terminaltest"
)

const waitFor = 2 * time.Second

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

type runOutcome struct {
	result *runner.Result
	err    error
}

func start(ctx context.Context, term terminal.Terminal, opts runner.Options) <-chan runOutcome {
	done := make(chan runOutcome, 1)
	go func() {
		res, err := runner.New(term).Run(ctx, opts)
		done <- runOutcome{res, err}
	}()
	return done
}

func wait(t *testing.T, done <-chan runOutcome) runOutcome {
	t.Helper()

	select {
	case out := <-done:
		return out
	case <-time.After(waitFor):
		t.Fatal("runner did not return")
		return runOutcome{}
	}
}

func TestRunner_SearchAndSelect(t *testing.T) {
	t.Parallel()

	root := writeCorpus(t, map[string]string{
		"git.commands":          "git log ## show history\ngit status ## show the working tree\n",
		"tools/tar.commands":    "tar xf ## extract an archive\n",
		"notes.txt":             "git ignored ## not a corpus file\n",
		"tools/docker.commands": "docker ps ## list containers\n",
	})

	term := terminaltest.New(40, 1)
	done := start(context.Background(), term, runner.Options{
		Root:   root,
		Rows:   4,
		Window: 10 * time.Millisecond,
		Styles: session.PlainStyles(),
	})

	// 6 reserved lines move the cursor from row 1 to row 6.
	const anchor = 1
	require.Eventually(t, func() bool {
		return term.Line(anchor+4) != ""
	}, waitFor, 5*time.Millisecond, "all four records should be drawn")

	term.Type("status")
	require.Eventually(t, func() bool {
		return term.Line(anchor+1) == "> git status ## show the working tree" && term.Line(anchor+2) == ""
	}, waitFor, 5*time.Millisecond)

	term.Press(terminal.KeyEnter)
	out := wait(t, done)
	require.NoError(t, out.err)

	sel, ok := out.result.Selection()
	require.True(t, ok)
	assert.Equal(t, corpus.Record("git status ## show the working tree"), sel.Text)
	assert.Equal(t, "status", out.result.Outcome.Query)
	assert.Equal(t, 1, term.RawExits())
}

func TestRunner_InitialQueryAndLimit(t *testing.T) {
	t.Parallel()

	root := writeCorpus(t, map[string]string{
		"a.commands": "xx ab\nab\nxab\nnone\n",
	})

	term := terminaltest.New(40, 1)
	done := start(context.Background(), term, runner.Options{
		Root:         root,
		Rows:         3,
		Limit:        2,
		InitialQuery: "ab",
		Window:       10 * time.Millisecond,
		Styles:       session.PlainStyles(),
	})

	const anchor = 1
	require.Eventually(t, func() bool {
		return term.Line(anchor) == "Search: > ab" &&
			term.Line(anchor+1) == "> ab" &&
			term.Line(anchor+2) == "  xab"
	}, waitFor, 5*time.Millisecond)
	assert.Empty(t, term.Line(anchor+3))

	term.Press(terminal.KeyInterrupt)
	out := wait(t, done)
	require.NoError(t, out.err)

	_, ok := out.result.Selection()
	assert.False(t, ok)
}

func TestRunner_CancelledContextStopsSession(t *testing.T) {
	t.Parallel()

	root := writeCorpus(t, map[string]string{"a.commands": "ls ## list\n"})

	ctx, cancel := context.WithCancel(context.Background())
	term := terminaltest.New(40, 1)
	done := start(ctx, term, runner.Options{Root: root, Rows: 2, Styles: session.PlainStyles()})

	require.Eventually(t, func() bool {
		return term.Line(1) == "Search: > "
	}, waitFor, 5*time.Millisecond)
	cancel()

	out := wait(t, done)
	require.NoError(t, out.err)
	assert.False(t, out.result.Outcome.Accepted)
	assert.Equal(t, 1, term.RawExits())
}

func TestRunner_SessionErrorStopsPipeline(t *testing.T) {
	t.Parallel()

	term := terminaltest.New(40, 1)
	term.FailCursorPosition(terminal.ErrMalformedCursorReport)

	done := start(context.Background(), term, runner.Options{
		Root:   t.TempDir(),
		Rows:   2,
		Styles: session.PlainStyles(),
	})

	out := wait(t, done)
	require.ErrorIs(t, out.err, terminal.ErrMalformedCursorReport)
	assert.Equal(t, 1, term.RawExits())
}

func TestRunner_MissingRootStillRuns(t *testing.T) {
	t.Parallel()

	term := terminaltest.New(40, 1)
	done := start(context.Background(), term, runner.Options{
		Root:   filepath.Join(t.TempDir(), "absent"),
		Rows:   2,
		Styles: session.PlainStyles(),
	})

	require.Eventually(t, func() bool {
		return term.Line(1) == "Search: > "
	}, waitFor, 5*time.Millisecond)
	term.Press(terminal.KeyEnter)

	out := wait(t, done)
	require.NoError(t, out.err)
	_, ok := out.result.Selection()
	assert.False(t, ok, "enter on an empty list selects nothing")
}

func TestResult_SelectionNil(t *testing.T) {
	t.Parallel()

	var res *runner.Result
	_, ok := res.Selection()
	assert.False(t, ok)
}
