package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cheatfind/pkg/session"
	"github.com/yaklabco/cheatfind/pkg/terminal"
	"github.com/yaklabco/cheatfind/pkg/terminal/terminaltest"
)

func drain(out chan session.Event) []session.Event {
	close(out)
	var events []session.Event
	for ev := range out {
		events = append(events, ev)
	}
	return events
}

func TestInputReader_EditsAndStops(t *testing.T) {
	t.Parallel()

	term := terminaltest.New(10, 1)
	term.Type("ab")
	term.Press(terminal.KeyBackspace)
	term.Press(terminal.KeyBackspace)
	term.Press(terminal.KeyBackspace)
	term.Press(terminal.KeyOther)
	term.Press(terminal.KeyDown)
	term.Press(terminal.KeyInterrupt)
	term.Type("zz")

	out := make(chan session.Event, 32)
	require.NoError(t, session.NewInputReader(term, "").Run(context.Background(), out))

	assert.Equal(t, []session.Event{
		session.QueryChanged{Text: "a"},
		session.QueryChanged{Text: "ab"},
		session.QueryChanged{Text: "a"},
		session.QueryChanged{Text: ""},
		session.QueryChanged{Text: ""},
		session.SelectionMoved{Delta: 1},
		session.Stop{},
	}, drain(out))
}

func TestInputReader_InitialQueryAndAccept(t *testing.T) {
	t.Parallel()

	term := terminaltest.New(10, 1)
	term.Type("ö")
	term.Press(terminal.KeyEnter)

	out := make(chan session.Event, 8)
	require.NoError(t, session.NewInputReader(term, "gr").Run(context.Background(), out))

	assert.Equal(t, []session.Event{
		session.QueryChanged{Text: "gr"},
		session.QueryChanged{Text: "grö"},
		session.Stop{Accept: true},
	}, drain(out))
}

func TestInputReader_EOFStops(t *testing.T) {
	t.Parallel()

	term := terminaltest.New(10, 1)
	term.CloseKeys()

	out := make(chan session.Event, 1)
	require.NoError(t, session.NewInputReader(term, "").Run(context.Background(), out))
	assert.Equal(t, []session.Event{session.Stop{}}, drain(out))
}
