package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yaklabco/cheatfind/pkg/terminal"
)

// InputReader turns key events into session events. It is the only owner
// of the query buffer.
type InputReader struct {
	keys    terminal.Terminal
	initial string
}

// NewInputReader creates an input reader whose buffer starts with initial.
func NewInputReader(keys terminal.Terminal, initial string) *InputReader {
	return &InputReader{keys: keys, initial: initial}
}

// Run reads keys until an interrupt or enter, sending events to out.
// A non-empty initial query is announced before the first key is read.
// If the key source fails, Run sends a Stop before returning the error.
func (in *InputReader) Run(ctx context.Context, out chan<- Event) error {
	query := []rune(in.initial)
	if len(query) > 0 && !send(ctx, out, QueryChanged{Text: string(query)}) {
		return nil
	}

	for {
		key, err := in.keys.ReadKey()
		if err != nil {
			send(ctx, out, Stop{})
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read key: %w", err)
		}

		var ev Event
		switch key.Kind {
		case terminal.KeyRune:
			query = append(query, key.Rune)
			ev = QueryChanged{Text: string(query)}
		case terminal.KeyBackspace:
			if len(query) > 0 {
				query = query[:len(query)-1]
			}
			ev = QueryChanged{Text: string(query)}
		case terminal.KeyUp:
			ev = SelectionMoved{Delta: -1}
		case terminal.KeyDown:
			ev = SelectionMoved{Delta: 1}
		case terminal.KeyInterrupt:
			send(ctx, out, Stop{})
			return nil
		case terminal.KeyEnter:
			send(ctx, out, Stop{Accept: true})
			return nil
		default:
			continue
		}

		if !send(ctx, out, ev) {
			return nil
		}
	}
}

func send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
