package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/cheatfind/pkg/runner"
)

// TextReporter writes one "<index>: <line>" row per selected result, or
// only the command part when commandOnly is set.
type TextReporter struct {
	bw          *bufio.Writer
	commandOnly bool
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options, commandOnly bool) *TextReporter {
	return &TextReporter{
		bw:          bufio.NewWriter(opts.Writer),
		commandOnly: commandOnly,
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil && flushErr != nil {
			err = fmt.Errorf("write selection: %w", flushErr)
		}
	}()

	if result == nil || !result.Outcome.Accepted {
		return nil
	}

	for _, selected := range result.Outcome.Selected {
		if r.commandOnly {
			fmt.Fprintln(r.bw, selected.Text.Command())
			continue
		}
		fmt.Fprintf(r.bw, "%d: %s\n", selected.Index, selected.Text)
	}
	return nil
}
