package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/cheatfind/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version  string          `json:"version"`
	Accepted bool            `json:"accepted"`
	Query    string          `json:"query"`
	Selected []JSONSelection `json:"selected"`
}

// JSONSelection is one chosen corpus line.
type JSONSelection struct {
	Index       int    `json:"index"`
	Line        string `json:"line"`
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
}

// JSONReporter formats results as JSON. Unlike the text formats it
// always writes a document, with accepted=false when nothing was chosen.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriter(opts.Writer),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil && flushErr != nil {
			err = fmt.Errorf("write selection: %w", flushErr)
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(buildOutput(result)); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version:  "1.0.0",
		Selected: make([]JSONSelection, 0),
	}
	if result == nil {
		return output
	}

	output.Accepted = result.Outcome.Accepted
	output.Query = result.Outcome.Query
	for _, selected := range result.Outcome.Selected {
		output.Selected = append(output.Selected, JSONSelection{
			Index:       selected.Index,
			Line:        string(selected.Text),
			Command:     selected.Text.Command(),
			Description: selected.Text.Description(),
		})
	}
	return output
}
