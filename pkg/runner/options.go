// Package runner wires the search pipeline together and runs one
// interactive session over a corpus directory.
package runner

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/cheatfind/pkg/corpus"
	"github.com/yaklabco/cheatfind/pkg/session"
)

// Channel capacities between stages.
const (
	recordBuffer  = 256
	commandBuffer = 4
	resultBuffer  = 1
)

// Options controls a search run.
type Options struct {
	// Root is the corpus directory.
	Root string

	// Extension selects corpus files. Defaults to corpus.DefaultExtension.
	Extension string

	// Rows is the number of result rows shown under the prompt.
	Rows int

	// Limit caps the number of results kept per recomputation.
	// Defaults to Rows when zero.
	Limit int

	// InitialQuery is typed into the prompt before the first key press.
	InitialQuery string

	// Threshold and Window tune batching; zero selects the batch defaults.
	Threshold int
	Window    time.Duration

	Styles session.Styles
	Logger *log.Logger
}

func (o Options) effectiveExtension() string {
	if o.Extension == "" {
		return corpus.DefaultExtension
	}
	return o.Extension
}

func (o Options) effectiveLimit() int {
	if o.Limit <= 0 {
		return max(o.Rows, 1)
	}
	return o.Limit
}
