// Package reporter writes the outcome of a search session for the caller
// of cheatfind, typically a shell widget reading stdout.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/cheatfind/pkg/runner"
)

// Reporter formats and writes a session result.
type Reporter interface {
	// Report writes the selection held by result. Text formats write
	// nothing when the session ended without a selection.
	Report(ctx context.Context, result *runner.Result) error
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatCommand:
		return NewTextReporter(opts, true), nil
	default:
		return NewTextReporter(opts, false), nil
	}
}
