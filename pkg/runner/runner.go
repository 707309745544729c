package runner

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/cheatfind/pkg/batch"
	"github.com/yaklabco/cheatfind/pkg/corpus"
	"github.com/yaklabco/cheatfind/pkg/match"
	"github.com/yaklabco/cheatfind/pkg/search"
	"github.com/yaklabco/cheatfind/pkg/session"
	"github.com/yaklabco/cheatfind/pkg/terminal"
)

// Runner runs search sessions on a terminal.
type Runner struct {
	// Terminal is the display and key source for the session.
	Terminal terminal.Terminal
}

// New creates a new Runner on term.
func New(term terminal.Terminal) *Runner {
	return &Runner{Terminal: term}
}

// Run scans opts.Root while the session is live and returns when the user
// stops it. The stages are:
//   - scanner: corpus files to records
//   - batcher: records to growing snapshots
//   - coordinator: snapshots and queries to result sets
//   - session: result sets to the screen, keys to queries
//
// The session ending cancels the remaining stages. A scan still in
// progress at that point is abandoned.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	records := make(chan corpus.Record, recordBuffer)
	commands := make(chan search.Command, commandBuffer)
	results := make(chan search.ResultSet, resultBuffer)

	scanner := corpus.NewScanner(opts.Root)
	scanner.Extension = opts.effectiveExtension()
	scanner.Logger = logger.WithPrefix("scanner")

	batcher := batch.New(batch.Options{
		Threshold: opts.Threshold,
		Window:    opts.Window,
		Logger:    logger.WithPrefix("batcher"),
	})
	coordinator := search.NewCoordinator(match.New(opts.effectiveLimit()), logger.WithPrefix("coordinator"))
	sess := session.New(r.Terminal, session.Options{
		Rows:         opts.Rows,
		InitialQuery: opts.InitialQuery,
		Styles:       opts.Styles,
		Logger:       logger.WithPrefix("session"),
	})

	logger.Debug("starting search", "root", opts.Root, "extension", scanner.Extension, "rows", opts.Rows)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		err := scanner.Scan(gctx, records)
		if gctx.Err() != nil {
			// Cancelled by the session ending.
			return nil
		}
		return err
	})
	group.Go(func() error {
		return batcher.Run(gctx, records, commands)
	})
	group.Go(func() error {
		return coordinator.Run(gctx, commands, results)
	})

	result := &Result{}
	group.Go(func() error {
		defer cancel()
		outcome, err := sess.Run(gctx, results, commands)
		result.Outcome = outcome
		return err
	})

	if err := group.Wait(); err != nil {
		return result, err
	}

	logger.Debug("search finished", "accepted", result.Outcome.Accepted, "query", result.Outcome.Query)
	return result, nil
}
