// Package search owns the current corpus snapshot and query and publishes
// a fresh result set whenever either changes.
package search

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/cheatfind/pkg/corpus"
	"github.com/yaklabco/cheatfind/pkg/match"
)

// Command is an inbound coordinator message: Refresh or QueryChanged.
type Command interface {
	command()
}

// Refresh replaces the corpus with a new snapshot.
type Refresh struct {
	Snapshot corpus.Snapshot
}

// QueryChanged replaces the current query.
type QueryChanged struct {
	Query match.Query
}

func (Refresh) command()      {}
func (QueryChanged) command() {}

// ResultSet is a freshly computed, capped list of matches.
type ResultSet struct {
	// Results are ordered best first and never exceed the matcher limit.
	Results []match.Result

	// Query is the query the results were computed for.
	Query match.Query

	// CorpusSize is the length of the snapshot the results were computed over.
	CorpusSize int
}

// Coordinator serialises corpus and query updates. It holds the latest of
// each and recomputes results on every message, in arrival order.
type Coordinator struct {
	matcher *match.Matcher
	logger  *log.Logger

	corpus corpus.Snapshot
	query  match.Query
}

// NewCoordinator creates a Coordinator with an empty corpus and no query.
func NewCoordinator(matcher *match.Matcher, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Coordinator{matcher: matcher, logger: logger}
}

// Run processes commands from in until in is closed or ctx is done,
// publishing one ResultSet to out per command.
func (c *Coordinator) Run(ctx context.Context, in <-chan Command, out chan<- ResultSet) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd, ok := <-in:
			if !ok {
				return nil
			}

			rs := c.Handle(cmd)
			select {
			case out <- rs:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Handle applies a single command and returns the recomputed results.
func (c *Coordinator) Handle(cmd Command) ResultSet {
	switch msg := cmd.(type) {
	case Refresh:
		c.corpus = msg.Snapshot
	case QueryChanged:
		c.query = msg.Query
	}

	results := c.matcher.Run(c.corpus, c.query)
	c.logger.Debug("results recomputed",
		"corpus", c.corpus.Len(),
		"query", c.query.Text,
		"matches", len(results),
	)

	return ResultSet{
		Results:    results,
		Query:      c.query,
		CorpusSize: c.corpus.Len(),
	}
}
