// Package batch accumulates streamed corpus records and forwards full
// corpus snapshots to the search coordinator.
package batch

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/cheatfind/pkg/corpus"
	"github.com/yaklabco/cheatfind/pkg/search"
)

const (
	// DefaultThreshold is the number of new records that forces a flush.
	DefaultThreshold = 100

	// DefaultWindow is how long the input may stay silent before pending
	// records are flushed.
	DefaultWindow = 100 * time.Millisecond
)

// Options configures a Batcher. Zero values select the defaults.
type Options struct {
	Threshold int
	Window    time.Duration
	Logger    *log.Logger
}

// Batcher turns a record stream into a sequence of growing snapshots.
//
// Every flush ships everything received since the start, not just the
// records since the previous flush; the backing buffer is never cleared.
type Batcher struct {
	threshold int
	window    time.Duration
	logger    *log.Logger

	records []corpus.Record
	pending int
	flushes int
}

// New creates a Batcher.
func New(opts Options) *Batcher {
	b := &Batcher{
		threshold: opts.Threshold,
		window:    opts.Window,
		logger:    opts.Logger,
	}
	if b.threshold <= 0 {
		b.threshold = DefaultThreshold
	}
	if b.window <= 0 {
		b.window = DefaultWindow
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	b.records = make([]corpus.Record, 0, b.threshold)
	return b
}

// Run consumes in until it is closed, sending Refresh commands to out.
// A flush happens when the pending count reaches the threshold, when no
// record arrives within the window, and once more when in is closed.
// Run returns early only if ctx is done.
func (b *Batcher) Run(ctx context.Context, in <-chan corpus.Record, out chan<- search.Command) error {
	timer := time.NewTimer(b.window)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case rec, ok := <-in:
			if !ok {
				b.flush(ctx, out)
				b.logger.Debug("batcher finished", "records", len(b.records), "flushes", b.flushes)
				return nil
			}
			b.records = append(b.records, rec)
			b.pending++
			if b.pending >= b.threshold {
				if !b.flush(ctx, out) {
					return nil
				}
			}

		case <-timer.C:
			if !b.flush(ctx, out) {
				return nil
			}
		}

		timer.Reset(b.window)
	}
}

// flush sends the whole accumulated corpus when there is something new.
// It reports false if ctx was cancelled while sending.
func (b *Batcher) flush(ctx context.Context, out chan<- search.Command) bool {
	if b.pending == 0 {
		return true
	}
	b.pending = 0
	b.flushes++

	refresh := search.Refresh{Snapshot: corpus.NewSnapshot(b.records)}
	select {
	case out <- refresh:
		return true
	case <-ctx.Done():
		return false
	}
}
