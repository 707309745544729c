// Package match scores corpus records against a query.
package match

import (
	"cmp"
	"slices"
	"strings"

	"github.com/yaklabco/cheatfind/pkg/corpus"
)

// Query is the optional text typed by the user. The zero value means no
// query: every record matches in insertion order.
type Query struct {
	Text    string
	Present bool
}

// NoQuery is the absent query.
var NoQuery = Query{}

// QueryOf returns a present query for text. An empty text is still a
// present query; it matches every record.
func QueryOf(text string) Query {
	return Query{Text: text, Present: true}
}

// Span is a half-open byte range [Start, End) into a record.
type Span struct {
	Start int
	End   int
}

// Result is a single matching record.
type Result struct {
	// Text is the matched record.
	Text corpus.Record

	// Index is the record's insertion position in the snapshot.
	Index int

	// Rank orders results; lower is better.
	Rank int

	// Highlights are ordered byte spans into Text.
	Highlights []Span
}

// Matcher ranks records by the offset of the first substring match.
type Matcher struct {
	limit int
}

// New creates a Matcher that returns at most limit results.
// A limit below one is treated as one.
func New(limit int) *Matcher {
	return &Matcher{limit: max(limit, 1)}
}

// Limit returns the result cap.
func (m *Matcher) Limit() int {
	return m.limit
}

// Score matches a single line. Without a query every line matches with
// rank 0 and no highlights. With a query the line matches when it contains
// the query; the rank is the byte offset of the first occurrence and the
// single highlight runs from there to the end of the line.
func (m *Matcher) Score(line corpus.Record, query Query) (Result, bool) {
	if !query.Present {
		return Result{Text: line}, true
	}

	offset := strings.Index(string(line), query.Text)
	if offset < 0 {
		return Result{}, false
	}

	return Result{
		Text:       line,
		Rank:       offset,
		Highlights: []Span{{Start: offset, End: len(line)}},
	}, true
}

// Run scores every record in snapshot, keeps the matches, sorts them by
// rank (ties keep insertion order) and truncates to the limit.
func (m *Matcher) Run(snapshot corpus.Snapshot, query Query) []Result {
	var results []Result
	for i, line := range snapshot.All() {
		res, ok := m.Score(line, query)
		if !ok {
			continue
		}
		res.Index = i
		results = append(results, res)
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(a.Rank, b.Rank)
	})

	if len(results) > m.limit {
		results = results[:m.limit:m.limit]
	}
	return results
}
