// Package corpus defines the searchable command records and the scanner
// that ingests them from disk.
package corpus

import (
	"iter"
	"slices"
	"strings"
)

// Separator splits the command part of a record from its description.
const Separator = " ## "

// DefaultExtension marks corpus files on disk.
const DefaultExtension = ".commands"

// Record is one line of corpus text of the form "<command> ## <description>".
// Lines without a separator are still valid records; they have no description.
type Record string

// Command returns the text before the first separator.
func (r Record) Command() string {
	cmd, _, _ := strings.Cut(string(r), Separator)
	return cmd
}

// Description returns the text after the first separator, or "" when the
// record has none.
func (r Record) Description() string {
	_, descr, _ := strings.Cut(string(r), Separator)
	return descr
}

// Snapshot is an immutable, ordered view of everything ingested so far.
// The zero value is an empty snapshot.
type Snapshot struct {
	records []Record
}

// NewSnapshot copies records into a new Snapshot. Later changes to the
// argument slice are not observed by the snapshot.
func NewSnapshot(records []Record) Snapshot {
	return Snapshot{records: slices.Clone(records)}
}

// Len returns the number of records.
func (s Snapshot) Len() int {
	return len(s.records)
}

// At returns the record at insertion position i.
func (s Snapshot) At(i int) Record {
	return s.records[i]
}

// All yields records with their insertion position.
func (s Snapshot) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, rec := range s.records {
			if !yield(i, rec) {
				return
			}
		}
	}
}
