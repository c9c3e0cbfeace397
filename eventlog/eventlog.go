// Package eventlog holds the ordered list of logged events and its CSV form.
package eventlog

import "strings"

// lineBreaks folds CRLF and lone CR to LF. encoding/csv reads a quoted CRLF
// back as LF, so only LF survives a round trip.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Entry is one logged event. Entries are never edited once appended; an
// entry's identity is its position in the log.
type Entry struct {
	Timestamp   string
	Event       string
	Referee     string
	Description string
}

// Normalize returns e with line breaks in every field folded to LF, the form
// the entry takes after a CSV round trip.
func (e Entry) Normalize() Entry {
	return Entry{
		Timestamp:   lineBreaks.Replace(e.Timestamp),
		Event:       lineBreaks.Replace(e.Event),
		Referee:     lineBreaks.Replace(e.Referee),
		Description: lineBreaks.Replace(e.Description),
	}
}

// Log is an append-only, insertion-ordered sequence of entries.
// It is not safe for concurrent use; a session feeds it from one goroutine.
type Log struct {
	entries []Entry
}

// New returns an empty log, optionally seeded with entries (e.g. loaded from a CSV file).
func New(entries ...Entry) *Log {
	l := &Log{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		l.Append(e)
	}
	return l
}

// Append adds e, normalized, to the end of the log and returns its index.
func (l *Log) Append(e Entry) int {
	l.entries = append(l.entries, e.Normalize())
	return len(l.entries) - 1
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of all entries in insertion order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// HasDescriptions reports whether any entry carries a description.
func (l *Log) HasDescriptions() bool {
	for _, e := range l.entries {
		if e.Description != "" {
			return true
		}
	}
	return false
}
