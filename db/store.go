package db

import (
	"context"
	"database/sql"

	"github.com/user/touch-ref-logger/eventlog"
	"github.com/user/touch-ref-logger/pkg/timeutil"
	"github.com/user/touch-ref-logger/tagging"
)

// Store mirrors a session's log into SQLite so tallies can be queried.
// The event log stays the source of truth.
type Store struct {
	db        *sql.DB
	sessionID string
}

// NewStore returns a store for one session.
func NewStore(db *sql.DB, sessionID string) *Store {
	return &Store{db: db, sessionID: sessionID}
}

// Record stores entry at position seq of the session's log.
func (s *Store) Record(ctx context.Context, seq int, entry eventlog.Entry) error {
	return InsertEntry(ctx, s.db, s.sessionID, toRow(seq, entry))
}

// Seed stores entries that were in the log before the session started, e.g. on resume.
func (s *Store) Seed(ctx context.Context, entries []eventlog.Entry) error {
	rows := make([]EntryRow, len(entries))
	for i, e := range entries {
		rows[i] = toRow(i, e)
	}
	return InsertEntries(ctx, s.db, s.sessionID, rows)
}

// Observe records logged outcomes.
func (s *Store) Observe(ctx context.Context, out tagging.Outcome) error {
	if out.Kind != tagging.OutcomeLogged {
		return nil
	}
	return s.Record(ctx, out.Index, out.Entry)
}

// RefereeTotals counts entries per referee name, most first.
func (s *Store) RefereeTotals(ctx context.Context) ([]Total, error) {
	return SelectTotals(ctx, s.db, SelectRefereeTotalsSQL, s.sessionID)
}

// EventTotals counts entries per event label, most first.
func (s *Store) EventTotals(ctx context.Context) ([]Total, error) {
	return SelectTotals(ctx, s.db, SelectEventTotalsSQL, s.sessionID)
}

// PairTotals counts entries per referee and event.
func (s *Store) PairTotals(ctx context.Context) ([]PairTotal, error) {
	return SelectPairTotals(ctx, s.db, s.sessionID)
}

func toRow(seq int, e eventlog.Entry) EntryRow {
	pos, err := timeutil.ParseTimestamp(e.Timestamp)
	if err != nil {
		pos = 0
	}
	return EntryRow{
		Seq:             seq,
		Timestamp:       e.Timestamp,
		PositionSeconds: pos,
		Event:           e.Event,
		Referee:         e.Referee,
		Description:     e.Description,
	}
}
