package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/touch-ref-logger/eventlog"
	"github.com/user/touch-ref-logger/tagging"
)

func openTestStore(t *testing.T, sessionID string) *Store {
	t.Helper()
	database, err := Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewStore(database, sessionID)
}

// mirrored returns the session's rows in log order.
func mirrored(t *testing.T, s *Store) []EntryRow {
	t.Helper()
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT seq, timestamp, position_seconds, event, referee, description
		FROM entries WHERE session_id = ? ORDER BY seq`, s.sessionID)
	require.NoError(t, err)
	defer rows.Close()

	var out []EntryRow
	for rows.Next() {
		var r EntryRow
		require.NoError(t, rows.Scan(&r.Seq, &r.Timestamp, &r.PositionSeconds, &r.Event, &r.Referee, &r.Description))
		out = append(out, r)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestStoreTotals(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, "session-1")

	entries := []eventlog.Entry{
		{Timestamp: "00:00:10", Event: "Short 7M", Referee: "Sam"},
		{Timestamp: "00:01:10", Event: "Short 7M", Referee: "Sam"},
		{Timestamp: "00:02:10", Event: "Control Issue", Referee: "Alex"},
		{Timestamp: "00:03:10", Event: "Long 7M", Referee: "Sam"},
	}
	for i, e := range entries {
		require.NoError(t, s.Record(ctx, i, e))
	}

	refs, err := s.RefereeTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Total{{Name: "Sam", Count: 3}, {Name: "Alex", Count: 1}}, refs)

	events, err := s.EventTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Total{
		{Name: "Short 7M", Count: 2},
		{Name: "Control Issue", Count: 1},
		{Name: "Long 7M", Count: 1},
	}, events)

	pairs, err := s.PairTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []PairTotal{
		{Referee: "Alex", Event: "Control Issue", Count: 1},
		{Referee: "Sam", Event: "Short 7M", Count: 2},
		{Referee: "Sam", Event: "Long 7M", Count: 1},
	}, pairs)

	rows := mirrored(t, s)
	require.Len(t, rows, 4)
	assert.Equal(t, 70.0, rows[1].PositionSeconds)
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, "a")
	other := NewStore(s.db, "b")

	require.NoError(t, s.Record(ctx, 0, eventlog.Entry{Timestamp: "00:00:01", Event: "Goal", Referee: "Sam"}))
	require.NoError(t, other.Record(ctx, 0, eventlog.Entry{Timestamp: "00:00:01", Event: "Foul", Referee: "Jo"}))

	totals, err := other.EventTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Total{{Name: "Foul", Count: 1}}, totals)
	assert.Len(t, mirrored(t, s), 1)
}

func TestStoreObserveAndSeed(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, "seeded")

	require.NoError(t, s.Seed(ctx, []eventlog.Entry{
		{Timestamp: "00:00:05", Event: "Goal"},
		{Timestamp: "bad", Event: "Foul", Description: "with, comma"},
	}))

	require.NoError(t, s.Observe(ctx, tagging.Outcome{Kind: tagging.OutcomeRejected}))
	require.NoError(t, s.Observe(ctx, tagging.Outcome{
		Kind:  tagging.OutcomeLogged,
		Index: 2,
		Entry: eventlog.Entry{Timestamp: "00:00:09", Event: "Goal", Referee: "Sam"},
	}))

	rows := mirrored(t, s)
	require.Len(t, rows, 3)
	assert.Equal(t, 0.0, rows[1].PositionSeconds)
	assert.Equal(t, "with, comma", rows[1].Description)
	assert.Equal(t, "Sam", rows[2].Referee)

	// the same position cannot be recorded twice
	err := s.Record(ctx, 2, eventlog.Entry{Timestamp: "00:00:09", Event: "Goal"})
	assert.Error(t, err)
}
