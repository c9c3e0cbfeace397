package db

import (
	"context"
	"database/sql"
	"fmt"
)

// InsertEntry inserts one logged entry for a session.
func InsertEntry(ctx context.Context, db *sql.DB, sessionID string, row EntryRow) error {
	_, err := db.ExecContext(ctx, InsertEntrySQL, sessionID, row.Seq, row.Timestamp, row.PositionSeconds, row.Event, row.Referee, row.Description)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// InsertEntries inserts rows in one transaction.
func InsertEntries(ctx context.Context, db *sql.DB, sessionID string, rows []EntryRow) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, InsertEntrySQL)
	if err != nil {
		return fmt.Errorf("prepare insert entry: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, sessionID, row.Seq, row.Timestamp, row.PositionSeconds, row.Event, row.Referee, row.Description); err != nil {
			return fmt.Errorf("insert entry %d: %w", row.Seq, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit entries: %w", err)
	}
	return nil
}

// SelectTotals runs a grouped (name, count) query for a session.
func SelectTotals(ctx context.Context, db *sql.DB, query, sessionID string) ([]Total, error) {
	rows, err := db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("select totals: %w", err)
	}
	defer rows.Close()

	var out []Total
	for rows.Next() {
		var t Total
		if err := rows.Scan(&t.Name, &t.Count); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SelectPairTotals returns per referee, per event counts for a session.
func SelectPairTotals(ctx context.Context, db *sql.DB, sessionID string) ([]PairTotal, error) {
	rows, err := db.QueryContext(ctx, SelectRefereeEventTotalsSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("select referee event totals: %w", err)
	}
	defer rows.Close()

	var out []PairTotal
	for rows.Next() {
		var p PairTotal
		if err := rows.Scan(&p.Referee, &p.Event, &p.Count); err != nil {
			return nil, fmt.Errorf("scan referee event total: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
