package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// memoryDSN keeps the database private to this process; it disappears on Close.
const memoryDSN = ":memory:"

// Open opens the session's in-memory SQLite database and creates the schema.
// Every :memory: connection is a separate database, so the pool is pinned to a
// single connection that is never recycled.
func Open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	// Verify connection works
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// migrate creates the schema. Statements are idempotent.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, CreateTablesSQL); err != nil {
		return fmt.Errorf("running create_tables: %w", err)
	}
	return nil
}
