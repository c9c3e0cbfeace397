package db

import (
	_ "embed"
)

// Schema

//go:embed sql/create_tables.sql
var CreateTablesSQL string

// Entry queries

//go:embed sql/insert_entry.sql
var InsertEntrySQL string

// Tallies

//go:embed sql/select_referee_totals.sql
var SelectRefereeTotalsSQL string

//go:embed sql/select_event_totals.sql
var SelectEventTotalsSQL string

//go:embed sql/select_referee_event_totals.sql
var SelectRefereeEventTotalsSQL string
