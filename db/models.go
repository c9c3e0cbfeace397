package db

// EntryRow represents a row in the entries table.
type EntryRow struct {
	Seq             int
	Timestamp       string
	PositionSeconds float64
	Event           string
	Referee         string
	Description     string
}

// Total is one grouped count.
type Total struct {
	Name  string
	Count int
}

// PairTotal counts one event for one referee.
type PairTotal struct {
	Referee string
	Event   string
	Count   int
}
