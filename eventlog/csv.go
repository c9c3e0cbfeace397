package eventlog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the fixed name of the locally persisted copy of the log.
const DefaultFileName = "event_log.csv"

// Column header names, in declared order.
const (
	ColumnTimestamp   = "Timestamp"
	ColumnEvent       = "Event"
	ColumnReferee     = "Referee"
	ColumnDescription = "Description"
)

// ErrBadHeader is returned when a CSV file does not start with a known header.
var ErrBadHeader = errors.New("unexpected CSV header")

// Columns selects the optional columns written after Timestamp,Event,Referee.
type Columns struct {
	Description bool
}

// Header returns the header row for the selected columns.
func (c Columns) Header() []string {
	h := []string{ColumnTimestamp, ColumnEvent, ColumnReferee}
	if c.Description {
		h = append(h, ColumnDescription)
	}
	return h
}

func (c Columns) row(e Entry) []string {
	r := []string{e.Timestamp, e.Event, e.Referee}
	if c.Description {
		r = append(r, e.Description)
	}
	return r
}

// WriteCSV writes entries as CSV with a header row to w.
func WriteCSV(w io.Writer, entries []Entry, cols Columns) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write(cols.row(e)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ExportCSV writes the whole log to w.
func (l *Log) ExportCSV(w io.Writer, cols Columns) error {
	return WriteCSV(w, l.entries, cols)
}

// CSV returns the whole log serialized as CSV bytes.
func (l *Log) CSV(cols Columns) ([]byte, error) {
	var buf bytes.Buffer
	if err := l.ExportCSV(&buf, cols); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseCSV reads a CSV document produced by WriteCSV. The header decides
// which columns are present.
func ParseCSV(r io.Reader) ([]Entry, Columns, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, Columns{}, fmt.Errorf("%w: empty document", ErrBadHeader)
	}
	if err != nil {
		return nil, Columns{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var cols Columns
	switch {
	case equalHeader(header, Columns{}.Header()):
	case equalHeader(header, Columns{Description: true}.Header()):
		cols.Description = true
	default:
		return nil, Columns{}, fmt.Errorf("%w: %s", ErrBadHeader, strings.Join(header, ","))
	}

	width := len(header)
	entries := []Entry{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, cols, fmt.Errorf("read row: %w", err)
		}
		if len(rec) != width {
			return nil, cols, fmt.Errorf("line %d: expected %d fields, got %d", line, width, len(rec))
		}
		e := Entry{Timestamp: rec[0], Event: rec[1], Referee: rec[2]}
		if cols.Description {
			e.Description = rec[3]
		}
		entries = append(entries, e)
	}
	return entries, cols, nil
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}

// WriteFile atomically replaces path with the CSV form of the log.
// The log itself is never modified, whatever the outcome.
func (l *Log) WriteFile(path string, cols Columns) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := l.ExportCSV(tmp, cols); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a CSV file written by WriteFile. A missing file yields an empty log.
func LoadFile(path string) (*Log, Columns, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return New(), Columns{}, nil
	}
	if err != nil {
		return nil, Columns{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	entries, cols, err := ParseCSV(f)
	if err != nil {
		return nil, Columns{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return New(entries...), cols, nil
}
