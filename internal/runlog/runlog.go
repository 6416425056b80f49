// Package runlog keeps an append-only CSV history of audit runs.
package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the run log.
type Entry struct {
	RunID      string
	StartedAt  time.Time
	Entities   int
	Batches    int
	Violations int // batches with at least one violation
	OutputDir  string
}

// Header is the CSV header for audit-log.csv.
const Header = "run_id,started_at,entities,batches,violations,output_dir"

const (
	numFields     = 6
	logFile       = "audit-log.csv"
	colRunID      = 0
	colStartedAt  = 1
	colEntities   = 2
	colBatches    = 3
	colViolations = 4
	colOutputDir  = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colRunID] = e.RunID
	row[colStartedAt] = e.StartedAt.Format(time.RFC3339)
	row[colEntities] = strconv.Itoa(e.Entities)
	row[colBatches] = strconv.Itoa(e.Batches)
	row[colViolations] = strconv.Itoa(e.Violations)
	row[colOutputDir] = e.OutputDir
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colStartedAt])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing started_at %q: %w", record[colStartedAt], err)
	}
	entities, err := strconv.Atoi(record[colEntities])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing entities %q: %w", record[colEntities], err)
	}
	batches, err := strconv.Atoi(record[colBatches])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing batches %q: %w", record[colBatches], err)
	}
	violations, err := strconv.Atoi(record[colViolations])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing violations %q: %w", record[colViolations], err)
	}

	return Entry{
		RunID:      record[colRunID],
		StartedAt:  ts,
		Entities:   entities,
		Batches:    batches,
		Violations: violations,
		OutputDir:  record[colOutputDir],
	}, nil
}

// Append writes an entry to <dir>/audit-log.csv, creating the file with a
// header when absent.
func Append(dir string, e Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	path := filepath.Join(dir, logFile)
	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if isNew {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/audit-log.csv, oldest first.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
