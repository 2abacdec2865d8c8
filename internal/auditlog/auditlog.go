// Package auditlog appends one CSV row per ingestion run so operators can
// trace which artifacts were committed, when, and with what row counts.
package auditlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Entry is one row in the ingest log.
type Entry struct {
	Timestamp time.Time
	Artifact  string
	CommitID  string
	Ingested  int
	Rejected  int
	Status    string
}

// Header is the CSV header for ingest-log.csv.
const Header = "timestamp,artifact,commit_id,rows_ingested,rows_rejected,status"

const (
	numFields    = 6
	colTimestamp = 0
	colArtifact  = 1
	colCommitID  = 2
	colIngested  = 3
	colRejected  = 4
	colStatus    = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colArtifact] = e.Artifact
	row[colCommitID] = e.CommitID
	row[colIngested] = strconv.Itoa(e.Ingested)
	row[colRejected] = strconv.Itoa(e.Rejected)
	row[colStatus] = e.Status
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	ingested, err := strconv.Atoi(record[colIngested])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing rows_ingested %q: %w", record[colIngested], err)
	}
	rejected, err := strconv.Atoi(record[colRejected])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing rows_rejected %q: %w", record[colRejected], err)
	}

	return Entry{
		Timestamp: ts,
		Artifact:  record[colArtifact],
		CommitID:  record[colCommitID],
		Ingested:  ingested,
		Rejected:  rejected,
		Status:    record[colStatus],
	}, nil
}

// Log appends entries to a CSV file, creating it (with header) on first
// use.
type Log struct {
	path string
}

// New creates a Log at path.
func New(path string) *Log {
	return &Log{path: path}
}

// Append writes one entry.
func (l *Log) Append(e Entry) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(l.path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries in the log.
func (l *Log) Read() ([]Entry, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()
	return ReadEntries(f)
}

// ReadEntries reads all entries from a reader.
func ReadEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ingest log: %w", err)
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
