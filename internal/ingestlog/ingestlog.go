// Package ingestlog keeps an append-only CSV ledger of ingested source
// files. The file hashes recorded here form the skip-set that makes
// ingestion idempotent: a re-exported statement with identical content
// is recognized and not processed twice.
package ingestlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one ingested file.
type Entry struct {
	Timestamp time.Time
	File      string
	SHA256    string
	Format    string // parser format used for the file
	Rows      int    // transactions produced
	Skipped   int    // rows deliberately skipped by the mapper
}

// Header is the CSV header for ingest-log.csv.
const Header = "timestamp,file,sha256,format,rows,skipped"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "logs/ingest-log.csv"
	colTimestamp = 0
	colFile      = 1
	colSHA256    = 2
	colFormat    = 3
	colRows      = 4
	colSkipped   = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colSHA256] = e.SHA256
	row[colFormat] = e.Format
	row[colRows] = strconv.Itoa(e.Rows)
	row[colSkipped] = strconv.Itoa(e.Skipped)
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
	rows, err := strconv.Atoi(record[colRows])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing rows %q: %w", record[colRows], err)
	}
	skipped, err := strconv.Atoi(record[colSkipped])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing skipped %q: %w", record[colSkipped], err)
	}

	return Entry{
		Timestamp: ts,
		File:      record[colFile],
		SHA256:    record[colSHA256],
		Format:    record[colFormat],
		Rows:      rows,
		Skipped:   skipped,
	}, nil
}

// Append writes entries to <root>/logs/ingest-log.csv, creating the
// file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	return cw.Error()
}

// Read returns all entries from <root>/logs/ingest-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Hashes returns the set of file hashes already ingested.
func Hashes(root string) (map[string]bool, error) {
	entries, err := Read(root)
	if err != nil {
		return nil, err
	}
	hashes := make(map[string]bool, len(entries))
	for _, e := range entries {
		hashes[e.SHA256] = true
	}
	return hashes, nil
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ingest log CSV: %w", err)
	}
	if len(records) <= 1 {
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
