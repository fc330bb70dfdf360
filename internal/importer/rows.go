package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// RawRow is one CSV row keyed by column name, preserving header order.
type RawRow struct {
	columns []string
	values  map[string]string

	// Line is the 1-based line number in the source file.
	Line int
}

// Get returns the value for a column, empty string if absent.
func (r RawRow) Get(col string) string { return r.values[col] }

// Has reports whether the column exists in the row's schema.
func (r RawRow) Has(col string) bool {
	_, ok := r.values[col]
	return ok
}

// Columns returns the column names in header order.
func (r RawRow) Columns() []string { return r.columns }

// DetectDelimiter sniffs the field separator from a header line.
// Pekao24 exports use semicolons, Revolut uses commas.
func DetectDelimiter(header string) rune {
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}

// ReadRows reads a CSV export into rows keyed by header name. Headers
// and values are whitespace-trimmed. The returned columns are the
// trimmed header, in order, for registry selection.
func ReadRows(r io.Reader) ([]RawRow, []string, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, nil, fmt.Errorf("reading CSV header: %w", err)
	}
	firstLine, _, _ := strings.Cut(string(header), "\n")

	cr := csv.NewReader(br)
	cr.Comma = DetectDelimiter(firstLine)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	columns := make([]string, len(records[0]))
	for i, c := range records[0] {
		columns[i] = strings.TrimSpace(c)
	}

	var rows []RawRow
	for i, rec := range records[1:] {
		values := make(map[string]string, len(columns))
		for j, col := range columns {
			values[col] = strings.TrimSpace(rec[j])
		}
		rows = append(rows, RawRow{columns: columns, values: values, Line: i + 2})
	}
	return rows, columns, nil
}

// NewRawRow builds a row from ordered key/value pairs. Test helper and
// entry point for callers that already hold parsed rows.
func NewRawRow(line int, pairs ...[2]string) RawRow {
	columns := make([]string, 0, len(pairs))
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		columns = append(columns, p[0])
		values[p[0]] = p[1]
	}
	return RawRow{columns: columns, values: values, Line: line}
}
