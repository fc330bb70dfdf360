// Package importer normalizes per-bank CSV exports into canonical
// transactions. Each bank format has a Mapper; the Registry selects the
// applicable one for a batch of rows by matching the columns the file
// actually has against each mapper's required-field set.
package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// ErrNoParser means no registered mapper's required fields are all
// present in a batch's columns. Distinct from file read errors.
var ErrNoParser = errors.New("no parser matches available columns")

// ErrAmbiguousSchema means more than one mapper's required fields are
// satisfied. Subset matching is not guaranteed unique, so ambiguity is
// surfaced rather than resolved by registration order; callers should
// disambiguate with an explicit format hint via Get.
var ErrAmbiguousSchema = errors.New("columns satisfy more than one parser")

// Mapper converts one raw CSV row into a canonical transaction.
// skip reports a deliberate omission (pending booking, incomplete
// reversal); it is not an error and callers may count skips separately.
type Mapper interface {
	Format() string
	Required() []string
	Map(row RawRow) (txn model.Transaction, skip bool, err error)
}

// Registry holds registered mappers. It is populated once at startup
// and read-only afterwards.
type Registry struct {
	mappers []Mapper
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a mapper. Panics on duplicate format.
func (r *Registry) Register(m Mapper) {
	key := strings.ToLower(m.Format())
	for _, existing := range r.mappers {
		if strings.ToLower(existing.Format()) == key {
			panic("duplicate parser format: " + key)
		}
	}
	r.mappers = append(r.mappers, m)
}

// Get returns the mapper for format, or nil.
func (r *Registry) Get(format string) Mapper {
	key := strings.ToLower(format)
	for _, m := range r.mappers {
		if strings.ToLower(m.Format()) == key {
			return m
		}
	}
	return nil
}

// Formats returns the registered format names in registration order.
func (r *Registry) Formats() []string {
	names := make([]string, len(r.mappers))
	for i, m := range r.mappers {
		names[i] = m.Format()
	}
	return names
}

// Select finds the single mapper whose required fields are all present
// in columns. Returns ErrNoParser when none qualifies and
// ErrAmbiguousSchema when more than one does.
func (r *Registry) Select(columns []string) (Mapper, error) {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}

	var matches []Mapper
	for _, m := range r.mappers {
		ok := true
		for _, field := range m.Required() {
			if !have[field] {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, m)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w (have %d columns)", ErrNoParser, len(columns))
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Format()
		}
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousSchema, strings.Join(names, ", "))
	}
}

// DefaultRegistry returns a registry with all built-in mappers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Pekao24Mapper{})
	r.Register(&RevolutMapper{})
	return r
}

// MapAll maps a batch of rows sharing one schema. A mapping error
// aborts the batch with the source file and line of the offending row;
// skips are counted, not dropped silently. The schema is verified
// against the mapper's required fields up front: selection by explicit
// format hint bypasses Select's column check.
func MapAll(m Mapper, rows []RawRow, source string) (txns []model.Transaction, skipped int, err error) {
	if len(rows) > 0 {
		for _, field := range m.Required() {
			if !rows[0].Has(field) {
				return nil, 0, fmt.Errorf("%s: missing column %q required by format %s", source, field, m.Format())
			}
		}
	}
	for _, row := range rows {
		txn, skip, err := m.Map(row)
		if err != nil {
			var fe *FieldError
			if errors.As(err, &fe) {
				fe.Source = source
				fe.Line = row.Line
				return nil, 0, fe
			}
			return nil, 0, fmt.Errorf("%s line %d: %w", source, row.Line, err)
		}
		if skip {
			skipped++
			continue
		}
		txns = append(txns, txn)
	}
	return txns, skipped, nil
}

// FieldError reports a source field that could not be parsed, with
// enough context to locate the offending row.
type FieldError struct {
	Source string // file or batch identifier
	Line   int    // 1-based line in the source file
	Field  string // offending column name
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s line %d: field %q: %v", e.Source, e.Line, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
