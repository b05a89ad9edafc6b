// Package tabular reads comma-delimited text with a header row into ordered,
// header-keyed rows.
package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row maps a header name to the raw field value of one record.
type Row map[string]string

// Table is a parsed dataset. Rows keep input order.
type Table struct {
	Dataset string
	Header  []string
	Rows    []Row
}

// Has reports whether the header row contains name (exact match).
func (t *Table) Has(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ParseError reports malformed delimited text.
type ParseError struct {
	Dataset string
	Line    int // 1-based, 0 if unknown
	Msg     string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s CSV parsing error on line %d: %s", e.Dataset, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s CSV parsing error: %s", e.Dataset, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports required headers missing from a dataset.
type SchemaError struct {
	Dataset string
	Missing []string
}

func (e *SchemaError) Error() string {
	quoted := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		quoted[i] = "'" + m + "'"
	}
	return fmt.Sprintf("%s CSV is missing required headers: %s", e.Dataset, strings.Join(quoted, ", "))
}

// Parse reads r as comma-delimited records. The first record is the header.
// Quoted fields may contain commas and newlines; a doubled quote inside a
// quoted field is a literal quote. Blank lines are skipped. Every record must
// have as many fields as the header.
//
// Input with no records at all yields an empty Table with a nil Header.
func Parse(dataset string, r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = 0

	t := &Table{Dataset: dataset}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, toParseError(dataset, err)
		}
		if t.Header == nil {
			t.Header = record
			continue
		}
		row := make(Row, len(record))
		for i, name := range t.Header {
			row[name] = record[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// RequireHeaders returns a *SchemaError naming every name absent from the
// table's header row, in the order given.
func RequireHeaders(t *Table, names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Dataset: t.Dataset, Missing: missing}
	}
	return nil
}

func toParseError(dataset string, err error) *ParseError {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{
			Dataset: dataset,
			Line:    csvErr.Line,
			Msg:     csvErr.Err.Error(),
			Err:     err,
		}
	}
	return &ParseError{Dataset: dataset, Msg: err.Error(), Err: err}
}
