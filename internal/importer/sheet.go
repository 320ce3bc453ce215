// Package importer turns spreadsheet exports into typed record values.
// Header names, dates, numbers, enums and booleans are matched loosely
// because the files come from Excel and Google Sheets in Spanish and English.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var (
	ErrEmpty     = errors.New("csv has no rows")
	ErrNoColumns = errors.New("csv has no recognized columns")
)

// Aliases maps normalized header spellings to field names.
type Aliases map[string]string

// NewAliases builds an alias table. Every field also matches its own name.
func NewAliases(fields map[string][]string) Aliases {
	a := Aliases{}
	for field, names := range fields {
		a[NormalizeKey(field)] = field
		for _, n := range names {
			if k := NormalizeKey(n); k != "" {
				a[k] = field
			}
		}
	}
	return a
}

type Sheet struct {
	Headers  []string
	Mapped   map[string]string
	Unmapped []string
	Rows     []*Row
}

// RowError is reported to the client per rejected row. Line is the 1-based
// line in the file, header included.
type RowError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// Parse reads data as CSV with a sniffed delimiter and maps its headers
// through aliases. Blank lines are dropped.
func Parse(data []byte, aliases Aliases) (*Sheet, error) {
	data = stripBOM(data)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	r := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	sheet := &Sheet{Headers: header, Mapped: map[string]string{}}
	idx := map[string]int{}
	for i, h := range header {
		field, ok := aliases[NormalizeKey(h)]
		if !ok {
			if strings.TrimSpace(h) != "" {
				sheet.Unmapped = append(sheet.Unmapped, h)
			}
			continue
		}
		if _, dup := idx[field]; dup {
			continue
		}
		idx[field] = i
		sheet.Mapped[h] = field
	}
	if len(idx) == 0 {
		return nil, ErrNoColumns
	}

	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}
		row := &Row{Line: line, values: map[string]string{}}
		for field, i := range idx {
			if i < len(rec) {
				row.values[field] = strings.TrimSpace(rec[i])
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	if len(sheet.Rows) == 0 {
		return nil, ErrEmpty
	}
	return sheet, nil
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}

// sniffDelimiter picks whichever of , ; or tab occurs most in the header line.
func sniffDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	best, bestCount := ',', bytes.Count(first, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(first, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Row gives typed access to one CSV line. Conversion failures are collected
// and surfaced by Err, so mappers can read every field before checking.
type Row struct {
	Line   int
	values map[string]string
	errs   []string
}

func (r *Row) fail(field string, err error) {
	r.errs = append(r.errs, fmt.Sprintf("%s: %v", field, err))
}

func (r *Row) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}

func (r *Row) String(field string) string {
	return r.values[field]
}

// Require records an error when field is blank.
func (r *Row) Require(field string) string {
	v := r.values[field]
	if v == "" {
		r.errs = append(r.errs, fmt.Sprintf("%s is required", field))
	}
	return v
}

func (r *Row) Date(field string) *time.Time {
	t, err := ParseDate(r.values[field])
	if err != nil {
		r.fail(field, err)
	}
	return t
}

func (r *Row) Float(field string) *float64 {
	f, err := ParseNumber(r.values[field])
	if err != nil {
		r.fail(field, err)
	}
	return f
}

func (r *Row) Int(field string) *int64 {
	n, err := ParseInt(r.values[field])
	if err != nil {
		r.fail(field, err)
	}
	return n
}

func (r *Row) Bool(field string) bool {
	return ParseBool(r.values[field])
}

func (r *Row) Enum(field string, e Enum) string {
	v, err := e.Parse(r.values[field])
	if err != nil {
		r.fail(field, err)
	}
	return v
}

func (r *Row) List(field string) []string {
	return SplitList(r.values[field])
}

func (r *Row) Err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return errors.New(strings.Join(r.errs, "; "))
}
