package engine

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxHeaderLen is the longest cell value still plausible as a column
// header. A first row where every cell is shorter than this is
// consumed as the table's header row.
const maxHeaderLen = 40

// CellValue is a tagged variant for a structured cell: empty, a scalar
// string, or an ordered list of strings (when the raw cell held
// bullet- or newline-separated items). Consumers must branch
// explicitly; there is no implicit coercion between the shapes.
type CellValue struct {
	kind   valueKind
	scalar string
	items  []string
}

type valueKind int

const (
	valueEmpty valueKind = iota
	valueScalar
	valueList
)

// EmptyValue returns the empty cell value.
func EmptyValue() CellValue { return CellValue{} }

// ScalarValue wraps a single string.
func ScalarValue(s string) CellValue {
	return CellValue{kind: valueScalar, scalar: s}
}

// ListValue wraps an ordered list of strings.
func ListValue(items []string) CellValue {
	return CellValue{kind: valueList, items: items}
}

// IsEmpty reports whether the cell held no text.
func (v CellValue) IsEmpty() bool { return v.kind == valueEmpty }

// Scalar returns the scalar string and whether the value is a scalar.
func (v CellValue) Scalar() (string, bool) {
	return v.scalar, v.kind == valueScalar
}

// List returns the item list and whether the value is a list.
func (v CellValue) List() ([]string, bool) {
	return v.items, v.kind == valueList
}

// Flatten returns the value's non-empty fragments: nothing for empty,
// one element for a scalar, each item for a list.
func (v CellValue) Flatten() []string {
	switch v.kind {
	case valueScalar:
		return []string{v.scalar}
	case valueList:
		return v.items
	default:
		return nil
	}
}

// Contains reports whether any fragment of the value contains the
// given substring.
func (v CellValue) Contains(sub string) bool {
	for _, f := range v.Flatten() {
		if strings.Contains(f, sub) {
			return true
		}
	}
	return false
}

// MarshalJSON encodes empty as null, scalars as strings, and lists as
// arrays.
func (v CellValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case valueScalar:
		return json.Marshal(v.scalar)
	case valueList:
		return json.Marshal(v.items)
	default:
		return []byte("null"), nil
	}
}

// Field is one column of a structured row.
type Field struct {
	Key   string
	Value CellValue
}

// Row is an ordered header→value record. Column order from the source
// grid is preserved, so re-serialization is deterministic.
type Row []Field

// Get returns the value for a header label.
func (r Row) Get(key string) (CellValue, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return CellValue{}, false
}

// MarshalJSON writes the row as an object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			sb.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		sb.Write(key)
		sb.WriteByte(':')
		sb.Write(val)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// StructuredTable reinterprets a TableGrid as header-labeled records.
type StructuredTable struct {
	Page    int
	Source  Source
	Headers []string
	Rows    []Row
}

// HeaderCarry threads the most recently learned header labels through
// one document's tables, so a logical table split across a page break
// is stitched back together. It is scoped to a single document pass
// and must never be shared across documents or goroutines.
type HeaderCarry struct {
	headers []string
}

// Headers returns the currently remembered labels, or nil.
func (h *HeaderCarry) Headers() []string { return h.headers }

// bulletSep splits a cell's text into items: newlines plus the common
// bullet glyphs (including U+2022, U+2023 and U+25E6) and the ASCII
// stand-ins "*" and "-".
var bulletSep = regexp.MustCompile("[\n*\\-•‣▪◦]")

// Structure infers headers for a grid and converts its data rows into
// ordered records.
//
// The first row is consumed as the header row when every cell in it is
// shorter than maxHeaderLen characters; blank header cells become
// positional "Column_N" labels. When the first row fails that test but
// the carry holds labels of the same width, those labels are reused and
// every grid row is data (the table is a continuation with no repeated
// header). Otherwise purely positional labels are synthesized and the
// first row is dropped as an assumed, non-matching header — data loss
// that is documented rather than corrected.
func Structure(grid TableGrid, carry *HeaderCarry) StructuredTable {
	st := StructuredTable{Page: grid.Page, Source: grid.Source}
	if len(grid.Rows) == 0 {
		return st
	}

	first := grid.Rows[0]
	var data [][]string

	switch {
	case isHeaderRow(first):
		st.Headers = headerLabels(first)
		carry.headers = st.Headers
		data = grid.Rows[1:]
	case carry.headers != nil && len(carry.headers) == len(first):
		st.Headers = carry.headers
		data = grid.Rows
	default:
		st.Headers = positionalLabels(len(first))
		data = grid.Rows[1:]
	}

	for _, raw := range data {
		row := make(Row, 0, len(raw))
		for i, cell := range raw {
			key := positionalLabel(i)
			if i < len(st.Headers) {
				key = st.Headers[i]
			}
			row = append(row, Field{Key: key, Value: splitCell(cell)})
		}
		st.Rows = append(st.Rows, row)
	}
	return st
}

// StructureAll runs Structure over a document's grids in order,
// threading one carry accumulator through the pass.
func StructureAll(grids []TableGrid) []StructuredTable {
	var carry HeaderCarry
	out := make([]StructuredTable, 0, len(grids))
	for _, g := range grids {
		out = append(out, Structure(g, &carry))
	}
	return out
}

func isHeaderRow(row []string) bool {
	for _, cell := range row {
		if utf8.RuneCountInString(cell) >= maxHeaderLen {
			return false
		}
	}
	return true
}

func headerLabels(row []string) []string {
	labels := make([]string, len(row))
	for i, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			cell = positionalLabel(i)
		}
		labels[i] = cell
	}
	return labels
}

func positionalLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = positionalLabel(i)
	}
	return labels
}

func positionalLabel(i int) string {
	return fmt.Sprintf("Column_%d", i+1)
}

// splitCell turns raw cell text into a CellValue. Fragments following
// a bullet or newline separator are the cell's items; text before the
// first separator is a label, not an item ("Review\n- check data"
// lists only "check data"). A cell producing more than one item
// becomes a list; anything else stays a scalar, and blank text is
// empty.
func splitCell(raw string) CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return EmptyValue()
	}
	parts := bulletSep.Split(trimmed, -1)
	var items []string
	for _, part := range parts[1:] {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) > 1 {
		return ListValue(items)
	}
	return ScalarValue(trimmed)
}
