package engine

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStructure_HeaderRowLearned(t *testing.T) {
	grid := TableGrid{Page: 1, Source: SourceDetected, Rows: [][]string{
		{"Name", "Role", ""},
		{"Alice", "Analyst", "NY"},
	}}
	var carry HeaderCarry
	st := Structure(grid, &carry)

	want := []string{"Name", "Role", "Column_3"}
	if len(st.Headers) != 3 {
		t.Fatalf("expected 3 headers, got %v", st.Headers)
	}
	for i, h := range want {
		if st.Headers[i] != h {
			t.Errorf("header %d: got %q, want %q", i, st.Headers[i], h)
		}
	}
	if len(st.Rows) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(st.Rows))
	}
	if v, ok := st.Rows[0].Get("Name"); !ok {
		t.Error("missing Name field")
	} else if s, _ := v.Scalar(); s != "Alice" {
		t.Errorf("Name: got %q", s)
	}
	if carry.Headers() == nil {
		t.Error("expected carry to remember the learned headers")
	}
}

func TestStructure_HeaderCarryOverAcrossTables(t *testing.T) {
	first := TableGrid{Rows: [][]string{
		{"Step", "Owner"},
		{"1", "Ops"},
	}}
	// Continuation: first row is data (a long cell fails the header
	// test) and the width matches the remembered headers.
	longCell := strings.Repeat("x", 45)
	second := TableGrid{Rows: [][]string{
		{longCell, "Risk"},
		{"3", "Finance"},
	}}

	var carry HeaderCarry
	Structure(first, &carry)
	st := Structure(second, &carry)

	if st.Headers[0] != "Step" || st.Headers[1] != "Owner" {
		t.Fatalf("expected inherited headers [Step Owner], got %v", st.Headers)
	}
	// No header row consumed: both grid rows are data.
	if len(st.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(st.Rows))
	}
	if v, _ := st.Rows[0].Get("Step"); !v.Contains(longCell) {
		t.Error("expected first grid row retained as data")
	}
}

func TestStructure_NoCarryFallsBackToPositional(t *testing.T) {
	longCell := strings.Repeat("y", 50)
	grid := TableGrid{Rows: [][]string{
		{longCell, "b"},
		{"c", "d"},
	}}
	var carry HeaderCarry
	st := Structure(grid, &carry)

	if st.Headers[0] != "Column_1" || st.Headers[1] != "Column_2" {
		t.Fatalf("expected positional headers, got %v", st.Headers)
	}
	// First row dropped as an assumed non-matching header.
	if len(st.Rows) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(st.Rows))
	}
}

func TestStructure_CarryWidthMismatchDoesNotInherit(t *testing.T) {
	var carry HeaderCarry
	Structure(TableGrid{Rows: [][]string{{"A", "B", "C"}}}, &carry)

	longCell := strings.Repeat("z", 41)
	st := Structure(TableGrid{Rows: [][]string{{longCell, "q"}, {"1", "2"}}}, &carry)
	if st.Headers[0] != "Column_1" {
		t.Errorf("expected positional fallback on width mismatch, got %v", st.Headers)
	}
}

func TestStructure_RowCountInvariant(t *testing.T) {
	grid := TableGrid{Rows: [][]string{
		{"H1", "H2"},
		{"a", "b"},
		{"c", "d"},
	}}
	var carry HeaderCarry
	st := Structure(grid, &carry)
	if len(st.Rows) != len(grid.Rows)-1 {
		t.Errorf("expected grid rows minus header, got %d rows", len(st.Rows))
	}
}

func TestSplitCell_BulletList(t *testing.T) {
	v := splitCell("Review\n- check data\n- sign off")
	items, ok := v.List()
	if !ok {
		t.Fatalf("expected list value, got %+v", v)
	}
	// "Review" labels the list; only the bulleted items survive.
	want := []string{"check data", "sign off"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %v", len(want), items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d: got %q, want %q", i, items[i], want[i])
		}
	}
}

func TestSplitCell_UnicodeBullets(t *testing.T) {
	v := splitCell("• alpha ◦ beta ‣ gamma")
	items, ok := v.List()
	if !ok || len(items) != 3 {
		t.Fatalf("expected 3 items, got %v (list=%v)", items, ok)
	}
}

func TestSplitCell_ScalarAndEmpty(t *testing.T) {
	if v := splitCell("  plain value  "); !v.IsEmpty() {
		if s, ok := v.Scalar(); !ok || s != "plain value" {
			t.Errorf("expected trimmed scalar, got %+v", v)
		}
	} else {
		t.Error("expected scalar, got empty")
	}

	if v := splitCell("   "); !v.IsEmpty() {
		t.Errorf("expected empty value for blank cell, got %+v", v)
	}

	// A single leading bullet yields one fragment, which stays scalar.
	if v := splitCell("- only item"); v.IsEmpty() {
		t.Error("expected non-empty value")
	} else if _, isList := v.List(); isList {
		t.Error("single fragment should remain scalar")
	}
}

func TestRow_MarshalPreservesColumnOrder(t *testing.T) {
	row := Row{
		{Key: "Zeta", Value: ScalarValue("1")},
		{Key: "Alpha", Value: ListValue([]string{"a", "b"})},
		{Key: "Mid", Value: EmptyValue()},
	}
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"Zeta":"1","Alpha":["a","b"],"Mid":null}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestStructureAll_ThreadsOneCarry(t *testing.T) {
	long := strings.Repeat("w", 44)
	tables := StructureAll([]TableGrid{
		{Rows: [][]string{{"K", "V"}, {"a", "b"}}},
		{Rows: [][]string{{long, "x"}}},
	})
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if tables[1].Headers[0] != "K" {
		t.Errorf("expected carry-over headers in second table, got %v", tables[1].Headers)
	}
}
