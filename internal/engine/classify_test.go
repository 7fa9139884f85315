package engine

import "testing"

func grid(rows ...[]string) TableGrid {
	return TableGrid{Page: 1, Source: SourceDetected, Rows: rows}
}

func TestClassify_MetadataByKeyword(t *testing.T) {
	cls := Classify([]TableGrid{
		grid([]string{"Prepared by", "J. Doe"}, []string{"Accountable", "Risk Office"}),
		grid([]string{"Other", "Table"}, []string{"a", "b"}),
	})
	if cls.Metadata == nil {
		t.Fatal("expected a metadata table")
	}
	if cls.Metadata.Rows[0][0] != "Prepared by" {
		t.Errorf("wrong table selected as metadata: %v", cls.Metadata.Rows)
	}
	if len(cls.Body) != 1 {
		t.Errorf("expected 1 body table, got %d", len(cls.Body))
	}
}

func TestClassify_MetadataFoundOnlyOnce(t *testing.T) {
	cls := Classify([]TableGrid{
		grid([]string{"Responsible", "Ops"}),
		grid([]string{"Consulted", "Legal"}),
	})
	if cls.Metadata == nil {
		t.Fatal("expected a metadata table")
	}
	if cls.Metadata.Rows[0][1] != "Ops" {
		t.Errorf("expected first keyword table kept, got %v", cls.Metadata.Rows)
	}
	// The second keyword table is not reconsidered; it becomes body.
	if len(cls.Body) != 1 {
		t.Fatalf("expected second table in body, got %d body tables", len(cls.Body))
	}
}

func TestClassify_RevisionScenario(t *testing.T) {
	cls := Classify([]TableGrid{
		grid(
			[]string{"Version", "Date", "Description", "Contributor"},
			[]string{"1.0", "2020-01-01", "Initial", "A. Smith"},
		),
	})
	if len(cls.RevisionRows) != 1 {
		t.Fatalf("expected 1 revision row, got %d", len(cls.RevisionRows))
	}
	row := cls.RevisionRows[0]
	want := []string{"1.0", "2020-01-01", "Initial", "A. Smith"}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d: got %q, want %q", i, row[i], want[i])
		}
	}
	if len(cls.Body) != 0 {
		t.Errorf("revision table must not appear in body, got %d", len(cls.Body))
	}
}

func TestClassify_RevisionHeaderOrderIndependent(t *testing.T) {
	cls := Classify([]TableGrid{
		grid(
			[]string{"Date", "Version", "Contributor", "Description"},
			[]string{"2021-02-02", "1.1", "B. Jones", "Update"},
		),
	})
	if len(cls.RevisionRows) != 1 {
		t.Fatalf("expected shuffled headers to still match, got %+v", cls)
	}
}

func TestClassify_RevisionContinuation(t *testing.T) {
	cls := Classify([]TableGrid{
		grid(
			[]string{"Version", "Date", "Description", "Contributor"},
			[]string{"1.0", "2020-01-01", "Initial", "A. Smith"},
		),
		// Page-break continuation: no header, width 4, all rows are data.
		grid(
			[]string{"1.1", "2020-06-01", "Clarified scope", "A. Smith"},
			[]string{"2.0", "2021-01-15", "Major revision", "C. Wu"},
		),
		// Width 3 exits revision mode.
		grid([]string{"x", "y", "z"}, []string{"1", "2", "3"}),
		// Width 4 after exit is plain body.
		grid([]string{"a", "b", "c", "d"}, []string{"5", "6", "7", "8"}),
	})

	if len(cls.RevisionRows) != 3 {
		t.Fatalf("expected 3 revision rows, got %d", len(cls.RevisionRows))
	}
	if len(cls.Body) != 2 {
		t.Fatalf("expected 2 body tables, got %d", len(cls.Body))
	}
}

func TestClassify_EmptyTablesSkipped(t *testing.T) {
	cls := Classify([]TableGrid{
		{Page: 1, Source: SourceDetected},
		grid([]string{"a", "b"}),
	})
	if len(cls.Body) != 1 {
		t.Errorf("expected empty table skipped, got %d body tables", len(cls.Body))
	}
}

func TestClassify_Exclusivity(t *testing.T) {
	grids := []TableGrid{
		grid([]string{"Informed", "Everyone"}),
		grid(
			[]string{"Version", "Date", "Description", "Contributor"},
			[]string{"1.0", "2020-01-01", "Initial", "A. Smith"},
		),
		grid([]string{"body", "table"}, []string{"1", "2"}),
	}
	cls := Classify(grids)

	placed := 0
	if cls.Metadata != nil {
		placed++
	}
	if len(cls.RevisionRows) > 0 {
		placed++
	}
	placed += len(cls.Body)
	if placed != len(grids) {
		t.Errorf("each table must land in exactly one bucket: %d placements for %d tables", placed, len(grids))
	}
}
