package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/procdocs/sopstruct/internal/analyze"
)

func sampleResults() []analyze.AttributeResult {
	return []analyze.AttributeResult{
		{
			Attribute:        "Reporting",
			RequiredQuestion: "Is there a reporting process?",
			RequiredAnswer:   "Yes, monthly.",
			Considerations: []analyze.ConsiderationAnswer{
				{Question: "Is it timely?", Answer: "Within five days."},
				{Question: "Right stakeholders?", Answer: "Operations committee."},
			},
			Evidence:       "Section 5.2",
			SummaryComment: "Well established.",
		},
		{
			Attribute:        "Escalation",
			RequiredQuestion: "Is there an escalation path?",
			RequiredAnswer:   "Partially.",
			Evidence:         "Section 6",
			SummaryComment:   "Needs tracking to closure.",
		},
	}
}

func TestAnalysisWorkbook(t *testing.T) {
	buf, err := AnalysisWorkbook(sampleResults())
	if err != nil {
		t.Fatalf("AnalysisWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != AnalysisSheet {
		t.Fatalf("sheets: %v", sheets)
	}

	rows, err := f.GetRows(AnalysisSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Attribute" || rows[0][5] != "Summary Comment" {
		t.Errorf("header row: %v", rows[0])
	}
	if rows[1][0] != "Reporting" || rows[2][0] != "Escalation" {
		t.Errorf("attribute column: %v / %v", rows[1], rows[2])
	}
	if !strings.Contains(rows[1][3], "Question: Is it timely?") {
		t.Errorf("considerations cell: %q", rows[1][3])
	}
	if !strings.Contains(rows[1][3], "---") {
		t.Errorf("stanzas must be separated: %q", rows[1][3])
	}
}

func TestAnalysisWorkbook_ColumnWidthCapped(t *testing.T) {
	results := []analyze.AttributeResult{{
		Attribute:      "Documentation",
		RequiredAnswer: strings.Repeat("x", 200),
	}}
	buf, err := AnalysisWorkbook(results)
	if err != nil {
		t.Fatalf("AnalysisWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	width, err := f.GetColWidth(AnalysisSheet, "C")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if width > 70 {
		t.Errorf("width must be capped at 70, got %f", width)
	}
	if width < 60 {
		t.Errorf("long column should reach the cap, got %f", width)
	}
}

func TestFormatConsiderations(t *testing.T) {
	got := FormatConsiderations([]analyze.ConsiderationAnswer{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
	})
	want := "Question: Q1\nAnswer: A1\n---\nQuestion: Q2\nAnswer: A2"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if FormatConsiderations(nil) != "" {
		t.Errorf("nil input must render empty")
	}
}

func TestFormatItems(t *testing.T) {
	got := FormatItems([]string{"first", "second"})
	if got != "- first\n- second" {
		t.Errorf("got %q", got)
	}
	if FormatItems(nil) != "" {
		t.Errorf("nil input must render empty")
	}
}
