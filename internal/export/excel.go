// Package export renders pipeline results into delivery formats: an
// Excel workbook for the analysis and a Markdown/HTML preview of the
// structured document.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/procdocs/sopstruct/internal/analyze"
)

// AnalysisSheet is the single sheet of the exported workbook.
const AnalysisSheet = "Analysis Results"

const maxColumnWidth = 70

var workbookColumns = []string{
	"Attribute",
	"Required Question",
	"Required Answer",
	"Considerations",
	"Evidence",
	"Summary Comment",
}

// AnalysisWorkbook renders attribute results to an in-memory xlsx
// workbook, one row per attribute. Multi-valued cells are flattened to
// readable multi-line strings; column widths track the longest cell,
// capped at 70.
func AnalysisWorkbook(results []analyze.AttributeResult) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(AnalysisSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	widths := make([]int, len(workbookColumns))
	writeRow := func(rowIdx int, cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(AnalysisSheet, cell, &cells); err != nil {
			return err
		}
		for i, c := range cells {
			if n := longestLine(c); n > widths[i] {
				widths[i] = n
			}
		}
		return nil
	}

	if err := writeRow(1, workbookColumns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range results {
		cells := []string{
			r.Attribute,
			r.RequiredQuestion,
			r.RequiredAnswer,
			FormatConsiderations(r.Considerations),
			r.Evidence,
			r.SummaryComment,
		}
		if err := writeRow(i+2, cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	for i := range workbookColumns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		width := widths[i] + 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(AnalysisSheet, col, col, float64(width)); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

// FormatConsiderations flattens question/answer pairs into one cell as
// "Question:"/"Answer:" stanzas separated by "---" lines.
func FormatConsiderations(cs []analyze.ConsiderationAnswer) string {
	stanzas := make([]string, 0, len(cs))
	for _, c := range cs {
		stanzas = append(stanzas, fmt.Sprintf("Question: %s\nAnswer: %s", c.Question, c.Answer))
	}
	return strings.Join(stanzas, "\n---\n")
}

// FormatItems flattens a plain string list into "- item" lines.
func FormatItems(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

// longestLine measures the widest line of a multi-line cell in runes.
func longestLine(s string) int {
	max := 0
	for _, line := range strings.Split(s, "\n") {
		if n := len([]rune(line)); n > max {
			max = n
		}
	}
	return max
}
