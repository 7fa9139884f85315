// Package template reads control-review templates from Excel
// workbooks. A template workbook carries a "DE Template" sheet with an
// Attribute / Required Questions / Considerations table; its rows
// replace the built-in review rubric.
package template

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/procdocs/sopstruct/internal/analyze"
)

// SheetName is the sheet the template table lives on.
const SheetName = "DE Template"

var expectedHeaders = []string{"Attribute", "Required Questions", "Considerations"}

// Entry is one raw row of the template table.
type Entry struct {
	Attribute      string `json:"Attribute"`
	Required       string `json:"Required Questions"`
	Considerations string `json:"Considerations"`
}

// Parse reads the template table out of workbook bytes. The header row
// is located by scanning for a row containing all expected headers;
// rows under it with a non-empty Attribute become entries, blank rows
// are skipped.
func Parse(data []byte) ([]Entry, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet %q not found: %w", SheetName, err)
	}

	headerIdx := -1
	var headers []string
	for i, row := range rows {
		cleaned := make([]string, len(row))
		for j, cell := range row {
			cleaned[j] = strings.TrimSpace(cell)
		}
		if containsAll(cleaned, expectedHeaders) {
			headerIdx = i
			headers = cleaned
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("template headers not found in sheet %q", SheetName)
	}

	col := map[string]int{}
	for i, h := range headers {
		col[h] = i
	}

	var entries []Entry
	for _, row := range rows[headerIdx+1:] {
		if blankRow(row) {
			continue
		}
		entry := Entry{
			Attribute:      cellAt(row, col["Attribute"]),
			Required:       cellAt(row, col["Required Questions"]),
			Considerations: cellAt(row, col["Considerations"]),
		}
		if entry.Attribute == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ToControlAttributes converts template entries to the analysis
// rubric. The Considerations cell is split on newlines; leading list
// dashes are stripped.
func ToControlAttributes(entries []Entry) []analyze.ControlAttribute {
	attrs := make([]analyze.ControlAttribute, 0, len(entries))
	for _, e := range entries {
		var considerations []string
		for _, line := range strings.Split(e.Considerations, "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimSpace(strings.TrimPrefix(line, "- "))
			if line != "" {
				considerations = append(considerations, line)
			}
		}
		attrs = append(attrs, analyze.ControlAttribute{
			Attribute:      e.Attribute,
			Required:       e.Required,
			Considerations: considerations,
		})
	}
	return attrs
}

func containsAll(row, wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, cell := range row {
			if cell == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
