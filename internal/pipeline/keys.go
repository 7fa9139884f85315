package pipeline

import (
	"path"
	"strings"
)

// Artifact key layout in the object store. The processed model,
// analysis JSON, preview and workbook for one document are all derived
// from its doc ID and source filename.

func ProcessedKey(prefix, docID string) string {
	return prefix + docID + "_processed.json"
}

func AnalysisKey(prefix, docID string) string {
	return prefix + docID + "_claude_analysis.json"
}

func PreviewKey(prefix, docID string) string {
	return prefix + docID + "_preview.html"
}

// WorkbookKey names the exported workbook after the source document.
func WorkbookKey(prefix, filename string) string {
	name := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if name == "" || name == "." {
		name = "unknown_sop"
	}
	return prefix + name + " Final Output.xlsx"
}
