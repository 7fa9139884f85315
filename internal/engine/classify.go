package engine

import "strings"

// metadataKeywords mark the document-information table: any table whose
// cells mention a RACI role is the metadata block.
var metadataKeywords = []string{"Responsible", "Accountable", "Consulted", "Informed"}

// RevisionSchema is the fixed column order of the revision-history
// table.
var RevisionSchema = []string{"Version", "Date", "Description", "Contributor"}

// Classification partitions a document's tables. A table lands in at
// most one of the three buckets.
type Classification struct {
	// Metadata is the first table mentioning a RACI keyword, or nil.
	Metadata *TableGrid
	// RevisionRows accumulates data rows from the revision-history
	// table and its continuations, headers excluded.
	RevisionRows [][]string
	// Body holds every remaining table, in document order.
	Body []TableGrid
}

// Classify partitions grids in a single stateful pass, mirroring how a
// multi-page revision table arrives as several grids with only the
// first carrying headers.
//
// The first grid whose cells contain any RACI keyword becomes the
// metadata table; once found it is never reconsidered. A grid whose
// header row is exactly the revision schema (order-independent) enters
// revision mode and contributes its remaining rows; while in revision
// mode, any immediately following grid of width four is appended in
// full, since continuation fragments lack a repeated header. The first
// grid matching neither rule exits revision mode and is a body table.
// Grids with no rows are skipped outright.
func Classify(grids []TableGrid) Classification {
	var cls Classification
	inRevision := false

	for i := range grids {
		grid := grids[i]
		if len(grid.Rows) == 0 {
			continue
		}
		header := grid.Rows[0]

		if cls.Metadata == nil && mentionsAny(grid.Rows, metadataKeywords) {
			cls.Metadata = &grids[i]
			continue
		}

		switch {
		case headerSetMatches(header, RevisionSchema):
			inRevision = true
			cls.RevisionRows = append(cls.RevisionRows, grid.Rows[1:]...)
		case inRevision && len(header) == len(RevisionSchema):
			cls.RevisionRows = append(cls.RevisionRows, grid.Rows...)
		default:
			inRevision = false
			cls.Body = append(cls.Body, grid)
		}
	}
	return cls
}

func mentionsAny(rows [][]string, keywords []string) bool {
	for _, row := range rows {
		for _, cell := range row {
			for _, kw := range keywords {
				if strings.Contains(cell, kw) {
					return true
				}
			}
		}
	}
	return false
}

// headerSetMatches compares the distinct values of a header row with
// the schema, ignoring column order.
func headerSetMatches(header, schema []string) bool {
	set := make(map[string]struct{}, len(header))
	for _, h := range header {
		set[h] = struct{}{}
	}
	if len(set) != len(schema) {
		return false
	}
	for _, s := range schema {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
