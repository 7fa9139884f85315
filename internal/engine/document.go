package engine

// The document assembler is a pure merge: classified tables plus the
// section tree, in a fixed block order. Field names in the serialized
// form are part of the output contract consumed by the analysis and
// export collaborators.

// DocumentInfo is the flat key→value metadata block.
type DocumentInfo struct {
	Name     string            `json:"Section"`
	Metadata map[string]string `json:"Metadata"`
}

// TableOfContents lists every heading string in source order.
type TableOfContents struct {
	Name     string   `json:"Section"`
	Headings []string `json:"Content"`
}

// RevisionHistory carries revision rows zipped against RevisionSchema.
type RevisionHistory struct {
	Name string `json:"Section"`
	Rows []Row  `json:"Table"`
}

// ExtractedTable is one remaining body table.
type ExtractedTable struct {
	Number int        `json:"Table #"`
	Page   int        `json:"Page"`
	Source Source     `json:"Source"`
	Rows   [][]string `json:"Rows"`
}

// ExtractedTables is the trailing block of unclassified body tables.
type ExtractedTables struct {
	Name   string           `json:"Section"`
	Tables []ExtractedTable `json:"Tables"`
}

// DocumentModel is the ordered sequence of named blocks making up the
// reconstructed document. Element types are DocumentInfo,
// TableOfContents, Section, RevisionHistory and ExtractedTables.
type DocumentModel []any

// AssembleDocument merges classified tables and the section tree into
// the final model, in fixed order: document information, table of
// contents, sections, revision history, extracted tables. Blocks with
// nothing to say are omitted rather than emitted empty.
func AssembleDocument(cls Classification, headings []Heading, sections []Section) DocumentModel {
	var model DocumentModel

	if cls.Metadata != nil {
		meta := make(map[string]string)
		for _, row := range cls.Metadata.Rows {
			if pair := nonPadded(row); len(pair) == 2 {
				meta[pair[0]] = pair[1]
			}
		}
		model = append(model, DocumentInfo{Name: "Document Information", Metadata: meta})
	}

	if len(headings) > 0 {
		toc := make([]string, len(headings))
		for i, h := range headings {
			toc[i] = h.Text
		}
		model = append(model, TableOfContents{Name: "Table of Contents", Headings: toc})
	}

	for _, s := range sections {
		model = append(model, s)
	}

	if len(cls.RevisionRows) > 0 {
		rows := make([]Row, 0, len(cls.RevisionRows))
		for _, raw := range cls.RevisionRows {
			rows = append(rows, zipSchema(RevisionSchema, raw))
		}
		model = append(model, RevisionHistory{Name: "Revision History", Rows: rows})
	}

	if len(cls.Body) > 0 {
		tables := make([]ExtractedTable, 0, len(cls.Body))
		for i, t := range cls.Body {
			tables = append(tables, ExtractedTable{
				Number: i + 1,
				Page:   t.Page,
				Source: t.Source,
				Rows:   t.Rows,
			})
		}
		model = append(model, ExtractedTables{Name: "Extracted Tables", Tables: tables})
	}

	return model
}

// zipSchema pairs row cells with schema labels positionally. Short rows
// yield partial records; extra cells are truncated.
func zipSchema(schema []string, raw []string) Row {
	n := min(len(schema), len(raw))
	row := make(Row, 0, n)
	for i := 0; i < n; i++ {
		row = append(row, Field{Key: schema[i], Value: ScalarValue(raw[i])})
	}
	return row
}

// nonPadded strips trailing density padding so a metadata table's
// two-cell rows still fold after grid densification.
func nonPadded(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return row[:end]
}
