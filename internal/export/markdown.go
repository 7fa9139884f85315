package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/procdocs/sopstruct/internal/engine"
)

// ModelMarkdown renders a structured document model as Markdown:
// blocks and sections as headings, metadata as a definition list,
// tables as pipe tables.
func ModelMarkdown(model engine.DocumentModel) string {
	var sb strings.Builder

	for _, elem := range model {
		switch block := elem.(type) {
		case engine.DocumentInfo:
			sb.WriteString("## " + block.Name + "\n\n")
			keys := make([]string, 0, len(block.Metadata))
			for k := range block.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&sb, "**%s**: %s\n\n", k, block.Metadata[k])
			}

		case engine.TableOfContents:
			sb.WriteString("## " + block.Name + "\n\n")
			sb.WriteString(FormatItems(block.Headings) + "\n\n")

		case engine.Section:
			sb.WriteString("## " + block.Name + "\n\n")
			if block.Content != "" {
				sb.WriteString(block.Content + "\n\n")
			}
			for _, sub := range block.SubSections {
				sb.WriteString("### " + sub.Name + "\n\n")
				if sub.Content != "" {
					sb.WriteString(sub.Content + "\n\n")
				}
			}

		case engine.RevisionHistory:
			sb.WriteString("## " + block.Name + "\n\n")
			writePipeHeader(&sb, engine.RevisionSchema)
			for _, row := range block.Rows {
				cells := make([]string, 0, len(engine.RevisionSchema))
				for _, label := range engine.RevisionSchema {
					v, _ := row.Get(label)
					cells = append(cells, cellText(v))
				}
				writePipeRow(&sb, cells)
			}
			sb.WriteString("\n")

		case engine.ExtractedTables:
			sb.WriteString("## " + block.Name + "\n\n")
			for _, table := range block.Tables {
				fmt.Fprintf(&sb, "**Table %d** (page %d, %s)\n\n", table.Number, table.Page, table.Source)
				if len(table.Rows) == 0 {
					continue
				}
				writePipeHeader(&sb, table.Rows[0])
				for _, row := range table.Rows[1:] {
					writePipeRow(&sb, row)
				}
				sb.WriteString("\n")
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// PreviewHTML renders the model's Markdown to HTML.
func PreviewHTML(model engine.DocumentModel) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(ModelMarkdown(model)), &buf); err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	return buf.Bytes(), nil
}

func writePipeHeader(sb *strings.Builder, cells []string) {
	writePipeRow(sb, cells)
	sb.WriteString("|")
	for range cells {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
}

func writePipeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("|")
	for _, c := range cells {
		sb.WriteString(" " + escapePipes(c) + " |")
	}
	sb.WriteString("\n")
}

func escapePipes(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

func cellText(v engine.CellValue) string {
	if s, ok := v.Scalar(); ok {
		return s
	}
	return strings.Join(v.Flatten(), "; ")
}
