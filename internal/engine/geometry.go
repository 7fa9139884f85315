// Package engine reconstructs a hierarchical document model from OCR
// block output: it separates free text from table regions, assembles
// and classifies tables, detects section headings, and merges the
// results into an ordered document model.
//
// The engine is pure and synchronous. It performs no I/O and keeps no
// state between documents; anything carried across tables within one
// document (header labels, role accumulation) is threaded explicitly.
package engine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/procdocs/sopstruct/internal/block"
)

// Source tags how a table grid was obtained.
type Source string

const (
	// SourceDetected marks a table the OCR service detected directly.
	SourceDetected Source = "DETECTED_TABLE"
	// SourceFallback marks a table inferred from whitespace-aligned text.
	SourceFallback Source = "FALLBACK_FROM_TEXT"
)

// TableGrid is a dense row/column grid of cell text for one table.
type TableGrid struct {
	Page   int
	Source Source
	Rows   [][]string
}

// Resolution is the outcome of separating a page's lines from its
// table regions.
type Resolution struct {
	// FreeText is every line not inside a detected table, joined by
	// newline in source order. Heading detection runs on this.
	FreeText string
	// Fallback holds tables inferred from whitespace-aligned line runs
	// that no detected table covered.
	Fallback []TableGrid
}

// columnGap is the informal column separator: a run of two or more
// whitespace characters inside a line.
var columnGap = regexp.MustCompile(`\s{2,}`)

// insideAny reports whether the line's center point falls within any of
// the given table boxes. Lines without geometry are never inside.
func insideAny(line *block.Block, boxes []block.Box) bool {
	if line.Box == nil {
		return false
	}
	cx, cy := line.Box.Center()
	for _, b := range boxes {
		if b.Contains(cx, cy) {
			return true
		}
	}
	return false
}

// ResolveGeometry decides which lines belong to detected tables and
// which are free text, and reconstructs fallback tables from
// whitespace-aligned runs of the free lines.
func ResolveGeometry(g *block.Graph) Resolution {
	var boxes []block.Box
	for _, t := range g.Tables() {
		if t.Box != nil {
			boxes = append(boxes, *t.Box)
		}
	}

	var free []string
	byPage := make(map[int][]*block.Block)
	var pages []int

	for _, line := range g.Lines() {
		if insideAny(line, boxes) {
			continue
		}
		free = append(free, line.Text)
		if _, seen := byPage[line.Page]; !seen {
			pages = append(pages, line.Page)
		}
		byPage[line.Page] = append(byPage[line.Page], line)
	}
	sort.Ints(pages)

	res := Resolution{FreeText: strings.Join(free, "\n")}
	for _, page := range pages {
		res.Fallback = append(res.Fallback, fallbackGrids(page, byPage[page])...)
	}
	return res
}

// fallbackGrids buffers consecutive lines containing a multi-space run
// and emits each buffer of two or more lines as an inferred table.
// Smaller buffers are prose, not tabular.
func fallbackGrids(page int, lines []*block.Block) []TableGrid {
	var grids []TableGrid
	var buffer []string

	flush := func() {
		if len(buffer) >= 2 {
			rows := make([][]string, 0, len(buffer))
			for _, l := range buffer {
				rows = append(rows, columnGap.Split(strings.TrimSpace(l), -1))
			}
			grids = append(grids, TableGrid{Page: page, Source: SourceFallback, Rows: rows})
		}
		buffer = nil
	}

	for _, line := range lines {
		if columnGap.MatchString(line.Text) {
			buffer = append(buffer, line.Text)
		} else {
			flush()
		}
	}
	flush()
	return grids
}
