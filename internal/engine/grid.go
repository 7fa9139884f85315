package engine

import (
	"sort"
	"strings"

	"github.com/procdocs/sopstruct/internal/block"
)

// AssembleGrid converts a table block's cell graph into a dense grid of
// cell text. Each cell's text is its child words space-joined, with
// selection marks rendered as "[X]" or "[ ]". Missing blocks and cells
// with no text children degrade to the empty string; they never fail
// the table.
//
// Rows come out in ascending row-index order and every row is padded to
// the widest column index observed, so the grid is rectangular.
func AssembleGrid(table *block.Block, g *block.Graph) TableGrid {
	cells := make(map[int]map[int]string)
	maxCol := 0

	for _, id := range table.Children {
		cell := g.Get(id)
		if cell == nil || cell.Kind != block.KindCell {
			continue
		}
		if cells[cell.Row] == nil {
			cells[cell.Row] = make(map[int]string)
		}
		cells[cell.Row][cell.Col] = cellText(cell, g)
		if cell.Col > maxCol {
			maxCol = cell.Col
		}
	}

	rowIdx := make([]int, 0, len(cells))
	for r := range cells {
		rowIdx = append(rowIdx, r)
	}
	sort.Ints(rowIdx)

	rows := make([][]string, 0, len(rowIdx))
	for _, r := range rowIdx {
		row := make([]string, maxCol)
		for c := 1; c <= maxCol; c++ {
			row[c-1] = cells[r][c]
		}
		rows = append(rows, row)
	}

	return TableGrid{Page: table.Page, Source: SourceDetected, Rows: rows}
}

func cellText(cell *block.Block, g *block.Graph) string {
	var sb strings.Builder
	for _, id := range cell.Children {
		child := g.Get(id)
		if child == nil {
			continue
		}
		switch child.Kind {
		case block.KindWord:
			sb.WriteString(child.Text)
			sb.WriteString(" ")
		case block.KindSelectionMark:
			if child.Selected {
				sb.WriteString("[X] ")
			} else {
				sb.WriteString("[ ] ")
			}
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// DetectedGrids assembles a grid for every detected table block, in
// source order.
func DetectedGrids(g *block.Graph) []TableGrid {
	var grids []TableGrid
	for _, t := range g.Tables() {
		grids = append(grids, AssembleGrid(t, g))
	}
	return grids
}
