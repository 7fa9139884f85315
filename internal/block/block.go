// Package block normalizes OCR service output into a typed block graph.
//
// The OCR analysis service returns a flat list of blocks (lines, tables,
// cells, words, selection marks) with geometry and parent→child links.
// This package decodes that wire format into an indexed graph the
// structuring engine can walk without caring about the wire shape.
package block

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the type of an OCR block.
type Kind string

const (
	KindLine          Kind = "LINE"
	KindTable         Kind = "TABLE"
	KindCell          Kind = "CELL"
	KindWord          Kind = "WORD"
	KindSelectionMark Kind = "SELECTION_ELEMENT"
	KindOther         Kind = "OTHER"
)

// Box is an axis-aligned bounding box in normalized page coordinates.
type Box struct {
	Left   float64 `json:"Left"`
	Top    float64 `json:"Top"`
	Width  float64 `json:"Width"`
	Height float64 `json:"Height"`
}

// Center returns the box's center point.
func (b Box) Center() (x, y float64) {
	return b.Left + b.Width/2, b.Top + b.Height/2
}

// Contains reports whether (x, y) falls inside the box. Edges count as
// inside on both axes.
func (b Box) Contains(x, y float64) bool {
	return b.Left <= x && x <= b.Left+b.Width &&
		b.Top <= y && y <= b.Top+b.Height
}

// Block is a single OCR primitive.
type Block struct {
	ID       string
	Kind     Kind
	Page     int
	Text     string
	Row      int // 1-based row index, cells only
	Col      int // 1-based column index, cells only
	Selected bool
	Box      *Box     // nil when the service supplied no geometry
	Children []string // CHILD edge targets, in wire order
}

// Wire is the OCR service's block representation.
type Wire struct {
	ID              string `json:"Id"`
	BlockType       string `json:"BlockType"`
	Page            int    `json:"Page"`
	Text            string `json:"Text"`
	RowIndex        int    `json:"RowIndex"`
	ColumnIndex     int    `json:"ColumnIndex"`
	SelectionStatus string `json:"SelectionStatus"`
	Geometry        struct {
		BoundingBox *Box `json:"BoundingBox"`
	} `json:"Geometry"`
	Relationships []struct {
		Type string   `json:"Type"`
		IDs  []string `json:"Ids"`
	} `json:"Relationships"`
}

// Graph holds one document's blocks in source order with an id index.
// It is read-only input for the engine; the caller owns it for the
// duration of one document.
type Graph struct {
	Blocks []*Block
	byID   map[string]*Block
}

// NewGraph normalizes wire blocks into a Graph. Blocks with unknown
// types are kept (they may be CHILD targets) but typed KindOther.
// A missing page number defaults to 1.
func NewGraph(wires []Wire) *Graph {
	g := &Graph{
		Blocks: make([]*Block, 0, len(wires)),
		byID:   make(map[string]*Block, len(wires)),
	}
	for _, w := range wires {
		b := &Block{
			ID:       w.ID,
			Kind:     kindOf(w.BlockType),
			Page:     w.Page,
			Text:     w.Text,
			Row:      w.RowIndex,
			Col:      w.ColumnIndex,
			Selected: w.SelectionStatus == "SELECTED",
			Box:      w.Geometry.BoundingBox,
		}
		if b.Page == 0 {
			b.Page = 1
		}
		for _, rel := range w.Relationships {
			if rel.Type != "CHILD" {
				continue
			}
			b.Children = append(b.Children, rel.IDs...)
		}
		g.Blocks = append(g.Blocks, b)
		g.byID[b.ID] = b
	}
	return g
}

// Decode parses a JSON array of wire blocks into a Graph.
func Decode(data []byte) (*Graph, error) {
	var wires []Wire
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	return NewGraph(wires), nil
}

// Get returns the block with the given id, or nil.
func (g *Graph) Get(id string) *Block {
	return g.byID[id]
}

// Lines returns all line blocks in source order.
func (g *Graph) Lines() []*Block {
	return g.ofKind(KindLine)
}

// Tables returns all table blocks in source order.
func (g *Graph) Tables() []*Block {
	return g.ofKind(KindTable)
}

func (g *Graph) ofKind(k Kind) []*Block {
	var out []*Block
	for _, b := range g.Blocks {
		if b.Kind == k {
			out = append(out, b)
		}
	}
	return out
}

// TextLine is a geometry-free line used by the local extraction
// fallback when no OCR analysis is available.
type TextLine struct {
	Page int
	Text string
}

// FromLines builds a Graph containing only line blocks. Such a graph
// has no detected tables, so the engine falls back to whitespace-run
// table inference.
func FromLines(lines []TextLine) *Graph {
	g := &Graph{byID: make(map[string]*Block, len(lines))}
	for i, ln := range lines {
		page := ln.Page
		if page == 0 {
			page = 1
		}
		b := &Block{
			ID:   fmt.Sprintf("line-%d", i+1),
			Kind: KindLine,
			Page: page,
			Text: ln.Text,
		}
		g.Blocks = append(g.Blocks, b)
		g.byID[b.ID] = b
	}
	return g
}

func kindOf(blockType string) Kind {
	switch blockType {
	case "LINE":
		return KindLine
	case "TABLE":
		return KindTable
	case "CELL":
		return KindCell
	case "WORD":
		return KindWord
	case "SELECTION_ELEMENT", "SELECTION_MARK":
		return KindSelectionMark
	default:
		return KindOther
	}
}
