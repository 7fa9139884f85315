package block

import "testing"

const sampleBlocks = `[
  {"Id":"l1","BlockType":"LINE","Page":1,"Text":"1 Purpose",
   "Geometry":{"BoundingBox":{"Left":0.1,"Top":0.1,"Width":0.3,"Height":0.02}}},
  {"Id":"t1","BlockType":"TABLE","Page":1,
   "Geometry":{"BoundingBox":{"Left":0.1,"Top":0.3,"Width":0.8,"Height":0.2}},
   "Relationships":[{"Type":"CHILD","Ids":["c1"]}]},
  {"Id":"c1","BlockType":"CELL","RowIndex":1,"ColumnIndex":1,
   "Relationships":[{"Type":"CHILD","Ids":["w1","s1"]},{"Type":"MERGED_CELL","Ids":["zz"]}]},
  {"Id":"w1","BlockType":"WORD","Text":"Done"},
  {"Id":"s1","BlockType":"SELECTION_ELEMENT","SelectionStatus":"SELECTED"},
  {"Id":"x1","BlockType":"KEY_VALUE_SET"}
]`

func TestDecode(t *testing.T) {
	g, err := Decode([]byte(sampleBlocks))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Blocks) != 6 {
		t.Fatalf("expected 6 blocks, got %d", len(g.Blocks))
	}

	if got := len(g.Lines()); got != 1 {
		t.Errorf("expected 1 line, got %d", got)
	}
	if got := len(g.Tables()); got != 1 {
		t.Errorf("expected 1 table, got %d", got)
	}

	cell := g.Get("c1")
	if cell == nil || cell.Kind != KindCell {
		t.Fatalf("expected cell block, got %+v", cell)
	}
	if cell.Row != 1 || cell.Col != 1 {
		t.Errorf("expected cell at (1,1), got (%d,%d)", cell.Row, cell.Col)
	}
	// Only CHILD edges survive normalization.
	if len(cell.Children) != 2 || cell.Children[0] != "w1" || cell.Children[1] != "s1" {
		t.Errorf("expected children [w1 s1], got %v", cell.Children)
	}

	if !g.Get("s1").Selected {
		t.Error("expected selection mark to be selected")
	}
	if g.Get("x1").Kind != KindOther {
		t.Errorf("expected unknown block type to map to KindOther, got %s", g.Get("x1").Kind)
	}
}

func TestDecode_PageDefaultsToOne(t *testing.T) {
	g, err := Decode([]byte(`[{"Id":"w","BlockType":"WORD","Text":"hi"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Get("w").Page != 1 {
		t.Errorf("expected default page 1, got %d", g.Get("w").Page)
	}
}

func TestBoxContains_EdgesInclusive(t *testing.T) {
	b := Box{Left: 0.1, Top: 0.2, Width: 0.4, Height: 0.2}

	cases := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 0.3, 0.3, true},
		{"left edge", 0.1, 0.3, true},
		{"right edge", 0.5, 0.3, true},
		{"top edge", 0.3, 0.2, true},
		{"bottom edge", 0.3, 0.4, true},
		{"outside left", 0.09, 0.3, false},
		{"outside below", 0.3, 0.41, false},
	}
	for _, tc := range cases {
		if got := b.Contains(tc.x, tc.y); got != tc.want {
			t.Errorf("%s: Contains(%v,%v) = %v, want %v", tc.name, tc.x, tc.y, got, tc.want)
		}
	}
}

func TestBoxCenter(t *testing.T) {
	b := Box{Left: 0.2, Top: 0.4, Width: 0.2, Height: 0.1}
	x, y := b.Center()
	if x != 0.3 || y != 0.45 {
		t.Errorf("expected center (0.3, 0.45), got (%v, %v)", x, y)
	}
}

func TestFromLines(t *testing.T) {
	g := FromLines([]TextLine{
		{Page: 1, Text: "first"},
		{Text: "second"}, // page defaults to 1
		{Page: 2, Text: "third"},
	})
	lines := g.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1].Page != 1 {
		t.Errorf("expected default page 1, got %d", lines[1].Page)
	}
	if lines[2].Box != nil {
		t.Error("expected no geometry on fallback lines")
	}
	if len(g.Tables()) != 0 {
		t.Error("expected no tables in a line-only graph")
	}
}
