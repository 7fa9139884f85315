package parser

import (
	"strings"
	"testing"
)

func TestHTMLExtractor_BlockElementsBecomeLines(t *testing.T) {
	input := `<html><head><title>SOP</title><style>p{color:red}</style></head>
<body>
<nav>skip me</nav>
<h1>3 Purpose</h1>
<p>Defines the <b>control</b>.</p>
<ul><li>first duty</li><li>second duty</li></ul>
<script>alert("skip")</script>
</body></html>`

	p := &HTMLExtractor{}
	lines, err := p.Extract(strings.NewReader(input), "sop.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"3 Purpose",
		"Defines the control.",
		"first duty",
		"second duty",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %+v", len(want), len(lines), lines)
	}
	for i, w := range want {
		if lines[i].Text != w {
			t.Errorf("line[%d]: expected %q, got %q", i, w, lines[i].Text)
		}
	}
}

func TestHTMLExtractor_TableCells(t *testing.T) {
	input := `<table><tr><th>Version</th><th>Date</th></tr><tr><td>1.0</td><td>2026-01-01</td></tr></table>`
	p := &HTMLExtractor{}
	lines, err := p.Extract(strings.NewReader(input), "table.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 cell lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Text != "Version" || lines[3].Text != "2026-01-01" {
		t.Errorf("cells: %+v", lines)
	}
}
