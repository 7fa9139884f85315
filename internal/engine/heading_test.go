package engine

import (
	"reflect"
	"testing"
)

const sampleText = "3 Purpose\nThis section describes the purpose.\n3.1 Scope\nApplies to all staff.\n4 Roles\nRoles are listed below."

func TestDetectHeadings_Scenario(t *testing.T) {
	headings := DetectHeadings(sampleText)
	if len(headings) != 3 {
		t.Fatalf("expected 3 headings, got %d: %+v", len(headings), headings)
	}

	wantText := []string{"3 Purpose", "3.1 Scope", "4 Roles"}
	wantLevel := []Level{LevelSection, LevelSubSection, LevelSection}
	for i, h := range headings {
		if h.Text != wantText[i] {
			t.Errorf("heading %d: got %q, want %q", i, h.Text, wantText[i])
		}
		if h.Level != wantLevel[i] {
			t.Errorf("heading %d (%s): got level %v, want %v", i, h.Text, h.Level, wantLevel[i])
		}
	}
}

func TestDetectHeadings_OffsetsMonotonic(t *testing.T) {
	headings := DetectHeadings(sampleText)
	prevEnd := -1
	for i, h := range headings {
		if h.Start <= prevEnd {
			t.Errorf("heading %d overlaps previous (start %d, prev end %d)", i, h.Start, prevEnd)
		}
		if h.End <= h.Start {
			t.Errorf("heading %d has empty span", i)
		}
		prevEnd = h.End
	}
}

func TestDetectHeadings_Idempotent(t *testing.T) {
	first := DetectHeadings(sampleText)
	second := DetectHeadings(sampleText)
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical heading lists on re-run")
	}
}

func TestDetectHeadings_Exclusions(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"bare trailing numeral", "3 4.5"},
		{"and N", "4 and 5"},
		{"and Box N", "12 and Box 3"},
		{"with word", "3 with vendor"},
		{"with possessive", "3 with vendor's"},
		{"for word", "7 for review"},
		{"threshold for", "8 threshold for"},
		{"month day year", "15 January 5, 2021"},
		{"year period", "4 2020 period"},
		{"added caps", "2 Added POLICY & SCOPE"},
	}
	for _, tc := range cases {
		if got := DetectHeadings(tc.line); len(got) != 0 {
			t.Errorf("%s: line %q should be excluded, got %+v", tc.name, tc.line, got)
		}
	}
}

func TestDetectHeadings_FooterIsNotHeading(t *testing.T) {
	// Footers do not start with a numeral group, so they never match
	// the base pattern.
	if got := DetectHeadings("Page 12 of 40"); len(got) != 0 {
		t.Errorf("expected no headings, got %+v", got)
	}
}

func TestDetectHeadings_RequiresThreeMoreCharacters(t *testing.T) {
	if got := DetectHeadings("4 ab"); len(got) != 0 {
		t.Errorf("two-character remainder should not qualify, got %+v", got)
	}
	if got := DetectHeadings("4 abc"); len(got) != 1 {
		t.Errorf("three-character remainder should qualify, got %+v", got)
	}
}

func TestDetectHeadings_ExclusionsCaseInsensitive(t *testing.T) {
	if got := DetectHeadings("5 added NEW CONTROLS"); len(got) != 0 {
		t.Errorf("lower-case 'added' should still be excluded, got %+v", got)
	}
	if got := DetectHeadings("4 AND 5"); len(got) != 0 {
		t.Errorf("upper-case 'AND' should still be excluded, got %+v", got)
	}
}

func TestBuildSections_Scenario(t *testing.T) {
	_, sections := BuildSections(sampleText, DropOrphans)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(sections), sections)
	}

	first := sections[0]
	if first.Name != "3 Purpose" {
		t.Errorf("section name: got %q", first.Name)
	}
	if first.Content != "This section describes the purpose." {
		t.Errorf("section content: got %q", first.Content)
	}
	if len(first.SubSections) != 1 || first.SubSections[0].Name != "3.1 Scope" {
		t.Fatalf("expected sub-section 3.1 Scope, got %+v", first.SubSections)
	}
	if first.SubSections[0].Content != "Applies to all staff." {
		t.Errorf("sub-section content: got %q", first.SubSections[0].Content)
	}

	second := sections[1]
	if second.Name != "4 Roles" {
		t.Errorf("second section name: got %q", second.Name)
	}
	if len(second.SubSections) != 0 {
		t.Errorf("expected no sub-sections, got %+v", second.SubSections)
	}
}

func TestBuildSections_OrphanSubSectionDropped(t *testing.T) {
	text := "1.1 Early sub-section\norphan body\n2 Real Section\nreal body"
	_, sections := BuildSections(text, DropOrphans)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Name != "2 Real Section" {
		t.Errorf("got %q", sections[0].Name)
	}
}

func TestBuildSections_OrphanImplicitSectionPolicy(t *testing.T) {
	text := "1.1 Early sub-section\norphan body\n2 Real Section\nreal body"
	_, sections := BuildSections(text, ImplicitSection)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Name != "" {
		t.Errorf("implicit section should be unnamed, got %q", sections[0].Name)
	}
	if len(sections[0].SubSections) != 1 || sections[0].SubSections[0].Name != "1.1 Early sub-section" {
		t.Errorf("expected orphan kept under implicit section, got %+v", sections[0].SubSections)
	}
}

func TestBuildSections_LastSectionRunsToEnd(t *testing.T) {
	_, sections := BuildSections("5 Final\ntail content", DropOrphans)
	if len(sections) != 1 || sections[0].Content != "tail content" {
		t.Fatalf("expected tail content captured, got %+v", sections)
	}
}
