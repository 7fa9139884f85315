package engine

import (
	"regexp"
	"strings"
)

// Level distinguishes the two outline levels.
type Level int

const (
	// LevelSection is a top-level heading: its numeral has no dot.
	LevelSection Level = iota
	// LevelSubSection is any dotted heading, e.g. "4.2".
	LevelSubSection
)

// Heading is a recognized section marker in free text, with the
// character span of its own line.
type Heading struct {
	Text  string
	Start int
	End   int
	Level Level
}

// headingBase is the positive shape of a heading line: a dotted numeral
// group, whitespace, then at least three more characters. Lines
// matching it are then screened against the exclusion predicates.
var headingBase = regexp.MustCompile(`(?im)^(\d+(?:\.\d+)*)([ \t]+)(.{3,})$`)

// headingExclusions screen out the false-positive shapes that share the
// "numeral + text" form of a real heading: page footers,
// cross-references and revision-note fragments. Each predicate runs
// against the remainder of the line after the numeral group, in order,
// and any match rejects the line. Keeping them as an explicit list
// keeps each rule independently testable.
var headingExclusions = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\d+(?:\.\d+)*\s*$`),             // bare trailing numeral or range
	regexp.MustCompile(`(?i)^and\s+\d+\s*$`),                 // "... and 12"
	regexp.MustCompile(`(?i)^and\s+Box\s+\d+\s*$`),           // "... and Box 3"
	regexp.MustCompile(`(?i)^with\s+\w+(?:'\w+)?\s*$`),       // "... with vendor['s]"
	regexp.MustCompile(`(?i)^for\s+\w+\s*$`),                 // "... for review"
	regexp.MustCompile(`(?i)^threshold\s+for\s*$`),           // truncated threshold reference
	regexp.MustCompile(`(?i)^\w{3,9}\s+\d{1,2},\s+\d{4}\s*$`), // "January 5, 2021"
	regexp.MustCompile(`(?i)^\d{4}\s+period\s*$`),            // "2020 period"
	regexp.MustCompile(`(?i)^Added\s+[A-Z&\s]+\s*$`),         // revision note fragment
}

// DetectHeadings scans free text line by line and returns the headings
// in source order. Offsets are strictly increasing and non-overlapping,
// and the function is deterministic: re-running it on the same text
// yields the identical list.
func DetectHeadings(text string) []Heading {
	var headings []Heading
	for _, m := range headingBase.FindAllStringSubmatchIndex(text, -1) {
		rest := text[m[6]:m[7]]
		if excluded(rest) {
			continue
		}
		numeral := text[m[2]:m[3]]
		level := LevelSection
		if strings.Contains(numeral, ".") {
			level = LevelSubSection
		}
		headings = append(headings, Heading{
			Text:  strings.TrimSpace(text[m[0]:m[1]]),
			Start: m[0],
			End:   m[1],
			Level: level,
		})
	}
	return headings
}

func excluded(rest string) bool {
	for _, re := range headingExclusions {
		if re.MatchString(rest) {
			return true
		}
	}
	return false
}

// SubSection is a second-level outline entry.
type SubSection struct {
	Name    string `json:"Sub-section"`
	Content string `json:"Content"`
}

// Section is a top-level outline entry with its nested sub-sections.
type Section struct {
	Name        string       `json:"Section"`
	SubSections []SubSection `json:"Sub-sections"`
	Content     string       `json:"Content"`
}

// OrphanPolicy decides what happens to a sub-section heading that
// appears before any section heading.
type OrphanPolicy int

const (
	// DropOrphans discards such sub-sections entirely.
	DropOrphans OrphanPolicy = iota
	// ImplicitSection opens an unnamed section to hold them.
	ImplicitSection
)

// BuildSections detects headings in the text and folds them into a
// two-level section tree. A heading's body spans from the end of its
// own line to the start of the next heading, or to the end of the
// text for the last one. A new section-level heading closes the
// currently open section.
func BuildSections(text string, policy OrphanPolicy) ([]Heading, []Section) {
	headings := DetectHeadings(text)

	var sections []Section
	var current *Section

	for i, h := range headings {
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].Start
		}
		content := strings.TrimSpace(text[h.End:end])

		if h.Level == LevelSection {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{Name: h.Text, SubSections: []SubSection{}, Content: content}
			continue
		}

		if current == nil {
			if policy == DropOrphans {
				continue
			}
			current = &Section{SubSections: []SubSection{}}
		}
		current.SubSections = append(current.SubSections, SubSection{Name: h.Text, Content: content})
	}
	if current != nil {
		sections = append(sections, *current)
	}
	return headings, sections
}
