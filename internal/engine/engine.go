package engine

import "github.com/procdocs/sopstruct/internal/block"

// Options tunes document reconstruction.
type Options struct {
	// Orphans controls sub-section headings seen before any section.
	Orphans OrphanPolicy
}

// Result is everything the engine reconstructs from one block graph.
type Result struct {
	Model      DocumentModel
	RawText    string
	Grids      []TableGrid
	Structured []StructuredTable
	Headings   []Heading
	Sections   []Section
	Roles      RoleAssignments
}

// Build runs the full reconstruction over a block graph: geometry
// resolution, table assembly, classification, heading detection and
// the final merge. The graph is read-only input owned by the caller;
// nothing is retained between calls.
func Build(g *block.Graph, opts Options) Result {
	res := ResolveGeometry(g)

	grids := DetectedGrids(g)
	grids = append(grids, res.Fallback...)

	cls := Classify(grids)
	headings, sections := BuildSections(res.FreeText, opts.Orphans)

	structured := StructureAll(grids)

	return Result{
		Model:      AssembleDocument(cls, headings, sections),
		RawText:    res.FreeText,
		Grids:      grids,
		Structured: structured,
		Headings:   headings,
		Sections:   sections,
		Roles:      GroupRoles(structured),
	}
}
