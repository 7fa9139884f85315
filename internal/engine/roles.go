package engine

import (
	"encoding/json"
	"strings"
)

// roleKeywords identifies cells naming a role. Substring containment,
// case-sensitive.
var roleKeywords = []string{
	"Manager", "Officer", "Representative", "Analyst",
	"Lead", "Executive", "Team", "Head", "Approver",
}

// RoleGroup pairs a role with the responsibilities accumulated under
// it.
type RoleGroup struct {
	Role             string
	Responsibilities []string
}

// RoleAssignments preserves the order roles were first established in.
type RoleAssignments []RoleGroup

// MarshalJSON writes role→responsibilities with roles in establishment
// order.
func (a RoleAssignments) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, g := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		key, err := json.Marshal(g.Role)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(g.Responsibilities)
		if err != nil {
			return nil, err
		}
		sb.Write(key)
		sb.WriteByte(':')
		sb.Write(val)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// GroupRoles scans structured tables in order and accumulates
// responsibilities under roles. Within a row, the first cell containing
// a role keyword establishes the current role; every other non-empty
// cell in that row, and every non-empty cell of keyword-free rows that
// follow, is appended under it. The accumulator deliberately runs
// across table boundaries: a role table split over pages keeps feeding
// the same role. Rows seen before any role exists contribute nothing.
func GroupRoles(tables []StructuredTable) RoleAssignments {
	var groups RoleAssignments
	current := -1 // index into groups

	appendTo := func(idx int, v CellValue) {
		groups[idx].Responsibilities = append(groups[idx].Responsibilities, v.Flatten()...)
	}

	for _, table := range tables {
		for _, row := range table.Rows {
			roleIdx := -1
			for i, f := range row {
				if f.Value.IsEmpty() {
					continue
				}
				if containsRoleKeyword(f.Value) {
					roleIdx = i
					break
				}
			}

			if roleIdx >= 0 {
				groups = append(groups, RoleGroup{Role: cellRoleName(row[roleIdx].Value)})
				current = len(groups) - 1
				for i, f := range row {
					if i == roleIdx || f.Value.IsEmpty() {
						continue
					}
					appendTo(current, f.Value)
				}
				continue
			}

			if current < 0 {
				continue
			}
			for _, f := range row {
				if !f.Value.IsEmpty() {
					appendTo(current, f.Value)
				}
			}
		}
	}
	return groups
}

func containsRoleKeyword(v CellValue) bool {
	for _, kw := range roleKeywords {
		if v.Contains(kw) {
			return true
		}
	}
	return false
}

// cellRoleName reconstitutes the cell's text as the role label; list
// cells are joined back with spaces.
func cellRoleName(v CellValue) string {
	if s, ok := v.Scalar(); ok {
		return s
	}
	return strings.Join(v.Flatten(), " ")
}
