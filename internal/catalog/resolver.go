package catalog

import "strings"

// Absent marks a semantic field with no matching column in the header row.
const Absent = -1

// HeaderCandidates lists acceptable header names per semantic field, in
// priority order. Deployments name their columns differently; the candidate
// lists come from configuration.
type HeaderCandidates struct {
	PartID   []string
	Name     []string
	Location []string
	Visual   []string
}

// HeaderMapping is the resolved column index per semantic field for one
// sheet session. Computed once per build and treated as immutable.
type HeaderMapping struct {
	PartID   int
	Name     int
	Location int
	Visual   int
}

// Resolve maps the sheet's literal header row onto semantic fields. For each
// field the candidate list is scanned in priority order and the first
// case-insensitive exact match (after trimming) against the header row wins.
// Fields with no matching candidate are marked Absent. The result depends
// only on the header row and the candidate configuration.
func Resolve(header []string, candidates HeaderCandidates) HeaderMapping {
	return HeaderMapping{
		PartID:   resolveField(header, candidates.PartID),
		Name:     resolveField(header, candidates.Name),
		Location: resolveField(header, candidates.Location),
		Visual:   resolveField(header, candidates.Visual),
	}
}

func resolveField(header []string, candidates []string) int {
	for _, cand := range candidates {
		want := strings.ToLower(strings.TrimSpace(cand))
		if want == "" {
			continue
		}
		for i, h := range header {
			if strings.ToLower(strings.TrimSpace(h)) == want {
				return i
			}
		}
	}
	return Absent
}
