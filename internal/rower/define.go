package rower

import (
	"fmt"
	"sort"

	"rower/internal/types"
)

// DefineRoWs consumes the grouping result and derives the two artifacts of a
// run: the RoW definition (canonical identifier to the explicit geographies
// its group already covers) and the activity mapping (RoW-marked record to
// canonical identifier).
//
// Groups without a RoW member are discarded. Qualifying groups are labeled
// RoW_0, RoW_1, ... in the deterministic signature order established by
// GroupBySignature; the index is run-local, not content-derived, so re-running
// on a changed dataset can renumber semantically identical groups. A
// qualifying group with no explicit geography yields an empty exclusion list,
// a degenerate but valid "global" RoW.
func DefineRoWs(dataset string, groups []Group) (types.RoWDefinition, types.ActivityMapping, error) {
	definition := make(types.RoWDefinition)
	mapping := make(types.ActivityMapping)

	n := 0
	for _, group := range groups {
		if !group.HasRoW() {
			continue
		}
		id := fmt.Sprintf("RoW_%d", n)
		n++

		definition[id] = excludedGeographies(group)
		for _, m := range group.Members {
			if m.Location == types.RoWSentinel {
				mapping[types.ActivityKey{Database: dataset, Code: m.Code}] = id
			}
		}
	}

	if n == 0 {
		return nil, nil, &NoRoWFoundError{Dataset: dataset, Groups: len(groups)}
	}
	return definition, mapping, nil
}

// excludedGeographies returns the sorted, deduplicated explicit locations of a
// group, the sentinel excluded. Always non-nil so an empty list serializes as
// [].
func excludedGeographies(group Group) []string {
	seen := make(map[string]bool, len(group.Members))
	out := make([]string, 0, len(group.Members))
	for _, m := range group.Members {
		if m.Location == types.RoWSentinel || seen[m.Location] {
			continue
		}
		seen[m.Location] = true
		out = append(out, m.Location)
	}
	sort.Strings(out)
	return out
}
