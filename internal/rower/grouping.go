package rower

import (
	"sort"

	"rower/internal/types"
)

// Member is one record's contribution to a group: its location and its stable
// code.
type Member struct {
	Location string
	Code     string
}

// Group is the set of records sharing one (name, reference product)
// signature. Groups are derived per run, never persisted.
type Group struct {
	Signature types.Signature
	Members   []Member
}

// HasRoW reports whether any member carries the RoW sentinel.
func (g Group) HasRoW() bool {
	for _, m := range g.Members {
		if m.Location == types.RoWSentinel {
			return true
		}
	}
	return false
}

// GroupBySignature partitions records by (name, reference product). The
// partition is total and disjoint: every record lands in exactly one group,
// records without a reference product under a signature with that field
// empty. Output order is deterministic for identical input: groups sorted by
// signature, members by location then code, which keeps downstream canonical
// identifiers reproducible.
func GroupBySignature(dataset string, records []types.Record) ([]Group, error) {
	if len(records) == 0 {
		return nil, &EmptyDatasetError{Dataset: dataset}
	}

	bySig := make(map[types.Signature][]Member)
	for _, rec := range records {
		sig := types.Signature{Name: rec.Name, ReferenceProduct: rec.ReferenceProduct}
		bySig[sig] = append(bySig[sig], Member{Location: rec.Location, Code: rec.Code})
	}

	groups := make([]Group, 0, len(bySig))
	for sig, members := range bySig {
		sort.Slice(members, func(i, j int) bool {
			if members[i].Location != members[j].Location {
				return members[i].Location < members[j].Location
			}
			return members[i].Code < members[j].Code
		})
		groups = append(groups, Group{Signature: sig, Members: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Signature.Less(groups[j].Signature)
	})
	return groups, nil
}
