// Package types defines the shared value types of the RoW disambiguation
// pipeline: process records, grouping signatures, and the two mappings the
// pipeline produces.
package types

import "fmt"

// RoWSentinel is the placeholder location meaning "everywhere not explicitly
// modeled elsewhere for this process".
const RoWSentinel = "RoW"

// Record is one process/activity entry in a dataset. Code is the stable
// identity within a dataset; Location is the only field the pipeline ever
// rewrites.
type Record struct {
	Code             string `json:"code"`
	Database         string `json:"database,omitempty"`
	Name             string `json:"name"`
	ReferenceProduct string `json:"reference_product"`
	Location         string `json:"location"`
}

// IsRoW reports whether the record carries the unresolved RoW sentinel.
func (r Record) IsRoW() bool {
	return r.Location == RoWSentinel
}

// Validate checks the fields required for grouping. Records are validated at
// load time so downstream stages can assume a fixed shape.
func (r Record) Validate() error {
	if r.Code == "" {
		return fmt.Errorf("record %q/%q has no code", r.Name, r.ReferenceProduct)
	}
	if r.Name == "" {
		return fmt.Errorf("record %q has no name", r.Code)
	}
	return nil
}

// Signature identifies records that represent the same process/product across
// different geographies. ReferenceProduct may be empty.
type Signature struct {
	Name             string `json:"name"`
	ReferenceProduct string `json:"reference_product"`
}

// Less orders signatures by name, then reference product. This order drives
// canonical identifier assignment, so it must stay stable.
func (s Signature) Less(other Signature) bool {
	if s.Name != other.Name {
		return s.Name < other.Name
	}
	return s.ReferenceProduct < other.ReferenceProduct
}

// RoWDefinition maps a canonical RoW identifier (RoW_0, RoW_1, ...) to the
// sorted list of explicit geographies its group already covers, i.e. the
// geographies excluded from that RoW. An empty list is a trivially-global RoW.
type RoWDefinition map[string][]string

// ActivityKey identifies a record during generation, before the dataset name
// is stripped for persistence.
type ActivityKey struct {
	Database string
	Code     string
}

// ActivityMapping maps RoW-marked records to their canonical RoW identifier.
type ActivityMapping map[ActivityKey]string

// Datasets returns the distinct dataset names spanned by the mapping keys.
func (m ActivityMapping) Datasets() []string {
	seen := make(map[string]bool, 1)
	var out []string
	for key := range m {
		if !seen[key.Database] {
			seen[key.Database] = true
			out = append(out, key.Database)
		}
	}
	return out
}

// Identifiers returns the set of canonical identifiers the mapping references.
func (m ActivityMapping) Identifiers() map[string]bool {
	ids := make(map[string]bool, len(m))
	for _, id := range m {
		ids[id] = true
	}
	return ids
}

// Codes reduces the mapping to bare record codes, the on-disk form.
func (m ActivityMapping) Codes() map[string]string {
	out := make(map[string]string, len(m))
	for key, id := range m {
		out[key.Code] = id
	}
	return out
}
