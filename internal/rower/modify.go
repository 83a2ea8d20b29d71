package rower

import (
	"fmt"

	"rower/internal/types"
)

// ApplyMapping overwrites the location of each mapped record with its
// canonical RoW identifier, leaving every other field untouched. Pure
// in-memory relabeling, separate from persistence so callers can dry-run.
// Returns the number of records relabeled.
func ApplyMapping(records map[string]types.Record, mapping types.ActivityMapping) int {
	applied := 0
	for key, id := range mapping {
		rec, ok := records[key.Code]
		if !ok {
			continue
		}
		rec.Location = id
		records[key.Code] = rec
		applied++
	}
	return applied
}

// ModifyFromLoaded relabels an already-loaded record collection and persists
// the full mutated collection through the source. A persistence failure is
// the operation's failure: no partial application is reported as success.
func ModifyFromLoaded(src RecordSource, dataset string, records map[string]types.Record, mapping types.ActivityMapping) error {
	ApplyMapping(records, mapping)
	if err := src.Write(dataset, records); err != nil {
		return fmt.Errorf("failed to write relabeled dataset %q: %w", dataset, err)
	}
	return nil
}

// ModifyStored loads a dataset from the source, relabels it, and writes it
// back.
func ModifyStored(src RecordSource, dataset string, mapping types.ActivityMapping) error {
	records, err := src.Load(dataset)
	if err != nil {
		return err
	}
	return ModifyFromLoaded(src, dataset, records, mapping)
}
