// Package rower disambiguates the generic "RoW" (Rest-of-World) location
// label in LCI process datasets. Records sharing a (name, reference product)
// signature form a group; every group containing a RoW-marked record gets a
// run-scoped canonical identifier (RoW_0, RoW_1, ...) together with the list
// of explicit geographies that RoW implicitly excludes. The identifiers can
// then be written back onto the affected records and persisted as a data
// package.
package rower

import (
	"rower/internal/store"
	"rower/internal/types"
)

// RecordSource is the boundary to the underlying record store. *store.Store
// satisfies it; tests may substitute fakes.
type RecordSource interface {
	IsRegistered(name string) (bool, error)
	Query(dataset string) ([]types.Record, error)
	Load(dataset string) (map[string]types.Record, error)
	Write(dataset string, records map[string]types.Record) error
}

// Rower runs the disambiguation pipeline against one dataset of a record
// source.
type Rower struct {
	src     RecordSource
	dataset string
}

// New returns a Rower for a registered dataset. The dataset must be known to
// the source.
func New(src RecordSource, dataset string) (*Rower, error) {
	registered, err := src.IsRegistered(dataset)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, &store.UnregisteredDatasetError{Dataset: dataset}
	}
	return &Rower{src: src, dataset: dataset}, nil
}

// Dataset returns the dataset name this Rower operates on.
func (r *Rower) Dataset() string {
	return r.dataset
}

// DefineRoWs loads the dataset, groups it by signature, and derives the RoW
// definition and the activity mapping. Nothing is mutated; see Apply.
func (r *Rower) DefineRoWs() (types.RoWDefinition, types.ActivityMapping, error) {
	records, err := r.src.Query(r.dataset)
	if err != nil {
		return nil, nil, err
	}
	groups, err := GroupBySignature(r.dataset, records)
	if err != nil {
		return nil, nil, err
	}
	return DefineRoWs(r.dataset, groups)
}

// Apply relabels the stored dataset in place with the given mapping and
// persists it through the source.
func (r *Rower) Apply(mapping types.ActivityMapping) error {
	return ModifyStored(r.src, r.dataset, mapping)
}
