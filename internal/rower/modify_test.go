package rower

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rower/internal/types"
)

// fakeSource is an in-memory RecordSource for exercising the mutator without
// SQLite.
type fakeSource struct {
	datasets map[string]map[string]types.Record
	writeErr error
	written  bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{datasets: make(map[string]map[string]types.Record)}
}

func (f *fakeSource) IsRegistered(name string) (bool, error) {
	_, ok := f.datasets[name]
	return ok, nil
}

func (f *fakeSource) Query(dataset string) ([]types.Record, error) {
	records, ok := f.datasets[dataset]
	if !ok {
		return nil, errors.New("unknown dataset")
	}
	var out []types.Record
	for _, rec := range records {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeSource) Load(dataset string) (map[string]types.Record, error) {
	records, ok := f.datasets[dataset]
	if !ok {
		return nil, errors.New("unknown dataset")
	}
	out := make(map[string]types.Record, len(records))
	for code, rec := range records {
		out[code] = rec
	}
	return out, nil
}

func (f *fakeSource) Write(dataset string, records map[string]types.Record) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.datasets[dataset] = records
	f.written = true
	return nil
}

func TestApplyMappingTouchesOnlyLocation(t *testing.T) {
	records := map[string]types.Record{
		"c1": {Code: "c1", Name: "steel", ReferenceProduct: "steel", Location: "RoW"},
		"c2": {Code: "c2", Name: "steel", ReferenceProduct: "steel", Location: "DE"},
	}
	mapping := types.ActivityMapping{
		{Database: "test-db", Code: "c1"}: "RoW_0",
	}

	applied := ApplyMapping(records, mapping)
	assert.Equal(t, 1, applied)

	assert.Equal(t, "RoW_0", records["c1"].Location)
	assert.Equal(t, "steel", records["c1"].Name)
	assert.Equal(t, "steel", records["c1"].ReferenceProduct)
	assert.Equal(t, "c1", records["c1"].Code)
	assert.Equal(t, "DE", records["c2"].Location, "unmapped record changed")
}

func TestApplyMappingUnknownCode(t *testing.T) {
	records := map[string]types.Record{
		"c1": {Code: "c1", Name: "steel", Location: "RoW"},
	}
	mapping := types.ActivityMapping{
		{Database: "test-db", Code: "missing"}: "RoW_0",
	}

	assert.Equal(t, 0, ApplyMapping(records, mapping))
	assert.Equal(t, "RoW", records["c1"].Location)
}

func TestModifyStored(t *testing.T) {
	src := newFakeSource()
	src.datasets["test-db"] = map[string]types.Record{
		"c1": {Code: "c1", Name: "steel", Location: "RoW"},
		"c2": {Code: "c2", Name: "steel", Location: "DE"},
	}
	mapping := types.ActivityMapping{
		{Database: "test-db", Code: "c1"}: "RoW_0",
	}

	require.NoError(t, ModifyStored(src, "test-db", mapping))
	assert.True(t, src.written)
	assert.Equal(t, "RoW_0", src.datasets["test-db"]["c1"].Location)
}

func TestModifyFromLoadedWriteFailure(t *testing.T) {
	src := newFakeSource()
	src.writeErr = errors.New("disk full")
	records := map[string]types.Record{
		"c1": {Code: "c1", Name: "steel", Location: "RoW"},
	}
	mapping := types.ActivityMapping{
		{Database: "test-db", Code: "c1"}: "RoW_0",
	}

	err := ModifyFromLoaded(src, "test-db", records, mapping)
	require.Error(t, err)
	assert.ErrorIs(t, err, src.writeErr)
}

// Relabeling a record with its canonical identifier must not move it to a
// different group: only the location changes, never the signature.
func TestRelabelRoundTrip(t *testing.T) {
	records := []types.Record{
		{Code: "c1", Name: "steel", ReferenceProduct: "steel", Location: "RoW"},
		{Code: "c2", Name: "steel", ReferenceProduct: "steel", Location: "DE"},
	}
	groups, err := GroupBySignature("test-db", records)
	require.NoError(t, err)
	_, mapping, err := DefineRoWs("test-db", groups)
	require.NoError(t, err)

	byCode := map[string]types.Record{}
	for _, rec := range records {
		byCode[rec.Code] = rec
	}
	ApplyMapping(byCode, mapping)

	relabeled := make([]types.Record, 0, len(byCode))
	for _, rec := range byCode {
		relabeled = append(relabeled, rec)
	}
	regrouped, err := GroupBySignature("test-db", relabeled)
	require.NoError(t, err)

	require.Len(t, regrouped, len(groups))
	assert.Equal(t, groups[0].Signature, regrouped[0].Signature)
}
