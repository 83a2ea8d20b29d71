package rower

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rower/internal/types"
)

func TestGroupBySignatureEmptyDataset(t *testing.T) {
	_, err := GroupBySignature("empty-db", nil)

	var empty *EmptyDatasetError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "empty-db", empty.Dataset)
}

func TestGroupBySignaturePartition(t *testing.T) {
	records := []types.Record{
		{Code: "c1", Name: "steel", ReferenceProduct: "steel", Location: "RoW"},
		{Code: "c2", Name: "steel", ReferenceProduct: "steel", Location: "DE"},
		{Code: "c3", Name: "steel", ReferenceProduct: "pig iron", Location: "DE"},
		{Code: "c4", Name: "wood", Location: "SE"},
	}

	groups, err := GroupBySignature("test-db", records)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	// Partition is total: every record appears exactly once.
	total := 0
	seen := map[string]bool{}
	for _, g := range groups {
		for _, m := range g.Members {
			assert.False(t, seen[m.Code], "code %s in more than one group", m.Code)
			seen[m.Code] = true
			total++
		}
	}
	assert.Equal(t, len(records), total)

	// Groups sorted by name, then reference product.
	assert.Equal(t, types.Signature{Name: "steel", ReferenceProduct: "pig iron"}, groups[0].Signature)
	assert.Equal(t, types.Signature{Name: "steel", ReferenceProduct: "steel"}, groups[1].Signature)
	assert.Equal(t, types.Signature{Name: "wood"}, groups[2].Signature)
}

func TestGroupBySignatureMemberOrder(t *testing.T) {
	records := []types.Record{
		{Code: "c3", Name: "steel", ReferenceProduct: "steel", Location: "FR"},
		{Code: "c1", Name: "steel", ReferenceProduct: "steel", Location: "RoW"},
		{Code: "c2", Name: "steel", ReferenceProduct: "steel", Location: "DE"},
	}

	groups, err := GroupBySignature("test-db", records)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	want := []Member{{"DE", "c2"}, {"FR", "c3"}, {"RoW", "c1"}}
	assert.Equal(t, want, groups[0].Members)
}

func TestGroupBySignatureDeterministic(t *testing.T) {
	records := []types.Record{
		{Code: "c1", Name: "steel", ReferenceProduct: "steel", Location: "RoW"},
		{Code: "c2", Name: "steel", ReferenceProduct: "steel", Location: "DE"},
		{Code: "c3", Name: "wood", ReferenceProduct: "wood", Location: "RoW"},
	}
	reversed := []types.Record{records[2], records[1], records[0]}

	a, err := GroupBySignature("test-db", records)
	require.NoError(t, err)
	b, err := GroupBySignature("test-db", reversed)
	require.NoError(t, err)

	assert.Equal(t, a, b, "group order must not depend on input order")
}

func TestGroupHasRoW(t *testing.T) {
	with := Group{Members: []Member{{"DE", "c1"}, {"RoW", "c2"}}}
	without := Group{Members: []Member{{"DE", "c1"}, {"FR", "c2"}}}

	assert.True(t, with.HasRoW())
	assert.False(t, without.HasRoW())
}
