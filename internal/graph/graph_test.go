package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square is a 2x2 grid:
//
//	nw | ne
//	---+---
//	sw | se
func square(t *testing.T) *Graph {
	t.Helper()
	g, err := ResolveSectors(
		[]string{"nw", "ne", "sw", "se"},
		[]Edge{
			{Name: "n", Sectors: []string{"nw", "ne"}},
			{Name: "s", Sectors: []string{"sw", "se"}},
			{Name: "w", Sectors: []string{"nw", "sw"}},
			{Name: "e", Sectors: []string{"ne", "se"}},
		},
		[]Corner{{Name: "center", Sectors: []string{"nw", "ne", "sw", "se"}}},
	)
	require.NoError(t, err)
	return g
}

func TestResolveSectors_CrossLinks(t *testing.T) {
	g := square(t)

	assert.Equal(t, []string{"ne", "sw"}, g.Neighbors("nw"))
	assert.Equal(t, []string{"nw", "se"}, g.Neighbors("ne"))
	assert.True(t, g.Adjacent("se", "sw"))
	assert.False(t, g.Adjacent("nw", "se"))
	assert.Equal(t, []string{"n", "w"}, g.Edges("nw"))
	assert.Equal(t, []string{"center"}, g.Corners("se"))
	assert.NoError(t, g.Validate())
}

func TestResolveSectors_RejectsBadEdges(t *testing.T) {
	_, err := ResolveSectors([]string{"a", "b"}, []Edge{{Name: "x", Sectors: []string{"a"}}}, nil)
	assert.ErrorContains(t, err, "want 2")

	_, err = ResolveSectors([]string{"a", "b"}, []Edge{{Name: "x", Sectors: []string{"a", "zz"}}}, nil)
	assert.ErrorContains(t, err, "unknown sector")

	_, err = ResolveSectors([]string{"a", "a"}, nil, nil)
	assert.ErrorContains(t, err, "duplicate")

	_, err = ResolveSectors([]string{"a"}, []Edge{{Name: "x", Sectors: []string{"a", "a"}}}, nil)
	assert.ErrorContains(t, err, "itself")
}

func TestTouching_IncludesCorners(t *testing.T) {
	g := square(t)

	assert.Equal(t, []string{"ne", "sw", "se"}, g.Touching("nw"))
}

func TestDistance(t *testing.T) {
	g, err := ResolveSectors(
		[]string{"a", "b", "c", "island"},
		[]Edge{{Name: "ab", Sectors: []string{"a", "b"}}, {Name: "bc", Sectors: []string{"b", "c"}}},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, 0, g.Distance("a", "a"))
	assert.Equal(t, 2, g.Distance("a", "c"))
	assert.Equal(t, -1, g.Distance("a", "island"))
}

func TestValidate_ReportsNonReciprocalLinks(t *testing.T) {
	g, err := FromSectors([]Sector{
		{Name: "a", Links: []string{"b"}},
		{Name: "b"},
		{Name: "c", Links: []string{"ghost"}},
	})
	require.NoError(t, err)

	err = g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sector "a" links to "b" but not the reverse`)
	assert.Contains(t, err.Error(), `unknown sector "ghost"`)
}

func TestGraph_AccessorsReturnCopies(t *testing.T) {
	g := square(t)

	n := g.Neighbors("nw")
	n[0] = "mutated"

	assert.Equal(t, []string{"ne", "sw"}, g.Neighbors("nw"))
}

func TestGraph_UnknownSectorIsFatal(t *testing.T) {
	g := square(t)

	assert.Panics(t, func() { g.Neighbors("zz") })
	assert.False(t, g.Has("zz"))
}
