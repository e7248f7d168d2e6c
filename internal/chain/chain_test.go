package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabletop/internal/table"
)

func next(t *testing.T, c *Chain[string], x string) string {
	t.Helper()
	n, ok := c.Next(x)
	require.True(t, ok)
	return n
}

func prev(t *testing.T, c *Chain[string], x string) string {
	t.Helper()
	p, ok := c.Prev(x)
	require.True(t, ok)
	return p
}

func TestChain_NextWraps(t *testing.T) {
	c := New("a", "b", "c")

	assert.Equal(t, "b", next(t, c, "a"))
	assert.Equal(t, "c", next(t, c, "b"))
	assert.Equal(t, "a", next(t, c, "c"))
}

func TestChain_RemoveAndReAdd(t *testing.T) {
	c := New("a", "b", "c")

	c.Remove("b")
	assert.Equal(t, "c", next(t, c, "a"))
	assert.Equal(t, "a", prev(t, c, "c"))
	assert.False(t, c.IsActive("b"))
	assert.True(t, c.Contains("b"))

	c.Add("b")
	assert.Equal(t, "b", next(t, c, "a"), "re-added member keeps its original position")
	assert.Equal(t, []string{"a", "b", "c"}, c.Active())
}

func TestChain_WalkFromInactiveMember(t *testing.T) {
	c := New("a", "b", "c", "d")
	c.Remove("b")

	assert.Equal(t, "c", next(t, c, "b"))
	assert.Equal(t, "a", prev(t, c, "b"))
}

func TestChain_SingleActiveMember(t *testing.T) {
	c := New("a", "b")
	c.Remove("b")

	assert.Equal(t, "a", next(t, c, "a"))

	c.Remove("a")
	_, ok := c.Next("a")
	assert.False(t, ok)
	_, ok = c.First()
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestChain_AddAppendsNewMembers(t *testing.T) {
	c := New("a", "b")
	c.Add("z")

	assert.Equal(t, []string{"a", "b", "z"}, c.Members())
	assert.Equal(t, "z", next(t, c, "b"))
	assert.Equal(t, "a", next(t, c, "z"))
}

func TestChain_IndependentChains(t *testing.T) {
	turns := New("a", "b", "c")
	bidding := New("a", "b", "c")

	bidding.Remove("a")

	assert.Equal(t, "b", next(t, turns, "a"))
	assert.Equal(t, "b", next(t, bidding, "a"))
	assert.Equal(t, "c", next(t, bidding, "b"))
	assert.Equal(t, "b", next(t, bidding, "c"))
	assert.Equal(t, 3, turns.Len())
	assert.Equal(t, 2, bidding.Len())
}

func TestChain_RandomOnlyActive(t *testing.T) {
	c := New("a", "b", "c", "d")
	c.Remove("a")
	c.Remove("c")
	rng := table.NewRNG(11)

	counts := map[string]int{}
	for i := 0; i < 400; i++ {
		m, ok := c.Random(rng)
		require.True(t, ok)
		counts[m]++
	}

	assert.Len(t, counts, 2)
	assert.Greater(t, counts["b"], 100)
	assert.Greater(t, counts["d"], 100)
}

func TestChain_UnknownMemberIsFatal(t *testing.T) {
	c := New("a")

	assert.PanicsWithError(t, "UNKNOWN_MEMBER: not a chain member (name=zz)", func() {
		c.Next("zz")
	})
	assert.Panics(t, func() { c.Remove("zz") })
}
