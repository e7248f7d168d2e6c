package table

import (
	"cmp"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeck(seed uint64, n int) *Table {
	tb := New(seed)
	tb.AddLocation("deck", nil)
	for i := 0; i < n; i++ {
		tb.AddCard("deck", fmt.Sprintf("c%02d", i), Data{"rank": n - i}, -1)
	}
	return tb
}

func TestShuffle_PreservesMultiset(t *testing.T) {
	tb := newDeck(7, 20)
	before := tb.Cards(Name("deck"))

	tb.Shuffle(Name("deck"))
	after := tb.Cards(Name("deck"))

	assert.ElementsMatch(t, before, after)
}

func TestShuffle_ReproducibleForSeed(t *testing.T) {
	a := newDeck(42, 20)
	b := newDeck(42, 20)

	a.Shuffle(Name("deck"))
	b.Shuffle(Name("deck"))

	assert.Equal(t, a.Cards(Name("deck")), b.Cards(Name("deck")))
}

func TestShuffle_ChangesOrderAcrossSeeds(t *testing.T) {
	original := newDeck(0, 20).Cards(Name("deck"))
	orders := make(map[string]bool)

	for seed := uint64(1); seed <= 10; seed++ {
		tb := newDeck(seed, 20)
		tb.Shuffle(Name("deck"))
		got := tb.Cards(Name("deck"))
		assert.NotEqual(t, original, got, "seed %d left the deck unshuffled", seed)
		orders[fmt.Sprint(got)] = true
	}

	assert.Greater(t, len(orders), 1, "different seeds should give different orders")
}

func TestReverse(t *testing.T) {
	tb := newABTable()

	tb.Reverse(Names("a", "b"))

	assert.Equal(t, []string{"a3", "a2", "a1"}, tb.Cards(Name("a")))
	assert.Equal(t, []string{"b2", "b1"}, tb.Cards(Name("b")))
}

func TestSort_ByPayload(t *testing.T) {
	tb := newDeck(1, 5)

	tb.Sort(Name("deck"), func(a, b CardView) int {
		return cmp.Compare(a.Data["rank"].(int), b.Data["rank"].(int))
	})

	assert.Equal(t, []string{"c04", "c03", "c02", "c01", "c00"}, tb.Cards(Name("deck")))
}

func TestSort_Stable(t *testing.T) {
	tb := newABTable()
	tb.MoveCards(Names("b1", "b2"), Name("a"), -1, -1)

	tb.Sort(Name("a"), func(a, b CardView) int {
		return cmp.Compare(a.Data["suit"].(string), b.Data["suit"].(string))
	})

	cards := tb.Cards(Name("a"))
	assert.Equal(t, []string{"a1", "a2", "a3", "b1", "b2"}, cards)
	assert.True(t, slices.IsSorted(cards))
}

func TestSwap(t *testing.T) {
	tb := newABTable()

	tb.Swap(Name("a"), 0, -1)
	assert.Equal(t, []string{"a3", "a2", "a1"}, tb.Cards(Name("a")))

	requireViolation(t, ErrCodeIndexOutOfRange, func() { tb.Swap(Name("b"), 0, 5) })
}

func TestRNG_CountsDraws(t *testing.T) {
	r := NewRNG(5)
	require.Equal(t, uint64(5), r.Seed())

	r.IntN(10)
	r.Float64()
	r.Shuffle(3, func(int, int) {})

	assert.Equal(t, uint64(3), r.Draws())
}
