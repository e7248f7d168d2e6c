package auction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabletop/internal/playback"
	"github.com/roach88/tabletop/internal/source"
	"github.com/roach88/tabletop/internal/table"
)

func bids(pairs ...string) []playback.Entry {
	var out []playback.Entry
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, playback.Entry{Requester: pairs[i], Answer: []string{pairs[i+1]}})
	}
	return out
}

func play(t *testing.T, seed uint64, log []playback.Entry) *playback.Controller {
	t.Helper()
	c, err := playback.New(Definition(), seed, playback.WithLog(log))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	require.NoError(t, c.Run(context.Background()))
	return c
}

func holding(t *testing.T, tb *table.Table, player string) int {
	t.Helper()
	cards := tb.Cards(table.Name(Holdings(player)))
	require.Len(t, cards, 1, player)
	return Rank(tb, cards[0])
}

func TestSealedBidLot(t *testing.T) {
	c := play(t, 21, bids(
		"p1", "3", "p2", "4", "p3", "2",
		"p1", "5", "p2", "0", "p3", "7", // p2 passes holding a bid of 4
		"p1", "0", "p3", "0", // p1 passes holding 5; p3 is the last bidder
	))
	tb := c.Table()

	assert.Equal(t, 8, c.Position())
	assert.Equal(t, 1, tb.Int("lots"))

	// Passers: half their bid back, rounded down.
	assert.Equal(t, 10-4+2, Coins(tb, "p2"))
	assert.Equal(t, 10-5+2, Coins(tb, "p1"))
	// The winner pays the full bid.
	assert.Equal(t, 10-7, Coins(tb, "p3"))
	for _, p := range Players {
		assert.Equal(t, 0, Bid(tb, p), p)
	}

	low, mid, high := holding(t, tb, "p2"), holding(t, tb, "p1"), holding(t, tb, "p3")
	assert.Less(t, low, mid)
	assert.Less(t, mid, high)
	assert.Equal(t, 6, tb.Count(table.Name(deck)))

	// The next lot opens with p2.
	pending := c.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, []string{"p2", "p3", "p1"}, []string{pending[0].Requester, pending[1].Requester, pending[2].Requester})
}

func TestAllPass_TiesServedInSeatOrder(t *testing.T) {
	c := play(t, 3, bids("p1", "0", "p2", "0", "p3", "0"))
	tb := c.Table()

	low, mid, high := holding(t, tb, "p1"), holding(t, tb, "p2"), holding(t, tb, "p3")
	assert.Less(t, low, mid)
	assert.Less(t, mid, high)
	for _, p := range Players {
		assert.Equal(t, StartCoins, Coins(tb, p), p)
	}
}

func TestIllegalBidsStayPending(t *testing.T) {
	c := play(t, 8, bids(
		"p1", "11", // beyond the purse: not an option
		"p2", "4",
		"p3", "2",
		"p1", "3", // re-offered alone
		"p1", "4", // not above the standing 4
		"p2", "6",
		"p3", "0",
		"p1", "5",
	))
	tb := c.Table()

	assert.Equal(t, 8, c.Position())
	assert.Equal(t, 10-5, Coins(tb, "p1"))
	assert.Equal(t, 10-6, Coins(tb, "p2"))
	assert.Equal(t, 10-2+1, Coins(tb, "p3"))
	assert.Equal(t, 6, tb.Int(highBid))
	assert.Len(t, tb.Cards(table.Name(Holdings("p3"))), 1)
}

func TestRandomGames_DealEveryProperty(t *testing.T) {
	for seed := uint64(1); seed <= 4; seed++ {
		c, err := playback.New(Definition(), seed, playback.WithSources(source.ForPlayers(Players,
			func(i int, _ string) playback.Source { return source.NewRandom(seed*100 + uint64(i)) })))
		require.NoError(t, err)

		require.NoError(t, c.Run(context.Background()))
		require.True(t, c.Finished())
		tb := c.Table()
		assert.Equal(t, 0, tb.Count(table.Names(deck, offer)))
		assert.Equal(t, 3, tb.Int("lots"))
		for _, p := range Players {
			assert.Len(t, tb.Cards(table.Name(Holdings(p))), 3, p)
			assert.GreaterOrEqual(t, Coins(tb, p), 0, p)
		}

		_, err = playback.Verify(context.Background(), Definition(), c.Artifact())
		require.NoError(t, err)
		c.Close()
	}
}
