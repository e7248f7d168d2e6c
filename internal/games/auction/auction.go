// Package auction is a sealed-bid property auction.
//
// A shuffled deck of ranked properties is auctioned in lots of one card per
// player. Every active bidder answers each bidding round at once: either a
// raise above the standing high bid or 0 to pass. Raises are paid
// immediately (only the increase over the bidder's previous bid). A passer
// leaves the auction with the lowest-ranked unsold property and gets half of
// their bid back, rounded down; the rest is forfeit. Passers of one round
// are served lowest bid first. The last bidder standing takes the best
// property and pays their full bid.
package auction

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/roach88/tabletop/internal/chain"
	"github.com/roach88/tabletop/internal/pick"
	"github.com/roach88/tabletop/internal/playback"
	"github.com/roach88/tabletop/internal/table"
)

const (
	// Name registers the game.
	Name = "auction"

	// BidLegal is the predicate accepting a pass or an affordable raise.
	BidLegal = "bid-legal"

	// StartCoins is every player's purse at setup.
	StartCoins = 10

	properties = 9
	deck       = "deck"
	offer      = "offer"
	highBid    = "high-bid"
)

// Players in seating order.
var Players = []string{"p1", "p2", "p3"}

// Holdings returns the location holding player's properties.
func Holdings(player string) string {
	return "holdings-" + player
}

// Definition returns the playback definition.
func Definition() playback.Definition {
	return playback.Definition{
		Name:       Name,
		Setup:      Setup,
		Predicates: Predicates,
		Rules:      Rules,
		Score:      Score,
	}
}

// Setup creates the players, their holdings and a deck of properties
// ranked 1..9.
func Setup(t *table.Table) {
	t.AddLocation(deck, nil)
	t.AddLocation(offer, nil)
	for _, p := range Players {
		t.AddPlayer(p, table.Data{"coins": StartCoins, "bid": 0})
		t.AddLocation(Holdings(p), nil)
	}
	for r := 1; r <= properties; r++ {
		t.AddCard(deck, fmt.Sprintf("prop-%d", r), table.Data{"rank": r}, -1)
	}
	t.SetValue(highBid, 0)
}

// Predicates registers BidLegal.
func Predicates(reg *pick.Registry) {
	reg.Register(BidLegal, func(t *table.Table, answer []string, arg any) bool {
		player, _ := arg.(string)
		if len(answer) != 1 {
			return false
		}
		bid, err := strconv.Atoi(answer[0])
		if err != nil || bid < 0 {
			return false
		}
		if bid == 0 {
			return true
		}
		return bid > t.Int(highBid) && bid-Bid(t, player) <= Coins(t, player)
	})
}

// Coins returns player's purse.
func Coins(t *table.Table, player string) int {
	return intData(t.PlayerData(player), "coins")
}

// Bid returns player's standing bid in the current auction.
func Bid(t *table.Table, player string) int {
	return intData(t.PlayerData(player), "bid")
}

// Rank returns a property's rank.
func Rank(t *table.Table, card string) int {
	return intData(t.CardData(card), "rank")
}

func intData(d table.Data, key string) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Rules shuffles the deck and auctions it lot by lot; the opening bidder
// rotates with every lot.
func Rules(ctx context.Context, g *playback.Game) error {
	t := g.Table()
	t.Shuffle(table.Name(deck))
	seats := chain.New(Players...)
	starter := Players[0]
	for t.Count(table.Name(deck)) >= len(Players) {
		t.Move(table.Name(deck), table.Name(offer), len(Players), -1, -1)
		t.Sort(table.Name(offer), func(a, b table.CardView) int {
			return cmp.Compare(intData(a.Data, "rank"), intData(b.Data, "rank"))
		})
		if err := runLot(ctx, g, seating(seats, starter)); err != nil {
			return err
		}
		t.AddInt("lots", 1)
		starter, _ = seats.Next(starter)
	}
	return nil
}

// seating lists the seats starting at first.
func seating(seats *chain.Chain[string], first string) []string {
	out := []string{first}
	for p, _ := seats.Next(first); p != first; p, _ = seats.Next(p) {
		out = append(out, p)
	}
	return out
}

func runLot(ctx context.Context, g *playback.Game, order []string) error {
	t := g.Table()
	legal := g.Predicate(BidLegal)
	bidders := chain.New(order...)
	t.SetValue(highBid, 0)

	for len(bidders.Active()) > 1 {
		r := g.Open()
		var reqs []*pick.Request
		for _, p := range bidders.Active() {
			reqs = append(reqs, r.Ask(p, bidOptions(t, p), pick.Exactly(1), pick.WithPredicate(legal, p)))
		}
		for len(r.Pending()) > 0 {
			if err := g.Await(ctx, r); err != nil {
				return err
			}
		}

		var passers []string
		for _, req := range reqs {
			bid, _ := strconv.Atoi(req.One())
			if bid == 0 {
				passers = append(passers, req.Requester)
				continue
			}
			raise(t, req.Requester, bid)
		}
		slices.SortStableFunc(passers, func(a, b string) int {
			return cmp.Compare(Bid(t, a), Bid(t, b))
		})
		for _, p := range passers {
			if len(bidders.Active()) == 1 {
				break
			}
			concede(g, p)
			bidders.Remove(p)
		}
	}

	winner, _ := bidders.First()
	won := t.Move(table.Name(offer), table.Name(Holdings(winner)), 1, -1, -1)
	g.Logger().Debug("lot won", zap.String("player", winner), zap.Strings("property", won), zap.Int("bid", Bid(t, winner)))
	t.MergePlayerData(winner, table.Data{"bid": 0})
	return nil
}

// bidOptions lists every bid player could afford, as strings.
func bidOptions(t *table.Table, player string) []string {
	top := Coins(t, player) + Bid(t, player)
	out := make([]string, top+1)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

func raise(t *table.Table, player string, bid int) {
	coins := Coins(t, player) - (bid - Bid(t, player))
	t.MergePlayerData(player, table.Data{"coins": coins, "bid": bid})
	if bid > t.Int(highBid) {
		t.SetValue(highBid, bid)
	}
}

// concede hands player the lowest unsold property and refunds half their bid.
func concede(g *playback.Game, player string) {
	t := g.Table()
	prior := Bid(t, player)
	got := t.Move(table.Name(offer), table.Name(Holdings(player)), 1, 0, -1)
	t.MergePlayerData(player, table.Data{"coins": Coins(t, player) + prior/2, "bid": 0})
	g.Logger().Debug("pass", zap.String("player", player), zap.Strings("property", got), zap.Int("refund", prior/2))
}

// Score ranks by total property rank, then by coins left.
func Score(t *table.Table, player string) []float64 {
	ranks := 0
	for _, c := range t.Cards(table.Name(Holdings(player))) {
		ranks += Rank(t, c)
	}
	return []float64{float64(ranks), float64(Coins(t, player))}
}
