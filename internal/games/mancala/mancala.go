// Package mancala is a pit-and-store game (Kalah rules).
//
// Each side owns six pits and a store. A move empties one of the mover's
// pits and sows its stones one by one counter-clockwise, skipping the
// opponent's store. Ending in one's own store grants another move; ending
// in one's own empty pit captures it together with the opposite pit. The
// game ends when either side has no stones left in its pits.
package mancala

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/roach88/tabletop/internal/chain"
	"github.com/roach88/tabletop/internal/graph"
	"github.com/roach88/tabletop/internal/pick"
	"github.com/roach88/tabletop/internal/playback"
	"github.com/roach88/tabletop/internal/table"
)

const (
	// Name registers the game.
	Name = "mancala"

	// South moves first.
	South = "south"
	North = "north"

	// OwnPit is the predicate accepting one of the mover's non-empty pits.
	OwnPit = "own-pit"

	pitsPerSide  = 6
	stonesPerPit = 4
	hand         = "hand"
)

// Players in turn order.
var Players = []string{South, North}

// Pit returns the name of player's i-th pit (1-based), e.g. "s3".
func Pit(player string, i int) string {
	return fmt.Sprintf("%c%d", player[0], i)
}

// Store returns the name of player's store.
func Store(player string) string {
	return fmt.Sprintf("store-%c", player[0])
}

// Pits returns player's pits in sowing order.
func Pits(player string) []string {
	out := make([]string, pitsPerSide)
	for i := range out {
		out[i] = Pit(player, i+1)
	}
	return out
}

// ring is every pit and store in counter-clockwise order.
func ring() []string {
	var out []string
	for _, p := range Players {
		out = append(out, Pits(p)...)
		out = append(out, Store(p))
	}
	return out
}

// board links each pit to the pit across the board.
var board = mustBoard()

func mustBoard() *graph.Graph {
	var pits []string
	var edges []graph.Edge
	for i := 1; i <= pitsPerSide; i++ {
		s, n := Pit(South, i), Pit(North, pitsPerSide+1-i)
		pits = append(pits, s, n)
		edges = append(edges, graph.Edge{Name: "across-" + s, Sectors: []string{s, n}})
	}
	g, err := graph.ResolveSectors(pits, edges, nil)
	if err != nil {
		panic(err)
	}
	return g
}

// Opposite returns the pit across from pit.
func Opposite(pit string) string {
	return board.Neighbors(pit)[0]
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

// Setup lays out both sides with four stones per pit and empty stores.
func Setup(t *table.Table) {
	stone := 0
	for _, p := range Players {
		t.AddPlayer(p, table.Data{"side": p[:1]})
		for _, pit := range Pits(p) {
			t.AddLocation(pit, table.Data{"owner": p, "kind": "pit"})
			for range stonesPerPit {
				stone++
				t.AddCard(pit, fmt.Sprintf("stone-%02d", stone), nil, -1)
			}
		}
		t.AddLocation(Store(p), table.Data{"owner": p, "kind": "store"})
	}
	t.AddLocation(hand, table.Data{"kind": "hand"})
}

// Predicates registers OwnPit.
func Predicates(reg *pick.Registry) {
	reg.Register(OwnPit, func(t *table.Table, answer []string, arg any) bool {
		player, _ := arg.(string)
		if len(answer) != 1 || !slices.Contains(Pits(player), answer[0]) {
			return false
		}
		return t.Count(table.Name(answer[0])) > 0
	})
}

// Rules alternates moves until one side is empty, then sweeps the
// remaining stones into their owners' stores.
func Rules(ctx context.Context, g *playback.Game) error {
	t := g.Table()
	turns := chain.New(Players...)
	ownPit := g.Predicate(OwnPit)
	player := South
	for !Over(t) {
		req, err := g.Choose(ctx, player, Playable(t, player), pick.Exactly(1), pick.WithPredicate(ownPit, player))
		if err != nil {
			return err
		}
		again := Sow(t, player, req.One())
		t.AddInt("moves", 1)
		g.Logger().Debug("sow", zap.String("player", player), zap.String("pit", req.One()), zap.Bool("again", again))
		if !again {
			player, _ = turns.Next(player)
		}
	}
	for _, p := range Players {
		t.Move(table.Names(Pits(p)...), table.Name(Store(p)), -1, -1, -1)
	}
	return nil
}

// Playable returns player's non-empty pits.
func Playable(t *table.Table, player string) []string {
	var out []string
	for _, pit := range Pits(player) {
		if t.Count(table.Name(pit)) > 0 {
			out = append(out, pit)
		}
	}
	return out
}

// Over reports whether either side's pits are all empty.
func Over(t *table.Table) bool {
	for _, p := range Players {
		if t.Count(table.Names(Pits(p)...)) == 0 {
			return true
		}
	}
	return false
}

// sowing returns the counter-clockwise order seen by player: the whole
// ring without the opponent's store.
func sowing(player string) *chain.Chain[string] {
	c := chain.New(ring()...)
	for _, p := range Players {
		if p != player {
			c.Remove(Store(p))
		}
	}
	return c
}

// Sow plays pit for player and reports whether player moves again.
func Sow(t *table.Table, player, pit string) bool {
	n := t.Count(table.Name(pit))
	order := sowing(player)
	dests := make([]string, 0, n)
	at := pit
	for range n {
		at, _ = order.Next(at)
		dests = append(dests, at)
	}

	t.Move(table.Name(pit), table.Name(hand), -1, -1, -1)
	if n <= len(ring())-1 {
		// Every destination is distinct: one round-robin move drops one
		// stone into each.
		t.Move(table.Name(hand), table.Names(dests...), n, 0, -1)
	} else {
		for _, d := range dests {
			t.Move(table.Name(hand), table.Name(d), 1, 0, -1)
		}
	}

	last := dests[n-1]
	if last == Store(player) {
		return true
	}
	if slices.Contains(Pits(player), last) && t.Count(table.Name(last)) == 1 {
		opp := Opposite(last)
		if t.Count(table.Name(opp)) > 0 {
			t.Move(table.Names(last, opp), table.Name(Store(player)), -1, -1, -1)
		}
	}
	return false
}

// Score is the number of stones in player's store.
func Score(t *table.Table, player string) []float64 {
	return []float64{float64(t.Count(table.Name(Store(player))))}
}
