package playback

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/tabletop/internal/chain"
	"github.com/roach88/tabletop/internal/pick"
	"github.com/roach88/tabletop/internal/table"
)

// draftGame: six cards worth 1..6 are shuffled into a deck; players take
// turns drafting one card each into their hand until the deck is empty.
func draftGame() Definition {
	return Definition{
		Name: "draft",
		Setup: func(t *table.Table) {
			t.AddLocation("deck", nil)
			for _, p := range []string{"alice", "bob"} {
				t.AddPlayer(p, nil)
				t.AddLocation("hand-"+p, nil)
			}
			for i := 1; i <= 6; i++ {
				t.AddCard("deck", fmt.Sprintf("c%d", i), table.Data{"v": i}, -1)
			}
		},
		Rules: func(ctx context.Context, g *Game) error {
			t := g.Table()
			t.Shuffle(table.Name("deck"))
			turns := chain.New("alice", "bob")
			player := "alice"
			for t.Count(table.Name("deck")) > 0 {
				req, err := g.Choose(ctx, player, t.Cards(table.Name("deck")), pick.Exactly(1))
				if err != nil {
					return err
				}
				t.MoveCards(table.Name(req.One()), table.Name("hand-"+player), 1, -1)
				player, _ = turns.Next(player)
			}
			return nil
		},
		Score: func(t *table.Table, player string) []float64 {
			sum := 0
			for _, c := range t.Cards(table.Name("hand-" + player)) {
				sum += t.CardData(c)["v"].(int)
			}
			return []float64{float64(sum)}
		},
	}
}

// firstOption answers every bucket with the first option of its first request.
func firstOption() Source {
	return SourceFunc(func(_ context.Context, _ *table.Table, bucket []*pick.Request) ([]string, error) {
		return bucket[0].Options[:1], nil
	})
}

// highestCard answers with the most valuable card on offer.
func highestCard() Source {
	return SourceFunc(func(_ context.Context, t *table.Table, bucket []*pick.Request) ([]string, error) {
		best := ""
		for _, o := range bucket[0].Options {
			if best == "" || t.CardData(o)["v"].(int) > t.CardData(best)["v"].(int) {
				best = o
			}
		}
		return []string{best}, nil
	})
}

// scripted replays fixed answers in order and fails once they run out.
type scripted struct {
	answers [][]string
	calls   int
}

func (s *scripted) Decide(context.Context, *table.Table, []*pick.Request) ([]string, error) {
	if s.calls >= len(s.answers) {
		return nil, fmt.Errorf("script exhausted after %d answers", s.calls)
	}
	a := s.answers[s.calls]
	s.calls++
	return a, nil
}

func handText(t *table.Table) string {
	var b strings.Builder
	for _, p := range t.Players() {
		fmt.Fprintf(&b, "%s:%s ", p, strings.Join(t.Cards(table.Name("hand-"+p)), ","))
	}
	return b.String()
}
