package playback

import (
	"slices"

	"github.com/roach88/tabletop/internal/table"
)

// Standing is one player's place in a ranking.
type Standing struct {
	Player string    `json:"player"`
	Score  []float64 `json:"score"`
	// Rank is 1-based; players with equal scores share a rank.
	Rank int `json:"rank"`
}

// Rank orders the table's players by score, best first. Score vectors
// compare lexicographically; equal scores keep player creation order.
func Rank(t *table.Table, score func(t *table.Table, player string) []float64) []Standing {
	players := t.Players()
	out := make([]Standing, len(players))
	for i, p := range players {
		out[i] = Standing{Player: p, Score: score(t, p)}
	}
	slices.SortStableFunc(out, func(a, b Standing) int {
		return compareScores(b.Score, a.Score)
	})
	for i := range out {
		if i > 0 && compareScores(out[i].Score, out[i-1].Score) == 0 {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}

// compareScores compares score vectors lexicographically; a missing
// component ranks below any present one.
func compareScores(a, b []float64) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Ranking ranks the players of the live session's table. It returns nil
// before the first session or when the game has no score function.
func (c *Controller) Ranking() []Standing {
	if c.sess == nil || c.def.Score == nil {
		return nil
	}
	return Rank(c.sess.table, c.def.Score)
}

// Scores returns every player's score on the live session's table.
func (c *Controller) Scores() map[string][]float64 {
	out := make(map[string][]float64)
	for _, s := range c.Ranking() {
		out[s.Player] = s.Score
	}
	return out
}
