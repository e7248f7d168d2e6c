package playback

import (
	"context"
	"slices"

	"github.com/roach88/tabletop/internal/pick"
	"github.com/roach88/tabletop/internal/table"
)

// Rules is a game's rule routine. It runs once per session and may only
// suspend inside Game.Await. It must draw randomness from the table's RNG.
type Rules func(ctx context.Context, g *Game) error

// Definition bundles the external collaborators of a game.
type Definition struct {
	// Name identifies the game in artifacts and logs.
	Name string

	// Setup populates a fresh table before the rules start.
	Setup func(t *table.Table)

	// Predicates registers answer predicates. It runs once per session,
	// so registration order (and therefore ids) must be fixed.
	Predicates func(reg *pick.Registry)

	// Rules is the rule routine.
	Rules Rules

	// Score rates one player at the end of a session. Higher is better;
	// vectors compare lexicographically.
	Score func(t *table.Table, player string) []float64
}

// Source answers a bucket of requests for one player. The answer should be
// drawn from at least one bucketed request's option universe; anything
// else just leaves the bucket pending.
//
// Sources run while the rule routine is suspended and must not mutate the
// table. Randomized sources need their own seeded stream: drawing from the
// table's RNG would make a session depend on who answered.
type Source interface {
	Decide(ctx context.Context, t *table.Table, bucket []*pick.Request) ([]string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, t *table.Table, bucket []*pick.Request) ([]string, error)

// Decide calls f.
func (f SourceFunc) Decide(ctx context.Context, t *table.Table, bucket []*pick.Request) ([]string, error) {
	return f(ctx, t, bucket)
}

// Entry is one answer in a replay log: the literal answer a requester's
// source gave to one bucket, whether or not it resolved anything.
type Entry struct {
	Requester string   `json:"requester" yaml:"requester"`
	Answer    []string `json:"answer" yaml:"answer"`
}

// Artifact is everything needed to reproduce a session.
type Artifact struct {
	Game string  `json:"game" yaml:"game"`
	Seed uint64  `json:"seed" yaml:"seed"`
	Log  []Entry `json:"log" yaml:"log"`
}

func cloneLog(log []Entry) []Entry {
	out := make([]Entry, len(log))
	for i, e := range log {
		out[i] = Entry{Requester: e.Requester, Answer: slices.Clone(e.Answer)}
	}
	return out
}
