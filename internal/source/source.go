// Package source provides ready-made decision sources for playback
// controllers.
package source

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/tabletop/internal/pick"
	"github.com/roach88/tabletop/internal/playback"
	"github.com/roach88/tabletop/internal/table"
)

// ErrScriptExhausted is returned by a Scripted source with no answers left.
var ErrScriptExhausted = errors.New("source: script exhausted")

// Random answers with a uniformly chosen request of the bucket, a uniformly
// chosen length inside its arity and a uniform sample of its options.
//
// Random owns its seeded stream. It never draws from the table's RNG, so
// a session's randomness does not depend on who answers.
type Random struct {
	rng *table.RNG
}

var _ playback.Source = (*Random)(nil)

// NewRandom returns a Random source seeded with seed.
func NewRandom(seed uint64) *Random {
	return &Random{rng: table.NewRNG(seed)}
}

// Decide implements playback.Source.
func (r *Random) Decide(_ context.Context, _ *table.Table, bucket []*pick.Request) ([]string, error) {
	if len(bucket) == 0 {
		return nil, nil
	}
	req := bucket[r.rng.IntN(len(bucket))]
	n := len(req.Options)
	lo, hi := req.Arity.Min, req.Arity.Max
	if hi < 0 || hi > n {
		hi = n
	}
	if lo > hi {
		// Unsatisfiable from the universe alone; answer anyway and let the
		// request stay pending.
		return slices.Clone(req.Options), nil
	}
	k := lo + r.rng.IntN(hi-lo+1)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	r.rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	idx = idx[:k]
	slices.Sort(idx)
	out := make([]string, k)
	for i, j := range idx {
		out[i] = req.Options[j]
	}
	return out, nil
}

// Scripted answers with a fixed list, in order.
type Scripted struct {
	answers [][]string
	next    int
}

var _ playback.Source = (*Scripted)(nil)

// NewScripted returns a source that replays answers in order.
func NewScripted(answers ...[]string) *Scripted {
	return &Scripted{answers: answers}
}

// Decide implements playback.Source.
func (s *Scripted) Decide(_ context.Context, _ *table.Table, bucket []*pick.Request) ([]string, error) {
	if s.next >= len(s.answers) {
		who := ""
		if len(bucket) > 0 {
			who = bucket[0].Requester
		}
		return nil, fmt.Errorf("%w: %s asked for answer %d", ErrScriptExhausted, who, s.next+1)
	}
	a := s.answers[s.next]
	s.next++
	return slices.Clone(a), nil
}

// Remaining returns the number of unused answers.
func (s *Scripted) Remaining() int {
	return len(s.answers) - s.next
}

// First answers with the first Arity.Min options of the first request,
// or its first option when the minimum is zero.
func First() playback.Source {
	return playback.SourceFunc(func(_ context.Context, _ *table.Table, bucket []*pick.Request) ([]string, error) {
		if len(bucket) == 0 {
			return nil, nil
		}
		req := bucket[0]
		k := max(req.Arity.Min, 1)
		k = min(k, len(req.Options))
		return slices.Clone(req.Options[:k]), nil
	})
}

// ForPlayers builds one source per player with build.
func ForPlayers(players []string, build func(i int, player string) playback.Source) map[string]playback.Source {
	out := make(map[string]playback.Source, len(players))
	for i, p := range players {
		out[p] = build(i, p)
	}
	return out
}
