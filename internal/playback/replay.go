package playback

import (
	"context"
	"fmt"
	"slices"
)

// Report summarizes a replayed session.
type Report struct {
	Steps    int        `json:"steps"`
	Finished bool       `json:"finished"`
	Digest   string     `json:"digest"`
	Ranking  []Standing `json:"ranking"`
}

// Replay runs art in play mode until its log is exhausted or the session
// finishes. On error the session is already closed and no controller is
// returned.
func Replay(ctx context.Context, def Definition, art Artifact, opts ...Option) (*Controller, error) {
	if art.Game != def.Name {
		return nil, fmt.Errorf("replay: artifact is for game %q, not %q", art.Game, def.Name)
	}
	opts = append(slices.Clone(opts), WithLog(art.Log))
	c, err := New(def, art.Seed, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Run(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if c.Position() != len(art.Log) {
		c.Close()
		return nil, &DivergenceError{Step: c.Position(), Reason: fmt.Sprintf("session ended with %d log entries unused", len(art.Log)-c.Position())}
	}
	return c, nil
}

// Verify replays art twice and checks that both runs pass through the same
// state at every step and end with the same ranking.
func Verify(ctx context.Context, def Definition, art Artifact, opts ...Option) (Report, error) {
	first, err := Replay(ctx, def, art, opts...)
	if err != nil {
		return Report{}, fmt.Errorf("first replay: %w", err)
	}
	defer first.Close()
	second, err := Replay(ctx, def, art, opts...)
	if err != nil {
		return Report{}, fmt.Errorf("second replay: %w", err)
	}
	defer second.Close()

	a, b := first.Digests(), second.Digests()
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return Report{}, &DivergenceError{Step: i, Reason: "replays reached different states"}
		}
	}
	if len(a) != len(b) {
		return Report{}, &DivergenceError{Step: min(len(a), len(b)), Reason: "replays ran for different lengths"}
	}
	ra, rb := first.Ranking(), second.Ranking()
	if !slices.EqualFunc(ra, rb, func(x, y Standing) bool {
		return x.Player == y.Player && x.Rank == y.Rank && slices.Equal(x.Score, y.Score)
	}) {
		return Report{}, &DivergenceError{Step: len(a) - 1, Reason: "replays ranked players differently"}
	}

	return Report{
		Steps:    first.Position(),
		Finished: first.Finished(),
		Digest:   a[len(a)-1],
		Ranking:  ra,
	}, nil
}
