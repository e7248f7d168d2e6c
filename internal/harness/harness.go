package harness

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/tabletop/internal/canon"
	"github.com/roach88/tabletop/internal/games"
	"github.com/roach88/tabletop/internal/pick"
	"github.com/roach88/tabletop/internal/playback"
	"github.com/roach88/tabletop/internal/table"
)

// Result is the outcome of one scenario.
type Result struct {
	Pass     bool
	Errors   []string
	Snapshot Snapshot
}

// AddError records a failed check.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// LocationCount is the number of cards in one location.
type LocationCount struct {
	Location string
	Count    int
}

// Snapshot is the observable end state of a replayed scenario.
type Snapshot struct {
	Scenario string
	Game     string
	Seed     uint64
	Position int
	Finished bool
	Mode     string
	Counts   []LocationCount
	Values   map[string]any
	Pending  []string
	Ranking  []playback.Standing
	Err      string
}

// Run replays a scenario's answers in play mode and evaluates its
// expectations. Errors raised by the replay itself are part of the
// result; the returned error reports scenarios that cannot start.
func Run(ctx context.Context, s *Scenario, opts ...playback.Option) (*Result, error) {
	def, err := games.Lookup(s.Game)
	if err != nil {
		return nil, err
	}
	policy, err := pick.ParsePolicy(s.Policy)
	if err != nil {
		return nil, err
	}
	opts = append(slices.Clone(opts), playback.WithLog(s.Answers), playback.WithPolicy(policy))
	if s.MaxRounds > 0 {
		opts = append(opts, playback.WithMaxRounds(s.MaxRounds))
	}
	c, err := playback.New(def, s.Seed, opts...)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	runErr := c.Run(ctx)
	snap := capture(s, c, runErr)

	result := &Result{Pass: true, Snapshot: snap}
	evaluate(result, s.Expect, snap)
	return result, nil
}

func capture(s *Scenario, c *playback.Controller, runErr error) Snapshot {
	snap := Snapshot{
		Scenario: s.Name,
		Game:     s.Game,
		Seed:     s.Seed,
		Position: c.Position(),
		Finished: c.Finished(),
		Mode:     c.Mode().String(),
		Values:   map[string]any{},
		Ranking:  c.Ranking(),
	}
	if runErr != nil {
		snap.Err = runErr.Error()
	}
	if t := c.Table(); t != nil {
		for _, loc := range t.Locations() {
			snap.Counts = append(snap.Counts, LocationCount{Location: loc, Count: t.Count(table.Name(loc))})
		}
		snap.Values = t.Export().Values
	}
	for _, b := range c.Pending() {
		snap.Pending = append(snap.Pending, b.Requester)
	}
	return snap
}

func evaluate(r *Result, e Expect, snap Snapshot) {
	switch {
	case e.Error == "" && snap.Err != "":
		r.AddError("unexpected error: %s", snap.Err)
	case e.Error != "" && !strings.Contains(snap.Err, e.Error):
		r.AddError("error: want %q, got %q", e.Error, snap.Err)
	}
	if e.Position != nil && *e.Position != snap.Position {
		r.AddError("position: want %d, got %d", *e.Position, snap.Position)
	}
	if e.Finished != nil && *e.Finished != snap.Finished {
		r.AddError("finished: want %t, got %t", *e.Finished, snap.Finished)
	}
	if e.Mode != "" && e.Mode != snap.Mode {
		r.AddError("mode: want %s, got %s", e.Mode, snap.Mode)
	}

	counts := make(map[string]int, len(snap.Counts))
	for _, lc := range snap.Counts {
		counts[lc.Location] = lc.Count
	}
	for _, loc := range sortedKeys(e.Counts) {
		got, ok := counts[loc]
		if !ok {
			r.AddError("counts: unknown location %q", loc)
			continue
		}
		if got != e.Counts[loc] {
			r.AddError("counts[%s]: want %d, got %d", loc, e.Counts[loc], got)
		}
	}

	for _, name := range sortedKeys(e.Values) {
		got, ok := snap.Values[name]
		if !ok {
			r.AddError("values: %q is unset", name)
			continue
		}
		if !sameValue(e.Values[name], got) {
			r.AddError("values[%s]: want %v, got %v", name, e.Values[name], got)
		}
	}

	if e.Pending != nil && !slices.Equal(e.Pending, snap.Pending) {
		r.AddError("pending: want %v, got %v", e.Pending, snap.Pending)
	}
	if e.Ranking != nil {
		var got []string
		for _, st := range snap.Ranking {
			got = append(got, st.Player)
		}
		if !slices.Equal(e.Ranking, got) {
			r.AddError("ranking: want %v, got %v", e.Ranking, got)
		}
	}
}

// sameValue compares a YAML-decoded value with a table value through
// their canonical encodings.
func sameValue(want, got any) bool {
	a, err := canon.Marshal(want)
	if err != nil {
		return false
	}
	b, err := canon.Marshal(got)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Text renders the snapshot for golden comparison.
func (s Snapshot) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", s.Scenario)
	fmt.Fprintf(&b, "game: %s\n", s.Game)
	fmt.Fprintf(&b, "seed: %d\n", s.Seed)
	fmt.Fprintf(&b, "position: %d\n", s.Position)
	fmt.Fprintf(&b, "finished: %t\n", s.Finished)
	fmt.Fprintf(&b, "mode: %s\n", s.Mode)
	if s.Err != "" {
		fmt.Fprintf(&b, "error: %s\n", s.Err)
	}
	b.WriteString("counts:\n")
	for _, lc := range s.Counts {
		fmt.Fprintf(&b, "  %s: %d\n", lc.Location, lc.Count)
	}
	b.WriteString("values:\n")
	for _, k := range sortedKeys(s.Values) {
		v, err := canon.Marshal(s.Values[k])
		if err != nil {
			v = []byte(fmt.Sprint(s.Values[k]))
		}
		fmt.Fprintf(&b, "  %s: %s\n", k, v)
	}
	b.WriteString("pending:\n")
	for _, p := range s.Pending {
		fmt.Fprintf(&b, "  - %s\n", p)
	}
	b.WriteString("ranking:\n")
	for _, st := range s.Ranking {
		fmt.Fprintf(&b, "  %d. %s %v\n", st.Rank, st.Player, st.Score)
	}
	return b.String()
}
