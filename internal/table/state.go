package table

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/tabletop/internal/canon"
)

// State is a plain, ordered export of the table used for digests, dumps
// and CLI output. It shares nothing with the live table.
type State struct {
	Locations []LocationState `json:"locations"`
	Players   []EntityState   `json:"players"`
	Values    map[string]any  `json:"values"`
}

// LocationState is one location with its cards bottom to top.
type LocationState struct {
	Name  string        `json:"name"`
	Data  Data          `json:"data,omitempty"`
	Cards []EntityState `json:"cards"`
}

// EntityState is a named payload.
type EntityState struct {
	Name string `json:"name"`
	Data Data   `json:"data,omitempty"`
}

// Export copies the current state.
func (t *Table) Export() State {
	s := State{
		Locations: make([]LocationState, len(t.a.locations)),
		Players:   make([]EntityState, len(t.a.players)),
		Values:    make(map[string]any, len(t.a.values)),
	}
	for i, loc := range t.a.locations {
		ls := LocationState{Name: loc.name, Data: cloneData(loc.data), Cards: make([]EntityState, len(loc.cards))}
		for j, ci := range loc.cards {
			ls.Cards[j] = EntityState{Name: t.a.cards[ci].name, Data: cloneData(t.a.cards[ci].data)}
		}
		s.Locations[i] = ls
	}
	for i, p := range t.a.players {
		s.Players[i] = EntityState{Name: p.name, Data: cloneData(p.data)}
	}
	for k, v := range t.a.values {
		s.Values[k] = cloneValue(v)
	}
	return s
}

// Digest returns the canonical SHA-256 digest of the current state.
// Two tables have equal digests iff every location order, payload and
// value is equal.
func (t *Table) Digest() (string, error) {
	return t.Export().Digest()
}

// Digest returns the canonical digest of an exported state.
func (s State) Digest() (string, error) {
	return canon.Digest(canon.DomainState, s.canonical())
}

func (s State) canonical() map[string]any {
	locs := make([]any, len(s.Locations))
	for i, l := range s.Locations {
		cards := make([]any, len(l.Cards))
		for j, c := range l.Cards {
			cards[j] = map[string]any{"name": c.Name, "data": map[string]any(c.Data)}
		}
		locs[i] = map[string]any{"name": l.Name, "data": map[string]any(l.Data), "cards": cards}
	}
	players := make([]any, len(s.Players))
	for i, p := range s.Players {
		players[i] = map[string]any{"name": p.Name, "data": map[string]any(p.Data)}
	}
	return map[string]any{
		"locations": locs,
		"players":   players,
		"values":    s.Values,
	}
}

// Text renders the state as a stable, human-readable dump: one line per
// location (cards bottom to top), then players, then values sorted by name.
// Payloads are omitted.
func (s State) Text() string {
	var b strings.Builder
	for _, l := range s.Locations {
		names := make([]string, len(l.Cards))
		for i, c := range l.Cards {
			names[i] = c.Name
		}
		fmt.Fprintf(&b, "location %s (%d):", l.Name, len(l.Cards))
		if len(names) > 0 {
			b.WriteString(" " + strings.Join(names, " "))
		}
		b.WriteByte('\n')
	}
	for _, p := range s.Players {
		fmt.Fprintf(&b, "player %s\n", p.Name)
	}
	keys := make([]string, 0, len(s.Values))
	for k := range s.Values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "value %s = %v\n", k, s.Values[k])
	}
	return b.String()
}
