package table

import (
	"slices"
)

// Observer is notified after every mutating operation. It is a
// notification only: mutations made from inside an observer are not
// reported again.
type Observer func(op string)

// Table is the entity store for one session. It is not safe for concurrent
// use; the session that owns it serializes all access.
type Table struct {
	a         *arena
	rng       *RNG
	epoch     uint64
	rounds    uint64
	discarded []span
	observer  Observer
	notifying bool
}

// Option configures a Table.
type Option func(*Table)

// WithObserver installs a post-mutation hook.
func WithObserver(o Observer) Option {
	return func(t *Table) {
		t.observer = o
	}
}

// New creates an empty table whose RNG is seeded with seed.
func New(seed uint64, opts ...Option) *Table {
	t := &Table{
		a:   newArena(),
		rng: NewRNG(seed),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RNG returns the table's seeded random stream.
func (t *Table) RNG() *RNG {
	return t.rng
}

// Epoch increments on every rollback.
func (t *Table) Epoch() uint64 {
	return t.epoch
}

// span is a half-open range (lo, hi] of round sequence numbers.
type span struct {
	lo, hi uint64
}

// NextRound allocates the sequence number of a newly opened pick round.
// Sequence numbers are never reused, rollbacks included.
func (t *Table) NextRound() uint64 {
	t.rounds++
	return t.rounds
}

// RoundDiscarded reports whether the round with sequence number seq was
// opened after a snapshot that the table has since been rolled back to.
func (t *Table) RoundDiscarded(seq uint64) bool {
	for _, d := range t.discarded {
		if seq > d.lo && seq <= d.hi {
			return true
		}
	}
	return false
}

// SetObserver replaces the post-mutation hook (nil disables it).
func (t *Table) SetObserver(o Observer) {
	t.observer = o
}

func (t *Table) notify(op string) {
	if t.observer == nil || t.notifying {
		return
	}
	t.notifying = true
	defer func() { t.notifying = false }()
	t.observer(op)
}

func (t *Table) claim(name string, kind Kind, idx int) {
	if name == "" {
		Violate(ErrCodeDuplicateName, name, "empty %s name", kind)
	}
	if existing, ok := t.a.names[name]; ok {
		Violate(ErrCodeDuplicateName, name, "%s name already used by a %s", kind, existing.kind)
	}
	t.a.names[name] = ref{kind: kind, idx: idx}
}

// AddLocation creates an empty location.
func (t *Table) AddLocation(name string, data Data) {
	idx := len(t.a.locations)
	t.claim(name, KindLocation, idx)
	t.a.locations = append(t.a.locations, locationRecord{name: name, data: cloneData(data)})
	t.notify("addLocation")
}

// AddPlayer creates a player.
func (t *Table) AddPlayer(name string, data Data) {
	idx := len(t.a.players)
	t.claim(name, KindPlayer, idx)
	t.a.players = append(t.a.players, playerRecord{name: name, data: cloneData(data)})
	t.notify("addPlayer")
}

// AddCard creates a card inside location at index (see Move for index
// conventions; -1 places it on top).
func (t *Table) AddCard(location, card string, data Data, index int) {
	li := t.a.lookup(KindLocation, location)
	ci := len(t.a.cards)
	t.claim(card, KindCard, ci)
	t.a.cards = append(t.a.cards, cardRecord{name: card, data: cloneData(data), loc: li})
	loc := &t.a.locations[li]
	loc.cards = slices.Insert(loc.cards, insertPosition(index, len(loc.cards), 0), ci)
	t.notify("addCard")
}

// Has reports whether name is any card, location or player.
func (t *Table) Has(name string) bool {
	_, ok := t.a.names[name]
	return ok
}

// KindOf returns the kind of a named entity.
func (t *Table) KindOf(name string) (Kind, bool) {
	r, ok := t.a.names[name]
	return r.kind, ok
}

// Locations returns location names in creation order.
func (t *Table) Locations() []string {
	out := make([]string, len(t.a.locations))
	for i, l := range t.a.locations {
		out[i] = l.name
	}
	return out
}

// Players returns player names in creation order.
func (t *Table) Players() []string {
	out := make([]string, len(t.a.players))
	for i, p := range t.a.players {
		out[i] = p.name
	}
	return out
}

// ResolveLocations returns the names a location selector resolves to.
func (t *Table) ResolveLocations(s Selector) []string {
	return t.namesOf(KindLocation, t.a.resolve(KindLocation, s))
}

// ResolveCards returns the names a card selector resolves to.
func (t *Table) ResolveCards(s Selector) []string {
	return t.namesOf(KindCard, t.a.resolve(KindCard, s))
}

// ResolvePlayers returns the names a player selector resolves to.
func (t *Table) ResolvePlayers(s Selector) []string {
	return t.namesOf(KindPlayer, t.a.resolve(KindPlayer, s))
}

func (t *Table) namesOf(kind Kind, idx []int) []string {
	out := make([]string, len(idx))
	for i, n := range idx {
		switch kind {
		case KindCard:
			out[i] = t.a.cards[n].name
		case KindLocation:
			out[i] = t.a.locations[n].name
		case KindPlayer:
			out[i] = t.a.players[n].name
		}
	}
	return out
}

// Cards returns the concatenated card sequences of the selected locations,
// in resolved-location order, each bottom to top.
func (t *Table) Cards(locations Selector) []string {
	var out []string
	for _, li := range t.a.resolve(KindLocation, locations) {
		for _, ci := range t.a.locations[li].cards {
			out = append(out, t.a.cards[ci].name)
		}
	}
	return out
}

// Count returns the total number of cards in the selected locations.
func (t *Table) Count(locations Selector) int {
	n := 0
	for _, li := range t.a.resolve(KindLocation, locations) {
		n += len(t.a.locations[li].cards)
	}
	return n
}

// Top returns the top card of a location.
func (t *Table) Top(location string) (string, bool) {
	cards := t.a.locations[t.a.lookup(KindLocation, location)].cards
	if len(cards) == 0 {
		return "", false
	}
	return t.a.cards[cards[len(cards)-1]].name, true
}

// LocationOf returns the location currently holding card.
func (t *Table) LocationOf(card string) string {
	ci := t.a.lookup(KindCard, card)
	return t.a.locations[t.a.cards[ci].loc].name
}

// CardData returns a copy of a card's payload.
func (t *Table) CardData(card string) Data {
	return cloneData(t.a.cards[t.a.lookup(KindCard, card)].data)
}

// LocationData returns a copy of a location's payload.
func (t *Table) LocationData(location string) Data {
	return cloneData(t.a.locations[t.a.lookup(KindLocation, location)].data)
}

// PlayerData returns a copy of a player's payload.
func (t *Table) PlayerData(player string) Data {
	return cloneData(t.a.players[t.a.lookup(KindPlayer, player)].data)
}

// MergeCardData shallow-patches a card's payload. A nil value deletes the key.
func (t *Table) MergeCardData(card string, patch Data) {
	rec := &t.a.cards[t.a.lookup(KindCard, card)]
	rec.data = mergeData(rec.data, patch)
	t.notify("mergeCardData")
}

// MergeLocationData shallow-patches a location's payload.
func (t *Table) MergeLocationData(location string, patch Data) {
	rec := &t.a.locations[t.a.lookup(KindLocation, location)]
	rec.data = mergeData(rec.data, patch)
	t.notify("mergeLocationData")
}

// MergePlayerData shallow-patches a player's payload.
func (t *Table) MergePlayerData(player string, patch Data) {
	rec := &t.a.players[t.a.lookup(KindPlayer, player)]
	rec.data = mergeData(rec.data, patch)
	t.notify("mergePlayerData")
}

func mergeData(dst, patch Data) Data {
	if dst == nil {
		dst = make(Data, len(patch))
	}
	for k, v := range patch {
		if v == nil {
			delete(dst, k)
			continue
		}
		dst[k] = cloneValue(v)
	}
	return dst
}
