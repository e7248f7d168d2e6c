package table

import "maps"

// Kind distinguishes the three entity kinds sharing the name namespace.
type Kind uint8

const (
	KindCard Kind = iota + 1
	KindLocation
	KindPlayer
)

func (k Kind) String() string {
	switch k {
	case KindCard:
		return "card"
	case KindLocation:
		return "location"
	case KindPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// Data is an opaque entity payload. Values should be plain data (scalars,
// []any, []string, []int, map[string]any) so snapshots and digests can
// copy and encode them.
type Data map[string]any

type ref struct {
	kind Kind
	idx  int
}

type cardRecord struct {
	name string
	data Data
	loc  int // owning location index
}

type locationRecord struct {
	name  string
	data  Data
	cards []int // card indices, bottom (0) to top (len-1)
}

type playerRecord struct {
	name string
	data Data
}

// arena holds every mutable piece of table state. Snapshots are clones of it.
type arena struct {
	cards     []cardRecord
	locations []locationRecord
	players   []playerRecord
	names     map[string]ref
	values    map[string]any
}

func newArena() *arena {
	return &arena{
		names:  make(map[string]ref),
		values: make(map[string]any),
	}
}

func (a *arena) clone() *arena {
	c := &arena{
		cards:     make([]cardRecord, len(a.cards)),
		locations: make([]locationRecord, len(a.locations)),
		players:   make([]playerRecord, len(a.players)),
		names:     maps.Clone(a.names),
		values:    make(map[string]any, len(a.values)),
	}
	for i, rec := range a.cards {
		c.cards[i] = cardRecord{name: rec.name, data: cloneData(rec.data), loc: rec.loc}
	}
	for i, rec := range a.locations {
		cards := make([]int, len(rec.cards))
		copy(cards, rec.cards)
		c.locations[i] = locationRecord{name: rec.name, data: cloneData(rec.data), cards: cards}
	}
	for i, rec := range a.players {
		c.players[i] = playerRecord{name: rec.name, data: cloneData(rec.data)}
	}
	for k, v := range a.values {
		c.values[k] = cloneValue(v)
	}
	return c
}

func cloneData(d Data) Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue deep-copies the container types payloads are expected to use.
// Other values are treated as immutable scalars.
func cloneValue(v any) any {
	switch val := v.(type) {
	case Data:
		return cloneData(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []int:
		out := make([]int, len(val))
		copy(out, val)
		return out
	case []float64:
		out := make([]float64, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
