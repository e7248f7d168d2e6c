package table

import (
	"fmt"
	"strings"
)

// Matcher selects entities by name and payload. It receives the live
// payload and must not modify it.
type Matcher func(name string, data Data) bool

type selectorKind uint8

const (
	selectorNone selectorKind = iota
	selectorName
	selectorNames
	selectorWhere
)

// Selector identifies zero or more entities of one kind.
// The zero Selector is malformed; build selectors with Name, Names or Where.
type Selector struct {
	kind  selectorKind
	name  string
	names []string
	match Matcher
}

// Name selects exactly one entity.
func Name(name string) Selector {
	return Selector{kind: selectorName, name: name}
}

// Names selects entities in the given order. Repeated names resolve
// repeatedly, which makes round-robin moves visit them repeatedly.
func Names(names ...string) Selector {
	cp := make([]string, len(names))
	copy(cp, names)
	return Selector{kind: selectorNames, names: cp}
}

// Where selects every entity of the resolved kind accepted by m, in store order.
func Where(m Matcher) Selector {
	return Selector{kind: selectorWhere, match: m}
}

// All selects every entity of the resolved kind in store order.
func All() Selector {
	return Where(func(string, Data) bool { return true })
}

// String renders the selector for logs and contract messages.
func (s Selector) String() string {
	switch s.kind {
	case selectorName:
		return s.name
	case selectorNames:
		return "[" + strings.Join(s.names, ",") + "]"
	case selectorWhere:
		return "where(...)"
	default:
		return "<malformed>"
	}
}

// resolve turns a selector into arena indices of the given kind.
func (a *arena) resolve(kind Kind, s Selector) []int {
	switch s.kind {
	case selectorName:
		return []int{a.lookup(kind, s.name)}
	case selectorNames:
		out := make([]int, len(s.names))
		for i, n := range s.names {
			out[i] = a.lookup(kind, n)
		}
		return out
	case selectorWhere:
		if s.match == nil {
			Violate(ErrCodeMalformedSelector, "", "where-selector without predicate")
		}
		return a.filter(kind, s.match)
	default:
		Violate(ErrCodeMalformedSelector, "", "zero selector for %s", kind)
		return nil
	}
}

func (a *arena) lookup(kind Kind, name string) int {
	r, ok := a.names[name]
	if !ok {
		Violate(ErrCodeUnknownEntity, name, "unknown %s", kind)
	}
	if r.kind != kind {
		Violate(ErrCodeUnknownEntity, name, "%s is a %s, not a %s", name, r.kind, kind)
	}
	return r.idx
}

func (a *arena) filter(kind Kind, m Matcher) []int {
	var out []int
	switch kind {
	case KindCard:
		for i := range a.cards {
			if m(a.cards[i].name, a.cards[i].data) {
				out = append(out, i)
			}
		}
	case KindLocation:
		for i := range a.locations {
			if m(a.locations[i].name, a.locations[i].data) {
				out = append(out, i)
			}
		}
	case KindPlayer:
		for i := range a.players {
			if m(a.players[i].name, a.players[i].data) {
				out = append(out, i)
			}
		}
	default:
		panic(fmt.Sprintf("table: filter on unknown kind %d", kind))
	}
	return out
}
