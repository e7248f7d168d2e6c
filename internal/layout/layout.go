// Package layout compiles declarative CUE table layouts into setup routines.
//
// A layout file declares a top-level "layout" struct:
//
//	layout: {
//		name: "draft"
//		players: [{name: "alice"}, {name: "bob", data: seat: 2}]
//		locations: [{name: "deck"}, {name: "discard"}]
//		cards: [for i in [1, 2, 3] {name: "c\(i)", location: "deck", data: v: i}]
//		values: round: 0
//		graph: {
//			sectors: ["north", "south"]
//			edges: [{name: "pass", sectors: ["north", "south"]}]
//		}
//	}
//
// Players, locations and cards are created in declaration order. Graph
// sectors that are not declared as locations get a location of the same
// name, so their occupancy can be tracked on the table.
package layout

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tabletop/internal/graph"
	"github.com/roach88/tabletop/internal/table"
)

// Entity is a declared player or location.
type Entity struct {
	Name string
	Data table.Data
}

// Card is a declared card and its starting location.
type Card struct {
	Name     string
	Location string
	Data     table.Data
}

// Layout is a compiled table layout.
type Layout struct {
	Name      string
	Players   []Entity
	Locations []Entity
	Cards     []Card
	Values    map[string]any
	Sectors   []string
	Edges     []graph.Edge
	Corners   []graph.Corner
}

// CompileError is a layout error with its source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts the first positioned error from a CUE error list.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return err
}

// Load reads the layout declared in a CUE file.
func Load(path string) (*Layout, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	cfg := &load.Config{Dir: filepath.Dir(abs)}
	instances := load.Instances([]string{"./" + filepath.Base(abs)}, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("load layout %s: no CUE instances loaded", path)
	}
	if err := instances[0].Err; err != nil {
		return nil, fmt.Errorf("load layout %s: %w", path, err)
	}
	v := cuecontext.New().BuildInstance(instances[0])
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileRoot(v)
}

// CompileString compiles CUE source holding a top-level layout struct.
func CompileString(filename, src string) (*Layout, error) {
	v := cuecontext.New().CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileRoot(v)
}

func compileRoot(root cue.Value) (*Layout, error) {
	v := root.LookupPath(cue.ParsePath("layout"))
	if !v.Exists() {
		return nil, &CompileError{Field: "layout", Message: "no top-level layout struct", Pos: root.Pos()}
	}
	return Compile(v)
}

// Compile converts a layout struct value.
func Compile(v cue.Value) (*Layout, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	l := &Layout{Values: map[string]any{}}
	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return nil, &CompileError{Field: "name", Message: "name is required", Pos: v.Pos()}
	}
	l.Name = name

	if l.Players, err = entities(v, "players"); err != nil {
		return nil, err
	}
	if l.Locations, err = entities(v, "locations"); err != nil {
		return nil, err
	}
	if l.Cards, err = cards(v); err != nil {
		return nil, err
	}

	if vals := v.LookupPath(cue.ParsePath("values")); vals.Exists() {
		iter, err := vals.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			val, err := goValue(iter.Value())
			if err != nil {
				return nil, err
			}
			l.Values[iter.Label()] = val
		}
	}

	if g := v.LookupPath(cue.ParsePath("graph")); g.Exists() {
		if err := l.compileGraph(g); err != nil {
			return nil, err
		}
	}

	if err := l.check(v.Pos()); err != nil {
		return nil, err
	}
	return l, nil
}

func entities(v cue.Value, field string) ([]Entity, error) {
	list := v.LookupPath(cue.ParsePath(field))
	if !list.Exists() {
		return nil, nil
	}
	iter, err := list.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []Entity
	for iter.Next() {
		item := iter.Value()
		name, err := item.LookupPath(cue.ParsePath("name")).String()
		if err != nil {
			return nil, &CompileError{Field: field + ".name", Message: "name must be a string", Pos: item.Pos()}
		}
		data, err := dataOf(item)
		if err != nil {
			return nil, err
		}
		out = append(out, Entity{Name: name, Data: data})
	}
	return out, nil
}

func cards(v cue.Value) ([]Card, error) {
	list := v.LookupPath(cue.ParsePath("cards"))
	if !list.Exists() {
		return nil, nil
	}
	iter, err := list.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []Card
	for iter.Next() {
		item := iter.Value()
		name, err := item.LookupPath(cue.ParsePath("name")).String()
		if err != nil {
			return nil, &CompileError{Field: "cards.name", Message: "name must be a string", Pos: item.Pos()}
		}
		loc, err := item.LookupPath(cue.ParsePath("location")).String()
		if err != nil {
			return nil, &CompileError{Field: "cards.location", Message: fmt.Sprintf("card %s needs a location", name), Pos: item.Pos()}
		}
		data, err := dataOf(item)
		if err != nil {
			return nil, err
		}
		out = append(out, Card{Name: name, Location: loc, Data: data})
	}
	return out, nil
}

func dataOf(item cue.Value) (table.Data, error) {
	d := item.LookupPath(cue.ParsePath("data"))
	if !d.Exists() {
		return nil, nil
	}
	val, err := goValue(d)
	if err != nil {
		return nil, err
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil, &CompileError{Field: "data", Message: "data must be a struct", Pos: d.Pos()}
	}
	return table.Data(m), nil
}

func (l *Layout) compileGraph(g cue.Value) error {
	if s := g.LookupPath(cue.ParsePath("sectors")); s.Exists() {
		if err := s.Decode(&l.Sectors); err != nil {
			return formatCUEError(err)
		}
	}
	if e := g.LookupPath(cue.ParsePath("edges")); e.Exists() {
		if err := e.Decode(&l.Edges); err != nil {
			return formatCUEError(err)
		}
	}
	if c := g.LookupPath(cue.ParsePath("corners")); c.Exists() {
		if err := c.Decode(&l.Corners); err != nil {
			return formatCUEError(err)
		}
	}
	if _, err := l.Graph(); err != nil {
		return &CompileError{Field: "graph", Message: err.Error(), Pos: g.Pos()}
	}
	return nil
}

// goValue converts a concrete CUE value to the plain Go values table data
// holds: int, float64, string, bool, nil, []any and map[string]any.
func goValue(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return int(n), nil
	case cue.FloatKind, cue.NumberKind:
		return v.Float64()
	case cue.StringKind:
		return v.String()
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out := []any{}
		for iter.Next() {
			elem, err := goValue(iter.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out := map[string]any{}
		for iter.Next() {
			elem, err := goValue(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Label()] = elem
		}
		return out, nil
	default:
		return nil, &CompileError{Field: "value", Message: fmt.Sprintf("unsupported kind %v", v.Kind()), Pos: v.Pos()}
	}
}

// check enforces one namespace for players, locations and cards, and that
// every card starts in a declared location.
func (l *Layout) check(pos token.Pos) error {
	seen := map[string]string{}
	claim := func(kind, name string) error {
		if prev, dup := seen[name]; dup {
			return &CompileError{Field: kind, Message: fmt.Sprintf("%q already names a %s", name, prev), Pos: pos}
		}
		seen[name] = kind
		return nil
	}
	for _, p := range l.Players {
		if err := claim("player", p.Name); err != nil {
			return err
		}
	}
	for _, loc := range l.locations() {
		if err := claim("location", loc.Name); err != nil {
			return err
		}
	}
	for _, c := range l.Cards {
		if seen[c.Location] != "location" {
			return &CompileError{Field: "cards.location", Message: fmt.Sprintf("card %s starts in unknown location %q", c.Name, c.Location), Pos: pos}
		}
		if err := claim("card", c.Name); err != nil {
			return err
		}
	}
	return nil
}

// locations returns declared locations followed by one location per
// undeclared sector.
func (l *Layout) locations() []Entity {
	out := append([]Entity(nil), l.Locations...)
	declared := map[string]bool{}
	for _, loc := range l.Locations {
		declared[loc.Name] = true
	}
	for _, s := range l.Sectors {
		if !declared[s] {
			out = append(out, Entity{Name: s, Data: table.Data{"sector": true}})
		}
	}
	return out
}

// Graph resolves the declared sector graph.
func (l *Layout) Graph() (*graph.Graph, error) {
	return graph.ResolveSectors(l.Sectors, l.Edges, l.Corners)
}

// Setup populates t with the layout.
func (l *Layout) Setup(t *table.Table) {
	for _, p := range l.Players {
		t.AddPlayer(p.Name, p.Data)
	}
	for _, loc := range l.locations() {
		t.AddLocation(loc.Name, loc.Data)
	}
	for _, c := range l.Cards {
		t.AddCard(c.Location, c.Name, c.Data, -1)
	}
	for _, k := range slices.Sorted(maps.Keys(l.Values)) {
		t.SetValue(k, l.Values[k])
	}
}
