// Package graph holds static adjacency between named sectors.
//
// A graph is pure topology: which sectors border which, through which
// named edges and corners. It never tracks what sits in a sector; that is
// the table's job (a sector is usually mirrored by a location of the same
// name). Graphs are immutable once built and every accessor returns copies.
package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/tabletop/internal/table"
)

// Edge is a named border between exactly two sectors.
type Edge struct {
	Name    string   `json:"name" yaml:"name"`
	Sectors []string `json:"sectors" yaml:"sectors"`
}

// Corner is a named point shared by two or more sectors.
type Corner struct {
	Name    string   `json:"name" yaml:"name"`
	Sectors []string `json:"sectors" yaml:"sectors"`
}

// Sector is a node with its declared links and the edges/corners it touches.
type Sector struct {
	Name    string
	Links   []string
	Edges   []string
	Corners []string
}

// Graph is an immutable sector adjacency.
type Graph struct {
	sectors []Sector
	index   map[string]int
}

// ResolveSectors builds a graph from sector names and a flat edge list,
// cross-linking the two sectors of every edge in both directions. Corners
// are attached to the sectors they name but create no links.
func ResolveSectors(names []string, edges []Edge, corners []Corner) (*Graph, error) {
	g := &Graph{index: make(map[string]int, len(names))}
	for _, n := range names {
		if _, dup := g.index[n]; dup {
			return nil, fmt.Errorf("resolve sectors: duplicate sector %q", n)
		}
		g.index[n] = len(g.sectors)
		g.sectors = append(g.sectors, Sector{Name: n})
	}

	for _, e := range edges {
		if len(e.Sectors) != 2 {
			return nil, fmt.Errorf("resolve sectors: edge %q names %d sectors, want 2", e.Name, len(e.Sectors))
		}
		a, b := e.Sectors[0], e.Sectors[1]
		ia, ok := g.index[a]
		if !ok {
			return nil, fmt.Errorf("resolve sectors: edge %q: unknown sector %q", e.Name, a)
		}
		ib, ok := g.index[b]
		if !ok {
			return nil, fmt.Errorf("resolve sectors: edge %q: unknown sector %q", e.Name, b)
		}
		if ia == ib {
			return nil, fmt.Errorf("resolve sectors: edge %q links %q to itself", e.Name, a)
		}
		g.link(ia, b)
		g.link(ib, a)
		g.sectors[ia].Edges = append(g.sectors[ia].Edges, e.Name)
		g.sectors[ib].Edges = append(g.sectors[ib].Edges, e.Name)
	}

	for _, c := range corners {
		if len(c.Sectors) < 2 {
			return nil, fmt.Errorf("resolve sectors: corner %q names %d sectors, want at least 2", c.Name, len(c.Sectors))
		}
		for _, s := range c.Sectors {
			i, ok := g.index[s]
			if !ok {
				return nil, fmt.Errorf("resolve sectors: corner %q: unknown sector %q", c.Name, s)
			}
			g.sectors[i].Corners = append(g.sectors[i].Corners, c.Name)
		}
	}
	return g, nil
}

// FromSectors builds a graph from explicitly declared links. Nothing is
// cross-linked; call Validate to check that the declaration is reciprocal.
func FromSectors(sectors []Sector) (*Graph, error) {
	g := &Graph{index: make(map[string]int, len(sectors))}
	for _, s := range sectors {
		if _, dup := g.index[s.Name]; dup {
			return nil, fmt.Errorf("from sectors: duplicate sector %q", s.Name)
		}
		g.index[s.Name] = len(g.sectors)
		g.sectors = append(g.sectors, Sector{
			Name:    s.Name,
			Links:   slices.Clone(s.Links),
			Edges:   slices.Clone(s.Edges),
			Corners: slices.Clone(s.Corners),
		})
	}
	return g, nil
}

func (g *Graph) link(from int, to string) {
	if !slices.Contains(g.sectors[from].Links, to) {
		g.sectors[from].Links = append(g.sectors[from].Links, to)
	}
}

// Validate checks that every declared link names a known sector and is
// declared in both directions.
func (g *Graph) Validate() error {
	var errs []error
	for _, s := range g.sectors {
		for _, l := range s.Links {
			i, ok := g.index[l]
			if !ok {
				errs = append(errs, fmt.Errorf("sector %q links to unknown sector %q", s.Name, l))
				continue
			}
			if !slices.Contains(g.sectors[i].Links, s.Name) {
				errs = append(errs, fmt.Errorf("sector %q links to %q but not the reverse", s.Name, l))
			}
		}
	}
	return errors.Join(errs...)
}

// Sectors returns sector names in declaration order.
func (g *Graph) Sectors() []string {
	out := make([]string, len(g.sectors))
	for i, s := range g.sectors {
		out[i] = s.Name
	}
	return out
}

// Has reports whether name is a sector.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Neighbors returns the sectors linked to name, in link order.
func (g *Graph) Neighbors(name string) []string {
	return slices.Clone(g.sector(name).Links)
}

// Edges returns the edge names touching name.
func (g *Graph) Edges(name string) []string {
	return slices.Clone(g.sector(name).Edges)
}

// Corners returns the corner names touching name.
func (g *Graph) Corners(name string) []string {
	return slices.Clone(g.sector(name).Corners)
}

// Adjacent reports whether a links to b.
func (g *Graph) Adjacent(a, b string) bool {
	g.sector(b)
	return slices.Contains(g.sector(a).Links, b)
}

// Touching returns every other sector sharing an edge or a corner with name,
// in sector declaration order.
func (g *Graph) Touching(name string) []string {
	s := g.sector(name)
	var out []string
	for _, other := range g.sectors {
		if other.Name == name {
			continue
		}
		if slices.Contains(s.Links, other.Name) || sharesAny(s.Corners, other.Corners) {
			out = append(out, other.Name)
		}
	}
	return out
}

// Distance returns the number of links on a shortest path from a to b, or
// -1 if b is unreachable.
func (g *Graph) Distance(a, b string) int {
	start := g.index[g.sector(a).Name]
	goal := g.index[g.sector(b).Name]
	dist := make([]int, len(g.sectors))
	for i := range dist {
		dist[i] = -1
	}
	dist[start] = 0
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			return dist[cur]
		}
		for _, l := range g.sectors[cur].Links {
			n, ok := g.index[l]
			if ok && dist[n] < 0 {
				dist[n] = dist[cur] + 1
				queue = append(queue, n)
			}
		}
	}
	return -1
}

func (g *Graph) sector(name string) *Sector {
	i, ok := g.index[name]
	if !ok {
		table.Violate(table.ErrCodeUnknownEntity, name, "unknown sector")
	}
	return &g.sectors[i]
}

func sharesAny(a, b []string) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}
