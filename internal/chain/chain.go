// Package chain implements a circular ordered list with soft removal.
//
// Removing a member only deactivates it; its position is kept, so a member
// that is re-added slots back into its original place in the cycle. Walks
// start from a member's position even when that member is inactive. Chains
// are used for turn order and for transient orderings such as a bidding
// round; several chains may track the same members independently.
package chain

import (
	"fmt"

	"github.com/roach88/tabletop/internal/table"
)

// Intn is the random source used by Random. *table.RNG satisfies it.
type Intn interface {
	IntN(n int) int
}

// Chain is a circular list of comparable members.
type Chain[T comparable] struct {
	members []T
	active  []bool
	index   map[T]int
}

// New creates a chain whose members are all active, in the given order.
func New[T comparable](members ...T) *Chain[T] {
	c := &Chain[T]{index: make(map[T]int, len(members))}
	for _, m := range members {
		c.Add(m)
	}
	return c
}

// Add reactivates x, or appends it if it was never a member.
func (c *Chain[T]) Add(x T) {
	if i, ok := c.index[x]; ok {
		c.active[i] = true
		return
	}
	c.index[x] = len(c.members)
	c.members = append(c.members, x)
	c.active = append(c.active, true)
}

// Remove deactivates x without changing its position.
func (c *Chain[T]) Remove(x T) {
	c.active[c.position(x)] = false
}

// Contains reports whether x was ever added.
func (c *Chain[T]) Contains(x T) bool {
	_, ok := c.index[x]
	return ok
}

// IsActive reports whether x is a currently active member.
func (c *Chain[T]) IsActive(x T) bool {
	i, ok := c.index[x]
	return ok && c.active[i]
}

// Len returns the number of active members.
func (c *Chain[T]) Len() int {
	n := 0
	for _, a := range c.active {
		if a {
			n++
		}
	}
	return n
}

// Active returns the active members in chain order.
func (c *Chain[T]) Active() []T {
	out := make([]T, 0, len(c.members))
	for i, m := range c.members {
		if c.active[i] {
			out = append(out, m)
		}
	}
	return out
}

// Members returns every member, active or not, in chain order.
func (c *Chain[T]) Members() []T {
	out := make([]T, len(c.members))
	copy(out, c.members)
	return out
}

// Next returns the nearest active member after x, wrapping around. If x is
// the only active member, Next returns x. ok is false when no member is active.
func (c *Chain[T]) Next(x T) (next T, ok bool) {
	return c.walk(x, 1)
}

// Prev returns the nearest active member before x, wrapping around.
func (c *Chain[T]) Prev(x T) (prev T, ok bool) {
	return c.walk(x, -1)
}

// First returns the first active member in chain order.
func (c *Chain[T]) First() (first T, ok bool) {
	for i, m := range c.members {
		if c.active[i] {
			return m, true
		}
	}
	return first, false
}

// Random returns a uniformly chosen active member.
func (c *Chain[T]) Random(r Intn) (pick T, ok bool) {
	active := c.Active()
	if len(active) == 0 {
		return pick, false
	}
	return active[r.IntN(len(active))], true
}

func (c *Chain[T]) walk(x T, step int) (out T, ok bool) {
	start := c.position(x)
	n := len(c.members)
	for k := 1; k <= n; k++ {
		i := ((start+step*k)%n + n) % n
		if c.active[i] {
			return c.members[i], true
		}
	}
	return out, false
}

func (c *Chain[T]) position(x T) int {
	i, ok := c.index[x]
	if !ok {
		table.Violate(table.ErrCodeUnknownMember, fmt.Sprint(x), "not a chain member")
	}
	return i
}
