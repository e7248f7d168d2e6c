package pick

import (
	"fmt"
	"slices"

	"github.com/roach88/tabletop/internal/table"
)

// Arity bounds the length of an answer. Max < 0 means unbounded.
type Arity struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Exactly returns an arity admitting answers of length n.
func Exactly(n int) Arity {
	return Arity{Min: n, Max: n}
}

// Between returns an arity admitting answers of length min..max inclusive.
func Between(min, max int) Arity {
	return Arity{Min: min, Max: max}
}

// AtLeast returns an arity admitting answers of length n or more.
func AtLeast(n int) Arity {
	return Arity{Min: n, Max: -1}
}

// Allows reports whether an answer of length n fits.
func (a Arity) Allows(n int) bool {
	return n >= a.Min && (a.Max < 0 || n <= a.Max)
}

func (a Arity) String() string {
	switch {
	case a.Max < 0:
		return fmt.Sprintf("%d+", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("%d", a.Min)
	default:
		return fmt.Sprintf("%d..%d", a.Min, a.Max)
	}
}

// State is the lifecycle state of a request.
type State int

const (
	// Pending requests await an acceptable answer.
	Pending State = iota
	// Resolved requests carry their accepted answer.
	Resolved
	// Discarded requests belonged to a round made stale by a rollback or
	// an abandoned session. They never resolve.
	Discarded
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Discarded:
		return "discarded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Request is one choice asked of one requester.
type Request struct {
	// ID is the request's issuance position within its round.
	ID int

	// Requester names the player whose decision source answers.
	Requester string

	// Options is the ordered option universe.
	Options []string

	// Arity bounds the answer length.
	Arity Arity

	// Predicate optionally constrains the answer further.
	Predicate PredicateID

	// Arg is passed to the predicate.
	Arg any

	state  State
	answer []string
}

// State returns the request's lifecycle state.
func (r *Request) State() State {
	return r.state
}

// Resolved reports whether the request has an accepted answer.
func (r *Request) Resolved() bool {
	return r.state == Resolved
}

// Answer returns a copy of the accepted answer, or nil while unresolved.
func (r *Request) Answer() []string {
	return slices.Clone(r.answer)
}

// Chosen returns the accepted answer. Reading the answer of a request that
// never resolved is a contract violation.
func (r *Request) Chosen() []string {
	if r.state != Resolved {
		table.Violate(table.ErrCodeInvalidAnswer, r.Requester, "request %d is %s, not resolved", r.ID, r.state)
	}
	return slices.Clone(r.answer)
}

// One returns the single value of an accepted one-element answer.
func (r *Request) One() string {
	a := r.Chosen()
	if len(a) != 1 {
		table.Violate(table.ErrCodeInvalidAnswer, r.Requester, "request %d answer has %d values, want 1", r.ID, len(a))
	}
	return a[0]
}

// Accepts reports whether answer satisfies the request: every value is
// drawn from the option universe (respecting multiplicity), the length fits
// the arity, and the predicate, if any, holds.
func (r *Request) Accepts(t *table.Table, reg *Registry, answer []string) bool {
	if !r.Arity.Allows(len(answer)) {
		return false
	}
	if !subset(answer, r.Options) {
		return false
	}
	if r.Predicate == NoPredicate {
		return true
	}
	return reg.eval(r.Predicate, t, answer, r.Arg)
}

func (r *Request) resolve(answer []string) {
	r.state = Resolved
	r.answer = slices.Clone(answer)
}

func subset(values, universe []string) bool {
	left := make(map[string]int, len(universe))
	for _, o := range universe {
		left[o]++
	}
	for _, v := range values {
		if left[v] == 0 {
			return false
		}
		left[v]--
	}
	return true
}

// Option customizes a request at issue time.
type Option func(*Request)

// WithPredicate attaches a registered predicate and its argument.
func WithPredicate(id PredicateID, arg any) Option {
	return func(r *Request) {
		r.Predicate = id
		r.Arg = arg
	}
}
