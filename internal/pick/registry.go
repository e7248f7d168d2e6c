package pick

import (
	"slices"

	"github.com/roach88/tabletop/internal/table"
)

// Predicate decides whether answer is legal for a request. It may inspect
// the table freely but must not mutate it. arg is the request's auxiliary
// argument.
type Predicate func(t *table.Table, answer []string, arg any) bool

// PredicateID addresses a registered predicate. The zero value means
// "no predicate".
type PredicateID int

// NoPredicate is the zero PredicateID.
const NoPredicate PredicateID = 0

// Registry holds predicates under stable ids assigned in registration order.
type Registry struct {
	names []string
	fns   []Predicate
	ids   map[string]PredicateID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]PredicateID)}
}

// Register adds a predicate and returns its id. Registering a name twice
// is a contract violation.
func (r *Registry) Register(name string, p Predicate) PredicateID {
	if name == "" || p == nil {
		table.Violate(table.ErrCodeBadRequest, name, "predicate needs a name and a function")
	}
	if _, dup := r.ids[name]; dup {
		table.Violate(table.ErrCodeDuplicatePredicate, name, "predicate already registered")
	}
	r.names = append(r.names, name)
	r.fns = append(r.fns, p)
	id := PredicateID(len(r.fns))
	r.ids[name] = id
	return id
}

// Lookup returns the id registered under name.
func (r *Registry) Lookup(name string) (PredicateID, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// Name returns the name registered for id.
func (r *Registry) Name(id PredicateID) string {
	if id == NoPredicate {
		return ""
	}
	r.check(id)
	return r.names[id-1]
}

// Names returns registered names in id order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of registered predicates.
func (r *Registry) Len() int {
	return len(r.fns)
}

func (r *Registry) check(id PredicateID) {
	if id < 0 || int(id) > len(r.fns) {
		table.Violate(table.ErrCodeUnknownPredicate, "", "predicate id %d is not registered", id)
	}
}

func (r *Registry) eval(id PredicateID, t *table.Table, answer []string, arg any) bool {
	if id == NoPredicate {
		return true
	}
	r.check(id)
	return r.fns[id-1](t, slices.Clone(answer), arg)
}
