package playback

import (
	"context"

	"go.uber.org/zap"

	"github.com/roach88/tabletop/internal/pick"
	"github.com/roach88/tabletop/internal/table"
)

// Game is the handle a rule routine receives. It is only valid inside the
// routine of the session that created it.
type Game struct {
	s *session
}

// Table returns the session's entity store.
func (g *Game) Table() *table.Table {
	return g.s.table
}

// RNG returns the session's single seeded random stream.
func (g *Game) RNG() *table.RNG {
	return g.s.table.RNG()
}

// Logger returns the controller's logger, scoped to the session.
func (g *Game) Logger() *zap.Logger {
	return g.s.logger
}

// Predicate returns the id registered under name. Naming an unregistered
// predicate is a contract violation.
func (g *Game) Predicate(name string) pick.PredicateID {
	id, ok := g.s.reg.Lookup(name)
	if !ok {
		table.Violate(table.ErrCodeUnknownPredicate, name, "predicate not registered")
	}
	return id
}

// Open starts a decision round.
func (g *Game) Open() *pick.Round {
	return pick.Open(g.s.table)
}

// Await seals the round and suspends the routine while the driver offers
// one answer per requester bucket. It returns once every bucket was
// offered an answer; requests the answers did not satisfy remain pending
// and the caller may Await the same round again to re-offer them.
//
// A round opened after a snapshot the table was since rolled back to is
// stale: its requests are discarded
// and Await returns pick.ErrStaleRound. Inside an abandoned session Await
// returns ErrAbandoned.
func (g *Game) Await(ctx context.Context, r *pick.Round) error {
	r.Seal()
	if r.Stale(g.s.table) {
		r.Discard()
		return pick.ErrStaleRound
	}
	if len(r.Pending()) == 0 {
		return nil
	}
	select {
	case g.s.yield <- r:
	case <-ctx.Done():
		return context.Cause(ctx)
	}
	select {
	case <-g.s.resume:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// Choose asks requester a single request and re-offers it until resolved.
func (g *Game) Choose(ctx context.Context, requester string, options []string, arity pick.Arity, opts ...pick.Option) (*pick.Request, error) {
	r := g.Open()
	req := r.Ask(requester, options, arity, opts...)
	for !req.Resolved() {
		if err := g.Await(ctx, r); err != nil {
			return nil, err
		}
	}
	return req, nil
}
