// Package table implements the entity store: the single owner of cards,
// locations, players and named values for one game session.
//
// # Storage
//
// Entities live in an arena of index-addressed records. Cards, locations
// and players share one name namespace; a card is always in exactly one
// location's ordered sequence and is never destroyed, only moved. Taking a
// snapshot is a structural clone of the arena and rolling back swaps in a
// fresh clone, so nothing done between the two survives.
//
// # Selectors
//
// Every lookup goes through a Selector: an exact name, an ordered list of
// names, or a predicate over (name, data). Lists resolve in list order,
// predicates in store (creation) order.
//
// # Contract violations
//
// Unknown names, malformed selectors and illegal reorders are bugs in rule
// code. They panic with a *ContractError instead of returning an error.
//
// # Determinism
//
// The table owns the session's single seeded PRNG. Rule code must draw all
// randomness from Table.RNG so that a replay with the same seed and the
// same answer log reproduces every intermediate state.
package table
