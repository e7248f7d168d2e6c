// Package pick implements choice requests and their per-requester batching.
//
// A rule routine opens a Round, issues every request the decision needs with
// Round.Ask, and only then yields to the driver. The driver groups pending
// requests into buckets by requester (Round.Buckets), asks each requester's
// decision source once for the whole bucket, and hands the single answer
// back with Round.Offer. Each pending request in the bucket checks the
// answer independently against its own option universe, arity and
// predicate; requests the answer does not satisfy stay pending.
//
// Predicates are registry entries addressed by a stable PredicateID, never
// ad hoc closures, so that a recorded answer log means the same thing on
// every replay.
//
// Every round takes a sequence number from its table when it opens. Rolling
// the table back to a snapshot makes the rounds opened after that snapshot
// stale, while rounds opened before it stay live: Offer on a stale round
// discards its pending requests and returns ErrStaleRound.
package pick
