package pick

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/tabletop/internal/table"
)

// ErrStaleRound is returned when an answer is offered to a round opened
// after a snapshot that the table was later rolled back to.
var ErrStaleRound = errors.New("pick: round is stale")

// Policy decides how many requests one answer may resolve.
type Policy int

const (
	// ResolveFirst resolves only the first matching request in issuance order.
	ResolveFirst Policy = iota
	// ResolveAll resolves every matching request in the bucket.
	ResolveAll
)

func (p Policy) String() string {
	switch p {
	case ResolveFirst:
		return "first"
	case ResolveAll:
		return "all"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "first" or "all".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "first", "":
		return ResolveFirst, nil
	case "all":
		return ResolveAll, nil
	default:
		return 0, fmt.Errorf("unknown resolve policy %q (want first or all)", s)
	}
}

// Bucket is the set of pending requests for one requester.
type Bucket struct {
	Requester string
	Requests  []*Request
}

// Options returns the union of the bucket's option universes, in first
// appearance order.
func (b Bucket) Options() []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range b.Requests {
		for _, o := range r.Options {
			if !seen[o] {
				seen[o] = true
				out = append(out, o)
			}
		}
	}
	return out
}

// Round collects the requests issued for one decision.
type Round struct {
	seq      uint64
	requests []*Request
	sealed   bool
}

// Open starts a round with the table's next round sequence number.
func Open(t *table.Table) *Round {
	return &Round{seq: t.NextRound()}
}

// Seq returns the round's sequence number on its table.
func (r *Round) Seq() uint64 {
	return r.seq
}

// Ask issues a request. Requests must all be issued before the round is
// handed to the driver; asking on a sealed round is a contract violation.
func (r *Round) Ask(requester string, options []string, arity Arity, opts ...Option) *Request {
	if r.sealed {
		table.Violate(table.ErrCodeBadRequest, requester, "request issued after the round was awaited")
	}
	if requester == "" {
		table.Violate(table.ErrCodeBadRequest, "", "request has no requester")
	}
	if arity.Min < 0 || (arity.Max >= 0 && arity.Max < arity.Min) {
		table.Violate(table.ErrCodeBadRequest, requester, "invalid arity %s", arity)
	}
	req := &Request{
		ID:        len(r.requests),
		Requester: requester,
		Options:   slices.Clone(options),
		Arity:     arity,
	}
	for _, o := range opts {
		o(req)
	}
	r.requests = append(r.requests, req)
	return req
}

// Seal closes the round to further requests.
func (r *Round) Seal() {
	r.sealed = true
}

// Sealed reports whether the round was sealed.
func (r *Round) Sealed() bool {
	return r.sealed
}

// Requests returns all requests in issuance order.
func (r *Round) Requests() []*Request {
	return slices.Clone(r.requests)
}

// Pending returns the pending requests in issuance order.
func (r *Round) Pending() []*Request {
	var out []*Request
	for _, q := range r.requests {
		if q.state == Pending {
			out = append(out, q)
		}
	}
	return out
}

// Resolved reports whether at least one request in the round is resolved.
func (r *Round) Resolved() bool {
	for _, q := range r.requests {
		if q.state == Resolved {
			return true
		}
	}
	return false
}

// Stale reports whether t was rolled back to a snapshot taken before the
// round opened.
func (r *Round) Stale(t *table.Table) bool {
	return t.RoundDiscarded(r.seq)
}

// Buckets partitions pending requests by requester. Buckets are ordered by
// each requester's first pending request; requests keep issuance order.
func (r *Round) Buckets() []Bucket {
	var out []Bucket
	at := make(map[string]int)
	for _, q := range r.requests {
		if q.state != Pending {
			continue
		}
		i, ok := at[q.Requester]
		if !ok {
			i = len(out)
			at[q.Requester] = i
			out = append(out, Bucket{Requester: q.Requester})
		}
		out[i].Requests = append(out[i].Requests, q)
	}
	return out
}

// Discard marks every pending request discarded.
func (r *Round) Discard() {
	for _, q := range r.requests {
		if q.state == Pending {
			q.state = Discarded
		}
	}
}

// Offer applies one answer to requester's pending requests and returns the
// requests it resolved, in issuance order. An answer that satisfies none
// leaves everything pending and returns an empty slice.
func (r *Round) Offer(t *table.Table, reg *Registry, requester string, answer []string, policy Policy) ([]*Request, error) {
	if r.Stale(t) {
		r.Discard()
		return nil, ErrStaleRound
	}
	var resolved []*Request
	for _, q := range r.requests {
		if q.state != Pending || q.Requester != requester {
			continue
		}
		if !q.Accepts(t, reg, answer) {
			continue
		}
		q.resolve(answer)
		resolved = append(resolved, q)
		if policy == ResolveFirst {
			break
		}
	}
	return resolved, nil
}
