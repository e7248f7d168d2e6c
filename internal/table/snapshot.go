package table

// Snapshot is an immutable point-in-time copy of cards, locations,
// players and values. The RNG stream is not part of it.
type Snapshot struct {
	a      *arena
	rounds uint64
}

// TakeSnapshot captures the current state.
func (t *Table) TakeSnapshot() *Snapshot {
	return &Snapshot{a: t.a.clone(), rounds: t.rounds}
}

// Rollback replaces the current state with a fresh copy of s, so the same
// snapshot can be rolled back to any number of times. Pick rounds opened
// after s was taken belong to the abandoned attempt and are discarded;
// rounds opened earlier stay live.
func (t *Table) Rollback(s *Snapshot) {
	t.a = s.a.clone()
	t.epoch++
	if t.rounds > s.rounds {
		t.discarded = append(t.discarded, span{lo: s.rounds, hi: t.rounds})
	}
	t.notify("rollback")
}
