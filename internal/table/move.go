package table

import (
	"math"
	"slices"
)

// Index conventions shared by Move, MoveCards and AddCard:
//
//	 0  bottom / first card
//	-1  top / last card (insert: after the last card)
//	 k  k-th card from the bottom, clamped to the sequence
//	-k  k-th card from the top, clamped to the sequence

// removePosition maps an index to an existing position in a sequence of n>0 cards.
func removePosition(index, n int) int {
	if index < 0 {
		return max(n+index, 0)
	}
	return min(index, n-1)
}

// insertPosition maps an index to an insertion point in a sequence of n
// cards, given that k cards of the same move were already inserted there.
// Consecutive inserts land after one another, preserving removal order.
func insertPosition(index, n, k int) int {
	if index < 0 {
		return max(n+index+1, 0)
	}
	return min(index+k, n)
}

func isEdge(index int) bool {
	return index == 0 || index == -1
}

// Move removes up to count cards from the locations selected by from and
// inserts them into the locations selected by to. count -1 moves every
// available card.
//
// Removal is round-robin: one card from each source in resolved order,
// taken at fromIndex, repeating until count cards were taken or all sources
// are empty. Insertion is round-robin over the destinations at toIndex, in
// removal order. The moved card names are returned in removal order.
//
// Moving between a location and itself is only allowed as an edge move
// (both indices 0 or -1); anything else would be an in-place reorder.
func (t *Table) Move(from, to Selector, count, fromIndex, toIndex int) []string {
	srcs := t.a.resolve(KindLocation, from)
	dsts := t.a.resolve(KindLocation, to)
	if len(dsts) == 0 {
		Violate(ErrCodeMalformedSelector, "", "move destination %s resolves to no location", to)
	}
	for _, s := range srcs {
		if slices.Contains(dsts, s) && !(isEdge(fromIndex) && isEdge(toIndex)) {
			Violate(ErrCodeIllegalReorder, t.a.locations[s].name,
				"in-place move requires edge indices, got from=%d to=%d", fromIndex, toIndex)
		}
	}

	moved := t.take(srcs, count, fromIndex)
	t.place(moved, dsts, toIndex)
	t.notify("move")
	return t.namesOf(KindCard, moved)
}

// MoveCards moves the selected cards (up to count, -1 for all) from
// wherever they are into the locations selected by to, round-robin, in
// selector order.
func (t *Table) MoveCards(cards, to Selector, count, toIndex int) []string {
	picked := t.a.resolve(KindCard, cards)
	dsts := t.a.resolve(KindLocation, to)
	if len(dsts) == 0 {
		Violate(ErrCodeMalformedSelector, "", "move destination %s resolves to no location", to)
	}
	picked = uniq(picked)
	if count >= 0 && count < len(picked) {
		picked = picked[:count]
	}

	for _, ci := range picked {
		if slices.Contains(dsts, t.a.cards[ci].loc) && !isEdge(toIndex) {
			Violate(ErrCodeIllegalReorder, t.a.cards[ci].name,
				"in-place card move requires an edge index, got to=%d", toIndex)
		}
	}
	for _, ci := range picked {
		loc := &t.a.locations[t.a.cards[ci].loc]
		pos := slices.Index(loc.cards, ci)
		loc.cards = slices.Delete(loc.cards, pos, pos+1)
	}

	t.place(picked, dsts, toIndex)
	t.notify("moveCards")
	return t.namesOf(KindCard, picked)
}

// uniq drops repeated indexes, keeping the first occurrence of each.
func uniq(idx []int) []int {
	seen := make(map[int]bool, len(idx))
	out := make([]int, 0, len(idx))
	for _, i := range idx {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out
}

func (t *Table) take(srcs []int, count, fromIndex int) []int {
	limit := count
	if count < 0 {
		limit = math.MaxInt
	}

	var out []int
	for len(out) < limit {
		progressed := false
		for _, li := range srcs {
			if len(out) >= limit {
				break
			}
			loc := &t.a.locations[li]
			if len(loc.cards) == 0 {
				continue
			}
			pos := removePosition(fromIndex, len(loc.cards))
			out = append(out, loc.cards[pos])
			loc.cards = slices.Delete(loc.cards, pos, pos+1)
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return out
}

func (t *Table) place(cards, dsts []int, toIndex int) {
	inserted := make(map[int]int, len(dsts))
	for i, ci := range cards {
		li := dsts[i%len(dsts)]
		loc := &t.a.locations[li]
		pos := insertPosition(toIndex, len(loc.cards), inserted[li])
		loc.cards = slices.Insert(loc.cards, pos, ci)
		inserted[li]++
		t.a.cards[ci].loc = li
	}
}
