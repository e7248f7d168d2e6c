package table

import "slices"

// CardView is a read-only view of a card used by Sort comparators.
// Data is the live payload and must not be modified.
type CardView struct {
	Name string
	Data Data
}

// Shuffle randomizes the order of each selected location using the table RNG.
func (t *Table) Shuffle(locations Selector) {
	for _, li := range t.a.resolve(KindLocation, locations) {
		cards := t.a.locations[li].cards
		t.rng.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})
	}
	t.notify("shuffle")
}

// Reverse reverses the order of each selected location.
func (t *Table) Reverse(locations Selector) {
	for _, li := range t.a.resolve(KindLocation, locations) {
		slices.Reverse(t.a.locations[li].cards)
	}
	t.notify("reverse")
}

// Sort stably sorts each selected location bottom to top by cmp.
func (t *Table) Sort(locations Selector, cmp func(a, b CardView) int) {
	for _, li := range t.a.resolve(KindLocation, locations) {
		slices.SortStableFunc(t.a.locations[li].cards, func(x, y int) int {
			return cmp(t.view(x), t.view(y))
		})
	}
	t.notify("sort")
}

// Swap exchanges the cards at positions i and j of each selected location.
// Positions use the Move index conventions but must exist.
func (t *Table) Swap(locations Selector, i, j int) {
	for _, li := range t.a.resolve(KindLocation, locations) {
		loc := &t.a.locations[li]
		n := len(loc.cards)
		pi, pj := absolute(i, n), absolute(j, n)
		if pi < 0 || pi >= n || pj < 0 || pj >= n {
			Violate(ErrCodeIndexOutOfRange, loc.name, "swap %d,%d in a location of %d cards", i, j, n)
		}
		loc.cards[pi], loc.cards[pj] = loc.cards[pj], loc.cards[pi]
	}
	t.notify("swap")
}

func absolute(index, n int) int {
	if index < 0 {
		return n + index
	}
	return index
}

func (t *Table) view(ci int) CardView {
	rec := t.a.cards[ci]
	return CardView{Name: rec.name, Data: rec.data}
}
