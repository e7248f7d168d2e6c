package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDigest(t *testing.T, tb *Table) string {
	t.Helper()
	d, err := tb.Digest()
	require.NoError(t, err)
	return d
}

func TestSnapshot_ImmediateRollbackIsNoop(t *testing.T) {
	tb := newABTable()
	tb.AddPlayer("p", Data{"coins": 4})
	tb.SetValue("round", 1)

	before := tb.Export()
	digest := mustDigest(t, tb)

	tb.Rollback(tb.TakeSnapshot())

	assert.Equal(t, before, tb.Export())
	assert.Equal(t, digest, mustDigest(t, tb))
}

func TestSnapshot_RollbackUndoesEverything(t *testing.T) {
	tb := newABTable()
	tb.AddPlayer("p", Data{"coins": 4, "hand": []any{"x", map[string]any{"k": 1}}})
	tb.SetValue("round", 1)

	snap := tb.TakeSnapshot()
	before := tb.Export()

	tb.Move(Names("a", "b"), Name("c"), -1, -1, -1)
	tb.Shuffle(Name("c"))
	tb.MergePlayerData("p", Data{"coins": 0, "bid": 3})
	tb.MergeCardData("a1", Data{"face": "up"})
	tb.MergeLocationData("d", Data{"locked": true})
	tb.AddCard("d", "late", nil, -1)
	tb.AddInt("round", 5)
	tb.SetValue("phase", "end")
	require.NotEqual(t, before, tb.Export())

	tb.Rollback(snap)

	assert.Equal(t, before, tb.Export())
	assert.False(t, tb.Has("late"), "cards added after the snapshot must disappear")
	assert.Equal(t, "a", tb.LocationOf("a1"))

	// Names released by the rollback can be reused.
	tb.AddCard("d", "late", nil, -1)
	assert.Equal(t, []string{"late"}, tb.Cards(Name("d")))
}

func TestSnapshot_IsImmutable(t *testing.T) {
	tb := newABTable()
	snap := tb.TakeSnapshot()
	before := tb.Export()

	tb.Rollback(snap)
	tb.Move(Name("a"), Name("c"), -1, -1, -1)
	tb.Rollback(snap)

	assert.Equal(t, before, tb.Export(), "rolling back twice to the same snapshot must give the same state")
}

func TestSnapshot_NestedPayloadsAreDeepCopied(t *testing.T) {
	tb := New(1)
	tb.AddPlayer("p", Data{"hand": []any{"x"}})
	snap := tb.TakeSnapshot()

	tb.MergePlayerData("p", Data{"hand": []any{"y", "z"}})
	tb.Rollback(snap)

	assert.Equal(t, []any{"x"}, tb.PlayerData("p")["hand"])
}

func TestRollback_AdvancesEpoch(t *testing.T) {
	tb := New(1)
	assert.Equal(t, uint64(0), tb.Epoch())

	tb.Rollback(tb.TakeSnapshot())

	assert.Equal(t, uint64(1), tb.Epoch())
}

func TestRollback_DiscardsOnlyRoundsAfterSnapshot(t *testing.T) {
	tb := New(1)
	before := tb.NextRound()
	outer := tb.TakeSnapshot()
	mid := tb.NextRound()
	inner := tb.TakeSnapshot()
	late := tb.NextRound()

	tb.Rollback(inner)
	assert.False(t, tb.RoundDiscarded(before))
	assert.False(t, tb.RoundDiscarded(mid))
	assert.True(t, tb.RoundDiscarded(late))

	tb.Rollback(outer)
	assert.False(t, tb.RoundDiscarded(before))
	assert.True(t, tb.RoundDiscarded(mid))
	assert.True(t, tb.RoundDiscarded(late))

	assert.False(t, tb.RoundDiscarded(tb.NextRound()))
}

func TestDigest_DetectsOrderChanges(t *testing.T) {
	a := newABTable()
	b := newABTable()
	assert.Equal(t, mustDigest(t, a), mustDigest(t, b))

	b.Move(Name("a"), Name("a"), 1, -1, 0)
	assert.NotEqual(t, mustDigest(t, a), mustDigest(t, b))
}

func TestState_Text(t *testing.T) {
	tb := newABTable()
	tb.AddPlayer("p", nil)
	tb.SetValue("round", 2)

	want := "location a (3): a1 a2 a3\n" +
		"location b (2): b1 b2\n" +
		"location c (0):\n" +
		"location d (0):\n" +
		"player p\n" +
		"value round = 2\n"
	assert.Equal(t, want, tb.Export().Text())
}
