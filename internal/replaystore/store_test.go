package replaystore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabletop/internal/playback"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testArtifact() (playback.Artifact, []string) {
	art := playback.Artifact{
		Game: "mancala",
		Seed: 18446744073709551615,
		Log: []playback.Entry{
			{Requester: "south", Answer: []string{"s3"}},
			{Requester: "south", Answer: []string{"s1"}},
			{Requester: "north", Answer: []string{"n2", "n4"}},
		},
	}
	return art, []string{"d0", "d1", "d2", "d3"}
}

func TestOpen_CreatesDatabaseWithPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replays.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)

	mode, err := s.pragma("journal_mode")
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)
	fk, err := s.pragma("foreign_keys")
	require.NoError(t, err)
	assert.Equal(t, "1", fk)
	version, err := s.pragma("user_version")
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replays.db")
	s1, err := Open(path)
	require.NoError(t, err)
	art, digests := testArtifact()
	require.NoError(t, s1.Save(context.Background(), "a", art, digests))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.Load(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, art, got.Artifact)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	art, digests := testArtifact()

	require.NoError(t, s.Save(ctx, "session-1", art, digests))
	got, err := s.Load(ctx, "session-1")
	require.NoError(t, err)

	assert.Equal(t, "session-1", got.ID)
	assert.Equal(t, art, got.Artifact)
	assert.Equal(t, digests, got.Digests)
}

func TestSave_RejectsMisalignedDigests(t *testing.T) {
	s := createTestStore(t)
	art, _ := testArtifact()

	err := s.Save(context.Background(), "x", art, []string{"d0"})
	assert.ErrorContains(t, err, "1 digests for 3 answers")
}

func TestSave_DuplicateIDFailsAtomically(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	art, digests := testArtifact()
	require.NoError(t, s.Save(ctx, "dup", art, digests))

	other := playback.Artifact{Game: "auction", Seed: 1, Log: []playback.Entry{{Requester: "p1", Answer: []string{"0"}}}}
	assert.Error(t, s.Save(ctx, "dup", other, []string{"x", "y"}))

	got, err := s.Load(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, art, got.Artifact)
}

func TestLoad_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), "nope"), ErrNotFound)
}

func TestListLatestDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	gen := NewFixedGenerator("first", "second")
	art, digests := testArtifact()

	require.NoError(t, s.Save(ctx, gen.Generate(), art, digests))
	empty := playback.Artifact{Game: "auction", Seed: 7, Log: nil}
	require.NoError(t, s.Save(ctx, gen.Generate(), empty, []string{"e0"}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Summary{
		{ID: "first", Game: "mancala", Seed: art.Seed, Steps: 3, Digest: "d3"},
		{ID: "second", Game: "auction", Seed: 7, Steps: 0, Digest: "e0"},
	}, list)

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", latest.ID)
	assert.Empty(t, latest.Artifact.Log)
	assert.Equal(t, []string{"e0"}, latest.Digests)

	require.NoError(t, s.Delete(ctx, "first"))
	_, err = s.Load(ctx, "first")
	assert.ErrorIs(t, err, ErrNotFound)

	var answers int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM answers`).Scan(&answers))
	assert.Equal(t, 0, answers, "answers cascade with their session")
}

func TestGenerators(t *testing.T) {
	id := UUIDv7Generator{}.Generate()
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, UUIDv7Generator{}.Generate())

	gen := NewFixedGenerator("only")
	assert.Equal(t, "only", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}
