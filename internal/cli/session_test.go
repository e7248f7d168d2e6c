package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabletop/internal/playback"
	"github.com/roach88/tabletop/internal/replaystore"
)

func decode[T any](t *testing.T, stdout string) T {
	t.Helper()
	var resp struct {
		Status string `json:"status"`
		Data   T      `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), stdout)
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestPlayReplaySeek(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tabletop.db")

	stdout, stderr, code := execute(t, "play", "--game", "mancala", "--seed", "7", "--db", db, "--id", "game-1", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)
	played := decode[PlayResult](t, stdout)
	assert.Equal(t, "game-1", played.ID)
	assert.Equal(t, "mancala", played.Game)
	assert.Equal(t, uint64(7), played.Seed)
	assert.True(t, played.Finished)
	assert.Positive(t, played.Steps)
	require.Len(t, played.Ranking, 2)

	stdout, stderr, code = execute(t, "replay", "--db", db, "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)
	replayed := decode[ReplayResult](t, stdout)
	require.Len(t, replayed.Sessions, 1)
	assert.True(t, replayed.AllDeterministic)
	assert.Equal(t, played.Digest, replayed.Sessions[0].Digest)
	assert.Empty(t, replayed.Sessions[0].Error)

	stdout, stderr, code = execute(t, "seek", "--db", db, "--session", "game-1", "--step", "2", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)
	sought := decode[SeekResult](t, stdout)
	assert.Equal(t, 2, sought.Step)
	assert.Equal(t, played.Steps, sought.Steps)
	assert.True(t, sought.Recorded)

	stdout, stderr, code = execute(t, "seek", "--db", db, "--step", "0")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "session game-1 (mancala) at step 0")
	assert.Contains(t, stdout, "waiting on south")
}

func TestPlay_NoSaveLeavesDatabaseAlone(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tabletop.db")

	stdout, stderr, code := execute(t, "play", "--game", "auction", "--seed", "2", "--db", db, "--no-save")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "game auction, seed 2")
	assert.NotContains(t, stdout, "session ")

	st, err := replaystore.Open(db)
	require.NoError(t, err)
	defer st.Close()
	list, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPlay_UnknownGame(t *testing.T) {
	_, stderr, code := execute(t, "play", "--game", "chess", "--no-save")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, `unknown game "chess"`)
}

func TestPlay_MissingGameFlag(t *testing.T) {
	_, stderr, code := execute(t, "play")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "required flag")
}

func TestPlay_RoundQuota(t *testing.T) {
	_, stderr, code := execute(t, "play", "--game", "mancala", "--max-rounds", "2", "--no-save")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "session failed")
}

func TestReplay_DetectsTamperedDigests(t *testing.T) {
	ctx := context.Background()
	db := filepath.Join(t.TempDir(), "tabletop.db")
	st, err := replaystore.Open(db)
	require.NoError(t, err)

	art := playback.Artifact{Game: "mancala", Seed: 1, Log: []playback.Entry{{Requester: "south", Answer: []string{"s3"}}}}
	require.NoError(t, st.Save(ctx, "tampered", art, []string{"bogus-0", "bogus-1"}))
	require.NoError(t, st.Close())

	stdout, _, code := execute(t, "replay", "--db", db, "--session", "tampered")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "DIVERGED")
	assert.Contains(t, stdout, "state at step 0 differs")
}

func TestReplay_EmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tabletop.db")
	stdout, stderr, code := execute(t, "replay", "--db", db, "--all")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "No sessions found in database.\n", stdout)
}

func TestReplay_MissingSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tabletop.db")
	_, stderr, code := execute(t, "replay", "--db", db, "--session", "nope")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "no such session")
}

func TestSeek_OutOfRange(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tabletop.db")
	_, stderr, code := execute(t, "play", "--game", "mancala", "--db", db)
	require.Equal(t, ExitSuccess, code, stderr)

	_, stderr, code = execute(t, "seek", "--db", db, "--step", "100000")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "out of range")
}
