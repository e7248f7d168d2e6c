package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabletop/internal/pick"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), cfg.Seed)
	assert.Equal(t, "tabletop.db", cfg.Database)
	assert.Equal(t, LoggingConfig{Level: "info", Format: "text"}, cfg.Logging)
	assert.Equal(t, 10000, cfg.Playback.MaxRounds)

	policy, err := cfg.Playback.Policy()
	require.NoError(t, err)
	assert.Equal(t, pick.ResolveFirst, policy)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabletop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
seed: 42
database: games.db
logging:
  level: debug
  format: json
playback:
  max_rounds: 50
  resolve: all
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "games.db", cfg.Database)
	assert.Equal(t, LoggingConfig{Level: "debug", Format: "json"}, cfg.Logging)
	assert.Equal(t, PlaybackConfig{MaxRounds: 50, Resolve: "all"}, cfg.Playback)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TABLETOP_SEED", "9")
	t.Setenv("TABLETOP_PLAYBACK_MAX_ROUNDS", "12")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, 12, cfg.Playback.MaxRounds)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Database: "",
		Logging:  LoggingConfig{Level: "loud", Format: "xml"},
		Playback: PlaybackConfig{MaxRounds: 0, Resolve: "most"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"database must not be empty",
		`unknown logging.level "loud"`,
		`unknown logging.format "xml"`,
		"playback.max_rounds must be positive",
		"playback.resolve",
	} {
		assert.ErrorContains(t, err, want)
	}
}
