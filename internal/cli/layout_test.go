package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutCommand(t *testing.T) {
	stdout, stderr, code := execute(t, "layout", filepath.Join("..", "layout", "testdata", "draft.cue"), "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)

	result := decode[LayoutResult](t, stdout)
	assert.Equal(t, "draft", result.Name)
	assert.Equal(t, []string{"alice", "bob"}, result.Players)
	assert.Equal(t, 6, result.Cards)
	assert.Equal(t, []string{"alice-hand", "bob-hand", "table"}, result.Sectors)
	assert.Equal(t, 2, result.Edges)
	assert.Equal(t, LocationCount{Name: "deck", Cards: 6}, result.Locations[0])
	assert.NotEmpty(t, result.Digest)
}

func TestLayoutCommand_Text(t *testing.T) {
	stdout, stderr, code := execute(t, "layout", filepath.Join("..", "layout", "testdata", "draft.cue"))
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "layout draft: 2 players, 4 locations, 6 cards")
	assert.Contains(t, stdout, "graph: 3 sectors, 2 edges")
}

func TestLayoutCommand_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(`layout: {
	name: "bad"
	cards: [{name: "c", location: "nowhere"}]
}
`), 0o644))

	_, stderr, code := execute(t, "layout", path)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "invalid layout")
	assert.Contains(t, stderr, `"nowhere"`)
}
