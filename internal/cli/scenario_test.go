package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioCommand_Directory(t *testing.T) {
	stdout, stderr, code := execute(t, "scenario", filepath.Join("..", "harness", "testdata", "scenarios"))
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "PASS  mancala-opening")
	assert.Contains(t, stdout, "0 failed")
}

func TestScenarioCommand_Failure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrong.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: wrong
game: mancala
seed: 1
answers:
  - requester: south
    answer: [s2]
expect:
  pending: [south]
`), 0o644))

	stdout, _, code := execute(t, "scenario", path, "--format", "json")
	assert.Equal(t, ExitFailure, code)
	result := decode[ScenarioResult](t, stdout)
	assert.Equal(t, 0, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"pending: want [south], got [north]"}, result.Scenarios[0].Errors)
}

func TestScenarioCommand_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\ngame: mancala\nanswrs: []\n"), 0o644))

	_, stderr, code := execute(t, "scenario", path)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "answrs")
}

func TestScenarioCommand_RequiresArgs(t *testing.T) {
	_, _, code := execute(t, "scenario")
	assert.Equal(t, ExitCommandError, code)
}
