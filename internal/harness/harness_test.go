package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabletop/internal/playback"
)

func TestScenarios(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(context.Background(), s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"mancala-opening", "mancala-illegal-pit"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(filepath.Join("testdata/scenarios", name+".yaml"))
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestRun_ReportsFailedExpectations(t *testing.T) {
	position, finished := 9, true
	s := &Scenario{
		Name: "wrong",
		Game: "mancala",
		Seed: 1,
		Expect: Expect{
			Position: &position,
			Finished: &finished,
			Counts:   map[string]int{"s1": 3, "nowhere": 1},
			Values:   map[string]any{"moves": 2},
			Pending:  []string{"north"},
			Ranking:  []string{"north", "south"},
		},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.ElementsMatch(t, []string{
		"position: want 9, got 0",
		"finished: want true, got false",
		`counts: unknown location "nowhere"`,
		"counts[s1]: want 3, got 4",
		`values: "moves" is unset`,
		"pending: want [north], got [south]",
		"ranking: want [north south], got [south north]",
	}, result.Errors)
}

func TestRun_UnexpectedError(t *testing.T) {
	s := &Scenario{Name: "bad-log", Game: "mancala", Seed: 1,
		Answers: []playback.Entry{{Requester: "north", Answer: []string{"n1"}}}}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	require.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "unexpected error: log diverged at step 0")
}

func TestRun_UnknownGame(t *testing.T) {
	_, err := Run(context.Background(), &Scenario{Name: "x", Game: "chess"})
	assert.ErrorContains(t, err, `unknown game "chess"`)
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing name", "game: mancala\n", "name is required"},
		{"missing game", "name: x\n", "game is required"},
		{"unknown field", "name: x\ngame: mancala\nanswer: []\n", "field answer not found"},
		{"bad policy", "name: x\ngame: mancala\npolicy: most\n", "unknown resolve policy"},
		{"negative quota", "name: x\ngame: mancala\nmax_rounds: -1\n", "max_rounds"},
		{"empty requester", "name: x\ngame: mancala\nanswers:\n  - answer: [s1]\n", "answers[0]: requester is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
