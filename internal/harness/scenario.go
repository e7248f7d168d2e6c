package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tabletop/internal/pick"
	"github.com/roach88/tabletop/internal/playback"
)

// Scenario is a game, a seed and an answer log, plus what the table must
// look like once the log is replayed.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Game is a name registered in the games package.
	Game string `yaml:"game"`

	Seed uint64 `yaml:"seed"`

	// Policy is "first" (default) or "all".
	Policy string `yaml:"policy,omitempty"`

	// MaxRounds overrides the round quota when positive.
	MaxRounds int `yaml:"max_rounds,omitempty"`

	Answers []playback.Entry `yaml:"answers"`

	Expect Expect `yaml:"expect"`
}

// Expect lists the checks applied after the replay. Nil and empty fields
// are not checked.
type Expect struct {
	Position *int           `yaml:"position,omitempty"`
	Finished *bool          `yaml:"finished,omitempty"`
	Mode     string         `yaml:"mode,omitempty"`
	Counts   map[string]int `yaml:"counts,omitempty"`
	Values   map[string]any `yaml:"values,omitempty"`
	Pending  []string       `yaml:"pending,omitempty"`
	Ranking  []string       `yaml:"ranking,omitempty"`

	// Error is a substring the replay error must contain.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml file in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		out = append(out, s)
	}
	return out, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Game == "" {
		return fmt.Errorf("game is required")
	}
	if _, err := pick.ParsePolicy(s.Policy); err != nil {
		return err
	}
	if s.MaxRounds < 0 {
		return fmt.Errorf("max_rounds must not be negative")
	}
	for i, a := range s.Answers {
		if a.Requester == "" {
			return fmt.Errorf("answers[%d]: requester is required", i)
		}
	}
	return nil
}
