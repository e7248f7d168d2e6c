package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tabletop/internal/harness"
)

// ScenarioOutcome is the verdict for one scenario.
type ScenarioOutcome struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// ScenarioResult holds all scenario verdicts.
type ScenarioResult struct {
	Scenarios []ScenarioOutcome `json:"scenarios"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
}

// Text renders the result for text output.
func (r ScenarioResult) Text() string {
	var b strings.Builder
	for _, s := range r.Scenarios {
		status := "PASS"
		if !s.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "%s  %s\n", status, s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "    %s\n", e)
		}
	}
	fmt.Fprintf(&b, "%d passed, %d failed\n", r.Passed, r.Failed)
	return b.String()
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario <file-or-dir>...",
		Short: "Run scenario files",
		Long: `Replay the answer log of each scenario and check its expectations.
Directories are expanded to the *.yaml files they contain.

Exit codes:
  0 - All scenarios passed
  1 - A scenario failed
  2 - Command error (unreadable or invalid scenario file)

Examples:
  tabletop scenario testdata/scenarios
  tabletop scenario opening.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, rootOpts, args)
		},
	}
	return cmd
}

func runScenario(cmd *cobra.Command, opts *RootOptions, paths []string) error {
	if err := opts.setup(); err != nil {
		return err
	}
	ctx := context.Background()
	f := opts.formatter(cmd)

	var scenarios []*harness.Scenario
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read scenario", err)
		}
		if info.IsDir() {
			loaded, err := harness.LoadDir(p)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load scenarios", err)
			}
			scenarios = append(scenarios, loaded...)
			continue
		}
		s, err := harness.LoadScenario(p)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", p), err)
		}
		scenarios = append(scenarios, s)
	}

	popts, err := opts.controllerOptions()
	if err != nil {
		return err
	}
	result := ScenarioResult{Scenarios: []ScenarioOutcome{}}
	for _, s := range scenarios {
		f.VerboseLog("running %s (%s, seed %d, %d answers)", s.Name, s.Game, s.Seed, len(s.Answers))
		r, err := harness.Run(ctx, s, popts...)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("scenario %s", s.Name), err)
		}
		result.Scenarios = append(result.Scenarios, ScenarioOutcome{Name: s.Name, Pass: r.Pass, Errors: r.Errors})
		if r.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if err := f.Success(result); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}
