package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tabletop/internal/layout"
	"github.com/roach88/tabletop/internal/table"
)

// LayoutResult summarizes a compiled layout.
type LayoutResult struct {
	Name      string          `json:"name"`
	Players   []string        `json:"players"`
	Locations []LocationCount `json:"locations"`
	Cards     int             `json:"cards"`
	Sectors   []string        `json:"sectors"`
	Edges     int             `json:"edges"`
	Digest    string          `json:"digest"`
}

// LocationCount is a location with its starting card count.
type LocationCount struct {
	Name  string `json:"name"`
	Cards int    `json:"cards"`
}

// Text renders the result for text output.
func (r LayoutResult) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "layout %s: %d players, %d locations, %d cards\n", r.Name, len(r.Players), len(r.Locations), r.Cards)
	fmt.Fprintf(&b, "players: %s\n", strings.Join(r.Players, ", "))
	for _, l := range r.Locations {
		fmt.Fprintf(&b, "  %s: %d\n", l.Name, l.Cards)
	}
	if len(r.Sectors) > 0 {
		fmt.Fprintf(&b, "graph: %d sectors, %d edges\n", len(r.Sectors), r.Edges)
	}
	fmt.Fprintf(&b, "digest %s\n", r.Digest)
	return b.String()
}

// NewLayoutCommand creates the layout command.
func NewLayoutCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout <file.cue>",
		Short: "Validate a CUE table layout",
		Long: `Compile a CUE table layout, set up a table from it and print a summary.

Examples:
  tabletop layout ./draft.cue
  tabletop layout ./draft.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runLayout(cmd *cobra.Command, opts *RootOptions, path string) error {
	if err := opts.setup(); err != nil {
		return err
	}

	l, err := layout.Load(path)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid layout", err)
	}
	g, err := l.Graph()
	if err != nil {
		return WrapExitError(ExitFailure, "invalid graph", err)
	}

	t := table.New(opts.Config.Seed)
	l.Setup(t)
	digest, err := t.Digest()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to digest layout", err)
	}

	result := LayoutResult{
		Name:      l.Name,
		Players:   t.Players(),
		Locations: []LocationCount{},
		Cards:     len(l.Cards),
		Sectors:   g.Sectors(),
		Edges:     len(l.Edges),
		Digest:    digest,
	}
	for _, loc := range t.Locations() {
		result.Locations = append(result.Locations, LocationCount{Name: loc, Cards: t.Count(table.Name(loc))})
	}
	return opts.formatter(cmd).Success(result)
}
