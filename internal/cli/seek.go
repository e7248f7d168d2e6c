package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tabletop/internal/playback"
	"github.com/roach88/tabletop/internal/table"
)

// SeekOptions holds flags for the seek command.
type SeekOptions struct {
	*RootOptions
	storeFlags
	Step int
}

// SeekResult is the state of a session at one step.
type SeekResult struct {
	ID       string      `json:"id"`
	Game     string      `json:"game"`
	Step     int         `json:"step"`
	Steps    int         `json:"steps"`
	Digest   string      `json:"digest"`
	Recorded bool        `json:"matches_recorded"`
	Pending  []string    `json:"pending"`
	State    table.State `json:"state"`
}

// Text renders the result for text output.
func (r SeekResult) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "session %s (%s) at step %d of %d\n", r.ID, r.Game, r.Step, r.Steps)
	fmt.Fprintf(&b, "digest %s (matches recorded: %t)\n", r.Digest, r.Recorded)
	if len(r.Pending) > 0 {
		fmt.Fprintf(&b, "waiting on %s\n", strings.Join(r.Pending, ", "))
	}
	b.WriteString(r.State.Text())
	return b.String()
}

// NewSeekCommand creates the seek command.
func NewSeekCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeekOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seek",
		Short: "Show the table of a stored session at a given step",
		Long: `Re-run a stored session from its seed and stop after the given number
of log entries, then print the table.

Examples:
  tabletop seek --step 0
  tabletop seek --db ./tabletop.db --session 0190f3c2-... --step 12 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeek(cmd, opts)
		},
	}

	opts.storeFlags.register(cmd)
	cmd.Flags().IntVar(&opts.Step, "step", 0, "number of log entries to apply (required)")
	_ = cmd.MarkFlagRequired("step")

	return cmd
}

func runSeek(cmd *cobra.Command, opts *SeekOptions) error {
	if err := opts.setup(); err != nil {
		return err
	}
	ctx := context.Background()

	st, err := opts.open(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := opts.load(ctx, st)
	if err != nil {
		return err
	}
	art := sess.Artifact
	if opts.Step < 0 || opts.Step > len(art.Log) {
		return NewExitError(ExitCommandError, fmt.Sprintf("step %d out of range [0, %d]", opts.Step, len(art.Log)))
	}

	def, err := lookupGame(art.Game)
	if err != nil {
		return err
	}
	popts, err := opts.controllerOptions()
	if err != nil {
		return err
	}
	c, err := playback.New(def, art.Seed, append(popts, playback.WithLog(art.Log))...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create controller", err)
	}
	defer c.Close()

	if err := c.Seek(ctx, opts.Step); err != nil {
		return WrapExitError(ExitFailure, "seek failed", err)
	}

	digest, err := c.Table().Digest()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to digest state", err)
	}
	result := SeekResult{
		ID:       sess.ID,
		Game:     art.Game,
		Step:     c.Position(),
		Steps:    len(art.Log),
		Digest:   digest,
		Recorded: opts.Step < len(sess.Digests) && sess.Digests[opts.Step] == digest,
		Pending:  []string{},
		State:    c.Table().Export(),
	}
	for _, b := range c.Pending() {
		result.Pending = append(result.Pending, b.Requester)
	}
	return opts.formatter(cmd).Success(result)
}
