package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/tabletop/internal/playback"
	"github.com/roach88/tabletop/internal/replaystore"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	storeFlags
	All bool
}

// ReplaySessionResult is the verdict for one stored session.
type ReplaySessionResult struct {
	ID            string `json:"id"`
	Game          string `json:"game"`
	Steps         int    `json:"steps"`
	Finished      bool   `json:"finished"`
	Digest        string `json:"digest,omitempty"`
	Deterministic bool   `json:"deterministic"`
	Error         string `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// Text renders the result for text output.
func (r ReplayResult) Text() string {
	if len(r.Sessions) == 0 {
		return "No sessions found in database.\n"
	}
	var b strings.Builder
	for _, s := range r.Sessions {
		status := "ok"
		if !s.Deterministic {
			status = "DIVERGED"
		}
		fmt.Fprintf(&b, "%s  %s  %d steps  finished=%t  %s\n", s.ID, s.Game, s.Steps, s.Finished, status)
		if s.Error != "" {
			fmt.Fprintf(&b, "    %s\n", s.Error)
		}
	}
	if r.AllDeterministic {
		b.WriteString("All sessions replay deterministically.\n")
	}
	return b.String()
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay stored sessions and verify determinism",
		Long: `Replay stored sessions from their seed and answer log. Every session
is replayed twice and each step's state digest is compared with the
digests stored when the session was recorded.

Exit codes:
  0 - All sessions are deterministic
  1 - A replay diverged
  2 - Command error (database not found, etc.)

Examples:
  tabletop replay --db ./tabletop.db
  tabletop replay --db ./tabletop.db --session 0190f3c2-...
  tabletop replay --all --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, opts)
		},
	}

	opts.storeFlags.register(cmd)
	cmd.Flags().BoolVar(&opts.All, "all", false, "replay every stored session")

	return cmd
}

func runReplay(cmd *cobra.Command, opts *ReplayOptions) error {
	if err := opts.setup(); err != nil {
		return err
	}
	ctx := context.Background()

	st, err := opts.open(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	var sessions []replaystore.Session
	if opts.All {
		summaries, err := st.List(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		for _, sum := range summaries {
			sess, err := st.Load(ctx, sum.ID)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load session", err)
			}
			sessions = append(sessions, sess)
		}
	} else {
		sess, err := opts.load(ctx, st)
		if err != nil {
			return err
		}
		sessions = append(sessions, sess)
	}

	result := ReplayResult{Sessions: []ReplaySessionResult{}, AllDeterministic: true}
	for _, sess := range sessions {
		r, err := verifySession(ctx, opts.RootOptions, sess)
		if err != nil {
			return err
		}
		if !r.Deterministic {
			result.AllDeterministic = false
		}
		result.Sessions = append(result.Sessions, r)
	}

	if err := opts.formatter(cmd).Success(result); err != nil {
		return err
	}
	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay diverged")
	}
	return nil
}

// verifySession replays sess twice and checks the replays against each
// other and against the stored digests.
func verifySession(ctx context.Context, o *RootOptions, sess replaystore.Session) (ReplaySessionResult, error) {
	r := ReplaySessionResult{ID: sess.ID, Game: sess.Artifact.Game, Steps: len(sess.Artifact.Log)}
	def, err := lookupGame(sess.Artifact.Game)
	if err != nil {
		return r, err
	}
	popts, err := o.controllerOptions()
	if err != nil {
		return r, err
	}

	report, err := playback.Verify(ctx, def, sess.Artifact, popts...)
	if err != nil {
		r.Error = err.Error()
		o.Logger.Warn("replay diverged", zap.String("id", sess.ID), zap.Error(err))
		return r, nil
	}
	r.Finished = report.Finished
	r.Digest = report.Digest

	c, err := playback.Replay(ctx, def, sess.Artifact, popts...)
	if err != nil {
		r.Error = err.Error()
		return r, nil
	}
	defer c.Close()
	if step, ok := firstMismatch(c.Digests(), sess.Digests); !ok {
		r.Error = fmt.Sprintf("state at step %d differs from the recorded state", step)
		return r, nil
	}
	r.Deterministic = true
	return r, nil
}

func firstMismatch(got, want []string) (int, bool) {
	for i := range min(len(got), len(want)) {
		if got[i] != want[i] {
			return i, false
		}
	}
	if len(got) != len(want) {
		return min(len(got), len(want)), false
	}
	return 0, true
}
