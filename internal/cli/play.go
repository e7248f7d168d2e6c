package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/tabletop/internal/pick"
	"github.com/roach88/tabletop/internal/playback"
	"github.com/roach88/tabletop/internal/replaystore"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Game      string
	Seed      uint64
	Database  string
	MaxRounds int
	Resolve   string
	ID        string
	NoSave    bool
}

// PlayResult summarizes a recorded session.
type PlayResult struct {
	ID       string              `json:"id,omitempty"`
	Game     string              `json:"game"`
	Seed     uint64              `json:"seed"`
	Steps    int                 `json:"steps"`
	Finished bool                `json:"finished"`
	Digest   string              `json:"digest"`
	Ranking  []playback.Standing `json:"ranking"`
}

// Text renders the result for text output.
func (r PlayResult) Text() string {
	var b strings.Builder
	if r.ID != "" {
		fmt.Fprintf(&b, "session %s\n", r.ID)
	}
	fmt.Fprintf(&b, "game %s, seed %d: %d steps, finished=%t\n", r.Game, r.Seed, r.Steps, r.Finished)
	fmt.Fprintf(&b, "digest %s\n", r.Digest)
	writeRanking(&b, r.Ranking)
	return b.String()
}

func writeRanking(b *strings.Builder, ranking []playback.Standing) {
	for _, st := range ranking {
		fmt.Fprintf(b, "  %d. %s %v\n", st.Rank, st.Player, st.Score)
	}
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Record a session with seeded random players",
		Long: `Record a session of a game in which every player answers with a
seeded random decision source, then store its replay artifact.

Examples:
  tabletop play --game mancala --seed 7
  tabletop play --game auction --seed 3 --db ./games.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Game, "game", "", "game to play (required)")
	_ = cmd.MarkFlagRequired("game")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "session seed (default from config)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the replay database (default from config)")
	cmd.Flags().IntVar(&opts.MaxRounds, "max-rounds", 0, "round quota (default from config)")
	cmd.Flags().StringVar(&opts.Resolve, "resolve", "", "resolve policy: first or all (default from config)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "session id (default: a new UUIDv7)")
	cmd.Flags().BoolVar(&opts.NoSave, "no-save", false, "do not store the session")

	return cmd
}

func runPlay(cmd *cobra.Command, opts *PlayOptions) error {
	if err := opts.setup(); err != nil {
		return err
	}
	ctx := context.Background()

	def, err := lookupGame(opts.Game)
	if err != nil {
		return err
	}
	seed := opts.Config.Seed
	if cmd.Flags().Changed("seed") {
		seed = opts.Seed
	}
	popts, err := opts.controllerOptions()
	if err != nil {
		return err
	}
	if opts.MaxRounds > 0 {
		popts = append(popts, playback.WithMaxRounds(opts.MaxRounds))
	}
	if opts.Resolve != "" {
		policy, err := pick.ParsePolicy(opts.Resolve)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid resolve policy", err)
		}
		popts = append(popts, playback.WithPolicy(policy))
	}
	popts = append(popts, playback.WithSources(randomSources(def, seed)))

	c, err := playback.New(def, seed, popts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create controller", err)
	}
	defer c.Close()

	if err := c.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "session failed", err)
	}

	digests := c.Digests()
	result := PlayResult{
		Game:     def.Name,
		Seed:     seed,
		Steps:    c.Position(),
		Finished: c.Finished(),
		Digest:   digests[len(digests)-1],
		Ranking:  standingsOf(c.Ranking()),
	}

	if !opts.NoSave {
		st, err := (&storeFlags{Database: opts.Database}).open(opts.RootOptions)
		if err != nil {
			return err
		}
		defer st.Close()

		result.ID = opts.ID
		if result.ID == "" {
			result.ID = replaystore.UUIDv7Generator{}.Generate()
		}
		if err := st.Save(ctx, result.ID, c.Artifact(), digests); err != nil {
			return WrapExitError(ExitCommandError, "failed to save session", err)
		}
		opts.Logger.Info("session saved", zap.String("id", result.ID), zap.Int("steps", result.Steps))
	}

	return opts.formatter(cmd).Success(result)
}
