package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/tabletop/internal/games"
	"github.com/roach88/tabletop/internal/playback"
	"github.com/roach88/tabletop/internal/replaystore"
	"github.com/roach88/tabletop/internal/source"
	"github.com/roach88/tabletop/internal/table"
)

// storeFlags are shared by commands that read the replay database.
type storeFlags struct {
	Database string
	Session  string
}

func (s *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.Database, "db", "", "path to the replay database (default from config)")
	cmd.Flags().StringVar(&s.Session, "session", "", "session id (default: latest)")
}

func (s *storeFlags) open(o *RootOptions) (*replaystore.Store, error) {
	path := s.Database
	if path == "" {
		path = o.Config.Database
	}
	st, err := replaystore.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// load returns the selected session, or the latest one.
func (s *storeFlags) load(ctx context.Context, st *replaystore.Store) (replaystore.Session, error) {
	var (
		sess replaystore.Session
		err  error
	)
	if s.Session != "" {
		sess, err = st.Load(ctx, s.Session)
	} else {
		sess, err = st.Latest(ctx)
	}
	if errors.Is(err, replaystore.ErrNotFound) {
		return sess, WrapExitError(ExitCommandError, "no such session", err)
	}
	if err != nil {
		return sess, WrapExitError(ExitCommandError, "failed to load session", err)
	}
	return sess, nil
}

// controllerOptions maps configuration to playback options.
func (o *RootOptions) controllerOptions() ([]playback.Option, error) {
	policy, err := o.Config.Playback.Policy()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid resolve policy", err)
	}
	return []playback.Option{
		playback.WithLogger(o.Logger),
		playback.WithMaxRounds(o.Config.Playback.MaxRounds),
		playback.WithPolicy(policy),
	}, nil
}

func lookupGame(name string) (playback.Definition, error) {
	def, err := games.Lookup(name)
	if err != nil {
		return def, WrapExitError(ExitCommandError, "invalid game", err)
	}
	return def, nil
}

// randomSources seats one seeded random source per player of def.
func randomSources(def playback.Definition, seed uint64) map[string]playback.Source {
	t := table.New(seed)
	def.Setup(t)
	return source.ForPlayers(t.Players(), func(i int, _ string) playback.Source {
		return source.NewRandom(seed*100 + uint64(i))
	})
}

func standingsOf(ranking []playback.Standing) []playback.Standing {
	if ranking == nil {
		return []playback.Standing{}
	}
	return ranking
}
