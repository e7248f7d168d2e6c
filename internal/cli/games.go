package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tabletop/internal/games"
)

// GameList names the registered games.
type GameList struct {
	Games []string `json:"games"`
}

// Text renders the list one game per line.
func (l GameList) Text() string {
	return strings.Join(l.Games, "\n") + "\n"
}

// NewGamesCommand creates the games command.
func NewGamesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "games",
		Short:         "List the games that can be played",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rootOpts.setup(); err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Success(GameList{Games: games.Names()})
		},
	}
}
