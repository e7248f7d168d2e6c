// Package games registers the bundled rule modules by name.
package games

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/tabletop/internal/games/auction"
	"github.com/roach88/tabletop/internal/games/mancala"
	"github.com/roach88/tabletop/internal/playback"
)

var registry = map[string]func() playback.Definition{
	auction.Name: auction.Definition,
	mancala.Name: mancala.Definition,
}

// Lookup returns the definition of the named game.
func Lookup(name string) (playback.Definition, error) {
	def, ok := registry[name]
	if !ok {
		return playback.Definition{}, fmt.Errorf("unknown game %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return def(), nil
}

// Names lists the registered games in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
