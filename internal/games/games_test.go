package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"auction", "mancala"}, Names())

	def, err := Lookup("mancala")
	require.NoError(t, err)
	assert.Equal(t, "mancala", def.Name)
	assert.NotNil(t, def.Rules)

	_, err = Lookup("chess")
	assert.ErrorContains(t, err, `unknown game "chess" (available: auction, mancala)`)
}
