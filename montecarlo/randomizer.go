package montecarlo

import (
	"github.com/dreamtides/dreamtides/game"
)

// Randomize returns a copy of b in which player's hidden zones have been
// re-sampled: their hand is reshuffled into their deck and an equal-size
// hand redealt, and the unrevealed dreamwell is reshuffled within its
// phase groups. The input battle is never mutated. Deterministic for a
// given seed; callers pass a fresh seed per call to obtain independent
// samples of the information set.
func Randomize(b *game.Battle, player game.PlayerName, seed uint64) *game.Battle {
	st := b.Copy()
	st.ReshuffleHiddenZones(player, game.KeyedRNG(DeriveSeed(seed, 2)))
	st.Dreamwell.ShuffleUpcoming(game.KeyedRNG(DeriveSeed(seed, 3)))
	return st
}
