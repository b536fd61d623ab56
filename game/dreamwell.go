package game

import "lukechampine.com/frand"

// DreamwellCard is one entry of the shared dreamwell sequence. Energy is
// the production level it grants when revealed; Phase is the grouping the
// sequence must preserve when reshuffled.
type DreamwellCard struct {
	Energy int
	Phase  int
}

// Dreamwell is the shared ordered sequence of energy cards. Position marks
// how many have been revealed; the revealed prefix is public, the rest is
// hidden. One card is revealed at the start of every turn; past the end,
// the last card repeats.
type Dreamwell struct {
	Cards    []DreamwellCard
	Position int
}

func newDreamwell() Dreamwell {
	cards := []DreamwellCard{
		{Energy: 1, Phase: 1}, {Energy: 1, Phase: 1},
		{Energy: 2, Phase: 2}, {Energy: 3, Phase: 2},
		{Energy: 3, Phase: 3}, {Energy: 4, Phase: 3},
		{Energy: 4, Phase: 4}, {Energy: 5, Phase: 4},
		{Energy: 5, Phase: 5}, {Energy: 6, Phase: 5},
		{Energy: 6, Phase: 6}, {Energy: 7, Phase: 6},
	}
	return Dreamwell{Cards: cards}
}

func (d Dreamwell) copy() Dreamwell {
	d.Cards = append([]DreamwellCard(nil), d.Cards...)
	return d
}

// Upcoming returns the unrevealed portion.
func (d *Dreamwell) Upcoming() []DreamwellCard {
	return d.Cards[min(d.Position, len(d.Cards)):]
}

func (d *Dreamwell) reveal() int {
	if d.Position >= len(d.Cards) {
		return d.Cards[len(d.Cards)-1].Energy
	}
	energy := d.Cards[d.Position].Energy
	d.Position++
	return energy
}

// ShuffleUpcoming reshuffles the unrevealed portion with rng, but only
// within runs of equal Phase: the phase grouping of the sequence is a
// structural invariant.
func (d *Dreamwell) ShuffleUpcoming(rng *frand.RNG) {
	start := min(d.Position, len(d.Cards))
	for start < len(d.Cards) {
		end := start
		for end < len(d.Cards) && d.Cards[end].Phase == d.Cards[start].Phase {
			end++
		}
		seg := d.Cards[start:end]
		rng.Shuffle(len(seg), func(i, j int) {
			seg[i], seg[j] = seg[j], seg[i]
		})
		start = end
	}
}
