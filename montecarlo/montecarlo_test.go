package montecarlo

import (
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/dreamtides/dreamtides/game"
)

// forcedWinBattle is a position player One cannot lose: eleven points and
// an unanswerable spark lead, so One scores out at their next turn start
// no matter what either side does.
func forcedWinBattle() *game.Battle {
	b := &game.Battle{
		ID:          "forced-win",
		Turn:        game.TurnData{Active: game.One, ID: 10},
		Phase:       game.PhaseMain,
		Dreamwell:   game.Dreamwell{Cards: []game.DreamwellCard{{Energy: 2, Phase: 1}}},
		PointsToWin: game.DefaultPointsToWin,
		TurnLimit:   game.DefaultTurnLimit,
		Seed:        7,
	}
	b.Cards = []game.CardState{
		{Name: game.TidecallerSovereign, Owner: game.One, Zone: game.ZoneBattlefield},
		{Name: game.GlimmerWarden, Owner: game.One, Zone: game.ZoneHand},
	}
	b.Players[game.One] = game.PlayerState{
		Battlefield:    []game.CardID{0},
		Hand:           []game.CardID{1},
		CurrentEnergy:  1,
		ProducedEnergy: 1,
		Points:         11,
	}
	return b
}

func TestRootVisitsMatchIterations(t *testing.T) {
	is := is.New(t)
	b := game.NewBattle(3)
	actor, _ := b.NextToAct()
	s := NewSearcher(b, actor, 42)
	tree := s.SearchCandidate(b.LegalActions(actor)[0], 50)
	is.Equal(tree.RootVisits(), 50)
	is.True(tree.NodeCount() >= 1)
	is.True(tree.NodeCount() <= 51)
}

func TestSearchDeterministicForSeed(t *testing.T) {
	is := is.New(t)
	b := game.NewBattle(3)
	actor, _ := b.NextToAct()
	candidate := b.LegalActions(actor)[0]

	first := NewSearcher(b, actor, 42).SearchCandidate(candidate, 40)
	second := NewSearcher(b, actor, 42).SearchCandidate(candidate, 40)
	is.Equal(first.RootMeanReward(), second.RootMeanReward())
	is.Equal(first.NodeCount(), second.NodeCount())
}

func TestSearchNeverMutatesBase(t *testing.T) {
	is := is.New(t)
	b := game.NewBattle(3)
	actor, _ := b.NextToAct()
	before := b.Hash()
	NewSearcher(b, actor, 42).SearchCandidate(b.LegalActions(actor)[0], 30)
	is.Equal(b.Hash(), before)
}

func TestForcedWinScoresPlusOne(t *testing.T) {
	is := is.New(t)
	b := forcedWinBattle()
	actor, ok := b.NextToAct()
	is.True(ok)
	is.Equal(actor, game.One)

	s := NewSearcher(b, game.One, 42)
	for _, candidate := range b.LegalActions(game.One) {
		tree := s.SearchCandidate(candidate, 20)
		is.Equal(tree.RootMeanReward(), 1.0)
	}
}

func TestForcedLossScoresMinusOne(t *testing.T) {
	is := is.New(t)
	b := forcedWinBattle()
	// Put Two on the clock in One's ending phase; One still scores out.
	b.ApplyAction(game.One, game.EndTurn())
	actor, _ := b.NextToAct()
	is.Equal(actor, game.Two)

	s := NewSearcher(b, game.Two, 42)
	tree := s.SearchCandidate(game.StartNextTurn(), 20)
	is.Equal(tree.RootMeanReward(), -1.0)
}

func TestUCTPrefersLessVisitedAtEqualMean(t *testing.T) {
	is := is.New(t)
	rare := &searchNode{visits: 2, reward: 1.0}
	common := &searchNode{visits: 20, reward: 10.0}
	// Equal means; the exploration bonus must favor the rarer child.
	is.True(uctScore(100, rare) > uctScore(100, common))
}

func TestIterationLog(t *testing.T) {
	is := is.New(t)
	b := game.NewBattle(3)
	actor, _ := b.NextToAct()
	s := NewSearcher(b, actor, 42)
	var sb strings.Builder
	s.SetLogStream(&sb)
	s.SearchCandidate(b.LegalActions(actor)[0], 5)
	is.Equal(strings.Count(sb.String(), "iteration:"), 5)
}

func TestGraphDepthLimit(t *testing.T) {
	is := is.New(t)
	b := game.NewBattle(3)
	actor, _ := b.NextToAct()
	tree := NewSearcher(b, actor, 42).SearchCandidate(b.LegalActions(actor)[0], 60)

	rootOnly := tree.Graph(0)
	is.Equal(len(rootOnly.Nodes), 1)
	is.Equal(len(rootOnly.Edges), 0)

	full := tree.Graph(1000)
	is.Equal(len(full.Nodes), tree.NodeCount())
	is.Equal(len(full.Edges), tree.NodeCount()-1)
	is.Equal(full.Iterations, 60)
	for _, e := range full.Edges {
		is.True(e.From < e.To)
	}
}

// TestGraphTruncatesDeepTrees dumps a tree much deeper than the depth
// limit: every emitted node must respect the limit and every edge must
// connect nodes that are both in the dump.
func TestGraphTruncatesDeepTrees(t *testing.T) {
	is := is.New(t)
	b := game.NewBattle(3)
	actor, _ := b.NextToAct()
	tree := NewSearcher(b, actor, 42).SearchCandidate(b.LegalActions(actor)[0], 400)

	for _, maxDepth := range []int{1, 2, 3} {
		g := tree.Graph(maxDepth)
		included := make(map[int32]bool, len(g.Nodes))
		for _, n := range g.Nodes {
			is.True(n.Depth <= maxDepth)
			included[n.ID] = true
		}
		for _, e := range g.Edges {
			is.True(included[e.From])
			is.True(included[e.To])
		}
		is.Equal(len(g.Edges), len(g.Nodes)-1)
	}

	// A depth-1 dump is the root plus its direct children, nothing more.
	shallow := tree.Graph(1)
	is.Equal(len(shallow.Nodes), 1+len(tree.nodes[0].children))
	is.True(len(shallow.Nodes) < tree.NodeCount())
}

func TestDeriveSeedStreamsDiffer(t *testing.T) {
	is := is.New(t)
	seen := make(map[uint64]bool)
	for i := uint64(0); i < 1000; i++ {
		seen[DeriveSeed(42, i)] = true
	}
	is.Equal(len(seen), 1000)
}
