package game

import (
	"testing"

	"github.com/matryer/is"
)

func TestNewBattleSetup(t *testing.T) {
	is := is.New(t)
	b := NewBattle(3141592653)

	for _, p := range []PlayerName{One, Two} {
		is.Equal(len(b.Players[p].Hand), StartingHandSize)
		is.Equal(len(b.Players[p].Deck), len(testDeck)-StartingHandSize)
		is.Equal(len(b.Players[p].Battlefield), 0)
		is.Equal(len(b.Players[p].Void), 0)
	}
	is.Equal(b.Turn, TurnData{Active: One, ID: 1})
	is.Equal(b.Phase, PhaseMain)
	is.Equal(b.Players[One].CurrentEnergy, 1)
	is.Equal(b.Players[One].ProducedEnergy, 1)
	// Player Two has no energy until their first turn.
	is.Equal(b.Players[Two].CurrentEnergy, 0)

	actor, ok := b.NextToAct()
	is.True(ok)
	is.Equal(actor, One)
}

func TestLegalActionsCanonicalOrder(t *testing.T) {
	is := is.New(t)
	b := NewBattle(42)

	actions := b.LegalActions(One)
	is.True(len(actions) >= 1)
	// Primary action first, then hand cards by ascending ID.
	is.Equal(actions[0], EndTurn())
	prev := CardID(-1)
	for _, a := range actions[1:] {
		is.Equal(a.Kind, ActionPlayCardFromHand)
		is.True(a.Card > prev)
		prev = a.Card
	}
	// Opponent has no legal actions while it is not their turn.
	is.Equal(len(b.LegalActions(Two)), 0)
}

func TestEndTurnStartNextTurnFlow(t *testing.T) {
	is := is.New(t)
	b := NewBattle(7)

	b.ApplyAction(One, EndTurn())
	is.Equal(b.Phase, PhaseEnding)
	actor, ok := b.NextToAct()
	is.True(ok)
	is.Equal(actor, Two)
	is.Equal(b.LegalActions(Two), []Action{StartNextTurn()})

	b.ApplyAction(Two, StartNextTurn())
	is.Equal(b.Phase, PhaseMain)
	is.Equal(b.Turn.Active, Two)
	is.Equal(b.Turn.ID, 2)
	is.Equal(b.Players[Two].CurrentEnergy, b.Players[Two].ProducedEnergy)
	// Turn start draws one card.
	is.Equal(len(b.Players[Two].Hand), StartingHandSize+1)
}

// findInHand returns a hand card with the given name, if present.
func findInHand(b *Battle, p PlayerName, name CardName) (CardID, bool) {
	for _, id := range b.Players[p].Hand {
		if b.Cards[id].Name == name {
			return id, true
		}
	}
	return 0, false
}

// battleWithHandCard fast-forwards turns until player One holds the wanted
// card at the start of their own main phase with enough energy to play it.
func battleWithHandCard(t *testing.T, name CardName) (*Battle, CardID) {
	t.Helper()
	for seed := uint64(1); seed < 200; seed++ {
		b := NewBattle(seed)
		for turn := 0; turn < 30; turn++ {
			if id, ok := findInHand(b, One, name); ok &&
				b.Turn.Active == One && b.Players[One].CurrentEnergy >= name.Cost() {
				return b, id
			}
			actor, ok := b.NextToAct()
			if !ok {
				break
			}
			b.ApplyAction(actor, b.LegalActions(actor)[0])
		}
	}
	t.Fatalf("no reachable state with %v in hand", name)
	return nil, 0
}

func TestPlayCharacterResolves(t *testing.T) {
	is := is.New(t)
	b, id := battleWithHandCard(t, GlimmerWarden)

	energyBefore := b.Players[One].CurrentEnergy
	b.ApplyAction(One, PlayCardFromHand(id))
	is.Equal(b.Cards[id].Zone, ZoneStack)
	is.Equal(b.Players[One].CurrentEnergy, energyBefore-GlimmerWarden.Cost())

	// Opponent holds priority and passes; the character resolves.
	actor, ok := b.NextToAct()
	is.True(ok)
	is.Equal(actor, Two)
	b.ApplyAction(Two, PassPriority())
	is.Equal(b.Cards[id].Zone, ZoneBattlefield)
	is.Equal(b.Players[One].Battlefield, []CardID{id})
}

func TestJudgmentScoresSparkAdvantage(t *testing.T) {
	is := is.New(t)
	b, id := battleWithHandCard(t, GlimmerWarden)

	b.ApplyAction(One, PlayCardFromHand(id))
	b.ApplyAction(Two, PassPriority())
	b.ApplyAction(One, EndTurn())
	b.ApplyAction(Two, StartNextTurn())
	// Two has no spark; no points for them.
	is.Equal(b.Players[Two].Points, 0)
	b.ApplyAction(Two, EndTurn())
	pointsBefore := b.Players[One].Points
	b.ApplyAction(One, StartNextTurn())
	is.Equal(b.Players[One].Points, pointsBefore+GlimmerWarden.Spark())
}

func TestRandomPlayoutTerminates(t *testing.T) {
	is := is.New(t)
	for seed := uint64(0); seed < 10; seed++ {
		b := NewBattle(seed)
		rng := KeyedRNG(seed)
		steps := 0
		for {
			actor, ok := b.NextToAct()
			if !ok {
				break
			}
			actions := b.LegalActions(actor)
			is.True(len(actions) > 0)
			b.ApplyAction(actor, actions[rng.Intn(len(actions))])
			steps++
			if steps > 100000 {
				t.Fatal("playout did not terminate")
			}
		}
		winner, over := b.IsTerminal()
		is.True(over)
		is.True(winner != WinnerNone)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	b := NewBattle(99)
	cp := b.Copy()
	h := b.Hash()

	// Drive the copy several actions forward; the original must not move.
	for i := 0; i < 20; i++ {
		actor, ok := cp.NextToAct()
		if !ok {
			break
		}
		cp.ApplyAction(actor, cp.LegalActions(actor)[0])
	}
	is.Equal(b.Hash(), h)
	is.Equal(b.Turn.ID, 1)
}

func TestHashDistinguishesStates(t *testing.T) {
	is := is.New(t)
	a := NewBattle(5)
	b := NewBattle(5)
	is.Equal(a.Hash(), b.Hash())

	b.ApplyAction(One, EndTurn())
	is.True(a.Hash() != b.Hash())
}

func TestReshuffleHiddenZonesPreservesSizes(t *testing.T) {
	is := is.New(t)
	b := NewBattle(123)
	handBefore := len(b.Players[Two].Hand)
	deckBefore := len(b.Players[Two].Deck)

	b.ReshuffleHiddenZones(Two, KeyedRNG(77))
	is.Equal(len(b.Players[Two].Hand), handBefore)
	is.Equal(len(b.Players[Two].Deck), deckBefore)

	// Every card is still in exactly one of the two zones.
	seen := map[CardID]bool{}
	for _, id := range b.Players[Two].Hand {
		is.Equal(b.Cards[id].Zone, ZoneHand)
		seen[id] = true
	}
	for _, id := range b.Players[Two].Deck {
		is.Equal(b.Cards[id].Zone, ZoneDeck)
		seen[id] = true
	}
	is.Equal(len(seen), handBefore+deckBefore)
}

func TestDreamwellShufflePreservesPhaseGrouping(t *testing.T) {
	is := is.New(t)
	b := NewBattle(55)
	phasesBefore := make([]int, 0, len(b.Dreamwell.Cards))
	for _, c := range b.Dreamwell.Cards {
		phasesBefore = append(phasesBefore, c.Phase)
	}

	b.Dreamwell.ShuffleUpcoming(KeyedRNG(9))
	for i, c := range b.Dreamwell.Cards {
		is.Equal(c.Phase, phasesBefore[i])
	}
	// The revealed prefix is untouched.
	is.Equal(b.Dreamwell.Position, 1)
}
