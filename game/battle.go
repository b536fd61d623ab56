// Package game implements a compact two-player card battle: decks, hands, a
// battlefield, a response stack, target prompts, and a shared dreamwell that
// drives energy production. It exposes the contract the decision engine
// consumes: legal actions in canonical order, action application, next to
// act, and terminal evaluation. The model is deterministic given its seed,
// and all randomness flows through explicitly keyed RNGs.
package game

import (
	"encoding/binary"
	"encoding/hex"

	"lukechampine.com/frand"
)

// PlayerName identifies one of the two battle players.
type PlayerName int

const (
	One PlayerName = iota
	Two
)

func (p PlayerName) Opponent() PlayerName {
	return 1 - p
}

func (p PlayerName) String() string {
	if p == One {
		return "One"
	}
	return "Two"
}

// CardID is an index into the battle's card arena.
type CardID int

type Zone int

const (
	ZoneDeck Zone = iota
	ZoneHand
	ZoneBattlefield
	ZoneVoid
	ZoneStack
)

// CardState is the per-card mutable state. Name and Owner never change.
type CardState struct {
	Name  CardName
	Owner PlayerName
	Zone  Zone
}

// PlayerState holds one player's zones and resources. Deck order is
// top-of-deck-last so draws pop from the end.
type PlayerState struct {
	Deck        []CardID
	Hand        []CardID
	Battlefield []CardID
	Void        []CardID

	CurrentEnergy  int
	ProducedEnergy int
	Points         int
}

type Phase int

const (
	PhaseMain Phase = iota
	PhaseEnding
)

// StackItem is a played card awaiting resolution. Target is set at play
// time via a prompt for targeted effects.
type StackItem struct {
	Card       CardID
	Controller PlayerName
	Target     CardID
	HasTarget  bool
}

type PromptKind int

const (
	PromptSelectCharacter PromptKind = iota
	PromptSelectStackCard
)

// Prompt is a pending target selection blocking all other actions.
type Prompt struct {
	Player     PlayerName
	Kind       PromptKind
	Valid      []CardID
	StackIndex int
}

type BattleStatus int

const (
	StatusPlaying BattleStatus = iota
	StatusGameOver
)

type Winner int

const (
	WinnerNone Winner = iota
	WinnerOne
	WinnerTwo
	WinnerDraw
)

// Player reports the winning player, if the winner is a player rather than
// a draw or an ongoing game.
func (w Winner) Player() (PlayerName, bool) {
	switch w {
	case WinnerOne:
		return One, true
	case WinnerTwo:
		return Two, true
	}
	return 0, false
}

func (w Winner) String() string {
	switch w {
	case WinnerOne:
		return "One"
	case WinnerTwo:
		return "Two"
	case WinnerDraw:
		return "Draw"
	}
	return "None"
}

type TurnData struct {
	Active PlayerName
	ID     int
}

const (
	// StartingHandSize cards are dealt to each player before turn one.
	StartingHandSize = 5
	// DefaultPointsToWin ends the battle when a player reaches it.
	DefaultPointsToWin = 12
	// DefaultTurnLimit bounds battle length; at the limit the higher score
	// wins and equal scores draw. Random playouts rely on this bound.
	DefaultTurnLimit = 200
)

// Battle is the full state of one battle. The decision engine never mutates
// a Battle it did not create itself via Copy.
type Battle struct {
	ID      string
	Cards   []CardState
	Players [2]PlayerState
	Stack   []StackItem
	Prompt  *Prompt

	Turn      TurnData
	Phase     Phase
	Dreamwell Dreamwell
	Status    BattleStatus
	Winner    Winner

	PointsToWin int
	TurnLimit   int

	// Seed and rngDraws fully determine all future model randomness, so a
	// Copy diverges from its source only through its own draws.
	Seed     uint64
	rngDraws uint64
}

// NewBattle deals the standard test decks, shuffles them with the battle
// seed, and starts player One's first turn.
func NewBattle(seed uint64) *Battle {
	b := &Battle{
		ID:          newBattleID(seed),
		Dreamwell:   newDreamwell(),
		PointsToWin: DefaultPointsToWin,
		TurnLimit:   DefaultTurnLimit,
		Seed:        seed,
	}
	for _, p := range []PlayerName{One, Two} {
		for _, name := range testDeck {
			id := CardID(len(b.Cards))
			b.Cards = append(b.Cards, CardState{Name: name, Owner: p, Zone: ZoneDeck})
			b.Players[p].Deck = append(b.Players[p].Deck, id)
		}
	}
	for _, p := range []PlayerName{One, Two} {
		b.shuffleDeck(p, b.nextRNG())
		for i := 0; i < StartingHandSize; i++ {
			b.draw(p)
		}
	}

	// Player One's first turn: dreamwell reveal but no draw.
	b.Turn = TurnData{Active: One, ID: 1}
	b.Phase = PhaseMain
	energy := b.Dreamwell.reveal()
	b.Players[One].ProducedEnergy = energy
	b.Players[One].CurrentEnergy = energy
	return b
}

// Copy returns a deep copy sharing nothing mutable with the receiver.
func (b *Battle) Copy() *Battle {
	nb := *b
	nb.Cards = append([]CardState(nil), b.Cards...)
	for p := range nb.Players {
		nb.Players[p].Deck = append([]CardID(nil), b.Players[p].Deck...)
		nb.Players[p].Hand = append([]CardID(nil), b.Players[p].Hand...)
		nb.Players[p].Battlefield = append([]CardID(nil), b.Players[p].Battlefield...)
		nb.Players[p].Void = append([]CardID(nil), b.Players[p].Void...)
	}
	nb.Stack = append([]StackItem(nil), b.Stack...)
	if b.Prompt != nil {
		pr := *b.Prompt
		pr.Valid = append([]CardID(nil), b.Prompt.Valid...)
		nb.Prompt = &pr
	}
	nb.Dreamwell = b.Dreamwell.copy()
	return &nb
}

// nextRNG derives a fresh keyed RNG from the battle seed and draw counter.
// Storing only the counter keeps Battle copyable by value.
func (b *Battle) nextRNG() *frand.RNG {
	b.rngDraws++
	return KeyedRNG(splitmix64(b.Seed + b.rngDraws*0x9e3779b97f4a7c15))
}

// KeyedRNG builds a deterministic RNG from a 64-bit seed.
func KeyedRNG(seed uint64) *frand.RNG {
	var key [32]byte
	s := seed
	for i := 0; i < 4; i++ {
		s = splitmix64(s)
		binary.LittleEndian.PutUint64(key[i*8:], s)
	}
	return frand.NewCustom(key[:], 1024, 12)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

func newBattleID(seed uint64) string {
	rng := KeyedRNG(splitmix64(seed ^ 0xd1eaa71de5))
	buf := make([]byte, 8)
	rng.Read(buf)
	return hex.EncodeToString(buf)
}

func (b *Battle) shuffleDeck(p PlayerName, rng *frand.RNG) {
	deck := b.Players[p].Deck
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// draw moves the top card of p's deck to their hand. An empty deck first
// reshuffles the void; if both are empty the draw is skipped.
func (b *Battle) draw(p PlayerName) {
	ps := &b.Players[p]
	if len(ps.Deck) == 0 {
		if len(ps.Void) == 0 {
			return
		}
		for _, id := range ps.Void {
			b.Cards[id].Zone = ZoneDeck
		}
		ps.Deck = append(ps.Deck, ps.Void...)
		ps.Void = ps.Void[:0]
		b.shuffleDeck(p, b.nextRNG())
	}
	top := ps.Deck[len(ps.Deck)-1]
	ps.Deck = ps.Deck[:len(ps.Deck)-1]
	ps.Hand = append(ps.Hand, top)
	b.Cards[top].Zone = ZoneHand
}

// TotalSpark is the sum of spark over p's battlefield characters.
func (b *Battle) TotalSpark(p PlayerName) int {
	total := 0
	for _, id := range b.Players[p].Battlefield {
		total += b.Cards[id].Name.Spark()
	}
	return total
}

// ReshuffleHiddenZones returns p's hand to their deck, shuffles the deck
// with rng, and redeals the same number of cards. Used by hidden-state
// randomization; a player with no cards in hand or deck is a no-op.
func (b *Battle) ReshuffleHiddenZones(p PlayerName, rng *frand.RNG) {
	ps := &b.Players[p]
	handSize := len(ps.Hand)
	if handSize == 0 && len(ps.Deck) == 0 {
		return
	}
	for _, id := range ps.Hand {
		b.Cards[id].Zone = ZoneDeck
	}
	ps.Deck = append(ps.Deck, ps.Hand...)
	ps.Hand = ps.Hand[:0]
	rng.Shuffle(len(ps.Deck), func(i, j int) {
		ps.Deck[i], ps.Deck[j] = ps.Deck[j], ps.Deck[i]
	})
	for i := 0; i < handSize; i++ {
		top := ps.Deck[len(ps.Deck)-1]
		ps.Deck = ps.Deck[:len(ps.Deck)-1]
		ps.Hand = append(ps.Hand, top)
		b.Cards[top].Zone = ZoneHand
	}
}
