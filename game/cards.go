package game

import "fmt"

// CardName enumerates the closed set of cards the battle model knows about.
// Card data loading is out of scope for this subsystem; the registry below
// is the fixed test set the engine and its searches run on.
type CardName int

const (
	MinstrelOfFallingLight CardName = iota
	GlimmerWarden
	TidecallerSovereign
	Immolate
	Dreamscatter
	RippleOfDefiance
	Abolish
)

var cardNames = []string{
	"MinstrelOfFallingLight",
	"GlimmerWarden",
	"TidecallerSovereign",
	"Immolate",
	"Dreamscatter",
	"RippleOfDefiance",
	"Abolish",
}

func (c CardName) String() string {
	if int(c) < 0 || int(c) >= len(cardNames) {
		return fmt.Sprintf("CardName(%d)", int(c))
	}
	return cardNames[c]
}

type CardKind int

const (
	KindCharacter CardKind = iota
	KindEvent
)

// EffectKind is the resolution effect of an event card. Characters have no
// effect; they resolve to the battlefield.
type EffectKind int

const (
	EffectNone EffectKind = iota
	// EffectDissolve moves a targeted enemy character to its owner's void.
	EffectDissolve
	// EffectDrawTwo draws two cards for the controller.
	EffectDrawTwo
	// EffectNegate removes a targeted enemy stack card to its owner's void
	// without resolving it.
	EffectNegate
)

type cardSpec struct {
	kind   CardKind
	cost   int
	spark  int
	fast   bool
	effect EffectKind
}

var cardSpecs = map[CardName]cardSpec{
	MinstrelOfFallingLight: {kind: KindCharacter, cost: 2, spark: 2},
	GlimmerWarden:          {kind: KindCharacter, cost: 1, spark: 1},
	TidecallerSovereign:    {kind: KindCharacter, cost: 4, spark: 5},
	Immolate:               {kind: KindEvent, cost: 2, effect: EffectDissolve},
	Dreamscatter:           {kind: KindEvent, cost: 3, effect: EffectDrawTwo},
	RippleOfDefiance:       {kind: KindEvent, cost: 1, fast: true, effect: EffectNegate},
	Abolish:                {kind: KindEvent, cost: 2, fast: true, effect: EffectNegate},
}

// Spec returns the static card data for a name.
func (c CardName) Spec() (kind CardKind, cost, spark int, fast bool, effect EffectKind) {
	s := cardSpecs[c]
	return s.kind, s.cost, s.spark, s.fast, s.effect
}

func (c CardName) Cost() int          { return cardSpecs[c].cost }
func (c CardName) Spark() int         { return cardSpecs[c].spark }
func (c CardName) Fast() bool         { return cardSpecs[c].fast }
func (c CardName) Effect() EffectKind { return cardSpecs[c].effect }

func (c CardName) IsCharacter() bool {
	return cardSpecs[c].kind == KindCharacter
}

// testDeck is the standard 15-card deck each player starts with.
var testDeck = []CardName{
	MinstrelOfFallingLight, MinstrelOfFallingLight, MinstrelOfFallingLight,
	GlimmerWarden, GlimmerWarden,
	TidecallerSovereign, TidecallerSovereign,
	Immolate, Immolate,
	Dreamscatter, Dreamscatter,
	RippleOfDefiance, RippleOfDefiance,
	Abolish, Abolish,
}
