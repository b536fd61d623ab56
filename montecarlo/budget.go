package montecarlo

import (
	"math"

	"github.com/dreamtides/dreamtides/game"
)

// DecisionContext classifies the decision a search is budgeting for.
// Compute is concentrated on the first full-energy action of a player's
// own main phase, where the decision has the most leverage, and starved
// on low-value decisions.
type DecisionContext int

const (
	ContextPromptResponse DecisionContext = iota
	ContextFirstMainPhaseFullEnergy
	ContextOtherMainPhase
	ContextNonMainOrOpponentTurn
)

func (c DecisionContext) String() string {
	switch c {
	case ContextPromptResponse:
		return "PromptResponse"
	case ContextFirstMainPhaseFullEnergy:
		return "FirstMainPhaseFullEnergy"
	case ContextOtherMainPhase:
		return "OtherMainPhase"
	}
	return "NonMainOrOpponentTurn"
}

// factor is the context's budget multiplier.
func (c DecisionContext) factor() float64 {
	switch c {
	case ContextPromptResponse:
		return 0.5
	case ContextFirstMainPhaseFullEnergy:
		return 1.5
	case ContextOtherMainPhase:
		return 1.0
	}
	return 0.75
}

// DefaultBudgetMultiplier scales the global iteration budget relative to
// the per-action maximum.
const DefaultBudgetMultiplier = 6

// ClassifyDecision determines the budgeting context for player's pending
// decision on b.
func ClassifyDecision(b *game.Battle, player game.PlayerName) DecisionContext {
	if b.Prompt != nil {
		return ContextPromptResponse
	}
	if len(b.Stack) == 0 && b.Phase == game.PhaseMain && b.Turn.Active == player {
		if b.Players[player].CurrentEnergy == b.Players[player].ProducedEnergy {
			return ContextFirstMainPhaseFullEnergy
		}
		return ContextOtherMainPhase
	}
	return ContextNonMainOrOpponentTurn
}

// IterationBudget computes the per-candidate iteration count for a
// decision with numActions legal actions. The global budget is
// maxPerAction*multiplier, split evenly, capped at maxPerAction, scaled by
// the context factor, and never below one iteration. The full-energy boost
// intentionally lets the total exceed the nominal global budget by its
// factor.
func IterationBudget(maxPerAction, multiplier, numActions int, ctx DecisionContext) int {
	if maxPerAction < 1 || numActions < 1 {
		return 1
	}
	if multiplier < 1 {
		multiplier = DefaultBudgetMultiplier
	}
	baseTotal := float64(maxPerAction * multiplier)
	perAction := math.Min(float64(maxPerAction), baseTotal/float64(numActions))
	scaled := int(math.Round(perAction * ctx.factor()))
	if scaled > maxPerAction {
		scaled = maxPerAction
	}
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}
