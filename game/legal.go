package game

import "sort"

// NextToAct reports which player acts next, derived from the prompt, the
// stack, and the phase only. It is false exactly when the battle is over.
func (b *Battle) NextToAct() (PlayerName, bool) {
	if b.Status == StatusGameOver {
		return 0, false
	}
	if b.Prompt != nil {
		return b.Prompt.Player, true
	}
	if len(b.Stack) > 0 {
		// Priority is always held by the opponent of the top card's
		// controller.
		return b.Stack[len(b.Stack)-1].Controller.Opponent(), true
	}
	if b.Phase == PhaseEnding {
		return b.Turn.Active.Opponent(), true
	}
	return b.Turn.Active, true
}

// LegalActions returns p's legal actions in canonical order: the primary
// action first, then card actions by ascending card ID. The order is
// deterministic; tie-breaking throughout the search depends on it.
func (b *Battle) LegalActions(p PlayerName) []Action {
	actor, ok := b.NextToAct()
	if !ok || actor != p {
		return nil
	}
	if b.Prompt != nil {
		actions := make([]Action, 0, len(b.Prompt.Valid))
		for _, id := range sortedIDs(b.Prompt.Valid) {
			switch b.Prompt.Kind {
			case PromptSelectCharacter:
				actions = append(actions, SelectCharacter(id))
			case PromptSelectStackCard:
				actions = append(actions, SelectStackCard(id))
			}
		}
		return actions
	}
	if len(b.Stack) > 0 {
		actions := []Action{PassPriority()}
		for _, id := range sortedIDs(b.Players[p].Hand) {
			if b.Cards[id].Name.Fast() && b.playable(p, id) {
				actions = append(actions, PlayCardFromHand(id))
			}
		}
		return actions
	}
	if b.Phase == PhaseEnding {
		return []Action{StartNextTurn()}
	}
	actions := []Action{EndTurn()}
	for _, id := range sortedIDs(b.Players[p].Hand) {
		if b.playable(p, id) {
			actions = append(actions, PlayCardFromHand(id))
		}
	}
	return actions
}

// playable reports whether p can pay for the card and, for targeted
// effects, whether a valid target exists right now.
func (b *Battle) playable(p PlayerName, id CardID) bool {
	name := b.Cards[id].Name
	if name.Cost() > b.Players[p].CurrentEnergy {
		return false
	}
	switch name.Effect() {
	case EffectDissolve:
		return len(b.Players[p.Opponent()].Battlefield) > 0
	case EffectNegate:
		return len(b.enemyStackCards(p)) > 0
	}
	return true
}

// enemyStackCards lists stack cards controlled by p's opponent, the valid
// targets for negation effects.
func (b *Battle) enemyStackCards(p PlayerName) []CardID {
	var ids []CardID
	for _, item := range b.Stack {
		if item.Controller != p {
			ids = append(ids, item.Card)
		}
	}
	return ids
}

// IsTerminal reports whether the battle is over and, if so, its winner.
func (b *Battle) IsTerminal() (Winner, bool) {
	if b.Status != StatusGameOver {
		return WinnerNone, false
	}
	return b.Winner, true
}

func sortedIDs(ids []CardID) []CardID {
	out := append([]CardID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
