package game

import "fmt"

// ApplyAction applies one of p's legal actions to the battle. It never
// fails for an action drawn from LegalActions; applying anything else is a
// caller bug and panics.
func (b *Battle) ApplyAction(p PlayerName, a Action) {
	if b.Status == StatusGameOver {
		panic("action applied to a finished battle")
	}
	switch a.Kind {
	case ActionPlayCardFromHand:
		b.playFromHand(p, a.Card)
	case ActionSelectCharacter, ActionSelectStackCard:
		b.answerPrompt(p, a)
	case ActionPassPriority:
		b.resolveTop()
	case ActionEndTurn:
		b.Phase = PhaseEnding
	case ActionStartNextTurn:
		b.startTurn(p)
	default:
		panic(fmt.Sprintf("unknown action kind %d", a.Kind))
	}
}

func (b *Battle) playFromHand(p PlayerName, id CardID) {
	ps := &b.Players[p]
	idx := indexOf(ps.Hand, id)
	if idx < 0 {
		panic(fmt.Sprintf("card %d is not in player %v's hand", id, p))
	}
	name := b.Cards[id].Name
	if name.Cost() > ps.CurrentEnergy {
		panic(fmt.Sprintf("cannot pay for %v with %d energy", name, ps.CurrentEnergy))
	}
	ps.CurrentEnergy -= name.Cost()
	ps.Hand = append(ps.Hand[:idx], ps.Hand[idx+1:]...)
	b.Cards[id].Zone = ZoneStack
	b.Stack = append(b.Stack, StackItem{Card: id, Controller: p})

	switch name.Effect() {
	case EffectDissolve:
		b.Prompt = &Prompt{
			Player:     p,
			Kind:       PromptSelectCharacter,
			Valid:      sortedIDs(b.Players[p.Opponent()].Battlefield),
			StackIndex: len(b.Stack) - 1,
		}
	case EffectNegate:
		b.Prompt = &Prompt{
			Player:     p,
			Kind:       PromptSelectStackCard,
			Valid:      sortedIDs(b.enemyStackCards(p)),
			StackIndex: len(b.Stack) - 1,
		}
	}
}

func (b *Battle) answerPrompt(p PlayerName, a Action) {
	if b.Prompt == nil || b.Prompt.Player != p {
		panic("prompt answer with no matching prompt")
	}
	item := &b.Stack[b.Prompt.StackIndex]
	item.Target = a.Card
	item.HasTarget = true
	b.Prompt = nil
}

// resolveTop resolves the top card of the stack: characters arrive on the
// battlefield, events apply their effect and go to the void. Targets that
// left their zone in the meantime fizzle.
func (b *Battle) resolveTop() {
	if len(b.Stack) == 0 {
		panic("pass priority with an empty stack")
	}
	item := b.Stack[len(b.Stack)-1]
	b.Stack = b.Stack[:len(b.Stack)-1]
	name := b.Cards[item.Card].Name
	if name.IsCharacter() {
		b.Cards[item.Card].Zone = ZoneBattlefield
		b.Players[item.Controller].Battlefield = append(b.Players[item.Controller].Battlefield, item.Card)
		return
	}
	switch name.Effect() {
	case EffectDissolve:
		if item.HasTarget && b.Cards[item.Target].Zone == ZoneBattlefield {
			b.moveToVoid(item.Target, ZoneBattlefield)
		}
	case EffectDrawTwo:
		b.draw(item.Controller)
		b.draw(item.Controller)
	case EffectNegate:
		if item.HasTarget && b.Cards[item.Target].Zone == ZoneStack {
			b.removeFromStack(item.Target)
			b.Cards[item.Target].Zone = ZoneVoid
			owner := b.Cards[item.Target].Owner
			b.Players[owner].Void = append(b.Players[owner].Void, item.Target)
		}
	}
	b.Cards[item.Card].Zone = ZoneVoid
	b.Players[item.Controller].Void = append(b.Players[item.Controller].Void, item.Card)
}

// startTurn switches the active player, runs judgment scoring, reveals the
// next dreamwell card, and draws for the new active player.
func (b *Battle) startTurn(p PlayerName) {
	b.Turn.Active = p
	b.Turn.ID++

	diff := b.TotalSpark(p) - b.TotalSpark(p.Opponent())
	if diff > 0 {
		b.Players[p].Points += diff
	}
	if b.Players[p].Points >= b.PointsToWin {
		b.finish(winnerOf(p))
		return
	}
	if b.Turn.ID > b.TurnLimit {
		switch {
		case b.Players[One].Points > b.Players[Two].Points:
			b.finish(WinnerOne)
		case b.Players[Two].Points > b.Players[One].Points:
			b.finish(WinnerTwo)
		default:
			b.finish(WinnerDraw)
		}
		return
	}

	energy := b.Dreamwell.reveal()
	b.Players[p].ProducedEnergy = energy
	b.Players[p].CurrentEnergy = energy
	b.draw(p)
	b.Phase = PhaseMain
}

func (b *Battle) finish(w Winner) {
	b.Status = StatusGameOver
	b.Winner = w
}

func winnerOf(p PlayerName) Winner {
	if p == One {
		return WinnerOne
	}
	return WinnerTwo
}

func (b *Battle) moveToVoid(id CardID, from Zone) {
	owner := b.Cards[id].Owner
	ps := &b.Players[owner]
	switch from {
	case ZoneBattlefield:
		ps.Battlefield = removeID(ps.Battlefield, id)
	case ZoneHand:
		ps.Hand = removeID(ps.Hand, id)
	}
	b.Cards[id].Zone = ZoneVoid
	ps.Void = append(ps.Void, id)
}

func (b *Battle) removeFromStack(id CardID) {
	for i, item := range b.Stack {
		if item.Card == id {
			b.Stack = append(b.Stack[:i], b.Stack[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("card %d is not on the stack", id))
}

func indexOf(ids []CardID, id CardID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func removeID(ids []CardID, id CardID) []CardID {
	idx := indexOf(ids, id)
	if idx < 0 {
		panic(fmt.Sprintf("card %d not found in zone list", id))
	}
	return append(ids[:idx], ids[idx+1:]...)
}
