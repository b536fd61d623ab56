package bot

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/dreamtides/dreamtides/ai/agent"
	"github.com/dreamtides/dreamtides/game"
)

// Request is one JSON message to the bot. Command is one of "newBattle",
// "act", or "legal"; the remaining fields apply per command.
type Request struct {
	Command  string `json:"command"`
	BattleID string `json:"battleId,omitempty"`

	// newBattle fields. AgentPlayer is "One" or "Two".
	Seed        uint64        `json:"seed,omitempty"`
	Agent       *agent.Config `json:"agent,omitempty"`
	AgentPlayer string        `json:"agentPlayer,omitempty"`

	// act field: the human's action.
	Action *WireAction `json:"action,omitempty"`
}

// Response is the bot's JSON reply. Error is set instead of the other
// fields when the request failed.
type Response struct {
	Error        string       `json:"error,omitempty"`
	BattleID     string       `json:"battleId,omitempty"`
	AgentActions []WireAction `json:"agentActions,omitempty"`
	LegalActions []WireAction `json:"legalActions,omitempty"`
	State        *BattleView  `json:"state,omitempty"`
}

// WireAction is the JSON form of a battle action.
type WireAction struct {
	Kind string      `json:"kind"`
	Card game.CardID `json:"card,omitempty"`
}

var kindNames = map[game.ActionKind]string{
	game.ActionPassPriority:     "passPriority",
	game.ActionEndTurn:          "endTurn",
	game.ActionStartNextTurn:    "startNextTurn",
	game.ActionPlayCardFromHand: "playCardFromHand",
	game.ActionSelectCharacter:  "selectCharacter",
	game.ActionSelectStackCard:  "selectStackCard",
}

func toWire(a game.Action) WireAction {
	return WireAction{Kind: kindNames[a.Kind], Card: a.Card}
}

func (w WireAction) toAction() (game.Action, error) {
	for kind, name := range kindNames {
		if name == w.Kind {
			return game.Action{Kind: kind, Card: w.Card}, nil
		}
	}
	return game.Action{}, fmt.Errorf("unknown action kind %q", w.Kind)
}

// CardView names a card visible to the viewer.
type CardView struct {
	ID   game.CardID `json:"id"`
	Name string      `json:"name"`
}

// PlayerView is one player's state as seen by the viewer. Hand is only
// populated for the viewer's own side; the opponent shows HandSize alone.
type PlayerView struct {
	Points         int        `json:"points"`
	CurrentEnergy  int        `json:"currentEnergy"`
	ProducedEnergy int        `json:"producedEnergy"`
	HandSize       int        `json:"handSize"`
	DeckSize       int        `json:"deckSize"`
	Hand           []CardView `json:"hand,omitempty"`
	Battlefield    []CardView `json:"battlefield"`
	Void           []CardView `json:"void"`
}

// StackView is one unresolved card on the stack.
type StackView struct {
	Card       CardView    `json:"card"`
	Controller string      `json:"controller"`
	Target     game.CardID `json:"target,omitempty"`
	HasTarget  bool        `json:"hasTarget"`
}

// PromptView is a pending target selection.
type PromptView struct {
	Player string        `json:"player"`
	Valid  []game.CardID `json:"valid"`
}

// BattleView is the battle as seen by one player, with the opponent's
// hidden zones reduced to counts.
type BattleView struct {
	Turn    int         `json:"turn"`
	Active  string      `json:"active"`
	Phase   string      `json:"phase"`
	Status  string      `json:"status"`
	Winner  string      `json:"winner,omitempty"`
	Stack   []StackView `json:"stack"`
	Prompt  *PromptView `json:"prompt,omitempty"`
	Viewer  PlayerView  `json:"viewer"`
	Enemy   PlayerView  `json:"enemy"`
	NextUp  string      `json:"nextUp,omitempty"`
}

func cardViews(b *game.Battle, ids []game.CardID) []CardView {
	return lo.Map(ids, func(id game.CardID, _ int) CardView {
		return CardView{ID: id, Name: b.Cards[id].Name.String()}
	})
}

func playerView(b *game.Battle, p game.PlayerName, withHand bool) PlayerView {
	ps := b.Players[p]
	view := PlayerView{
		Points:         ps.Points,
		CurrentEnergy:  ps.CurrentEnergy,
		ProducedEnergy: ps.ProducedEnergy,
		HandSize:       len(ps.Hand),
		DeckSize:       len(ps.Deck),
		Battlefield:    cardViews(b, ps.Battlefield),
		Void:           cardViews(b, ps.Void),
	}
	if withHand {
		view.Hand = cardViews(b, ps.Hand)
	}
	return view
}

func phaseName(p game.Phase) string {
	if p == game.PhaseMain {
		return "main"
	}
	return "ending"
}

// ViewFor projects the battle for viewer, hiding the opponent's hand and
// both decks.
func ViewFor(b *game.Battle, viewer game.PlayerName) *BattleView {
	view := &BattleView{
		Turn:   b.Turn.ID,
		Active: b.Turn.Active.String(),
		Phase:  phaseName(b.Phase),
		Viewer: playerView(b, viewer, true),
		Enemy:  playerView(b, viewer.Opponent(), false),
		Stack: lo.Map(b.Stack, func(item game.StackItem, _ int) StackView {
			return StackView{
				Card:       CardView{ID: item.Card, Name: b.Cards[item.Card].Name.String()},
				Controller: item.Controller.String(),
				Target:     item.Target,
				HasTarget:  item.HasTarget,
			}
		}),
	}
	if b.Prompt != nil {
		view.Prompt = &PromptView{
			Player: b.Prompt.Player.String(),
			Valid:  b.Prompt.Valid,
		}
	}
	if b.Status == game.StatusGameOver {
		view.Status = "gameOver"
		view.Winner = b.Winner.String()
	} else {
		view.Status = "playing"
		if actor, ok := b.NextToAct(); ok {
			view.NextUp = actor.String()
		}
	}
	return view
}
