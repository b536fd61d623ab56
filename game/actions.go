package game

import "fmt"

// ActionKind tags the closed set of battle actions.
type ActionKind int

const (
	// ActionPassPriority resolves the top card of the stack.
	ActionPassPriority ActionKind = iota
	// ActionEndTurn ends the active player's main phase.
	ActionEndTurn
	// ActionStartNextTurn begins the acting player's turn after the
	// opponent has ended theirs.
	ActionStartNextTurn
	// ActionPlayCardFromHand plays Card onto the stack.
	ActionPlayCardFromHand
	// ActionSelectCharacter answers a character-target prompt with Card.
	ActionSelectCharacter
	// ActionSelectStackCard answers a stack-target prompt with Card.
	ActionSelectStackCard
)

// Action is a single battle action. It is a comparable value type so it can
// key maps and be compared directly. Card is only meaningful for the
// play/select kinds.
type Action struct {
	Kind ActionKind
	Card CardID
}

func PassPriority() Action               { return Action{Kind: ActionPassPriority} }
func EndTurn() Action                    { return Action{Kind: ActionEndTurn} }
func StartNextTurn() Action              { return Action{Kind: ActionStartNextTurn} }
func PlayCardFromHand(id CardID) Action  { return Action{Kind: ActionPlayCardFromHand, Card: id} }
func SelectCharacter(id CardID) Action   { return Action{Kind: ActionSelectCharacter, Card: id} }
func SelectStackCard(id CardID) Action   { return Action{Kind: ActionSelectStackCard, Card: id} }

func (a Action) String() string {
	switch a.Kind {
	case ActionPassPriority:
		return "PassPriority"
	case ActionEndTurn:
		return "EndTurn"
	case ActionStartNextTurn:
		return "StartNextTurn"
	case ActionPlayCardFromHand:
		return fmt.Sprintf("PlayCardFromHand(%d)", a.Card)
	case ActionSelectCharacter:
		return fmt.Sprintf("SelectCharacter(%d)", a.Card)
	case ActionSelectStackCard:
		return fmt.Sprintf("SelectStackCard(%d)", a.Card)
	}
	return fmt.Sprintf("Action(%d,%d)", a.Kind, a.Card)
}
