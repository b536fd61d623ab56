// Package automatic plays agent-vs-agent battles for strength testing and
// data collection.
package automatic

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dreamtides/dreamtides/ai/agent"
	"github.com/dreamtides/dreamtides/config"
	"github.com/dreamtides/dreamtides/game"
)

// GameRunner plays full battles between two agent configs. Seat order is
// the caller's choice per battle; alternate it across a matchup to cancel
// the first-player advantage.
type GameRunner struct {
	cfg      *config.Config
	selector *agent.Selector
	logchan  chan string
}

func NewGameRunner(logchan chan string, cfg *config.Config) *GameRunner {
	return &GameRunner{
		cfg:      cfg,
		selector: agent.NewSelector(cfg),
		logchan:  logchan,
	}
}

// logHeader is the CSV header matching the lines sent on logchan.
const logHeader = "gameID,turn,actor,action,stackSize,pointsOne,pointsTwo\n"

// PlayBattle plays one battle to completion with agents in the given
// seats and returns the final state. Single-legal-action decisions bypass
// the agents entirely.
func (r *GameRunner) PlayBattle(seed uint64, agents [2]agent.Config) *game.Battle {
	b := game.NewBattle(seed)
	for {
		actor, ok := b.NextToAct()
		if !ok {
			break
		}
		legal := b.LegalActions(actor)
		var action game.Action
		if len(legal) == 1 {
			action = legal[0]
		} else {
			action = r.selector.SelectAction(b, actor, agents[actor])
		}
		if r.logchan != nil {
			r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v\n",
				b.ID,
				b.Turn.ID,
				actor,
				action,
				len(b.Stack),
				b.Players[game.One].Points,
				b.Players[game.Two].Points)
		}
		b.ApplyAction(actor, action)
	}
	log.Debug().
		Str("battle", b.ID).
		Int("turns", b.Turn.ID).
		Str("winner", b.Winner.String()).
		Msg("battle over")
	return b
}
