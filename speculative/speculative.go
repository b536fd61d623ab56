// Package speculative precomputes the agent's next search decision while
// the opponent is still deciding. The store predicts the opponent will
// take the primary action (pass priority, end turn, or start the next
// turn), runs the agent's search against that future in the background,
// and hands the result over if the prediction held.
package speculative

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dreamtides/dreamtides/ai/agent"
	"github.com/dreamtides/dreamtides/game"
)

// PrimaryAction returns the non-card action the opponent is most likely
// to take from legal, in priority order: pass priority, end turn, start
// next turn.
func PrimaryAction(legal []game.Action) (game.Action, bool) {
	for _, kind := range []game.ActionKind{
		game.ActionPassPriority, game.ActionEndTurn, game.ActionStartNextTurn,
	} {
		for _, a := range legal {
			if a.Kind == kind {
				return a, true
			}
		}
	}
	return game.Action{}, false
}

// search is one in-flight speculation. done closes when action is ready;
// action is only read after done.
type search struct {
	predicted game.Action
	stateHash uint64
	done      chan struct{}
	action    game.Action
}

// Store tracks at most one in-flight speculation per battle. It is safe
// for concurrent use.
type Store struct {
	selector *agent.Selector

	mu       sync.Mutex
	searches map[string]*search
}

func NewStore(selector *agent.Selector) *Store {
	return &Store{
		selector: selector,
		searches: make(map[string]*search),
	}
}

// Begin starts speculating on b for the agent playing against opponent,
// replacing any previous speculation for the battle. It predicts the
// opponent's primary action, advances through any forced single-action
// responses, and searches the resulting state in the background. If the
// prediction leaves the opponent with a real choice, or ends the battle,
// no speculation starts.
func (s *Store) Begin(b *game.Battle, opponent game.PlayerName, agentCfg agent.Config) {
	if agentCfg.Kind == agent.AlwaysFail {
		return
	}
	agentPlayer := opponent.Opponent()
	predicted, ok := PrimaryAction(b.LegalActions(opponent))
	if !ok {
		return
	}

	st := b.Copy()
	st.ApplyAction(opponent, predicted)
	for {
		actor, playing := st.NextToAct()
		if !playing {
			return
		}
		if actor == agentPlayer {
			break
		}
		legal := st.LegalActions(actor)
		if len(legal) != 1 {
			// The opponent retains a choice; the future is unpredictable.
			return
		}
		st.ApplyAction(actor, legal[0])
	}

	sc := &search{
		predicted: predicted,
		stateHash: st.Hash(),
		done:      make(chan struct{}),
	}
	s.mu.Lock()
	s.searches[b.ID] = sc
	s.mu.Unlock()

	log.Debug().
		Str("battle", b.ID).
		Str("predicted", predicted.String()).
		Msg("starting speculative search")
	go func() {
		sc.action = s.selector.SelectAction(st, agentPlayer, agentCfg)
		close(sc.done)
	}()
}

// Take consumes the speculation for b, where b is the state the agent
// must now act on. It returns the precomputed action only if the battle
// arrived at exactly the speculated state, blocking until the background
// search finishes. A speculation is consumed whether or not it matched.
func (s *Store) Take(b *game.Battle) (game.Action, bool) {
	s.mu.Lock()
	sc, ok := s.searches[b.ID]
	delete(s.searches, b.ID)
	s.mu.Unlock()
	if !ok {
		return game.Action{}, false
	}
	if sc.stateHash != b.Hash() {
		log.Debug().
			Str("battle", b.ID).
			Str("predicted", sc.predicted.String()).
			Msg("speculation missed")
		return game.Action{}, false
	}
	<-sc.done
	log.Debug().
		Str("battle", b.ID).
		Str("action", sc.action.String()).
		Msg("speculation hit")
	return sc.action, true
}

// Abandon drops any in-flight speculation for the battle. The background
// search, if running, finishes and is discarded.
func (s *Store) Abandon(battleID string) {
	s.mu.Lock()
	delete(s.searches, battleID)
	s.mu.Unlock()
}
