// Package bot serves battle decisions over NATS with a JSON protocol. A
// human client drives a battle; the bot plays the agent's side, using
// speculative search to precompute its responses while the human decides.
package bot

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/dreamtides/dreamtides/ai/agent"
	"github.com/dreamtides/dreamtides/config"
	"github.com/dreamtides/dreamtides/game"
	"github.com/dreamtides/dreamtides/speculative"
)

type session struct {
	battle      *game.Battle
	agentPlayer game.PlayerName
	agentCfg    agent.Config
}

// Bot holds all active battle sessions. Safe for concurrent use; each
// session is driven by one client at a time.
type Bot struct {
	cfg      *config.Config
	selector *agent.Selector
	spec     *speculative.Store

	mu       sync.Mutex
	sessions map[string]*session
}

func NewBot(cfg *config.Config) *Bot {
	selector := agent.NewSelector(cfg)
	return &Bot{
		cfg:      cfg,
		selector: selector,
		spec:     speculative.NewStore(selector),
		sessions: make(map[string]*session),
	}
}

// Handle processes one request and always returns a JSON response.
func (bot *Bot) Handle(data []byte) []byte {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return marshalResponse(errorResponse("could not parse request", err))
	}
	var resp *Response
	switch req.Command {
	case "newBattle":
		resp = bot.newBattle(&req)
	case "act":
		resp = bot.act(&req)
	case "legal":
		resp = bot.legal(&req)
	default:
		resp = errorResponse(fmt.Sprintf("unknown command %q", req.Command), nil)
	}
	return marshalResponse(resp)
}

func marshalResponse(resp *Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		// Should never happen, but we need to return something sensible.
		return []byte(`{"error":"could not marshal response"}`)
	}
	return data
}

func errorResponse(message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{Error: msg}
}

func (bot *Bot) newBattle(req *Request) *Response {
	agentPlayer := game.Two
	switch req.AgentPlayer {
	case "", "Two":
	case "One":
		agentPlayer = game.One
	default:
		return errorResponse(fmt.Sprintf("unknown player %q", req.AgentPlayer), nil)
	}
	agentCfg := agent.Uct(1000)
	if req.Agent != nil {
		agentCfg = *req.Agent
	}

	seed := req.Seed
	if seed == 0 {
		seed = frand.Uint64n(1<<63) + 1
	}
	b := game.NewBattle(seed)
	s := &session{battle: b, agentPlayer: agentPlayer, agentCfg: agentCfg}
	log.Info().
		Str("battle", b.ID).
		Str("agentPlayer", agentPlayer.String()).
		Str("agent", agentCfg.String()).
		Msg("new battle")

	resp := &Response{BattleID: b.ID}
	resp.AgentActions = bot.runAgent(s)
	bot.finishResponse(s, resp)

	// Publish the session only once the opening agent moves are applied,
	// so no other request can observe it mid-mutation.
	bot.mu.Lock()
	bot.sessions[b.ID] = s
	bot.mu.Unlock()
	return resp
}

func (bot *Bot) act(req *Request) *Response {
	s, resp := bot.session(req)
	if resp != nil {
		return resp
	}
	if req.Action == nil {
		return errorResponse("act requires an action", nil)
	}
	action, err := req.Action.toAction()
	if err != nil {
		return errorResponse("bad action", err)
	}

	bot.mu.Lock()
	defer bot.mu.Unlock()
	human := s.agentPlayer.Opponent()
	actor, ok := s.battle.NextToAct()
	if !ok {
		return errorResponse("battle is over", nil)
	}
	if actor != human {
		return errorResponse("not your turn", nil)
	}
	legal := s.battle.LegalActions(human)
	if !containsAction(legal, action) {
		return errorResponse(fmt.Sprintf("illegal action %s", action), nil)
	}
	s.battle.ApplyAction(human, action)

	resp = &Response{BattleID: s.battle.ID}
	resp.AgentActions = bot.runAgent(s)
	bot.finishResponse(s, resp)
	return resp
}

func (bot *Bot) legal(req *Request) *Response {
	s, resp := bot.session(req)
	if resp != nil {
		return resp
	}
	bot.mu.Lock()
	defer bot.mu.Unlock()
	resp = &Response{BattleID: s.battle.ID}
	bot.finishResponse(s, resp)
	return resp
}

func (bot *Bot) session(req *Request) (*session, *Response) {
	bot.mu.Lock()
	s, ok := bot.sessions[req.BattleID]
	bot.mu.Unlock()
	if !ok {
		return nil, errorResponse(fmt.Sprintf("unknown battle %q", req.BattleID), nil)
	}
	return s, nil
}

// runAgent plays the agent's side until the human is next to act or the
// battle ends, consuming a matching speculation if one is in flight.
// Callers hold bot.mu for act/legal; newBattle owns the session
// exclusively until it publishes it into the session map.
func (bot *Bot) runAgent(s *session) []WireAction {
	var applied []WireAction
	for {
		actor, ok := s.battle.NextToAct()
		if !ok || actor != s.agentPlayer {
			break
		}
		legal := s.battle.LegalActions(s.agentPlayer)
		var action game.Action
		switch {
		case len(legal) == 1:
			action = legal[0]
		default:
			if a, hit := bot.spec.Take(s.battle); hit {
				action = a
			} else {
				action = bot.selector.SelectAction(s.battle, s.agentPlayer, s.agentCfg)
			}
		}
		s.battle.ApplyAction(s.agentPlayer, action)
		applied = append(applied, toWire(action))
	}
	return applied
}

// finishResponse fills in the human's view and legal actions, and starts
// speculating on the human's next move when the battle continues.
func (bot *Bot) finishResponse(s *session, resp *Response) {
	human := s.agentPlayer.Opponent()
	resp.State = ViewFor(s.battle, human)
	actor, ok := s.battle.NextToAct()
	if !ok {
		bot.spec.Abandon(s.battle.ID)
		return
	}
	if actor == human {
		legal := s.battle.LegalActions(human)
		for _, a := range legal {
			resp.LegalActions = append(resp.LegalActions, toWire(a))
		}
		bot.spec.Begin(s.battle, human, s.agentCfg)
	}
}

func containsAction(actions []game.Action, a game.Action) bool {
	for _, v := range actions {
		if v == a {
			return true
		}
	}
	return false
}
