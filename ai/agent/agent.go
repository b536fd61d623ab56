// Package agent dispatches action decisions to configurable agent
// behaviors, from uniform random play up to the full parallel UCT search.
package agent

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/dreamtides/dreamtides/config"
	"github.com/dreamtides/dreamtides/game"
	"github.com/dreamtides/dreamtides/montecarlo"
)

// Selector picks actions for agents in a battle. One Selector can serve
// many battles and is safe for concurrent use; each call to SelectAction
// is an independent decision.
type Selector struct {
	cfg *config.Config

	mu  sync.Mutex
	rng *frand.RNG

	decisions atomic.Uint64
}

func NewSelector(cfg *config.Config) *Selector {
	seed := cfg.SearchSeed
	if seed == 0 {
		seed = frand.Uint64n(1<<63) + 1
	}
	return &Selector{
		cfg: cfg,
		rng: game.KeyedRNG(seed),
	}
}

// SelectAction returns the action player takes on b, per agentCfg. It
// panics if player is not the next actor, if there are no legal actions,
// or if agentCfg is AlwaysFail; those are all caller bugs, not
// recoverable game states.
func (s *Selector) SelectAction(b *game.Battle, player game.PlayerName, agentCfg Config) game.Action {
	actor, ok := b.NextToAct()
	if !ok {
		panic("SelectAction called on a finished battle")
	}
	if actor != player {
		panic(fmt.Sprintf("SelectAction called for %s but %s is next to act", player, actor))
	}
	legal := b.LegalActions(player)
	if len(legal) == 0 {
		panic(fmt.Sprintf("no legal actions for %s", player))
	}

	switch agentCfg.Kind {
	case AlwaysFail:
		panic("alwaysFail agent asked to act")
	case UniformRandom:
		s.mu.Lock()
		defer s.mu.Unlock()
		return legal[s.rng.Intn(len(legal))]
	case FirstLegal:
		return legal[0]
	case FixedDelay:
		time.Sleep(agentCfg.Delay)
		return legal[0]
	case ExhaustiveSearch, ExhaustiveSearchSingleThreaded:
		return s.searchAction(b, player, agentCfg, legal)
	}
	panic(fmt.Sprintf("unknown agent kind %d", agentCfg.Kind))
}

// searchAction runs an independent UCT search per candidate action and
// picks the highest mean reward.
func (s *Selector) searchAction(b *game.Battle, player game.PlayerName, agentCfg Config, legal []game.Action) game.Action {
	if len(legal) == 1 {
		log.Debug().Str("action", legal[0].String()).Msg("single legal action, skipping search")
		return legal[0]
	}

	decisionCtx := montecarlo.ClassifyDecision(b, player)
	budget := montecarlo.IterationBudget(
		agentCfg.MaxIterationsPerAction, s.cfg.BudgetMultiplier, len(legal), decisionCtx)

	baseSeed := s.cfg.SearchSeed
	if baseSeed == 0 {
		baseSeed = b.Hash()
	}
	decisionSeed := montecarlo.DeriveSeed(baseSeed, s.decisions.Add(1))

	threads := s.cfg.Threads
	if agentCfg.Kind == ExhaustiveSearchSingleThreaded {
		threads = 1
	}

	start := time.Now()
	trees := make([]*montecarlo.SearchTree, len(legal))
	g := errgroup.Group{}
	g.SetLimit(threads)
	for i, action := range legal {
		// Candidate seeds derive from the candidate's canonical index, so
		// results do not depend on worker scheduling.
		seed := montecarlo.DeriveSeed(decisionSeed, uint64(i))
		i, action := i, action
		g.Go(func() error {
			searcher := montecarlo.NewSearcher(b, player, seed)
			trees[i] = searcher.SearchCandidate(action, budget)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Search units have no recoverable failure modes; an error here
		// is a faulty unit and must not be masked by its siblings.
		panic(err)
	}

	// Ties go to the earliest candidate in canonical order.
	best := 0
	for i := 1; i < len(trees); i++ {
		if trees[i].RootMeanReward() > trees[best].RootMeanReward() {
			best = i
		}
	}

	log.Debug().
		Str("context", decisionCtx.String()).
		Int("candidates", len(legal)).
		Int("iterationsPerAction", budget).
		Dur("elapsed", time.Since(start)).
		Strs("rewards", lo.Map(trees, func(t *montecarlo.SearchTree, _ int) string {
			return fmt.Sprintf("%s=%.3f/%d", t.Candidate, t.RootMeanReward(), t.RootVisits())
		})).
		Str("selected", legal[best].String()).
		Msg("search decision")

	if s.cfg.GraphDumpPath != "" {
		graph := trees[best].Graph(s.cfg.GraphDumpDepth)
		if err := montecarlo.WriteGraphFile(s.cfg.GraphDumpPath, graph); err != nil {
			log.Err(err).Msg("writing search graph")
		}
	}
	return legal[best]
}
