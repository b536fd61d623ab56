// Package montecarlo implements information-set monte carlo tree search
// over battle states with hidden information. Each candidate root action
// owns a fully independent search tree; hidden state is re-randomized with
// a fresh seed on every iteration, and rewards propagate with a negamax
// sign flip on the acting player.
package montecarlo

import (
	"io"
	"math"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/dreamtides/dreamtides/game"
)

// ExplorationConstant is the UCT exploration weight, 1/sqrt(2).
const ExplorationConstant = 0.7071067811865475

const noNode = int32(-1)

// searchNode lives in the tree's arena and is referenced by index only.
// actor is the player whose action produced this node; visits counts the
// completed iterations passing through it, and reward accumulates only
// during backpropagation.
type searchNode struct {
	parent   int32
	actor    game.PlayerName
	visits   uint32
	reward   float64
	children []childEdge
	untried  []game.Action
}

type childEdge struct {
	action game.Action
	node   int32
}

// SearchTree holds all explored states for one candidate root action. The
// root (index 0) is the state immediately after applying the candidate.
type SearchTree struct {
	Candidate game.Action
	nodes     []searchNode
}

// RootVisits is the number of completed iterations on this tree.
func (t *SearchTree) RootVisits() int {
	if len(t.nodes) == 0 {
		return 0
	}
	return int(t.nodes[0].visits)
}

// RootMeanReward is the candidate's average reward from the maximizing
// player's perspective.
func (t *SearchTree) RootMeanReward() float64 {
	if len(t.nodes) == 0 || t.nodes[0].visits == 0 {
		return 0
	}
	return t.nodes[0].reward / float64(t.nodes[0].visits)
}

// NodeCount is the number of expanded nodes in the arena.
func (t *SearchTree) NodeCount() int {
	return len(t.nodes)
}

// uctScore ranks a child for selection: exploitation plus the UCT
// exploration bonus. Never called with zero child visits; unvisited
// actions are taken through expansion first.
func uctScore(parentVisits uint32, child *searchNode) float64 {
	mean := child.reward / float64(child.visits)
	return mean + ExplorationConstant*math.Sqrt(math.Log(float64(parentVisits))/float64(child.visits))
}

// LogIteration is one line of the optional iteration log stream, for
// offline debugging of a search.
type LogIteration struct {
	Iteration  int     `yaml:"iteration" json:"iteration"`
	Candidate  string  `yaml:"candidate" json:"candidate"`
	Reward     float64 `yaml:"reward" json:"reward"`
	TreeDepth  int     `yaml:"depth" json:"depth"`
	RolloutLen int     `yaml:"rollout_len" json:"rollout_len"`
}

// Searcher runs UCT iterations for candidate actions of a single decision.
// The base battle is read-only; every iteration works on its own
// randomized copy. A Searcher is not safe for concurrent use; callers run
// one Searcher per concurrent candidate.
type Searcher struct {
	base      *game.Battle
	maximizer game.PlayerName
	seed      uint64

	logStream io.Writer
}

func NewSearcher(base *game.Battle, maximizer game.PlayerName, seed uint64) *Searcher {
	return &Searcher{base: base, maximizer: maximizer, seed: seed}
}

// SetLogStream enables the per-iteration YAML log.
func (s *Searcher) SetLogStream(w io.Writer) {
	s.logStream = w
}

// SearchCandidate runs the full iteration budget for one candidate root
// action and returns its tree. Deterministic given the searcher seed.
func (s *Searcher) SearchCandidate(candidate game.Action, iterations int) *SearchTree {
	tree := &SearchTree{
		Candidate: candidate,
		nodes: []searchNode{{
			parent: noNode,
			actor:  s.maximizer,
		}},
	}
	for i := 0; i < iterations; i++ {
		s.runIteration(tree, i)
	}
	return tree
}

// runIteration performs one select/expand, rollout, backpropagate cycle.
// The hidden information is re-sampled with a fresh seed every iteration;
// sharing one sample across iterations measurably degrades decisions.
func (s *Searcher) runIteration(tree *SearchTree, iteration int) {
	iterSeed := DeriveSeed(s.seed, uint64(iteration))
	rng := game.KeyedRNG(DeriveSeed(iterSeed, 1))

	st := Randomize(s.base, s.maximizer.Opponent(), iterSeed)
	st.ApplyAction(s.maximizer, tree.Candidate)

	nodeIdx, depth := s.treePolicy(tree, st, rng)
	reward, rolloutLen := s.rollout(st, rng)
	backpropagate(tree, nodeIdx, reward, s.maximizer)

	if s.logStream != nil {
		out, err := yaml.Marshal([]LogIteration{{
			Iteration:  iteration,
			Candidate:  tree.Candidate.String(),
			Reward:     reward,
			TreeDepth:  depth,
			RolloutLen: rolloutLen,
		}})
		if err != nil {
			log.Err(err).Msg("marshalling iteration log")
			return
		}
		s.logStream.Write(out)
	}
}

// treePolicy descends from the root, expanding the first untried legal
// action it finds and otherwise selecting the legal child with the best
// UCT score. Because each iteration re-randomizes hidden state, a node's
// recorded actions may not all be legal under the current sample; only
// currently legal ones are considered, and a legal action the node has
// never recorded is treated as untried. st is advanced in place to the
// state of the returned node.
func (s *Searcher) treePolicy(tree *SearchTree, st *game.Battle, rng *frand.RNG) (int32, int) {
	idx := int32(0)
	depth := 0
	for {
		actor, ok := st.NextToAct()
		if !ok {
			return idx, depth
		}
		legal := st.LegalActions(actor)
		node := &tree.nodes[idx]
		if node.visits == 0 && len(node.untried) == 0 && len(node.children) == 0 {
			node.untried = legal
		}

		if action, found := firstExpandable(node, legal); found {
			st.ApplyAction(actor, action)
			child := s.expand(tree, idx, action, actor)
			return child, depth + 1
		}

		best := noNode
		bestScore := math.Inf(-1)
		for _, edge := range node.children {
			if !containsAction(legal, edge.action) {
				continue
			}
			score := uctScore(node.visits, &tree.nodes[edge.node])
			if score > bestScore {
				bestScore = score
				best = edge.node
			}
		}
		if best == noNode {
			// No recorded action is legal under this sample; fall back to
			// a uniformly random legal action without growing the tree.
			st.ApplyAction(actor, legal[rng.Intn(len(legal))])
			return idx, depth
		}
		st.ApplyAction(actor, tree.nodes[best].actionFrom(tree, best))
		idx = best
		depth++
	}
}

// actionFrom finds the edge action leading to node idx from its parent.
func (n *searchNode) actionFrom(tree *SearchTree, idx int32) game.Action {
	parent := &tree.nodes[n.parent]
	for _, edge := range parent.children {
		if edge.node == idx {
			return edge.action
		}
	}
	panic("node has no edge from its parent")
}

// firstExpandable returns the first currently legal action the node has
// not yet created a child for, preferring recorded untried actions and
// falling back to legal actions discovered under a new hidden sample.
func firstExpandable(node *searchNode, legal []game.Action) (game.Action, bool) {
	for _, a := range node.untried {
		if containsAction(legal, a) && !node.hasChild(a) {
			return a, true
		}
	}
	for _, a := range legal {
		if !node.hasChild(a) && !containsAction(node.untried, a) {
			return a, true
		}
	}
	return game.Action{}, false
}

func (n *searchNode) hasChild(a game.Action) bool {
	for _, edge := range n.children {
		if edge.action == a {
			return true
		}
	}
	return false
}

func containsAction(actions []game.Action, a game.Action) bool {
	for _, v := range actions {
		if v == a {
			return true
		}
	}
	return false
}

// expand creates a child node for action under parentIdx and removes the
// action from the parent's untried list.
func (s *Searcher) expand(tree *SearchTree, parentIdx int32, action game.Action, actor game.PlayerName) int32 {
	childIdx := int32(len(tree.nodes))
	tree.nodes = append(tree.nodes, searchNode{
		parent: parentIdx,
		actor:  actor,
	})
	parent := &tree.nodes[parentIdx]
	parent.children = append(parent.children, childEdge{action: action, node: childIdx})
	for i, a := range parent.untried {
		if a == action {
			parent.untried = append(parent.untried[:i], parent.untried[i+1:]...)
			break
		}
	}
	return childIdx
}

// rollout plays uniformly random legal actions to the end of the battle
// and scores it for the maximizing player: +1 win, -1 loss, 0 draw. Full
// random playouts are used deliberately; heuristic truncation performed
// worse for this game.
func (s *Searcher) rollout(st *game.Battle, rng *frand.RNG) (float64, int) {
	steps := 0
	for {
		actor, ok := st.NextToAct()
		if !ok {
			break
		}
		legal := st.LegalActions(actor)
		st.ApplyAction(actor, legal[rng.Intn(len(legal))])
		steps++
	}
	winner, _ := st.IsTerminal()
	if p, isPlayer := winner.Player(); isPlayer {
		if p == s.maximizer {
			return 1.0, steps
		}
		return -1.0, steps
	}
	return 0.0, steps
}

// backpropagate walks from the new leaf to the root, counting the visit on
// every node and applying the reward with the negamax sign convention.
func backpropagate(tree *SearchTree, idx int32, reward float64, maximizer game.PlayerName) {
	for idx != noNode {
		node := &tree.nodes[idx]
		node.visits++
		if node.actor == maximizer {
			node.reward += reward
		} else {
			node.reward -= reward
		}
		idx = node.parent
	}
}

// DeriveSeed produces an independent seed from a base seed and a counter,
// so concurrent candidates and sequential iterations draw from
// non-overlapping streams.
func DeriveSeed(base, counter uint64) uint64 {
	return splitmix64(base ^ (counter+1)*0x9e3779b97f4a7c15)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
