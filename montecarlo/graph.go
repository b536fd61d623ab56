package montecarlo

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// GraphNode is one explored node of a dumped search tree.
type GraphNode struct {
	ID         int32   `json:"id"`
	Depth      int     `json:"depth"`
	Visits     uint32  `json:"visits"`
	MeanReward float64 `json:"mean_reward"`
}

// GraphEdge connects a parent node to a child via the action taken.
type GraphEdge struct {
	From   int32  `json:"from"`
	To     int32  `json:"to"`
	Action string `json:"action"`
}

// Graph is a depth-limited snapshot of one candidate's search tree for
// offline visualization. It is diagnostic output only and plays no part
// in the decision.
type Graph struct {
	Candidate  string      `json:"candidate"`
	Iterations int         `json:"iterations"`
	Nodes      []GraphNode `json:"nodes"`
	Edges      []GraphEdge `json:"edges"`
}

// Graph extracts the tree's nodes and edges down to maxDepth levels below
// the root. A maxDepth of zero dumps only the root.
func (t *SearchTree) Graph(maxDepth int) *Graph {
	g := &Graph{
		Candidate:  t.Candidate.String(),
		Iterations: t.RootVisits(),
	}
	if len(t.nodes) == 0 {
		return g
	}
	// depths doubles as the inclusion set: -1 marks a node outside the
	// dump, so nothing below a cut-off parent is ever emitted.
	depths := make([]int, len(t.nodes))
	for i := range depths {
		depths[i] = -1
	}
	depths[0] = 0
	g.Nodes = append(g.Nodes, GraphNode{
		ID:         0,
		Visits:     t.nodes[0].visits,
		MeanReward: t.RootMeanReward(),
	})
	// Children always follow their parents in the arena, so one forward
	// pass assigns every depth.
	for idx := int32(0); idx < int32(len(t.nodes)); idx++ {
		depth := depths[idx]
		if depth < 0 || depth >= maxDepth {
			continue
		}
		for _, edge := range t.nodes[idx].children {
			child := &t.nodes[edge.node]
			depths[edge.node] = depth + 1
			mean := 0.0
			if child.visits > 0 {
				mean = child.reward / float64(child.visits)
			}
			g.Nodes = append(g.Nodes, GraphNode{
				ID:         edge.node,
				Depth:      depth + 1,
				Visits:     child.visits,
				MeanReward: mean,
			})
			g.Edges = append(g.Edges, GraphEdge{From: idx, To: edge.node, Action: edge.action.String()})
		}
	}
	return g
}

// WriteGraphFile writes the graph as gzipped JSON.
func WriteGraphFile(path string, g *Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create graph file: %w", err)
	}
	defer f.Close()
	zw := gzip.NewWriter(f)
	enc := json.NewEncoder(zw)
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("could not encode graph: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not close gzip writer: %w", err)
	}
	log.Debug().Str("path", path).Int("nodes", len(g.Nodes)).Msg("wrote search graph")
	return nil
}
