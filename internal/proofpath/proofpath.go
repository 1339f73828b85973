// Package proofpath implements bounded-depth prerequisite traversal: the
// backward walk from a target artifact along prerequisite edges that reveals
// what it logically depends on.
package proofpath

import (
	"github.com/proofgraph/proofgraph/internal/edge"
	"github.com/proofgraph/proofgraph/internal/graph"
)

// Subgraph is the visible subset produced by a bounded traversal. Edge keys
// are source=>target pairs over normalized edges.
type Subgraph struct {
	TargetID string
	Depth    int

	VisibleNodes map[string]bool
	VisibleEdges map[string]bool
}

// prerequisite reports whether a canonical edge is a logical prerequisite
// relation. Generalization edges are relationships between statements, not
// dependency chains, so they never join a proof path.
func prerequisite(c edge.Canonical) bool {
	return c.DependencyType != edge.GeneralizedBy
}

// Build walks backward from targetID along the incoming adjacency index for
// at most depth rounds, collecting each predecessor and the connecting edge.
// Expansion stops early once a round adds nothing.
func Build(proc *graph.Processed, targetID string, depth int) *Subgraph {
	sub := &Subgraph{
		TargetID:     targetID,
		Depth:        depth,
		VisibleNodes: map[string]bool{targetID: true},
		VisibleEdges: make(map[string]bool),
	}

	frontier := []string{targetID}
	for round := 0; round < depth && len(frontier) > 0; round++ {
		var next []string
		for _, id := range frontier {
			for _, c := range proc.IncomingByTarget[id] {
				if !prerequisite(c) {
					continue
				}
				sub.VisibleEdges[c.PairKey()] = true
				if !sub.VisibleNodes[c.Source] {
					sub.VisibleNodes[c.Source] = true
					next = append(next, c.Source)
				}
			}
		}
		frontier = next
	}

	return sub
}

// LayerDepths assigns each visible node its BFS layer from the target along
// the subgraph's own edge set: the target is layer 0, its direct
// prerequisites layer 1, and so on. Consumers use this for presentation
// ordering.
func LayerDepths(proc *graph.Processed, sub *Subgraph) map[string]int {
	depths := map[string]int{sub.TargetID: 0}
	frontier := []string{sub.TargetID}

	for d := 1; len(frontier) > 0; d++ {
		var next []string
		for _, id := range frontier {
			for _, c := range proc.IncomingByTarget[id] {
				if !sub.VisibleNodes[c.Source] || !sub.VisibleEdges[c.PairKey()] {
					continue
				}
				if _, seen := depths[c.Source]; seen {
					continue
				}
				depths[c.Source] = d
				next = append(next, c.Source)
			}
		}
		frontier = next
	}
	return depths
}

// MaxDepth returns the eccentricity of targetID in the incoming-direction
// prerequisite reachability graph: the number of BFS layers before expansion
// exhausts. A node with no prerequisites has depth 0.
func MaxDepth(proc *graph.Processed, targetID string) int {
	visited := map[string]bool{targetID: true}
	frontier := []string{targetID}

	depth := 0
	for len(frontier) > 0 {
		var next []string
		for _, id := range frontier {
			for _, c := range proc.IncomingByTarget[id] {
				if !prerequisite(c) || visited[c.Source] {
					continue
				}
				visited[c.Source] = true
				next = append(next, c.Source)
			}
		}
		if len(next) == 0 {
			break
		}
		depth++
		frontier = next
	}

	return depth
}
