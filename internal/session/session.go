// Package session owns the ephemeral interaction state of one paper view:
// pinning, legend type filtering, and the proof-mode state machine. One
// Session is constructed per view and torn down on navigation; none of its
// state is persisted.
package session

import (
	"errors"
	"fmt"

	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
	"github.com/proofgraph/proofgraph/internal/graph"
	"github.com/proofgraph/proofgraph/internal/proofpath"
)

// Interaction errors.
var (
	ErrUnknownNode  = errors.New("node not in graph")
	ErrNotProofMode = errors.New("not in proof mode")
)

// Session is the explicit interaction-state struct passed to all operations;
// there are no ambient globals. Zero value is a valid empty session.
type Session struct {
	Pinned       bool
	PinnedNodeID string

	HiddenTypes map[string]bool

	ProofMode     bool
	ProofTargetID string
	ProofDepth    int
	ProofVisible  *proofpath.Subgraph

	// Selection isolation sets, populated while a node is pinned outside
	// proof mode.
	SelectionNodes map[string]bool
	SelectionEdges map[string]bool
}

// New creates an empty session.
func New() *Session {
	return &Session{HiddenTypes: make(map[string]bool)}
}

// Reset clears all interaction state. Called on graph reset and deselection.
func (s *Session) Reset() {
	*s = Session{HiddenTypes: make(map[string]bool)}
}

// EnterProofMode pins the view on targetID at depth 1 and computes the
// initial visible subgraph.
func (s *Session) EnterProofMode(proc *graph.Processed, targetID string) error {
	if proc.NodeByID[targetID] == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, targetID)
	}

	s.ProofMode = true
	s.ProofTargetID = targetID
	s.ProofDepth = 1
	s.Pinned = true
	s.PinnedNodeID = targetID
	s.SelectionNodes = nil
	s.SelectionEdges = nil
	s.RecomputeProofSubgraph(proc)
	return nil
}

// ExitProofMode clears proof state, unpins, and restores full visibility.
func (s *Session) ExitProofMode() {
	s.ProofMode = false
	s.ProofTargetID = ""
	s.ProofDepth = 0
	s.ProofVisible = nil
	s.Pinned = false
	s.PinnedNodeID = ""
}

// UnfoldMore reveals one more prerequisite layer. It is a no-op outside
// proof mode and when the target's prerequisite eccentricity offers nothing
// beyond the current depth — in particular a target with no prerequisites
// stays at depth 1 rather than clamping to 0 and hiding itself.
// Returns true when the depth advanced.
func (s *Session) UnfoldMore(proc *graph.Processed) bool {
	if !s.ProofMode {
		return false
	}

	maxDepth := proofpath.MaxDepth(proc, s.ProofTargetID)
	if maxDepth <= s.ProofDepth {
		return false
	}

	s.ProofDepth = min(maxDepth, s.ProofDepth+1)
	s.RecomputeProofSubgraph(proc)
	return true
}

// UnfoldLess hides the outermost prerequisite layer, never going below 1.
func (s *Session) UnfoldLess(proc *graph.Processed) {
	if !s.ProofMode {
		return
	}
	s.ProofDepth = max(1, s.ProofDepth-1)
	s.RecomputeProofSubgraph(proc)
}

// RecomputeProofSubgraph rebuilds the visible subgraph for the current
// target and depth. Called after every graph mutation while in proof mode.
func (s *Session) RecomputeProofSubgraph(proc *graph.Processed) {
	if !s.ProofMode {
		return
	}
	s.ProofVisible = proofpath.Build(proc, s.ProofTargetID, s.ProofDepth)
}

// SelectNode pins id and isolates its closed 1-hop neighborhood over the
// normalized edge set. Ignored while in proof mode (the proof subgraph owns
// visibility there).
func (s *Session) SelectNode(proc *graph.Processed, id string) error {
	if s.ProofMode {
		return nil
	}
	if proc.NodeByID[id] == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}

	s.Pinned = true
	s.PinnedNodeID = id
	s.SelectionNodes = map[string]bool{id: true}
	s.SelectionEdges = make(map[string]bool)

	for _, c := range proc.OutgoingBySource[id] {
		s.SelectionNodes[c.Target] = true
		s.SelectionEdges[c.Key()] = true
	}
	for _, c := range proc.IncomingByTarget[id] {
		s.SelectionNodes[c.Source] = true
		s.SelectionEdges[c.Key()] = true
	}
	return nil
}

// ClearSelection unpins and restores full visibility (hidden types apply
// again once nothing is pinned). No-op in proof mode: exiting proof mode is
// an explicit action.
func (s *Session) ClearSelection() {
	if s.ProofMode {
		return
	}
	s.Pinned = false
	s.PinnedNodeID = ""
	s.SelectionNodes = nil
	s.SelectionEdges = nil
}

// ToggleType flips legend visibility for an artifact type. Disabled while a
// node is pinned: pinning takes precedence over legend filtering. Returns
// true when the toggle was applied.
func (s *Session) ToggleType(t string) bool {
	if s.Pinned {
		return false
	}
	if s.HiddenTypes == nil {
		s.HiddenTypes = make(map[string]bool)
	}
	s.HiddenTypes[t] = !s.HiddenTypes[t]
	if !s.HiddenTypes[t] {
		delete(s.HiddenTypes, t)
	}
	return true
}

// Visible is the outbound display subset after applying interaction state.
type Visible struct {
	Nodes []*artifact.Artifact
	Edges []edge.Canonical
}

// VisibleSnapshot filters the processed snapshot by the current interaction
// state: proof mode beats selection, selection beats legend filtering.
func (s *Session) VisibleSnapshot(proc *graph.Processed) *Visible {
	switch {
	case s.ProofMode && s.ProofVisible != nil:
		return filterVisible(proc, s.ProofVisible.VisibleNodes, func(c edge.Canonical) bool {
			return s.ProofVisible.VisibleEdges[c.PairKey()]
		})

	case s.Pinned && s.SelectionNodes != nil:
		return filterVisible(proc, s.SelectionNodes, func(c edge.Canonical) bool {
			return s.SelectionEdges[c.Key()]
		})

	default:
		if len(s.HiddenTypes) == 0 {
			return &Visible{Nodes: proc.Nodes, Edges: proc.Edges}
		}
		shown := make(map[string]bool, len(proc.Nodes))
		for _, n := range proc.Nodes {
			if !s.HiddenTypes[n.NormalizedType()] {
				shown[n.ID] = true
			}
		}
		return filterVisible(proc, shown, func(edge.Canonical) bool { return true })
	}
}

// filterVisible keeps nodes in the shown set and edges passing the predicate
// whose endpoints are both shown, preserving processed order.
func filterVisible(proc *graph.Processed, shown map[string]bool, keepEdge func(edge.Canonical) bool) *Visible {
	v := &Visible{}
	for _, n := range proc.Nodes {
		if shown[n.ID] {
			v.Nodes = append(v.Nodes, n)
		}
	}
	for _, c := range proc.Edges {
		if shown[c.Source] && shown[c.Target] && keepEdge(c) {
			v.Edges = append(v.Edges, c)
		}
	}
	return v
}
