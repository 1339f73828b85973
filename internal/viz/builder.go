package viz

import (
	"github.com/proofgraph/proofgraph/internal/graph"
	"github.com/proofgraph/proofgraph/internal/layout"
	"github.com/proofgraph/proofgraph/internal/session"
)

// BuildGraphData assembles the display model from the session's visible
// subset, carrying the processor's stable colors and the simulation's radii
// and positions.
func BuildGraphData(proc *graph.Processed, vis *session.Visible, sim *layout.Simulation) *GraphData {
	g := &GraphData{
		Nodes: make([]Node, 0, len(vis.Nodes)),
		Edges: make([]Edge, 0, len(vis.Edges)),
	}

	for _, n := range vis.Nodes {
		t := n.NormalizedType()
		g.Nodes = append(g.Nodes, Node{
			ID:             n.ID,
			Type:           t,
			Label:          n.Label(),
			ContentPreview: n.ContentPreview,
			Position:       n.Position,
			Color:          proc.NodeColors[t],
			Radius:         sim.Radius(n.ID),
			X:              n.X,
			Y:              n.Y,
		})
	}

	for _, c := range vis.Edges {
		g.Edges = append(g.Edges, Edge{
			Source:         c.Source,
			Target:         c.Target,
			DependencyType: c.DependencyType,
			Color:          proc.EdgeColors[c.DependencyType],
			Context:        c.Context,
		})
	}

	return g
}
