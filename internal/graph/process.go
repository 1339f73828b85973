package graph

import (
	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
)

// nodePalette is the fixed 10-color cycle for artifact types.
var nodePalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b5", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// Edge colors are fixed per canonical dependency type; everything outside
// the two semantic types renders neutral gray.
const (
	usedInColor        = "#e15759"
	generalizedByColor = "#4e79a7"
	neutralEdgeColor   = "#999999"
)

// Processed is the derived snapshot every other component consumes. It is
// rebuilt from scratch on every mutation (O(V+E)); nothing in it is
// incrementally maintained.
type Processed struct {
	Nodes []*artifact.Artifact
	// Edges are normalized, display-deduped, and restricted to edges whose
	// endpoints have both arrived. Dangling raw edges stay in the store and
	// appear here once their nodes do.
	Edges []edge.Canonical

	NodeTypes  []string
	EdgeTypes  []string
	NodeColors map[string]string
	EdgeColors map[string]string

	NodeByID         map[string]*artifact.Artifact
	OutgoingBySource map[string][]edge.Canonical
	IncomingByTarget map[string][]edge.Canonical

	// Degree counts both directions over the display edge set; it drives
	// node sizing in the layout.
	Degree map[string]int
}

// Processor derives Processed snapshots. It carries the only piece of state
// that must survive across recomputes: the type-to-color registry. A color
// is assigned the first time a type is seen (in canonical priority order for
// types arriving in the same batch) and never reassigned afterwards, so the
// legend stays stable as new types stream in.
type Processor struct {
	assignedNodeColors map[string]string
	assignedOrder      int
}

// NewProcessor creates a processor with an empty color registry.
func NewProcessor() *Processor {
	return &Processor{assignedNodeColors: make(map[string]string)}
}

// ResetColors clears the color registry. Called when the graph resets for a
// new paper.
func (p *Processor) ResetColors() {
	p.assignedNodeColors = make(map[string]string)
	p.assignedOrder = 0
}

// Process builds the derived snapshot from the current store contents.
// Deterministic for a given input set: ordering comes from the canonical
// type priority list and arrival order, never map iteration.
func (p *Processor) Process(nodes []*artifact.Artifact, raws []edge.Raw) *Processed {
	out := &Processed{
		Nodes:            nodes,
		NodeColors:       make(map[string]string),
		EdgeColors:       make(map[string]string),
		NodeByID:         make(map[string]*artifact.Artifact, len(nodes)),
		OutgoingBySource: make(map[string][]edge.Canonical),
		IncomingByTarget: make(map[string][]edge.Canonical),
		Degree:           make(map[string]int, len(nodes)),
	}

	for _, n := range nodes {
		out.NodeByID[n.ID] = n
	}

	// Collect distinct node types in canonical order and assign colors.
	seenTypes := make(map[string]bool)
	var types []string
	for _, n := range nodes {
		t := n.NormalizedType()
		if !seenTypes[t] {
			seenTypes[t] = true
			types = append(types, t)
		}
	}
	out.NodeTypes = artifact.SortTypes(types)
	for _, t := range out.NodeTypes {
		if _, ok := p.assignedNodeColors[t]; !ok {
			p.assignedNodeColors[t] = nodePalette[p.assignedOrder%len(nodePalette)]
			p.assignedOrder++
		}
		out.NodeColors[t] = p.assignedNodeColors[t]
	}

	// Normalize every raw edge, drop rejects, dedup on the canonical key,
	// and keep only edges whose endpoints are present.
	seenEdges := make(map[string]bool)
	seenEdgeTypes := make(map[string]bool)
	for _, r := range raws {
		c, ok := edge.Normalize(r)
		if !ok {
			continue
		}
		if out.NodeByID[c.Source] == nil || out.NodeByID[c.Target] == nil {
			continue
		}
		if key := c.Key(); seenEdges[key] {
			continue
		} else {
			seenEdges[key] = true
		}

		out.Edges = append(out.Edges, c)
		if !seenEdgeTypes[c.DependencyType] {
			seenEdgeTypes[c.DependencyType] = true
			out.EdgeTypes = append(out.EdgeTypes, c.DependencyType)
			out.EdgeColors[c.DependencyType] = edgeColor(c.DependencyType)
		}
	}

	// Single pass to build the adjacency indexes and degrees.
	for _, c := range out.Edges {
		out.OutgoingBySource[c.Source] = append(out.OutgoingBySource[c.Source], c)
		out.IncomingByTarget[c.Target] = append(out.IncomingByTarget[c.Target], c)
		out.Degree[c.Source]++
		out.Degree[c.Target]++
	}

	return out
}

// edgeColor maps a canonical dependency type to its fixed display color.
func edgeColor(depType string) string {
	switch depType {
	case edge.UsedIn:
		return usedInColor
	case edge.GeneralizedBy:
		return generalizedByColor
	default:
		return neutralEdgeColor
	}
}
