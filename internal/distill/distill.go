// Package distill freezes a proof subgraph into a static, linearly ordered
// model for export and printing: furthest prerequisites first, target last.
package distill

import (
	"fmt"
	"sort"
	"strings"

	"github.com/proofgraph/proofgraph/internal/edge"
	"github.com/proofgraph/proofgraph/internal/graph"
	"github.com/proofgraph/proofgraph/internal/proofpath"
)

// Step is one artifact in the linearized proof, annotated with its
// prerequisite depth relative to the target (target is depth 0).
type Step struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Label          string `json:"label"`
	Content        string `json:"content,omitempty"`
	ContentPreview string `json:"content_preview,omitempty"`
	Proof          string `json:"proof,omitempty"`
	Position       string `json:"position,omitempty"`
	Depth          int    `json:"depth"`
}

// Proof is the self-contained distilled model handed to external renderers.
// No interactivity state leaks into it.
type Proof struct {
	TargetID string           `json:"target_id"`
	Depth    int              `json:"depth"`
	Steps    []Step           `json:"steps"`
	Edges    []edge.Canonical `json:"edges"`
}

// Build produces the distilled proof for a frozen subgraph. Steps are
// ordered by decreasing prerequisite depth (deepest dependencies first, the
// target last); ties break on id for determinism.
func Build(proc *graph.Processed, sub *proofpath.Subgraph) (*Proof, error) {
	target := proc.NodeByID[sub.TargetID]
	if target == nil {
		return nil, fmt.Errorf("proof target %q not in graph", sub.TargetID)
	}

	depths := proofpath.LayerDepths(proc, sub)

	p := &Proof{TargetID: sub.TargetID, Depth: sub.Depth}
	for id := range sub.VisibleNodes {
		n := proc.NodeByID[id]
		if n == nil {
			continue
		}
		p.Steps = append(p.Steps, Step{
			ID:             n.ID,
			Type:           n.NormalizedType(),
			Label:          n.Label(),
			Content:        n.Content,
			ContentPreview: n.ContentPreview,
			Proof:          n.Proof,
			Position:       n.Position,
			Depth:          depths[id],
		})
	}

	sort.Slice(p.Steps, func(i, j int) bool {
		if p.Steps[i].Depth != p.Steps[j].Depth {
			return p.Steps[i].Depth > p.Steps[j].Depth
		}
		return p.Steps[i].ID < p.Steps[j].ID
	})

	for _, c := range proc.Edges {
		if sub.VisibleEdges[c.PairKey()] && sub.VisibleNodes[c.Source] && sub.VisibleNodes[c.Target] {
			p.Edges = append(p.Edges, c)
		}
	}

	return p, nil
}

// Markdown renders the distilled proof for printing or piping into a
// document.
func Markdown(p *Proof) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Distilled proof of %s\n\n", p.TargetID))
	sb.WriteString(fmt.Sprintf("Prerequisite depth: %d, steps: %d\n", p.Depth, len(p.Steps)))

	for i, s := range p.Steps {
		sb.WriteString(fmt.Sprintf("\n## %d. %s (%s)\n\n", i+1, s.Label, s.Type))
		if s.Position != "" {
			sb.WriteString(fmt.Sprintf("*Source: %s*\n\n", s.Position))
		}
		switch {
		case s.Content != "":
			sb.WriteString(s.Content + "\n")
		case s.ContentPreview != "":
			sb.WriteString(s.ContentPreview + "\n")
		}
		if s.Proof != "" {
			sb.WriteString("\n**Proof.** " + s.Proof + "\n")
		}
	}
	return sb.String()
}
