package viz

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
	"github.com/proofgraph/proofgraph/internal/graph"
	"github.com/proofgraph/proofgraph/internal/layout"
	"github.com/proofgraph/proofgraph/internal/session"
)

func buildFixture(t *testing.T) (*graph.Processed, *session.Visible, *layout.Simulation) {
	t.Helper()
	nodes := []*artifact.Artifact{
		{ID: "thm", Type: artifact.TypeTheorem, DisplayName: "Theorem 1", X: 100, Y: 50},
		{ID: "lem", Type: artifact.TypeLemma, ContentPreview: "short preview", X: 30, Y: 40},
	}
	raws := []edge.Raw{{Source: "lem", Target: "thm", DependencyType: edge.UsedIn}}

	proc := graph.NewProcessor().Process(nodes, raws)
	sim := layout.NewSimulation(layout.DefaultConfig())
	sim.SetGraph(proc.Nodes, proc.Edges, proc.Degree)

	sess := session.New()
	return proc, sess.VisibleSnapshot(proc), sim
}

func TestBuildGraphData(t *testing.T) {
	proc, vis, sim := buildFixture(t)
	g := BuildGraphData(proc, vis, sim)

	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Fatalf("graph data has %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}

	var thm Node
	for _, n := range g.Nodes {
		if n.ID == "thm" {
			thm = n
		}
	}
	if thm.Label != "Theorem 1" {
		t.Errorf("Label = %q", thm.Label)
	}
	if thm.Color != proc.NodeColors[artifact.TypeTheorem] {
		t.Errorf("Color = %q, want processor's color", thm.Color)
	}
	if thm.Radius < layout.MinRadius || thm.Radius > layout.MaxRadius {
		t.Errorf("Radius = %v, outside bounds", thm.Radius)
	}
	if thm.X != 100 || thm.Y != 50 {
		t.Errorf("position = (%v,%v), want the snapshot coordinates", thm.X, thm.Y)
	}

	e := g.Edges[0]
	if e.Source != "lem" || e.Target != "thm" {
		t.Errorf("edge = %+v", e)
	}
	if e.Color != proc.EdgeColors[edge.UsedIn] {
		t.Errorf("edge color = %q", e.Color)
	}
}

func TestBuildGraphDataFiltered(t *testing.T) {
	proc, _, sim := buildFixture(t)

	sess := session.New()
	sess.ToggleType(artifact.TypeLemma)
	g := BuildGraphData(proc, sess.VisibleSnapshot(proc), sim)

	if len(g.Nodes) != 1 || g.Nodes[0].ID != "thm" {
		t.Errorf("filtered nodes = %+v", g.Nodes)
	}
	if len(g.Edges) != 0 {
		t.Errorf("edge with hidden endpoint exported: %+v", g.Edges)
	}
}

func TestToCytoscapeJSON(t *testing.T) {
	proc, vis, sim := buildFixture(t)
	g := BuildGraphData(proc, vis, sim)

	out, err := g.ToCytoscapeJSON()
	if err != nil {
		t.Fatalf("ToCytoscapeJSON() error = %v", err)
	}

	var elements CytoscapeElements
	if err := json.Unmarshal([]byte(out), &elements); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(elements.Nodes) != 2 || len(elements.Edges) != 1 {
		t.Fatalf("elements: %d nodes, %d edges", len(elements.Nodes), len(elements.Edges))
	}

	for _, n := range elements.Nodes {
		if n.Position.X != n.Data.X || n.Position.Y != n.Data.Y {
			t.Errorf("position block diverges from data: %+v", n)
		}
	}
	if elements.Edges[0].Data.ID == "" {
		t.Error("edge missing an id")
	}
}

func TestGenerateHTML(t *testing.T) {
	proc, vis, sim := buildFixture(t)
	g := BuildGraphData(proc, vis, sim)

	html, err := GenerateHTML(g, HTMLOptions{Title: "2403.01234", Layout: "preset"})
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}

	for _, want := range []string{"2403.01234", "cytoscape", "preset", "thm"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestGenerateHTMLValidation(t *testing.T) {
	proc, vis, sim := buildFixture(t)
	g := BuildGraphData(proc, vis, sim)

	if _, err := GenerateHTML(g, HTMLOptions{Layout: "sugiyama"}); err == nil {
		t.Error("unknown layout accepted")
	}
	if _, err := GenerateHTML(nil, DefaultOptions()); err == nil {
		t.Error("nil graph accepted")
	}
}

func TestGenerateHTMLEmptyGraph(t *testing.T) {
	html, err := GenerateHTML(&GraphData{}, DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	if html == "" {
		t.Error("empty graph produced no page")
	}
}
