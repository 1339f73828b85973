package graph

import (
	"errors"
	"testing"

	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
)

func TestUpsertNodeNewAndMerge(t *testing.T) {
	s := NewStore()

	isNew, err := s.UpsertNode(&artifact.Artifact{ID: "thm-1", Type: artifact.TypeTheorem})
	if err != nil {
		t.Fatalf("UpsertNode() error = %v", err)
	}
	if !isNew {
		t.Error("first upsert should report new")
	}

	// Place the node, then re-ingest richer content.
	placed := s.Node("thm-1")
	placed.X, placed.Y = 120, 80
	fx := 120.0
	placed.FX = &fx

	isNew, err = s.UpsertNode(&artifact.Artifact{
		ID:      "thm-1",
		Type:    artifact.TypeTheorem,
		Content: "full statement",
	})
	if err != nil {
		t.Fatalf("UpsertNode() error = %v", err)
	}
	if isNew {
		t.Error("repeat upsert should not report new")
	}
	if s.NodeCount() != 1 {
		t.Fatalf("NodeCount() = %d, want 1", s.NodeCount())
	}

	got := s.Node("thm-1")
	if got.Content != "full statement" {
		t.Errorf("Content = %q, content merge lost", got.Content)
	}
	if got.X != 120 || got.Y != 80 {
		t.Errorf("upsert moved the node to (%v, %v)", got.X, got.Y)
	}
	if got.FX == nil || *got.FX != 120 {
		t.Error("upsert dropped the pin")
	}
}

func TestUpsertNodeValidates(t *testing.T) {
	s := NewStore()
	_, err := s.UpsertNode(&artifact.Artifact{Type: artifact.TypeLemma})
	if !errors.Is(err, artifact.ErrEmptyID) {
		t.Errorf("UpsertNode() = %v, want ErrEmptyID", err)
	}
}

func TestUpsertNodeCopiesRecord(t *testing.T) {
	s := NewStore()
	in := artifact.Artifact{ID: "lem-1", Content: "v1"}
	s.UpsertNode(&in)

	in.Content = "caller mutation"
	if got := s.Node("lem-1").Content; got != "v1" {
		t.Errorf("store shares memory with caller: Content = %q", got)
	}
}

func TestAddEdgeRawTupleIdentity(t *testing.T) {
	s := NewStore()

	added, err := s.AddEdge(edge.Raw{Source: "a", Target: "b", DependencyType: edge.UsesResult})
	if err != nil || !added {
		t.Fatalf("AddEdge() = (%v, %v), want added", added, err)
	}

	// Exact duplicate: no-op.
	added, err = s.AddEdge(edge.Raw{Source: "a", Target: "b", DependencyType: edge.UsesResult})
	if err != nil {
		t.Fatalf("AddEdge() error = %v", err)
	}
	if added {
		t.Error("duplicate raw edge reported as added")
	}

	// Same pair, different raw dependency type: a distinct store record,
	// even though both normalize to the same display edge.
	added, err = s.AddEdge(edge.Raw{Source: "a", Target: "b", DependencyType: edge.UsesDefinition})
	if err != nil || !added {
		t.Fatalf("AddEdge() = (%v, %v), want distinct tuple added", added, err)
	}

	if s.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", s.EdgeCount())
	}
}

func TestAddEdgeValidates(t *testing.T) {
	s := NewStore()
	if _, err := s.AddEdge(edge.Raw{Target: "b"}); !errors.Is(err, edge.ErrEmptySource) {
		t.Errorf("AddEdge() = %v, want ErrEmptySource", err)
	}
	if _, err := s.AddEdge(edge.Raw{Source: "a"}); !errors.Is(err, edge.ErrEmptyTarget) {
		t.Errorf("AddEdge() = %v, want ErrEmptyTarget", err)
	}
}

func TestAddEdgeToleratesDanglingEndpoints(t *testing.T) {
	s := NewStore()
	added, err := s.AddEdge(edge.Raw{Source: "ghost-1", Target: "ghost-2", DependencyType: edge.UsedIn})
	if err != nil || !added {
		t.Fatalf("AddEdge() = (%v, %v), want dangling edge accepted", added, err)
	}
}

func TestReset(t *testing.T) {
	s := NewStore()
	s.UpsertNode(&artifact.Artifact{ID: "a"})
	s.UpsertNode(&artifact.Artifact{ID: "b"})
	s.AddEdge(edge.Raw{Source: "a", Target: "b", DependencyType: edge.UsedIn})

	s.Reset()

	if s.NodeCount() != 0 || s.EdgeCount() != 0 {
		t.Errorf("after Reset: %d nodes, %d edges", s.NodeCount(), s.EdgeCount())
	}
	if len(s.Nodes()) != 0 || len(s.RawEdges()) != 0 {
		t.Error("Reset left ordered views populated")
	}

	// The store must be immediately usable again.
	if isNew, err := s.UpsertNode(&artifact.Artifact{ID: "a"}); err != nil || !isNew {
		t.Errorf("post-reset upsert = (%v, %v)", isNew, err)
	}
}

func TestArrivalOrder(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"c", "a", "b"} {
		s.UpsertNode(&artifact.Artifact{ID: id})
	}

	got := s.Nodes()
	want := []string{"c", "a", "b"}
	for i, n := range got {
		if n.ID != want[i] {
			t.Fatalf("Nodes()[%d] = %q, want %q", i, n.ID, want[i])
		}
	}
}

func TestDanglingEdges(t *testing.T) {
	s := NewStore()
	s.UpsertNode(&artifact.Artifact{ID: "a"})
	s.UpsertNode(&artifact.Artifact{ID: "b"})

	s.AddEdge(edge.Raw{Source: "a", Target: "b", DependencyType: edge.UsedIn})
	s.AddEdge(edge.Raw{Source: "x", Target: "b", DependencyType: edge.UsedIn})
	s.AddEdge(edge.Raw{Source: "a", Target: "y", DependencyType: edge.UsedIn})
	s.AddEdge(edge.Raw{Source: "x", Target: "y", DependencyType: edge.UsedIn})

	got := s.DanglingEdges()
	if len(got) != 3 {
		t.Fatalf("DanglingEdges() returned %d, want 3", len(got))
	}

	reasons := map[string]string{}
	for _, d := range got {
		reasons[d.Edge.Source+"->"+d.Edge.Target] = d.Reason
	}
	want := map[string]string{
		"x->b": "missing_source",
		"a->y": "missing_target",
		"x->y": "missing_both",
	}
	for k, v := range want {
		if reasons[k] != v {
			t.Errorf("reason[%s] = %q, want %q", k, reasons[k], v)
		}
	}
}

func TestRebuildFromSnapshot(t *testing.T) {
	s := NewStore()
	s.UpsertNode(&artifact.Artifact{ID: "stale"})

	nodes := []artifact.Artifact{{ID: "a", X: 5}, {ID: "b", Y: 7}}
	edges := []edge.Raw{{Source: "a", Target: "b", DependencyType: edge.UsedIn}}
	if err := s.RebuildFromSnapshot(nodes, edges); err != nil {
		t.Fatalf("RebuildFromSnapshot() error = %v", err)
	}

	if s.Node("stale") != nil {
		t.Error("rebuild kept pre-existing node")
	}
	if s.NodeCount() != 2 || s.EdgeCount() != 1 {
		t.Errorf("rebuilt store has %d nodes, %d edges", s.NodeCount(), s.EdgeCount())
	}
	if got := s.Node("a"); got.X != 5 {
		t.Errorf("snapshot coordinates lost: X = %v", got.X)
	}
}
