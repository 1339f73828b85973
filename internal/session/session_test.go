package session

import (
	"errors"
	"testing"

	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
	"github.com/proofgraph/proofgraph/internal/graph"
)

// chainProc builds d -> c -> b -> a over used_in edges.
func chainProc(t *testing.T) *graph.Processed {
	t.Helper()
	nodes := []*artifact.Artifact{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	raws := []edge.Raw{
		{Source: "b", Target: "a", DependencyType: edge.UsedIn},
		{Source: "c", Target: "b", DependencyType: edge.UsedIn},
		{Source: "d", Target: "c", DependencyType: edge.UsedIn},
	}
	return graph.NewProcessor().Process(nodes, raws)
}

func TestEnterProofMode(t *testing.T) {
	proc := chainProc(t)
	s := New()

	if err := s.EnterProofMode(proc, "a"); err != nil {
		t.Fatalf("EnterProofMode() error = %v", err)
	}
	if !s.ProofMode || s.ProofDepth != 1 {
		t.Errorf("proof state = mode %v depth %d, want mode at depth 1", s.ProofMode, s.ProofDepth)
	}
	if !s.Pinned || s.PinnedNodeID != "a" {
		t.Error("entering proof mode did not pin the target")
	}
	if s.ProofVisible == nil || !s.ProofVisible.VisibleNodes["b"] {
		t.Error("initial subgraph missing the depth-1 layer")
	}
}

func TestEnterProofModeUnknownNode(t *testing.T) {
	s := New()
	err := s.EnterProofMode(chainProc(t), "nope")
	if !errors.Is(err, ErrUnknownNode) {
		t.Errorf("EnterProofMode() = %v, want ErrUnknownNode", err)
	}
	if s.ProofMode {
		t.Error("failed entry left the session in proof mode")
	}
}

func TestUnfoldSequence(t *testing.T) {
	proc := chainProc(t)
	s := New()
	s.EnterProofMode(proc, "a")

	// Unfold reveals one layer at a time until the chain is exhausted.
	wantDepths := []struct {
		advanced bool
		depth    int
		visible  int
	}{
		{true, 2, 3},  // +c
		{true, 3, 4},  // +d
		{false, 3, 4}, // fourth unfold is a no-op
	}
	for i, want := range wantDepths {
		advanced := s.UnfoldMore(proc)
		if advanced != want.advanced {
			t.Fatalf("unfold %d: advanced = %v, want %v", i+1, advanced, want.advanced)
		}
		if s.ProofDepth != want.depth {
			t.Fatalf("unfold %d: depth = %d, want %d", i+1, s.ProofDepth, want.depth)
		}
		if got := len(s.ProofVisible.VisibleNodes); got != want.visible {
			t.Fatalf("unfold %d: %d visible nodes, want %d", i+1, got, want.visible)
		}
	}
}

func TestUnfoldMoreNoPrerequisites(t *testing.T) {
	proc := chainProc(t)
	s := New()
	s.EnterProofMode(proc, "d") // d has no prerequisites

	if s.UnfoldMore(proc) {
		t.Error("unfold advanced past a prerequisite-free target")
	}
	if s.ProofDepth != 1 {
		t.Errorf("depth = %d, want to stay at 1 so the target stays visible", s.ProofDepth)
	}
	if !s.ProofVisible.VisibleNodes["d"] {
		t.Error("target hidden in its own proof view")
	}
}

func TestUnfoldLess(t *testing.T) {
	proc := chainProc(t)
	s := New()
	s.EnterProofMode(proc, "a")
	s.UnfoldMore(proc)
	s.UnfoldMore(proc) // depth 3

	s.UnfoldLess(proc)
	if s.ProofDepth != 2 {
		t.Errorf("depth = %d, want 2", s.ProofDepth)
	}

	s.UnfoldLess(proc)
	s.UnfoldLess(proc) // would go below 1
	if s.ProofDepth != 1 {
		t.Errorf("depth = %d, want floor at 1", s.ProofDepth)
	}
}

func TestUnfoldOutsideProofMode(t *testing.T) {
	proc := chainProc(t)
	s := New()
	if s.UnfoldMore(proc) {
		t.Error("UnfoldMore advanced outside proof mode")
	}
	s.UnfoldLess(proc) // must not panic or alter state
	if s.ProofDepth != 0 {
		t.Errorf("depth = %d, want untouched", s.ProofDepth)
	}
}

func TestExitProofMode(t *testing.T) {
	proc := chainProc(t)
	s := New()
	s.EnterProofMode(proc, "a")
	s.ExitProofMode()

	if s.ProofMode || s.Pinned || s.ProofVisible != nil {
		t.Errorf("exit left state behind: %+v", s)
	}

	vis := s.VisibleSnapshot(proc)
	if len(vis.Nodes) != 4 {
		t.Errorf("after exit, %d visible nodes, want full graph", len(vis.Nodes))
	}
}

func TestSelectNodeIsolation(t *testing.T) {
	// Star: b and c connect to center; d is unrelated.
	nodes := []*artifact.Artifact{{ID: "center"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	raws := []edge.Raw{
		{Source: "b", Target: "center", DependencyType: edge.UsedIn},
		{Source: "center", Target: "c", DependencyType: edge.UsedIn},
		{Source: "d", Target: "b", DependencyType: edge.UsedIn},
	}
	proc := graph.NewProcessor().Process(nodes, raws)

	s := New()
	if err := s.SelectNode(proc, "center"); err != nil {
		t.Fatalf("SelectNode() error = %v", err)
	}

	vis := s.VisibleSnapshot(proc)
	visible := map[string]bool{}
	for _, n := range vis.Nodes {
		visible[n.ID] = true
	}
	if !visible["center"] || !visible["b"] || !visible["c"] {
		t.Errorf("closed neighborhood incomplete: %v", visible)
	}
	if visible["d"] {
		t.Error("2-hop node leaked into the selection")
	}
	// The d->b edge has both endpoints' membership mixed; it must not show.
	for _, c := range vis.Edges {
		if c.Source == "d" {
			t.Errorf("edge outside the neighborhood visible: %+v", c)
		}
	}
}

func TestSelectNodeIgnoredInProofMode(t *testing.T) {
	proc := chainProc(t)
	s := New()
	s.EnterProofMode(proc, "a")

	if err := s.SelectNode(proc, "d"); err != nil {
		t.Fatalf("SelectNode() error = %v", err)
	}
	if s.PinnedNodeID != "a" || s.SelectionNodes != nil {
		t.Error("selection mutated state while proof mode owns visibility")
	}
}

func TestSelectNodeUnknown(t *testing.T) {
	s := New()
	if err := s.SelectNode(chainProc(t), "nope"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("SelectNode() = %v, want ErrUnknownNode", err)
	}
}

func TestClearSelection(t *testing.T) {
	proc := chainProc(t)
	s := New()
	s.SelectNode(proc, "b")
	s.ClearSelection()

	if s.Pinned || s.SelectionNodes != nil {
		t.Error("ClearSelection left selection state")
	}
	if len(s.VisibleSnapshot(proc).Nodes) != 4 {
		t.Error("full visibility not restored")
	}
}

func TestToggleTypeBlockedWhilePinned(t *testing.T) {
	proc := chainProc(t)
	s := New()
	s.SelectNode(proc, "b")

	if s.ToggleType(artifact.TypeUnknown) {
		t.Error("ToggleType applied while pinned")
	}

	s.ClearSelection()
	if !s.ToggleType(artifact.TypeUnknown) {
		t.Error("ToggleType refused while unpinned")
	}
}

func TestToggleTypeRoundTrip(t *testing.T) {
	s := New()
	s.ToggleType(artifact.TypeRemark)
	if !s.HiddenTypes[artifact.TypeRemark] {
		t.Error("type not hidden after toggle")
	}
	s.ToggleType(artifact.TypeRemark)
	if _, ok := s.HiddenTypes[artifact.TypeRemark]; ok {
		t.Error("re-toggle left a stale entry")
	}
}

func TestVisibleSnapshotHiddenTypes(t *testing.T) {
	nodes := []*artifact.Artifact{
		{ID: "t", Type: artifact.TypeTheorem},
		{ID: "r", Type: artifact.TypeRemark},
	}
	raws := []edge.Raw{{Source: "r", Target: "t", DependencyType: edge.UsedIn}}
	proc := graph.NewProcessor().Process(nodes, raws)

	s := New()
	s.ToggleType(artifact.TypeRemark)

	vis := s.VisibleSnapshot(proc)
	if len(vis.Nodes) != 1 || vis.Nodes[0].ID != "t" {
		t.Errorf("visible nodes = %+v", vis.Nodes)
	}
	// The edge loses an endpoint, so it goes too.
	if len(vis.Edges) != 0 {
		t.Errorf("edge with hidden endpoint visible: %+v", vis.Edges)
	}
}

func TestVisibleSnapshotProofBeatsHiddenTypes(t *testing.T) {
	nodes := []*artifact.Artifact{
		{ID: "t", Type: artifact.TypeTheorem},
		{ID: "r", Type: artifact.TypeRemark},
	}
	raws := []edge.Raw{{Source: "r", Target: "t", DependencyType: edge.UsedIn}}
	proc := graph.NewProcessor().Process(nodes, raws)

	s := New()
	s.ToggleType(artifact.TypeRemark)
	s.EnterProofMode(proc, "t")

	vis := s.VisibleSnapshot(proc)
	visible := map[string]bool{}
	for _, n := range vis.Nodes {
		visible[n.ID] = true
	}
	// The remark is a prerequisite: proof mode shows it despite the filter.
	if !visible["r"] {
		t.Error("proof subgraph member hidden by legend filter")
	}
}
