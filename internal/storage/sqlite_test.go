package storage

import (
	"path/filepath"
	"testing"

	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
)

// testDB builds a cache populated from freshly written JSONL snapshots.
func testDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	artifactsPath := filepath.Join(dir, "artifacts.jsonl")
	edgesPath := filepath.Join(dir, "edges.jsonl")

	artifacts := []artifact.Artifact{
		{ID: "thm-1", Type: artifact.TypeTheorem, Content: "main result", X: 10, Y: 20},
		{ID: "lem-1", Type: artifact.TypeLemma},
		{ID: "lem-2", Type: artifact.TypeLemma},
	}
	edges := []edge.Raw{
		{Source: "lem-1", Target: "thm-1", DependencyType: edge.UsesResult},
		{Source: "lem-2", Target: "thm-1", DependencyType: edge.UsesResult},
		{Source: "lem-1", Target: "lem-2", DependencyType: edge.UsedIn, Context: "remark"},
	}
	if err := WriteAllArtifacts(artifactsPath, artifacts); err != nil {
		t.Fatal(err)
	}
	if err := WriteAllEdges(edgesPath, edges); err != nil {
		t.Fatal(err)
	}

	db, err := OpenDB(filepath.Join(dir, "graph.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	na, ne, err := db.RebuildFromJSONL(artifactsPath, edgesPath)
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	if na != 3 || ne != 3 {
		t.Fatalf("rebuild loaded (%d, %d), want (3, 3)", na, ne)
	}
	return db
}

func TestGetArtifact(t *testing.T) {
	db := testDB(t)

	a, err := db.GetArtifact("thm-1")
	if err != nil {
		t.Fatalf("GetArtifact() error = %v", err)
	}
	if a == nil {
		t.Fatal("GetArtifact() returned nil for a present id")
	}
	if a.Content != "main result" || a.X != 10 || a.Y != 20 {
		t.Errorf("artifact = %+v", a)
	}

	missing, err := db.GetArtifact("nope")
	if err != nil {
		t.Fatalf("GetArtifact(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetArtifact(missing) = %+v, want nil", missing)
	}
}

func TestCountArtifactsByType(t *testing.T) {
	db := testDB(t)

	counts, err := db.CountArtifactsByType()
	if err != nil {
		t.Fatalf("CountArtifactsByType() error = %v", err)
	}
	if counts[artifact.TypeTheorem] != 1 || counts[artifact.TypeLemma] != 2 {
		t.Errorf("counts = %v", counts)
	}
}

func TestCountEdgesByType(t *testing.T) {
	db := testDB(t)

	counts, err := db.CountEdgesByType()
	if err != nil {
		t.Fatalf("CountEdgesByType() error = %v", err)
	}
	if counts[edge.UsesResult] != 2 || counts[edge.UsedIn] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestEdgesTouching(t *testing.T) {
	db := testDB(t)

	edges, err := db.EdgesTouching("lem-1")
	if err != nil {
		t.Fatalf("EdgesTouching() error = %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("EdgesTouching(lem-1) returned %d edges, want 2", len(edges))
	}

	var foundContext bool
	for _, r := range edges {
		if r.Context == "remark" {
			foundContext = true
		}
	}
	if !foundContext {
		t.Error("edge context not round-tripped through the cache")
	}
}

func TestRebuildReplacesContents(t *testing.T) {
	dir := t.TempDir()
	artifactsPath := filepath.Join(dir, "artifacts.jsonl")
	edgesPath := filepath.Join(dir, "edges.jsonl")

	WriteAllArtifacts(artifactsPath, []artifact.Artifact{{ID: "old"}})
	WriteAllEdges(edgesPath, nil)

	db, err := OpenDB(filepath.Join(dir, "graph.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, _, err := db.RebuildFromJSONL(artifactsPath, edgesPath); err != nil {
		t.Fatal(err)
	}

	// The snapshots change; a second rebuild must not keep stale rows.
	WriteAllArtifacts(artifactsPath, []artifact.Artifact{{ID: "new"}})
	if _, _, err := db.RebuildFromJSONL(artifactsPath, edgesPath); err != nil {
		t.Fatal(err)
	}

	stale, err := db.GetArtifact("old")
	if err != nil {
		t.Fatal(err)
	}
	if stale != nil {
		t.Error("rebuild kept a stale artifact")
	}
	fresh, err := db.GetArtifact("new")
	if err != nil || fresh == nil {
		t.Errorf("rebuilt artifact missing: (%+v, %v)", fresh, err)
	}
}
