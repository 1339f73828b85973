package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
	"github.com/proofgraph/proofgraph/internal/stream"
)

func TestArtifactsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifacts.jsonl")

	in := []artifact.Artifact{
		{ID: "thm-1", Type: artifact.TypeTheorem, Content: "statement", X: 120.5, Y: 80},
		{ID: "lem-1", Type: artifact.TypeLemma, DisplayName: "Lemma 1"},
	}
	if err := WriteAllArtifacts(path, in); err != nil {
		t.Fatalf("WriteAllArtifacts() error = %v", err)
	}

	out, err := ReadAllArtifacts(path)
	if err != nil {
		t.Fatalf("ReadAllArtifacts() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("read %d artifacts, want 2", len(out))
	}
	if out[0].ID != "thm-1" || out[0].X != 120.5 {
		t.Errorf("first artifact = %+v", out[0])
	}
	if out[1].DisplayName != "Lemma 1" {
		t.Errorf("second artifact = %+v", out[1])
	}
}

func TestEdgesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.jsonl")

	in := []edge.Raw{
		{Source: "lem-1", Target: "thm-1", DependencyType: edge.UsesResult, Context: "eq. (3)"},
		{Source: "a", Target: "b", ReferenceType: edge.Internal},
	}
	if err := WriteAllEdges(path, in); err != nil {
		t.Fatalf("WriteAllEdges() error = %v", err)
	}

	out, err := ReadAllEdges(path)
	if err != nil {
		t.Fatalf("ReadAllEdges() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("read %d edges, want 2", len(out))
	}
	if out[0] != in[0] {
		t.Errorf("edge round trip: %+v -> %+v", in[0], out[0])
	}
	if out[1].ReferenceType != edge.Internal {
		t.Errorf("reference type lost: %+v", out[1])
	}
}

func TestWriteAllTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.jsonl")

	WriteAllEdges(path, []edge.Raw{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
	})
	WriteAllEdges(path, []edge.Raw{{Source: "x", Target: "y"}})

	out, err := ReadAllEdges(path)
	if err != nil {
		t.Fatalf("ReadAllEdges() error = %v", err)
	}
	if len(out) != 1 || out[0].Source != "x" {
		t.Errorf("rewrite did not truncate: %+v", out)
	}
}

func TestMissingFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()

	if got, err := ReadAllArtifacts(filepath.Join(dir, "absent.jsonl")); err != nil || len(got) != 0 {
		t.Errorf("missing artifacts file: (%v, %v)", got, err)
	}
	if got, err := ReadAllEvents(filepath.Join(dir, "absent.jsonl")); err != nil || len(got) != 0 {
		t.Errorf("missing journal: (%v, %v)", got, err)
	}
}

func TestEventJournalAppendAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	events := []stream.Event{
		{Type: stream.EventNode, Node: &artifact.Artifact{ID: "a", Type: artifact.TypeTheorem}},
		{Type: stream.EventLink, Link: &edge.Raw{Source: "b", Target: "a", DependencyType: edge.UsedIn}},
		{Type: stream.EventReset},
		{Type: stream.EventNode, Node: &artifact.Artifact{ID: "c"}},
	}
	for _, ev := range events {
		if err := AppendEvent(path, ev); err != nil {
			t.Fatalf("AppendEvent(%s) error = %v", ev.Type, err)
		}
	}

	out, err := ReadAllEvents(path)
	if err != nil {
		t.Fatalf("ReadAllEvents() error = %v", err)
	}
	if len(out) != len(events) {
		t.Fatalf("replayed %d events, want %d", len(out), len(events))
	}
	for i, ev := range out {
		if ev.Type != events[i].Type {
			t.Errorf("event %d type = %q, want %q", i, ev.Type, events[i].Type)
		}
	}
	if out[1].Link == nil || out[1].Link.Source != "b" {
		t.Errorf("link payload lost in journal: %+v", out[1].Link)
	}
}

func TestReadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.jsonl")
	content := `{"source":"a","target":"b"}

{"source":"c","target":"d"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := ReadAllEdges(path)
	if err != nil {
		t.Fatalf("ReadAllEdges() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("read %d edges, want 2", len(out))
	}
}
