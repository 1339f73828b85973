// Package graph holds the authoritative in-memory graph of one paper view:
// the incremental store fed by backend events and the processor that derives
// the display snapshot from it.
package graph

import (
	"fmt"

	"github.com/proofgraph/proofgraph/internal/artifact"
	"github.com/proofgraph/proofgraph/internal/edge"
)

// Store is the mutable collection of artifacts and raw edges for one paper.
// It is owned by a single session goroutine; all access is single-writer and
// requires no locking. The store never interprets edge semantics — raw edges
// go in, and the processor normalizes on the way out.
type Store struct {
	nodes     map[string]*artifact.Artifact
	nodeOrder []string

	edges     map[string]edge.Raw
	edgeOrder []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// UpsertNode inserts a new artifact or merges content fields into the
// existing record with the same id. Layout coordinates (x, y, fx, fy) on an
// existing record are preserved so re-ingestion never moves placed nodes.
// Returns true when the id was not previously present.
func (s *Store) UpsertNode(a *artifact.Artifact) (bool, error) {
	if err := a.ValidateForUpsert(); err != nil {
		return false, err
	}

	if existing, ok := s.nodes[a.ID]; ok {
		existing.MergeContent(a)
		return false, nil
	}

	record := *a
	s.nodes[record.ID] = &record
	s.nodeOrder = append(s.nodeOrder, record.ID)
	return true, nil
}

// AddEdge stores a raw edge keyed by its raw identity tuple. Duplicate
// arrivals are idempotent no-ops. Edges referencing ids not yet in the store
// are accepted; they become visible once the node arrives.
// Returns true when the edge was newly added.
func (s *Store) AddEdge(r edge.Raw) (bool, error) {
	if err := r.ValidateForInsert(); err != nil {
		return false, err
	}

	key := r.StoreKey()
	if _, ok := s.edges[key]; ok {
		return false, nil
	}

	s.edges[key] = r
	s.edgeOrder = append(s.edgeOrder, key)
	return true, nil
}

// Reset clears all nodes and edges. Used when a new paper run starts; the
// clear is atomic with respect to the owning goroutine, so no event can
// observe a partially reset store.
func (s *Store) Reset() {
	s.nodes = make(map[string]*artifact.Artifact)
	s.nodeOrder = nil
	s.edges = make(map[string]edge.Raw)
	s.edgeOrder = nil
}

// Node returns the artifact with the given id, or nil.
func (s *Store) Node(id string) *artifact.Artifact {
	return s.nodes[id]
}

// Nodes returns all artifacts in arrival order. The returned slice is fresh
// but the records are the live ones: the layout controller mutates their
// coordinates in place.
func (s *Store) Nodes() []*artifact.Artifact {
	out := make([]*artifact.Artifact, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		out = append(out, s.nodes[id])
	}
	return out
}

// RawEdges returns all raw edges in arrival order.
func (s *Store) RawEdges() []edge.Raw {
	out := make([]edge.Raw, 0, len(s.edgeOrder))
	for _, key := range s.edgeOrder {
		out = append(out, s.edges[key])
	}
	return out
}

// NodeCount returns the number of stored artifacts.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of stored raw edges. Note this is the raw
// store count; the display count after normalization and dedup is generally
// lower (see Processed.Edges).
func (s *Store) EdgeCount() int { return len(s.edges) }

// RebuildFromSnapshot resets the store and loads a full snapshot, preserving
// arrival order of the given slices.
func (s *Store) RebuildFromSnapshot(nodes []artifact.Artifact, edges []edge.Raw) error {
	s.Reset()
	for i := range nodes {
		if _, err := s.UpsertNode(&nodes[i]); err != nil {
			return fmt.Errorf("rebuilding node %q: %w", nodes[i].ID, err)
		}
	}
	for _, r := range edges {
		if _, err := s.AddEdge(r); err != nil {
			return fmt.Errorf("rebuilding edge %s: %w", r.StoreKey(), err)
		}
	}
	return nil
}

// DanglingEdges reports raw edges with at least one endpoint missing from
// the store, with the missing side identified.
func (s *Store) DanglingEdges() []DanglingEdge {
	var out []DanglingEdge
	for _, key := range s.edgeOrder {
		r := s.edges[key]
		_, srcOK := s.nodes[r.Source]
		_, tgtOK := s.nodes[r.Target]
		if srcOK && tgtOK {
			continue
		}

		d := DanglingEdge{Edge: r}
		switch {
		case !srcOK && !tgtOK:
			d.Reason = "missing_both"
		case !srcOK:
			d.Reason = "missing_source"
		default:
			d.Reason = "missing_target"
		}
		out = append(out, d)
	}
	return out
}

// DanglingEdge pairs a raw edge with the reason it cannot render yet.
type DanglingEdge struct {
	Edge   edge.Raw `json:"edge"`
	Reason string   `json:"reason"` // missing_source, missing_target, or missing_both
}
