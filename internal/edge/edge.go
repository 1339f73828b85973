// Package edge defines dependency edges between artifacts and the semantic
// normalization that fixes their direction convention.
package edge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Dependency types in the backend vocabulary.
const (
	UsesResult         = "uses_result"
	UsesDefinition     = "uses_definition"
	IsCorollaryOf      = "is_corollary_of"
	UsedIn             = "used_in"
	IsGeneralizationOf = "is_generalization_of"
	GeneralizedBy      = "generalized_by"
	ProvidesRemark     = "provides_remark"
	Internal           = "internal"
	GenericDependency  = "generic_dependency"
)

// Raw is an edge record exactly as the backend reported it, before semantic
// normalization. Identity in the graph store is the full raw tuple so that
// distinct backend-reported relations are never silently merged, even when
// they normalize to the same canonical edge.
type Raw struct {
	Source         string `json:"source"`
	Target         string `json:"target"`
	DependencyType string `json:"dependency_type,omitempty"`
	ReferenceType  string `json:"reference_type,omitempty"`
	RawType        string `json:"type,omitempty"`
	Context        string `json:"context,omitempty"`
}

// Validation errors.
var (
	ErrEmptySource = errors.New("edge source is required")
	ErrEmptyTarget = errors.New("edge target is required")
)

// ValidateForInsert validates a raw edge before insertion into the store.
func (r *Raw) ValidateForInsert() error {
	if r.Source == "" {
		return ErrEmptySource
	}
	if r.Target == "" {
		return ErrEmptyTarget
	}
	return nil
}

// StoreKey returns the raw identity tuple used by the graph store. This is
// deliberately distinct from Canonical.Key: the store keys on pre-normalized
// fields plus the reference/type discriminators, while display dedup keys on
// the post-normalization triple.
func (r *Raw) StoreKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		r.Source, r.Target, r.DependencyType, r.ReferenceType, r.RawType)
}

// rawWire mirrors the backend JSON with all accepted field spellings.
type rawWire struct {
	Source          json.RawMessage `json:"source"`
	SourceID        json.RawMessage `json:"source_id"`
	SourceIDCamel   json.RawMessage `json:"sourceId"`
	Target          json.RawMessage `json:"target"`
	TargetID        json.RawMessage `json:"target_id"`
	TargetIDCamel   json.RawMessage `json:"targetId"`
	DependencyType  string          `json:"dependency_type"`
	DependencyCamel string          `json:"dependencyType"`
	Dependency      string          `json:"dependency"`
	ReferenceType   string          `json:"reference_type"`
	RawType         string          `json:"type"`
	Context         string          `json:"context"`
}

// UnmarshalJSON accepts the backend's raw edge shape: source/target may be
// spelled source, source_id, or sourceId, and each endpoint may be a bare id
// string or an embedded node object carrying an "id" field.
func (r *Raw) UnmarshalJSON(data []byte) error {
	var w rawWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	src, err := endpointID(w.Source, w.SourceID, w.SourceIDCamel)
	if err != nil {
		return fmt.Errorf("decoding edge source: %w", err)
	}
	tgt, err := endpointID(w.Target, w.TargetID, w.TargetIDCamel)
	if err != nil {
		return fmt.Errorf("decoding edge target: %w", err)
	}

	dep := w.DependencyType
	if dep == "" {
		dep = w.DependencyCamel
	}
	if dep == "" {
		dep = w.Dependency
	}

	*r = Raw{
		Source:         src,
		Target:         tgt,
		DependencyType: dep,
		ReferenceType:  w.ReferenceType,
		RawType:        w.RawType,
		Context:        w.Context,
	}
	return nil
}

// endpointID extracts a node id from the first non-empty candidate. Each
// candidate is either a JSON string or an object with an "id" field; this is
// the single place endpoint shapes are interpreted.
func endpointID(candidates ...json.RawMessage) (string, error) {
	for _, c := range candidates {
		if len(c) == 0 || string(c) == "null" {
			continue
		}

		var s string
		if err := json.Unmarshal(c, &s); err == nil {
			return s, nil
		}

		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(c, &obj); err != nil {
			return "", fmt.Errorf("endpoint is neither id string nor node object: %s", c)
		}
		return obj.ID, nil
	}
	return "", nil
}

// Canonical is a normalized edge: the arrow always points from prerequisite
// to dependent, and the dependency type is drawn from the canonical subset
// (used_in, generalized_by, internal, or a passthrough backend type).
// The raw reference/type discriminators are deliberately not carried: they
// exist only to disambiguate raw store identity, and keeping them here would
// make normalization non-idempotent for internal references.
type Canonical struct {
	Source         string `json:"source"`
	Target         string `json:"target"`
	DependencyType string `json:"dependency_type"`
	Context        string `json:"context,omitempty"`
}

// Key returns the display dedup identity: the post-normalization triple. Two
// raw edges that normalize identically are one visible edge.
func (c *Canonical) Key() string {
	return fmt.Sprintf("%s=>%s|%s", c.Source, c.Target, c.DependencyType)
}

// PairKey returns the source=>target key used for proof-subgraph visibility.
func (c *Canonical) PairKey() string {
	return c.Source + "=>" + c.Target
}
