// Package artifact defines the core domain type for mathematical artifacts
// (theorems, lemmas, definitions, ...) extracted from a paper.
package artifact

import (
	"errors"
	"sort"

	"lukechampine.com/blake3"
)

// Well-known artifact types emitted by the extraction backend. The vocabulary
// is extensible: backend-supplied types outside this list are accepted and
// sorted after the known ones.
const (
	TypeTheorem     = "theorem"
	TypeLemma       = "lemma"
	TypeProposition = "proposition"
	TypeCorollary   = "corollary"
	TypeDefinition  = "definition"
	TypeRemark      = "remark"
	TypeConjecture  = "conjecture"
	TypeAssumption  = "assumption"
	TypeProof       = "proof"
	TypeExample     = "example"
	TypeClaim       = "claim"
	TypeFact        = "fact"
	TypeObservation = "observation"
	TypeUnknown     = "unknown"
)

// TypePriority is the canonical display order for artifact types. Color
// assignment and legend ordering are derived from this list, never from
// arrival order, so repeated processing of the same type set is stable.
var TypePriority = []string{
	TypeTheorem,
	TypeLemma,
	TypeProposition,
	TypeCorollary,
	TypeDefinition,
	TypeRemark,
	TypeConjecture,
	TypeAssumption,
	TypeProof,
	TypeExample,
	TypeClaim,
	TypeFact,
	TypeObservation,
	TypeUnknown,
}

// typeRank maps known types to their priority index.
var typeRank = func() map[string]int {
	m := make(map[string]int, len(TypePriority))
	for i, t := range TypePriority {
		m[t] = i
	}
	return m
}()

// Artifact represents one mathematical statement unit in the dependency
// graph. Identity/content fields are owned by the graph store; the layout
// fields X, Y, FX, FY are owned exclusively by the layout controller and are
// never touched by content merges.
type Artifact struct {
	// Identity: unique within a paper.
	ID   string `json:"id"`
	Type string `json:"type"`

	// Display and content fields.
	DisplayName          string `json:"display_name,omitempty"`
	Content              string `json:"content,omitempty"`
	ContentPreview       string `json:"content_preview,omitempty"`
	PrerequisitesPreview string `json:"prerequisites_preview,omitempty"`
	Proof                string `json:"proof,omitempty"`
	Position             string `json:"position,omitempty"`

	// Simulation coordinates. FX/FY are non-nil while the node is pinned.
	X  float64  `json:"x,omitempty"`
	Y  float64  `json:"y,omitempty"`
	FX *float64 `json:"fx,omitempty"`
	FY *float64 `json:"fy,omitempty"`
}

// Validation errors.
var (
	ErrEmptyID = errors.New("artifact id is required")
)

// ValidateForUpsert validates an artifact before insertion into the store.
func (a *Artifact) ValidateForUpsert() error {
	if a.ID == "" {
		return ErrEmptyID
	}
	return nil
}

// Label returns the best display label for the artifact.
func (a *Artifact) Label() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.ID
}

// NormalizedType returns the artifact type, defaulting to "unknown".
func (a *Artifact) NormalizedType() string {
	if a.Type == "" {
		return TypeUnknown
	}
	return a.Type
}

// MergeContent copies the content fields of src into a, leaving identity and
// layout fields untouched. Empty source fields do not erase existing values,
// so partial re-ingestion never loses data.
func (a *Artifact) MergeContent(src *Artifact) {
	if src.Type != "" {
		a.Type = src.Type
	}
	if src.DisplayName != "" {
		a.DisplayName = src.DisplayName
	}
	if src.Content != "" {
		a.Content = src.Content
	}
	if src.ContentPreview != "" {
		a.ContentPreview = src.ContentPreview
	}
	if src.PrerequisitesPreview != "" {
		a.PrerequisitesPreview = src.PrerequisitesPreview
	}
	if src.Proof != "" {
		a.Proof = src.Proof
	}
	if src.Position != "" {
		a.Position = src.Position
	}
}

// ContentDigest returns a stable blake3 digest over the identity and content
// fields. Layout coordinates are excluded so the digest survives relayout.
func (a *Artifact) ContentDigest() [32]byte {
	h := blake3.New(32, nil)
	for _, field := range []string{
		a.ID, a.Type, a.DisplayName, a.Content,
		a.ContentPreview, a.PrerequisitesPreview, a.Proof, a.Position,
	} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// SortTypes orders artifact types canonically: known types by priority,
// unknown types appended in alphabetical order.
func SortTypes(types []string) []string {
	sorted := make([]string, len(types))
	copy(sorted, types)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, iKnown := typeRank[sorted[i]]
		rj, jKnown := typeRank[sorted[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return sorted[i] < sorted[j]
		}
	})
	return sorted
}
