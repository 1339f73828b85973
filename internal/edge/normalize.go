package edge

// Normalize maps a raw backend edge to its canonical form: the arrow always
// points prerequisite -> dependent. Returns false when the edge must be
// dropped entirely (provides_remark relations are not displayed).
//
// This is the single normalization point. Every consumer of edges — key
// derivation, traversal, degree counting, display — goes through it; nothing
// else in the codebase interprets raw dependency types.
func Normalize(r Raw) (Canonical, bool) {
	c := Canonical{
		Source:         r.Source,
		Target:         r.Target,
		DependencyType: r.DependencyType,
		Context:        r.Context,
	}

	switch r.DependencyType {
	case UsesResult, UsesDefinition, IsCorollaryOf:
		// "A uses B" means B is a prerequisite of A: flip so B -> A.
		c.Source, c.Target = r.Target, r.Source
		c.DependencyType = UsedIn

	case UsedIn:
		// Already canonical.

	case IsGeneralizationOf:
		c.Source, c.Target = r.Target, r.Source
		c.DependencyType = GeneralizedBy

	case GeneralizedBy:
		// Already canonical.

	case ProvidesRemark:
		return Canonical{}, false

	case Internal, "":
		c.DependencyType = Internal
		if r.RawType == Internal || r.ReferenceType == Internal {
			// An internal reference points at its prerequisite: flip.
			c.Source, c.Target = r.Target, r.Source
		}

	default:
		// Unrecognized backend types (generic_dependency and novel ones)
		// pass through in their reported direction.
	}

	return c, true
}

// NormalizeAll applies Normalize to every raw edge, dropping the ones it
// rejects. Order is preserved.
func NormalizeAll(raws []Raw) []Canonical {
	out := make([]Canonical, 0, len(raws))
	for _, r := range raws {
		if c, ok := Normalize(r); ok {
			out = append(out, c)
		}
	}
	return out
}
