// Package viz renders the artifact dependency graph for external display:
// Cytoscape.js JSON and a self-contained HTML page.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one artifact prepared for display: label, stable type color from
// the processor, and radius from the layout's degree scale.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`

	// Tooltip fields.
	ContentPreview string `json:"contentPreview,omitempty"`
	Position       string `json:"position,omitempty"`

	// Display parameters derived by the engine.
	Color  string  `json:"color"`
	Radius float64 `json:"radius"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Edge is a canonical (prerequisite -> dependent) edge prepared for display.
type Edge struct {
	Source         string `json:"source"`
	Target         string `json:"target"`
	DependencyType string `json:"dependencyType"`
	Color          string `json:"color"`
	Context        string `json:"context,omitempty"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
