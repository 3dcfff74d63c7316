// Package viz renders dataset graphs and predicted links for Cytoscape.js.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents a graph node.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Group is the node's faction label, used for coloring. Empty when
	// the dataset has no labels.
	Group string `json:"group,omitempty"`

	Degree int `json:"degree"`
}

// Edge kinds rendered with different styles.
const (
	EdgeObserved  = "observed"
	EdgePredicted = "predicted"
)

// Edge represents an observed or predicted link.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`

	// Score is the model probability for predicted edges; 0 for observed.
	Score float64 `json:"score,omitempty"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
