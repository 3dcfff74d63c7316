package viz

import (
	"sort"
	"strconv"

	"github.com/matsen/karatelink/internal/graph"
	"github.com/matsen/karatelink/internal/nn"
)

// Prediction is a candidate missing link with its model probability.
type Prediction struct {
	Source      int     `json:"source"`
	Target      int     `json:"target"`
	Probability float64 `json:"probability"`
}

// BuildGraphData converts a dataset graph to visualization form. The
// optional predictions are added as dashed "predicted" edges.
func BuildGraphData(g *graph.Graph, predictions []Prediction) *GraphData {
	data := &GraphData{
		Nodes: make([]Node, 0, g.NumNodes),
		Edges: make([]Edge, 0, g.NumEdges()+len(predictions)),
	}

	for u := 0; u < g.NumNodes; u++ {
		n := Node{
			ID:     strconv.Itoa(u),
			Label:  strconv.Itoa(u),
			Degree: g.Degree(u),
		}
		if len(g.Labels) == g.NumNodes {
			n.Group = g.Labels[u]
		}
		data.Nodes = append(data.Nodes, n)
	}

	for _, e := range g.Edges {
		data.Edges = append(data.Edges, Edge{
			Source: strconv.Itoa(e.Source),
			Target: strconv.Itoa(e.Target),
			Kind:   EdgeObserved,
		})
	}

	for _, p := range predictions {
		data.Edges = append(data.Edges, Edge{
			Source: strconv.Itoa(p.Source),
			Target: strconv.Itoa(p.Target),
			Kind:   EdgePredicted,
			Score:  p.Probability,
		})
	}

	return data
}

// TopPredictions scores every non-edge of the graph with the trained
// model and returns the highest-probability candidates, sorted
// descending. limit 0 returns all.
func TopPredictions(g *graph.Graph, m *nn.Model, limit int) []Prediction {
	nonEdges := g.Complement()
	if len(nonEdges) == 0 {
		return nil
	}

	h := m.Forward()
	scores := nn.Scores(h, nonEdges)

	preds := make([]Prediction, len(nonEdges))
	for i, e := range nonEdges {
		preds[i] = Prediction{
			Source:      e.Source,
			Target:      e.Target,
			Probability: nn.Sigmoid(scores[i]),
		}
	}

	sort.Slice(preds, func(i, j int) bool {
		if preds[i].Probability != preds[j].Probability {
			return preds[i].Probability > preds[j].Probability
		}
		if preds[i].Source != preds[j].Source {
			return preds[i].Source < preds[j].Source
		}
		return preds[i].Target < preds[j].Target
	})

	if limit > 0 && len(preds) > limit {
		preds = preds[:limit]
	}
	return preds
}
