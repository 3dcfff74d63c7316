package viz

import (
	"strings"
	"testing"

	"github.com/matsen/karatelink/internal/graph"
	"github.com/matsen/karatelink/internal/nn"
)

func TestBuildGraphData(t *testing.T) {
	g := graph.Karate()
	preds := []Prediction{{Source: 0, Target: 33, Probability: 0.91}}

	data := BuildGraphData(g, preds)

	if len(data.Nodes) != 34 {
		t.Errorf("nodes = %d, want 34", len(data.Nodes))
	}
	if len(data.Edges) != 79 {
		t.Errorf("edges = %d, want 78 observed + 1 predicted", len(data.Edges))
	}

	if data.Nodes[0].Group != graph.LabelMrHi {
		t.Errorf("node 0 group = %q, want %q", data.Nodes[0].Group, graph.LabelMrHi)
	}
	if data.Nodes[0].Degree != 16 {
		t.Errorf("node 0 degree = %d, want 16", data.Nodes[0].Degree)
	}

	last := data.Edges[len(data.Edges)-1]
	if last.Kind != EdgePredicted || last.Score != 0.91 {
		t.Errorf("predicted edge = %+v", last)
	}
}

func TestTopPredictions(t *testing.T) {
	g := graph.Karate()
	m := nn.NewModel(g, nn.DefaultConfig(g.NumNodes), 1)

	preds := TopPredictions(g, m, 10)
	if len(preds) != 10 {
		t.Fatalf("TopPredictions() returned %d, want 10", len(preds))
	}

	for i, p := range preds {
		if g.HasEdge(p.Source, p.Target) {
			t.Errorf("prediction %d is an observed edge (%d, %d)", i, p.Source, p.Target)
		}
		if p.Probability < 0 || p.Probability > 1 {
			t.Errorf("probability %v outside [0,1]", p.Probability)
		}
		if i > 0 && p.Probability > preds[i-1].Probability {
			t.Errorf("predictions not sorted descending at %d", i)
		}
	}

	all := TopPredictions(g, m, 0)
	if len(all) != 483 {
		t.Errorf("TopPredictions(0) returned %d, want all 483 non-edges", len(all))
	}
}

func TestToCytoscapeJSON(t *testing.T) {
	g := graph.Karate()
	data := BuildGraphData(g, nil)

	jsonStr, err := data.ToCytoscapeJSON()
	if err != nil {
		t.Fatalf("ToCytoscapeJSON() error = %v", err)
	}
	if !strings.Contains(jsonStr, `"group":"mr-hi"`) {
		t.Error("JSON missing faction groups")
	}
	if !strings.Contains(jsonStr, `"kind":"observed"`) {
		t.Error("JSON missing observed edge kind")
	}
}

func TestGenerateHTML(t *testing.T) {
	g := graph.Karate()
	data := BuildGraphData(g, []Prediction{{Source: 1, Target: 5, Probability: 0.7}})

	html, err := GenerateHTML(data, DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	if !strings.Contains(html, "cytoscape") {
		t.Error("HTML missing cytoscape script")
	}
	if !strings.Contains(html, "circle") {
		t.Error("HTML missing default circle layout")
	}
}

func TestGenerateHTML_InvalidLayout(t *testing.T) {
	data := BuildGraphData(graph.Karate(), nil)
	if _, err := GenerateHTML(data, HTMLOptions{Layout: "spiral"}); err == nil {
		t.Error("GenerateHTML() error = nil, want invalid layout error")
	}
}
