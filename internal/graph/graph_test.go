package graph

import (
	"errors"
	"math"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		numNodes int
		edges    []Edge
		wantErr  error
	}{
		{
			name:     "valid graph",
			numNodes: 4,
			edges:    []Edge{{0, 1}, {1, 2}, {2, 3}},
			wantErr:  nil,
		},
		{
			name:     "no nodes",
			numNodes: 0,
			edges:    nil,
			wantErr:  ErrNoNodes,
		},
		{
			name:     "self loop",
			numNodes: 3,
			edges:    []Edge{{1, 1}},
			wantErr:  ErrSelfLoop,
		},
		{
			name:     "node out of range",
			numNodes: 3,
			edges:    []Edge{{0, 3}},
			wantErr:  ErrNodeOutOfRange,
		},
		{
			name:     "negative node",
			numNodes: 3,
			edges:    []Edge{{-1, 2}},
			wantErr:  ErrNodeOutOfRange,
		},
		{
			name:     "duplicate edge",
			numNodes: 3,
			edges:    []Edge{{0, 1}, {0, 1}},
			wantErr:  ErrDuplicateEdge,
		},
		{
			name:     "duplicate after normalization",
			numNodes: 3,
			edges:    []Edge{{0, 1}, {1, 0}},
			wantErr:  ErrDuplicateEdge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("test", tt.numNodes, tt.edges)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGraph_Neighbors(t *testing.T) {
	g, err := New("test", 5, []Edge{{3, 0}, {0, 1}, {0, 2}, {2, 4}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := g.Neighbors(0)
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Neighbors(0) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbors(0) = %v, want %v", got, want)
			break
		}
	}

	if g.Degree(0) != 3 {
		t.Errorf("Degree(0) = %d, want 3", g.Degree(0))
	}
	if g.Degree(4) != 1 {
		t.Errorf("Degree(4) = %d, want 1", g.Degree(4))
	}
	if !g.HasEdge(1, 0) {
		t.Error("HasEdge(1, 0) = false, want true (undirected)")
	}
	if g.HasEdge(1, 2) {
		t.Error("HasEdge(1, 2) = true, want false")
	}
}

func TestGraph_Complement(t *testing.T) {
	// Triangle on 4 nodes: 6 possible pairs, 3 edges, 3 non-edges.
	g, err := New("test", 4, []Edge{{0, 1}, {1, 2}, {0, 2}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	nonEdges := g.Complement()
	if len(nonEdges) != 3 {
		t.Fatalf("Complement() returned %d pairs, want 3", len(nonEdges))
	}
	for _, e := range nonEdges {
		if g.HasEdge(e.Source, e.Target) {
			t.Errorf("Complement() contains existing edge (%d, %d)", e.Source, e.Target)
		}
		if e.Source >= e.Target {
			t.Errorf("Complement() pair (%d, %d) not normalized", e.Source, e.Target)
		}
	}
}

func TestGraph_MeanAdjacency(t *testing.T) {
	// Path 0-1-2: node 1 averages nodes 0 and 2.
	g, err := New("test", 3, []Edge{{0, 1}, {1, 2}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p := g.MeanAdjacency()
	if got := p.At(1, 0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("P[1,0] = %v, want 0.5", got)
	}
	if got := p.At(1, 2); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("P[1,2] = %v, want 0.5", got)
	}
	if got := p.At(0, 1); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("P[0,1] = %v, want 1.0", got)
	}
	if got := p.At(0, 0); got != 0 {
		t.Errorf("P[0,0] = %v, want 0", got)
	}

	// Each non-isolated row sums to 1.
	for u := 0; u < 3; u++ {
		var sum float64
		for v := 0; v < 3; v++ {
			sum += p.At(u, v)
		}
		if math.Abs(sum-1.0) > 1e-12 {
			t.Errorf("row %d sums to %v, want 1.0", u, sum)
		}
	}
}
