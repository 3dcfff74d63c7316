package split

import (
	"errors"
	"testing"

	"github.com/matsen/karatelink/internal/graph"
)

func TestNew_KarateDefaults(t *testing.T) {
	g := graph.Karate()

	s, err := New(g, DefaultOptions())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	c := s.Counts()
	if c.TestPos != 50 {
		t.Errorf("TestPos = %d, want 50", c.TestPos)
	}
	if c.TrainPos != 28 {
		t.Errorf("TrainPos = %d, want 28", c.TrainPos)
	}
	if c.TrainNeg != 150 {
		t.Errorf("TrainNeg = %d, want 150", c.TrainNeg)
	}
	if c.TestNeg != 50 {
		t.Errorf("TestNeg = %d, want 50", c.TestNeg)
	}

	// Positives partition the edge list.
	if c.TrainPos+c.TestPos != g.NumEdges() {
		t.Errorf("TrainPos + TestPos = %d, want %d", c.TrainPos+c.TestPos, g.NumEdges())
	}
}

func TestNew_NegativesAreNonEdges(t *testing.T) {
	g := graph.Karate()

	s, err := New(g, DefaultOptions())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	seen := make(map[graph.Edge]bool)
	for _, e := range append(append([]graph.Edge{}, s.TrainNeg...), s.TestNeg...) {
		if g.HasEdge(e.Source, e.Target) {
			t.Errorf("negative sample (%d, %d) is a real edge", e.Source, e.Target)
		}
		if seen[e] {
			t.Errorf("negative sample (%d, %d) drawn twice", e.Source, e.Target)
		}
		seen[e] = true
	}
	if len(seen) != 200 {
		t.Errorf("unique negatives = %d, want 200", len(seen))
	}
}

func TestNew_Deterministic(t *testing.T) {
	g := graph.Karate()
	opts := DefaultOptions()
	opts.Seed = 42

	a, err := New(g, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b, err := New(g, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := range a.TrainPos {
		if a.TrainPos[i] != b.TrainPos[i] {
			t.Fatal("same seed produced different train positives")
		}
	}
	for i := range a.TestNeg {
		if a.TestNeg[i] != b.TestNeg[i] {
			t.Fatal("same seed produced different test negatives")
		}
	}

	opts.Seed = 43
	c, err := New(g, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	same := true
	for i := range a.TestPos {
		if a.TestPos[i] != c.TestPos[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical test positives")
	}
}

func TestNew_HeldOutSetDependsOnCounts(t *testing.T) {
	g := graph.Karate()

	small := DefaultOptions()
	large := DefaultOptions()
	large.TestPositives = 60

	a, err := New(g, small)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b, err := New(g, large)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// The same seed with a larger held-out count reclassifies edges
	// that were trained on as test positives. Rebuilding a split for
	// evaluation therefore needs the counts a run was trained with,
	// not just its seed.
	trained := make(map[graph.Edge]bool, len(a.TrainPos))
	for _, e := range a.TrainPos {
		trained[e] = true
	}
	var leaked int
	for _, e := range b.TestPos {
		if trained[e] {
			leaked++
		}
	}
	if leaked != large.TestPositives-small.TestPositives {
		t.Errorf("train positives reappearing as test positives = %d, want %d",
			leaked, large.TestPositives-small.TestPositives)
	}
}

func TestNew_Errors(t *testing.T) {
	g := graph.Karate()

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{
			name:    "too many test positives",
			opts:    Options{TestPositives: 78},
			wantErr: ErrNoTrainPositives,
		},
		{
			name:    "too many negatives",
			opts:    Options{TestPositives: 10, TrainNegatives: 400, TestNegatives: 100},
			wantErr: ErrNotEnoughNonEdges,
		},
		{
			name:    "negative count",
			opts:    Options{TestPositives: 10, TrainNegatives: -1},
			wantErr: ErrNegativeCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(g, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLabeledSets(t *testing.T) {
	g := graph.Karate()

	s, err := New(g, DefaultOptions())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	edges, labels := s.TrainSet()
	if len(edges) != 178 || len(labels) != 178 {
		t.Fatalf("TrainSet() sizes = %d, %d, want 178, 178", len(edges), len(labels))
	}
	for i, y := range labels {
		isEdge := g.HasEdge(edges[i].Source, edges[i].Target)
		if isEdge && y != 1 {
			t.Errorf("edge %d: real edge labeled %v", i, y)
		}
		if !isEdge && y != 0 {
			t.Errorf("edge %d: non-edge labeled %v", i, y)
		}
	}

	edges, labels = s.TestSet()
	if len(edges) != 100 || len(labels) != 100 {
		t.Fatalf("TestSet() sizes = %d, %d, want 100, 100", len(edges), len(labels))
	}
}
