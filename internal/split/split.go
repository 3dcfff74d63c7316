// Package split partitions a graph's edges into positive and negative
// train/test sets for link prediction.
package split

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/matsen/karatelink/internal/graph"
)

// Validation errors.
var (
	ErrNoTrainPositives  = errors.New("test positives must leave at least one training positive")
	ErrNotEnoughNonEdges = errors.New("not enough non-edges for requested negative samples")
	ErrNegativeCount     = errors.New("sample counts must be non-negative")
)

// Options controls the edge split.
type Options struct {
	// TestPositives is the number of edges held out for testing.
	TestPositives int

	// TrainNegatives and TestNegatives are the number of non-edges
	// sampled for each set. The two samples are disjoint.
	TrainNegatives int
	TestNegatives  int

	// Seed makes the split deterministic.
	Seed int64
}

// DefaultOptions returns the split used for the karate club demonstration:
// 50 held-out positive edges, 150 training and 50 test negatives.
func DefaultOptions() Options {
	return Options{
		TestPositives:  50,
		TrainNegatives: 150,
		TestNegatives:  50,
		Seed:           1,
	}
}

// Split holds the four edge sets.
type Split struct {
	TrainPos []graph.Edge `json:"train_pos"`
	TrainNeg []graph.Edge `json:"train_neg"`
	TestPos  []graph.Edge `json:"test_pos"`
	TestNeg  []graph.Edge `json:"test_neg"`
}

// New partitions the graph's edges according to opts.
//
// Positive edges are shuffled and the first TestPositives become the test
// set; the remainder trains. Negatives are drawn without replacement from
// the dense adjacency complement, so no sampled pair is a real edge and
// the train and test negative sets never overlap.
func New(g *graph.Graph, opts Options) (*Split, error) {
	if opts.TestPositives < 0 || opts.TrainNegatives < 0 || opts.TestNegatives < 0 {
		return nil, ErrNegativeCount
	}
	if opts.TestPositives >= g.NumEdges() {
		return nil, fmt.Errorf("%w: %d test positives of %d edges",
			ErrNoTrainPositives, opts.TestPositives, g.NumEdges())
	}

	nonEdges := g.Complement()
	needed := opts.TrainNegatives + opts.TestNegatives
	if needed > len(nonEdges) {
		return nil, fmt.Errorf("%w: need %d, have %d",
			ErrNotEnoughNonEdges, needed, len(nonEdges))
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	pos := make([]graph.Edge, g.NumEdges())
	copy(pos, g.Edges)
	rng.Shuffle(len(pos), func(i, j int) { pos[i], pos[j] = pos[j], pos[i] })

	rng.Shuffle(len(nonEdges), func(i, j int) { nonEdges[i], nonEdges[j] = nonEdges[j], nonEdges[i] })

	s := &Split{
		TestPos:  pos[:opts.TestPositives],
		TrainPos: pos[opts.TestPositives:],
		TestNeg:  nonEdges[:opts.TestNegatives],
		TrainNeg: nonEdges[opts.TestNegatives : opts.TestNegatives+opts.TrainNegatives],
	}
	return s, nil
}

// Counts summarizes the split sizes.
type Counts struct {
	TrainPos int `json:"train_pos"`
	TrainNeg int `json:"train_neg"`
	TestPos  int `json:"test_pos"`
	TestNeg  int `json:"test_neg"`
}

// Counts returns the size of each edge set.
func (s *Split) Counts() Counts {
	return Counts{
		TrainPos: len(s.TrainPos),
		TrainNeg: len(s.TrainNeg),
		TestPos:  len(s.TestPos),
		TestNeg:  len(s.TestNeg),
	}
}

// TrainSet returns the labeled training edges: positives first with label 1,
// then negatives with label 0.
func (s *Split) TrainSet() (edges []graph.Edge, labels []float64) {
	return labeledSet(s.TrainPos, s.TrainNeg)
}

// TestSet returns the labeled test edges.
func (s *Split) TestSet() (edges []graph.Edge, labels []float64) {
	return labeledSet(s.TestPos, s.TestNeg)
}

func labeledSet(pos, neg []graph.Edge) ([]graph.Edge, []float64) {
	edges := make([]graph.Edge, 0, len(pos)+len(neg))
	labels := make([]float64, 0, len(pos)+len(neg))
	for _, e := range pos {
		edges = append(edges, e)
		labels = append(labels, 1)
	}
	for _, e := range neg {
		edges = append(edges, e)
		labels = append(labels, 0)
	}
	return edges, labels
}
