package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/matsen/karatelink/internal/graph"
)

// Config holds the model dimensions.
type Config struct {
	Nodes     int `json:"nodes"`
	EmbedDim  int `json:"embed_dim"`
	HiddenDim int `json:"hidden_dim"`
	OutDim    int `json:"out_dim"`
}

// DefaultConfig returns the dimensions used for the karate club
// demonstration: a 5-dimensional learned embedding table feeding two
// 16-unit convolution layers.
func DefaultConfig(nodes int) Config {
	return Config{
		Nodes:     nodes,
		EmbedDim:  5,
		HiddenDim: 16,
		OutDim:    16,
	}
}

// Model is the link prediction network: a learned per-node embedding table
// followed by two SAGEConv layers with a ReLU between them. Edges are
// scored by the dot product of their endpoint representations.
type Model struct {
	Config Config

	Emb   *Param
	Conv1 *SAGEConv
	Conv2 *SAGEConv

	p *mat.Dense

	// Forward caches consumed by Backward.
	pre1 *mat.Dense
	h2   *mat.Dense
}

// NewModel builds a model for g with seeded random initialization.
func NewModel(g *graph.Graph, cfg Config, seed int64) *Model {
	rng := rand.New(rand.NewSource(seed))

	m := &Model{
		Config: cfg,
		Emb:    newParam("embedding", cfg.Nodes, cfg.EmbedDim),
		Conv1:  NewSAGEConv("conv1", cfg.EmbedDim, cfg.HiddenDim, rng),
		Conv2:  NewSAGEConv("conv2", cfg.HiddenDim, cfg.OutDim, rng),
		p:      g.MeanAdjacency(),
	}
	glorotInit(m.Emb.W, rng)
	return m
}

// Params returns all trainable parameters, embedding table first.
func (m *Model) Params() []*Param {
	params := []*Param{m.Emb}
	params = append(params, m.Conv1.Params()...)
	params = append(params, m.Conv2.Params()...)
	return params
}

// ZeroGrad clears all parameter gradients.
func (m *Model) ZeroGrad() {
	for _, p := range m.Params() {
		p.Grad.Zero()
	}
}

// Forward computes the final node representations (Nodes×OutDim).
func (m *Model) Forward() *mat.Dense {
	m.pre1 = m.Conv1.Forward(m.p, m.Emb.W)
	h1 := reluForward(m.pre1)
	m.h2 = m.Conv2.Forward(m.p, h1)
	return m.h2
}

// Scores computes the dot-product logit for each edge from the node
// representations h.
func Scores(h *mat.Dense, edges []graph.Edge) []float64 {
	_, dim := h.Dims()
	scores := make([]float64, len(edges))
	for i, e := range edges {
		u := h.RawRowView(e.Source)
		v := h.RawRowView(e.Target)
		var dot float64
		for j := 0; j < dim; j++ {
			dot += u[j] * v[j]
		}
		scores[i] = dot
	}
	return scores
}

// Backward accumulates gradients for all parameters given the per-edge
// score gradients dScores. Forward must have been called first.
func (m *Model) Backward(edges []graph.Edge, dScores []float64) {
	rows, cols := m.h2.Dims()
	dH2 := mat.NewDense(rows, cols, nil)
	for i, e := range edges {
		g := dScores[i]
		u := m.h2.RawRowView(e.Source)
		v := m.h2.RawRowView(e.Target)
		du := dH2.RawRowView(e.Source)
		dv := dH2.RawRowView(e.Target)
		for j := 0; j < cols; j++ {
			du[j] += g * v[j]
			dv[j] += g * u[j]
		}
	}

	dH1 := m.Conv2.Backward(m.p, dH2)
	dPre1 := reluBackward(m.pre1, dH1)
	dEmb := m.Conv1.Backward(m.p, dPre1)
	m.Emb.Grad.Add(m.Emb.Grad, dEmb)
}

// BCEWithLogits computes the mean binary cross-entropy between edge score
// logits and 0/1 labels, along with the gradient of the loss with respect
// to each score. The loss uses the numerically stable formulation
// max(s,0) - s*y + log(1 + exp(-|s|)).
func BCEWithLogits(scores, labels []float64) (loss float64, grad []float64) {
	n := float64(len(scores))
	grad = make([]float64, len(scores))
	for i, s := range scores {
		y := labels[i]
		loss += math.Max(s, 0) - s*y + math.Log1p(math.Exp(-math.Abs(s)))
		grad[i] = (sigmoid(s) - y) / n
	}
	return loss / n, grad
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Sigmoid maps a logit to a probability in (0, 1).
func Sigmoid(x float64) float64 {
	return sigmoid(x)
}

// NodeEmbeddings returns the final node representations as float32 rows,
// for the similarity index. Forward must have been called first.
func (m *Model) NodeEmbeddings() [][]float32 {
	rows, cols := m.h2.Dims()
	out := make([][]float32, rows)
	for i := 0; i < rows; i++ {
		row := m.h2.RawRowView(i)
		vec := make([]float32, cols)
		for j, v := range row {
			vec[j] = float32(v)
		}
		out[i] = vec
	}
	return out
}
