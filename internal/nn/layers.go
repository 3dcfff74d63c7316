// Package nn implements the two-layer neighbor-aggregation network used
// for link prediction, with hand-derived gradients on gonum matrices.
package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Param is a trainable weight matrix paired with its gradient.
type Param struct {
	Name string
	W    *mat.Dense
	Grad *mat.Dense
}

func newParam(name string, rows, cols int) *Param {
	return &Param{
		Name: name,
		W:    mat.NewDense(rows, cols, nil),
		Grad: mat.NewDense(rows, cols, nil),
	}
}

// glorotInit fills w with uniform values in [-limit, limit] where
// limit = sqrt(6 / (fanIn + fanOut)).
func glorotInit(w *mat.Dense, rng *rand.Rand) {
	rows, cols := w.Dims()
	limit := math.Sqrt(6.0 / float64(rows+cols))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			w.Set(i, j, (rng.Float64()*2-1)*limit)
		}
	}
}

// SAGEConv is a GraphSAGE-style convolution with mean neighbor aggregation:
//
//	out = H*WSelf + (P*H)*WNeigh + bias
//
// where P is the row-normalized adjacency matrix, so P*H holds each node's
// mean neighbor features.
type SAGEConv struct {
	WSelf  *Param
	WNeigh *Param
	Bias   *Param

	// Forward caches consumed by Backward.
	in  *mat.Dense
	agg *mat.Dense
}

// NewSAGEConv creates a convolution mapping inDim features to outDim,
// with Glorot-initialized weights and zero bias.
func NewSAGEConv(name string, inDim, outDim int, rng *rand.Rand) *SAGEConv {
	l := &SAGEConv{
		WSelf:  newParam(name+".w_self", inDim, outDim),
		WNeigh: newParam(name+".w_neigh", inDim, outDim),
		Bias:   newParam(name+".bias", 1, outDim),
	}
	glorotInit(l.WSelf.W, rng)
	glorotInit(l.WNeigh.W, rng)
	return l
}

// Params returns the layer's trainable parameters.
func (l *SAGEConv) Params() []*Param {
	return []*Param{l.WSelf, l.WNeigh, l.Bias}
}

// Forward computes the layer output for node features h (n×inDim) and the
// row-normalized adjacency p (n×n). The inputs are cached for Backward.
func (l *SAGEConv) Forward(p, h *mat.Dense) *mat.Dense {
	var agg mat.Dense
	agg.Mul(p, h)

	var self, nbr mat.Dense
	self.Mul(h, l.WSelf.W)
	nbr.Mul(&agg, l.WNeigh.W)

	var out mat.Dense
	out.Add(&self, &nbr)

	n, _ := out.Dims()
	bias := l.Bias.W.RawRowView(0)
	for i := 0; i < n; i++ {
		floats.Add(out.RawRowView(i), bias)
	}

	l.in = h
	l.agg = &agg
	return &out
}

// Backward accumulates parameter gradients for upstream gradient dOut and
// returns the gradient with respect to the layer input.
//
// dIn = dOut*WSelfᵀ + Pᵀ*(dOut*WNeighᵀ), using the cached forward inputs.
func (l *SAGEConv) Backward(p, dOut *mat.Dense) *mat.Dense {
	var gSelf, gNeigh mat.Dense
	gSelf.Mul(l.in.T(), dOut)
	gNeigh.Mul(l.agg.T(), dOut)
	l.WSelf.Grad.Add(l.WSelf.Grad, &gSelf)
	l.WNeigh.Grad.Add(l.WNeigh.Grad, &gNeigh)

	n, _ := dOut.Dims()
	gBias := l.Bias.Grad.RawRowView(0)
	for i := 0; i < n; i++ {
		floats.Add(gBias, dOut.RawRowView(i))
	}

	var dSelf, dNbr, dAgg mat.Dense
	dSelf.Mul(dOut, l.WSelf.W.T())
	dNbr.Mul(dOut, l.WNeigh.W.T())
	dAgg.Mul(p.T(), &dNbr)

	var dIn mat.Dense
	dIn.Add(&dSelf, &dAgg)
	return &dIn
}

// reluForward applies max(0, x) elementwise, returning the activation.
// The pre-activation is kept by the caller for the backward mask.
func reluForward(x *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		return math.Max(0, v)
	}, x)
	return &out
}

// reluBackward masks the upstream gradient with the pre-activation sign.
func reluBackward(pre, dOut *mat.Dense) *mat.Dense {
	rows, cols := dOut.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if pre.At(i, j) > 0 {
				out.Set(i, j, dOut.At(i, j))
			}
		}
	}
	return out
}
